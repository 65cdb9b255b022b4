package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSchema(t *testing.T) *PortSchema {
	t.Helper()

	address, err := NewObject(map[string]*PortSchema{
		"zip": MustPrimitive(TypeString, true),
	}, false)
	require.NoError(t, err)

	user, err := NewObject(map[string]*PortSchema{
		"name":    MustPrimitive(TypeString, true),
		"address": address,
	}, false)
	require.NoError(t, err)

	return user
}

func TestByPath_RoundTrip(t *testing.T) {
	user := userSchema(t)

	zip, err := user.ByPath("address.zip")
	require.NoError(t, err)
	assert.Same(t, user.Properties["address"].Properties["zip"], zip)

	address, err := user.ByPath("address")
	require.NoError(t, err)
	assert.Same(t, user.Properties["address"], address)
}

func TestByPath_EmptyPathReturnsSelf(t *testing.T) {
	user := userSchema(t)

	self, err := user.ByPath("")
	require.NoError(t, err)
	assert.Same(t, user, self)
}

func TestByPath_MissingProperty(t *testing.T) {
	_, err := userSchema(t).ByPath("address.country")
	assert.ErrorContains(t, err, `no property "country"`)
}

func TestByPath_ThroughPrimitive(t *testing.T) {
	_, err := userSchema(t).ByPath("name.first")
	assert.ErrorContains(t, err, "not object")
}

func TestByPath_ThroughOpenObject(t *testing.T) {
	open, err := NewObject(map[string]*PortSchema{}, false)
	require.NoError(t, err)

	_, err = open.ByPath("anything")
	assert.ErrorContains(t, err, "declares no properties")
}
