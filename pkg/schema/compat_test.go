package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addressSchema(t *testing.T) *PortSchema {
	t.Helper()

	s, err := NewObject(map[string]*PortSchema{
		"street": MustPrimitive(TypeString, true),
		"zip":    MustPrimitive(TypeString, false),
	}, false)
	require.NoError(t, err)

	return s
}

func TestCompatible_Reflexive(t *testing.T) {
	nested, err := NewObject(map[string]*PortSchema{
		"address": addressSchema(t),
		"age":     MustPrimitive(TypeInt, false),
	}, false)
	require.NoError(t, err)

	list, err := NewArray(nested, false)
	require.NoError(t, err)

	for _, s := range []*PortSchema{
		MustPrimitive(TypeString, false),
		MustPrimitive(TypeDate, true),
		nested,
		list,
	} {
		assert.True(t, Compatible(s, s))
	}
}

func TestCompatible_NumericWideningBothDirections(t *testing.T) {
	intSchema := MustPrimitive(TypeInt, false)
	floatSchema := MustPrimitive(TypeFloat, false)

	assert.True(t, Compatible(intSchema, floatSchema))
	assert.True(t, Compatible(floatSchema, intSchema))

	// No other cross-type pair is compatible.
	assert.False(t, Compatible(intSchema, MustPrimitive(TypeString, false)))
	assert.False(t, Compatible(MustPrimitive(TypeString, false), floatSchema))
	assert.False(t, Compatible(MustPrimitive(TypeBoolean, false), intSchema))
	assert.False(t, Compatible(MustPrimitive(TypeDate, false), MustPrimitive(TypeString, false)))
}

func TestCompatible_Arrays(t *testing.T) {
	ints, err := NewArray(MustPrimitive(TypeInt, false), false)
	require.NoError(t, err)

	floats, err := NewArray(MustPrimitive(TypeFloat, false), false)
	require.NoError(t, err)

	strs, err := NewArray(MustPrimitive(TypeString, false), false)
	require.NoError(t, err)

	assert.True(t, Compatible(ints, floats))
	assert.False(t, Compatible(ints, strs))
	assert.False(t, Compatible(ints, MustPrimitive(TypeInt, false)))
	assert.False(t, Compatible(MustPrimitive(TypeInt, false), ints))
}

func TestCompatible_ObjectWidthSubtyping(t *testing.T) {
	address := addressSchema(t)

	wider, err := NewObject(map[string]*PortSchema{
		"street":  MustPrimitive(TypeString, true),
		"zip":     MustPrimitive(TypeString, false),
		"country": MustPrimitive(TypeString, false),
	}, false)
	require.NoError(t, err)

	narrower, err := NewObject(map[string]*PortSchema{
		"street": MustPrimitive(TypeString, true),
	}, false)
	require.NoError(t, err)

	// Extra source properties are ignored; missing ones are not.
	assert.True(t, Compatible(wider, address))
	assert.False(t, Compatible(narrower, address))

	// Mismatched property type breaks compatibility.
	mismatched, err := NewObject(map[string]*PortSchema{
		"street": MustPrimitive(TypeInt, true),
		"zip":    MustPrimitive(TypeString, false),
	}, false)
	require.NoError(t, err)
	assert.False(t, Compatible(mismatched, address))
}

func TestCompatible_OpenObjects(t *testing.T) {
	open, err := NewObject(map[string]*PortSchema{}, false)
	require.NoError(t, err)

	address := addressSchema(t)

	// Any object flows into an open target.
	assert.True(t, Compatible(address, open))
	assert.True(t, Compatible(open, open))

	// An open source never satisfies a property-declaring target.
	assert.False(t, Compatible(open, address))
}

func TestCompatible_NilArguments(t *testing.T) {
	s := MustPrimitive(TypeString, false)

	assert.False(t, Compatible(nil, s))
	assert.False(t, Compatible(s, nil))
	assert.False(t, Compatible(nil, nil))
}
