package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionContext_NestedPutAndGet(t *testing.T) {
	ctx := NewExecutionContext("exec-1", "wf-1", nil)

	ctx.Put("user.address.zip", "12345")

	zip, ok := ctx.Get("user.address.zip")
	assert.True(t, ok)
	assert.Equal(t, "12345", zip)

	address, ok := ctx.Get("user.address")
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"zip": "12345"}, address)
}

func TestExecutionContext_MissingPaths(t *testing.T) {
	ctx := NewExecutionContext("exec-1", "wf-1", map[string]any{"answer": 42})

	_, ok := ctx.Get("question")
	assert.False(t, ok)

	// Descending through a non-map value fails rather than panicking.
	_, ok = ctx.Get("answer.deeper")
	assert.False(t, ok)

	assert.True(t, ctx.Has("answer"))
	assert.False(t, ctx.Has("answer.deeper"))
}

func TestExecutionContext_PutReplacesNonMapIntermediate(t *testing.T) {
	ctx := NewExecutionContext("exec-1", "wf-1", map[string]any{"user": "scalar"})

	ctx.Put("user.name", "ada")

	name, ok := ctx.Get("user.name")
	assert.True(t, ok)
	assert.Equal(t, "ada", name)
}

func TestExecutionContext_SeedIsCopiedAtTopLevel(t *testing.T) {
	seed := map[string]any{"a": 1}
	ctx := NewExecutionContext("exec-1", "wf-1", seed)

	ctx.Put("b", 2)

	_, seeded := seed["b"]
	assert.False(t, seeded)
	assert.True(t, ctx.Has("a"))
}
