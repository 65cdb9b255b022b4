package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidValue_RequiredVsEmpty(t *testing.T) {
	optional := MustPrimitive(TypeString, false)
	required := MustPrimitive(TypeString, true)

	assert.True(t, ValidValue(nil, optional))
	assert.True(t, ValidValue("", optional))
	assert.False(t, ValidValue(nil, required))
	assert.False(t, ValidValue("", required))
	assert.True(t, ValidValue("hello", required))
}

func TestValidValue_Primitives(t *testing.T) {
	assert.True(t, ValidValue(int64(42), MustPrimitive(TypeInt, true)))
	assert.True(t, ValidValue(float64(42), MustPrimitive(TypeInt, true))) // json decodes ints as float64
	assert.False(t, ValidValue(42.5, MustPrimitive(TypeInt, true)))
	assert.True(t, ValidValue(42.5, MustPrimitive(TypeFloat, true)))
	assert.True(t, ValidValue(42, MustPrimitive(TypeFloat, true)))
	assert.True(t, ValidValue(true, MustPrimitive(TypeBoolean, true)))
	assert.False(t, ValidValue("true", MustPrimitive(TypeBoolean, true)))
	assert.True(t, ValidValue(time.Now(), MustPrimitive(TypeDate, true)))
	assert.True(t, ValidValue("2024-05-01T10:00:00Z", MustPrimitive(TypeDate, true)))
	assert.False(t, ValidValue("yesterday", MustPrimitive(TypeDate, true)))
}

func TestValidValue_Array(t *testing.T) {
	ints, err := NewArray(MustPrimitive(TypeInt, true), true)
	require.NoError(t, err)

	assert.True(t, ValidValue([]any{float64(1), float64(2)}, ints))
	assert.False(t, ValidValue([]any{float64(1), "two"}, ints))
	assert.False(t, ValidValue("not-a-list", ints))
}

func TestValidValue_ObjectTolerantReading(t *testing.T) {
	address, err := NewObject(map[string]*PortSchema{
		"street": MustPrimitive(TypeString, true),
		"zip":    MustPrimitive(TypeString, false),
	}, true)
	require.NoError(t, err)

	// Undeclared properties are tolerated.
	assert.True(t, ValidValue(map[string]any{
		"street":  "main st",
		"country": "somewhere",
	}, address))

	// A required declared property missing from the value fails.
	assert.False(t, ValidValue(map[string]any{"zip": "12345"}, address))

	// A present declared property of the wrong type fails.
	assert.False(t, ValidValue(map[string]any{"street": 7}, address))
}

func TestCoerce_Scalars(t *testing.T) {
	assert.Equal(t, "42", Coerce(42, MustPrimitive(TypeString, false)))
	assert.Equal(t, int64(42), Coerce("42", MustPrimitive(TypeInt, false)))
	assert.Nil(t, Coerce("forty-two", MustPrimitive(TypeInt, false)))
	assert.Equal(t, 1.5, Coerce("1.5", MustPrimitive(TypeFloat, false)))
	assert.Nil(t, Coerce("x", MustPrimitive(TypeFloat, false)))

	boolean := MustPrimitive(TypeBoolean, false)
	assert.Equal(t, true, Coerce("yes", boolean))
	assert.Equal(t, true, Coerce("1", boolean))
	assert.Equal(t, true, Coerce("TRUE", boolean))
	assert.Equal(t, false, Coerce("nope", boolean))
}

func TestCoerce_ObjectDropsUndeclaredAndFillsAbsent(t *testing.T) {
	address, err := NewObject(map[string]*PortSchema{
		"street": MustPrimitive(TypeString, true),
		"zip":    MustPrimitive(TypeString, false),
	}, false)
	require.NoError(t, err)

	got := Coerce(map[string]any{
		"street":  "main st",
		"country": "dropped",
	}, address)

	assert.Equal(t, map[string]any{
		"street": "main st",
		"zip":    nil,
	}, got)
}

func TestCoerce_IdempotentOnConformingValues(t *testing.T) {
	item, err := NewObject(map[string]*PortSchema{
		"score": MustPrimitive(TypeFloat, true),
		"label": MustPrimitive(TypeString, false),
	}, false)
	require.NoError(t, err)

	list, err := NewArray(item, false)
	require.NoError(t, err)

	value := []any{
		map[string]any{"score": 0.7, "label": "a"},
		map[string]any{"score": 0.2, "label": nil},
	}

	once := Coerce(value, list)
	twice := Coerce(once, list)
	assert.Equal(t, once, twice)
}
