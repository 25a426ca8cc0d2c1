package record

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	r := map[string]any{"name": "Ancestral Recall", "cmc": 1.0, "text": nil}

	got, err := String(r, "name")
	require.NoError(t, err)
	assert.Equal(t, "Ancestral Recall", got)

	_, err = String(r, "artist")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = String(r, "text")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = String(r, "cmc")
	assert.ErrorIs(t, err, ErrWrongType)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "cmc", fe.Key)
}

func TestOptionals(t *testing.T) {
	r := map[string]any{
		"flavor":       "It was a dark and stormy night.",
		"multiverseid": json.Number("94"),
		"variations":   []any{3.0, json.Number("4")},
		"colors":       []any{"Blue"},
		"hand":         1.5,
	}

	s, err := OptionalString(r, "flavor")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "It was a dark and stormy night.", *s)

	s, err = OptionalString(r, "watermark")
	require.NoError(t, err)
	assert.Nil(t, s)

	n, err := OptionalInt(r, "multiverseid")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 94, *n)

	_, err = OptionalInt(r, "hand")
	assert.ErrorIs(t, err, ErrWrongType)

	ints, err := OptionalInts(r, "variations")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, ints)

	strs, err := OptionalStrings(r, "colors")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue"}, strs)

	strs, err = OptionalStrings(r, "subtypes")
	require.NoError(t, err)
	assert.Nil(t, strs)
}

func TestInts_OutOfRange(t *testing.T) {
	r := map[string]any{
		"multiverseid": json.Number("1e20"),
		"life":         json.Number("-3000000000"),
		"variations":   []any{json.Number("5"), 9.3e18},
		"hand":         json.Number("2147483647"),
	}

	_, err := OptionalInt(r, "multiverseid")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = OptionalInt(r, "life")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = OptionalInts(r, "variations")
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "variations[1]", fe.Key)

	n, err := OptionalInt(r, "hand")
	require.NoError(t, err)
	assert.Equal(t, 2147483647, *n)
}

func TestStrings_ElementTypeReportsIndex(t *testing.T) {
	_, err := Strings(map[string]any{"types": []any{"Instant", 7.0}}, "types")

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "types[1]", fe.Key)
}

func TestBool(t *testing.T) {
	r := map[string]any{"reserved": true, "starter": "yes"}

	b, err := Bool(r, "reserved")
	require.NoError(t, err)
	assert.True(t, b)

	b, err = Bool(r, "timeshifted")
	require.NoError(t, err)
	assert.False(t, b)

	_, err = Bool(r, "starter")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestObjects(t *testing.T) {
	r := map[string]any{"cards": []any{map[string]any{"name": "Island"}}, "bad": []any{"x"}}

	objs, err := Objects(r, "cards")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "Island", objs[0]["name"])

	_, err = Objects(r, "bad")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = Objects(r, "missing")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestNormalize(t *testing.T) {
	built := map[string]any{
		"cmc":        3,
		"colors":     []string{"Red"},
		"variations": []int{1, 2},
		"cards":      []map[string]any{{"life": json.Number("-2")}},
	}
	decoded := map[string]any{
		"cmc":        3.0,
		"colors":     []any{"Red"},
		"variations": []any{1.0, 2.0},
		"cards":      []any{map[string]any{"life": -2.0}},
	}

	if diff := cmp.Diff(Normalize(decoded), Normalize(built)); diff != "" {
		t.Errorf("Normalize mismatch (-decoded +built):\n%s", diff)
	}
}
