// Package record reads typed fields out of generic JSON objects, the
// map[string]any shape encoding/json produces when decoding into an
// interface, and normalizes such objects for comparison.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrWrongType    = errors.New("wrong type")
)

// FieldError ties a decoding failure to the record key it came from.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missing(key string) error {
	return &FieldError{Key: key, Err: ErrMissingField}
}

func wrongType(key, want string, got any) error {
	return &FieldError{Key: key, Err: fmt.Errorf("%w: want %s, got %T", ErrWrongType, want, got)}
}

// String returns a required string field.
func String(r map[string]any, key string) (string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "string", v)
	}
	return s, nil
}

// OptionalString returns nil when the field is absent or null.
func OptionalString(r map[string]any, key string) (*string, error) {
	if v, ok := r[key]; !ok || v == nil {
		return nil, nil
	}
	s, err := String(r, key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Number returns a required numeric field.
func Number(r map[string]any, key string) (float64, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, missing(key)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, wrongType(key, "number", v)
	}
	return f, nil
}

// OptionalNumber returns nil when the field is absent or null.
func OptionalNumber(r map[string]any, key string) (*float64, error) {
	if v, ok := r[key]; !ok || v == nil {
		return nil, nil
	}
	f, err := Number(r, key)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// OptionalInt is OptionalNumber for fields that must hold whole numbers.
func OptionalInt(r map[string]any, key string) (*int, error) {
	f, err := OptionalNumber(r, key)
	if err != nil || f == nil {
		return nil, err
	}
	n, ok := toInt(*f)
	if !ok {
		return nil, wrongType(key, "integer", *f)
	}
	return &n, nil
}

// toInt accepts whole numbers within the 32-bit range every card field fits.
func toInt(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Bool returns false for an absent field.
func Bool(r map[string]any, key string) (bool, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(key, "bool", v)
	}
	return b, nil
}

// Strings returns a required array of strings.
func Strings(r map[string]any, key string) ([]string, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, missing(key)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, wrongType(key, "array", v)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, wrongType(fmt.Sprintf("%s[%d]", key, i), "string", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// OptionalStrings returns nil when the field is absent or null.
func OptionalStrings(r map[string]any, key string) ([]string, error) {
	if v, ok := r[key]; !ok || v == nil {
		return nil, nil
	}
	return Strings(r, key)
}

// OptionalInts returns nil when the field is absent or null.
func OptionalInts(r map[string]any, key string) ([]int, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, wrongType(key, "array", v)
	}
	out := make([]int, 0, len(items))
	for i, item := range items {
		f, ok := toFloat(item)
		if !ok {
			return nil, wrongType(fmt.Sprintf("%s[%d]", key, i), "integer", item)
		}
		n, ok := toInt(f)
		if !ok {
			return nil, wrongType(fmt.Sprintf("%s[%d]", key, i), "integer", item)
		}
		out = append(out, n)
	}
	return out, nil
}

// Objects returns a required array of objects.
func Objects(r map[string]any, key string) ([]map[string]any, error) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, missing(key)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, wrongType(key, "array", v)
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, wrongType(fmt.Sprintf("%s[%d]", key, i), "object", item)
		}
		out = append(out, obj)
	}
	return out, nil
}

// Normalize returns a deep copy of v in which every number is a float64 and
// every typed slice is a []any, so records built in Go compare equal to
// records decoded from JSON.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out
	case []int:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = float64(item)
		}
		return out
	default:
		if f, ok := toFloat(v); ok {
			return f
		}
		return v
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
