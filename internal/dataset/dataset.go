package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Dataset is a set of raw card-set records loaded from an AllSets-style JSON file
type Dataset struct {
	Path string

	// Set records sorted by code
	Sets []map[string]any
}

// Load reads a dataset file from disk
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening dataset: %w", err)
	}
	defer f.Close()

	sets, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	return &Dataset{Path: path, Sets: sets}, nil
}

// Decode reads set records from JSON. The document is either an object keyed
// by set code or an array of set objects. Numbers are kept as json.Number.
func Decode(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}

	var sets []map[string]any
	switch t := doc.(type) {
	case map[string]any:
		for key, v := range t {
			set, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("set %q: want object, got %T", key, v)
			}
			if _, ok := set["code"]; !ok {
				set["code"] = key
			}
			sets = append(sets, set)
		}
	case []any:
		for i, v := range t {
			set, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("set %d: want object, got %T", i, v)
			}
			sets = append(sets, set)
		}
	default:
		return nil, fmt.Errorf("want object or array of sets, got %T", doc)
	}

	sort.SliceStable(sets, func(i, j int) bool {
		return Code(sets[i]) < Code(sets[j])
	})

	return sets, nil
}

// Code returns the set code of a raw record, or "" if it has none.
func Code(set map[string]any) string {
	code, _ := set["code"].(string)
	return code
}

// Find returns the raw record for a set code.
func (d *Dataset) Find(code string) (map[string]any, error) {
	i := sort.Search(len(d.Sets), func(i int) bool { return Code(d.Sets[i]) >= code })
	if i < len(d.Sets) && Code(d.Sets[i]) == code {
		return d.Sets[i], nil
	}
	return nil, fmt.Errorf("set not found: %s", code)
}
