// Package diff reconstructs a changelist from two JSON snapshots. The
// comparison is asymmetric on purpose: it walks the keys of the working
// value only, so keys that exist solely in the original are never reported.
// That mirrors the editing model, where the working copy starts as a clone
// of the original and edits only add or change values.
package diff

import (
	"reflect"
	"sort"
)

// Kind classifies a change record.
type Kind string

const (
	// KindValue is a scalar (or null) replacement at a path.
	KindValue Kind = "value"
	// KindArray is a whole-array replacement; arrays are compared by full
	// structural equality, never element by element.
	KindArray Kind = "array"
)

// ChangeRecord is one detected difference between the original and working
// snapshots. OldValue is nil when the path did not exist in the original.
type ChangeRecord struct {
	Path     string `json:"path"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
	Kind     Kind   `json:"kind"`
}

// Diff compares working against original depth-first and returns the
// ordered changelist. Records are emitted in lexicographic key order at each
// level (Go maps carry no insertion order, so sorted keys are the
// deterministic choice); the order is stable across runs for the same pair
// of values.
func Diff(original, working any) []ChangeRecord {
	records := []ChangeRecord{}
	walk("", original, working, &records)
	return records
}

func walk(path string, original, working any, records *[]ChangeRecord) {
	switch w := working.(type) {
	case []any:
		if !reflect.DeepEqual(original, working) {
			*records = append(*records, ChangeRecord{
				Path:     path,
				OldValue: original,
				NewValue: w,
				Kind:     KindArray,
			})
		}
	case map[string]any:
		// No record for the mapping node itself; only its leaves report.
		origMap, _ := original.(map[string]any)
		keys := make([]string, 0, len(w))
		for k := range w {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(childPath(path, k), origMap[k], w[k], records)
		}
	default:
		if !reflect.DeepEqual(original, working) {
			*records = append(*records, ChangeRecord{
				Path:     path,
				OldValue: original,
				NewValue: working,
				Kind:     KindValue,
			})
		}
	}
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
