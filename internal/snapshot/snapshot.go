// Package snapshot holds the pristine and working copies of a loaded JSON
// document. The pristine copy is immutable after load; the working copy
// starts as a structural deep clone and is mutated only through the store's
// entry points, so the two are never aliased.
package snapshot

import (
	"github.com/pagebind/pagebind/internal/jsonpath"
)

// Snapshot is a JSON value plus the identity of the content file it came
// from.
type Snapshot struct {
	SourceID string `json:"sourceId"`
	Data     any    `json:"data"`
}

// Store pairs the pristine snapshot with its mutable working copy.
type Store struct {
	original Snapshot
	working  Snapshot
}

// NewStore deep-clones data into both the pristine and working snapshots.
func NewStore(sourceID string, data any) *Store {
	return &Store{
		original: Snapshot{SourceID: sourceID, Data: Clone(data)},
		working:  Snapshot{SourceID: sourceID, Data: Clone(data)},
	}
}

// SourceID returns the provenance identifier of the loaded document.
func (s *Store) SourceID() string {
	return s.original.SourceID
}

// OriginalData returns the pristine value. Callers must treat it as
// read-only.
func (s *Store) OriginalData() any {
	return s.original.Data
}

// WorkingData returns the live working value.
func (s *Store) WorkingData() any {
	return s.working.Data
}

// Working returns a deep clone of the working snapshot, safe to hand to
// callers without aliasing the store's state.
func (s *Store) Working() Snapshot {
	return Snapshot{SourceID: s.working.SourceID, Data: Clone(s.working.Data)}
}

// Resolve reads a path from the working value.
func (s *Store) Resolve(path string) (any, bool) {
	return jsonpath.Resolve(s.working.Data, path)
}

// Assign writes a value into the working copy. The pristine snapshot is
// never touched.
func (s *Store) Assign(path string, value any) error {
	return jsonpath.Assign(s.working.Data, path, value)
}

// Reset discards all edits by re-cloning the working copy from the pristine
// snapshot.
func (s *Store) Reset() {
	s.working.Data = Clone(s.original.Data)
}

// Clone returns a structural deep copy of a decoded JSON value. Scalars are
// immutable and shared; maps and slices are copied recursively.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	default:
		return val
	}
}
