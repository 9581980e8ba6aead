// Package jsonpath resolves and assigns dotted paths against decoded JSON
// values (the shapes encoding/json produces: map[string]any, []any and
// scalars). A path is one or more segments separated by ".": a plain key, a
// "key[index]" pair, or a digits-only segment which always addresses an
// array index regardless of the container's actual shape.
package jsonpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TraversalError reports an assignment that reached a missing or
// incompatible container. Assign never materializes missing structure; doing
// so would corrupt the shape of the loaded document.
type TraversalError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("jsonpath: cannot traverse %q at segment %q: %s", e.Path, e.Segment, e.Reason)
}

var indexedSegment = regexp.MustCompile(`^(.+)\[(\d+)\]$`)

// Resolve walks path against root and returns the addressed value. The
// second result is false when any segment misses: a missing key, an index
// out of range, or an intermediate value of the wrong shape all
// short-circuit to "undefined" rather than failing.
func Resolve(root any, path string) (any, bool) {
	cur := root
	for _, seg := range strings.Split(path, ".") {
		var ok bool
		if key, idx, indexed := splitSegment(seg); indexed {
			if cur, ok = stepKey(cur, key); !ok {
				return nil, false
			}
			if cur, ok = stepIndex(cur, idx); !ok {
				return nil, false
			}
		} else if idx, numeric := numericSegment(seg); numeric {
			if cur, ok = stepIndex(cur, idx); !ok {
				return nil, false
			}
		} else {
			if cur, ok = stepKey(cur, seg); !ok {
				return nil, false
			}
		}
	}
	return cur, true
}

// Assign writes value at path within root. Every container along the way
// must already exist; a missing intermediate yields a *TraversalError. A
// numeric (or bracketed) final segment writes by array index, anything else
// writes by map key, which may add a key to an existing map.
func Assign(root any, path string, value any) error {
	segs := strings.Split(path, ".")
	cur := root
	for _, seg := range segs[:len(segs)-1] {
		next, err := stepStrict(cur, seg, path)
		if err != nil {
			return err
		}
		cur = next
	}

	last := segs[len(segs)-1]
	if key, idx, indexed := splitSegment(last); indexed {
		inner, ok := stepKey(cur, key)
		if !ok {
			return &TraversalError{Path: path, Segment: last, Reason: "no container under key " + strconv.Quote(key)}
		}
		return setIndex(inner, idx, value, path, last)
	}
	if idx, numeric := numericSegment(last); numeric {
		return setIndex(cur, idx, value, path, last)
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return &TraversalError{Path: path, Segment: last, Reason: "target container is not an object"}
	}
	m[last] = value
	return nil
}

// Indexed composes the path of element i of the array at path, the form the
// renderer tags repeated items with.
func Indexed(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// splitSegment recognizes the "key[index]" form. Segments that do not match
// it exactly are treated as plain keys.
func splitSegment(seg string) (key string, idx int, ok bool) {
	m := indexedSegment.FindStringSubmatch(seg)
	if m == nil {
		return "", 0, false
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], idx, true
}

// numericSegment reports whether seg is digits-only. Such segments always
// act as array indices, even when the container is a map holding the same
// spelling as a string key.
func numericSegment(seg string) (int, bool) {
	if seg == "" {
		return 0, false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}
	return idx, true
}

func stepKey(cur any, key string) (any, bool) {
	m, ok := cur.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

func stepIndex(cur any, idx int) (any, bool) {
	a, ok := cur.([]any)
	if !ok || idx < 0 || idx >= len(a) {
		return nil, false
	}
	return a[idx], true
}

// stepStrict is the Assign-side traversal: a miss is a TraversalError
// instead of an undefined result.
func stepStrict(cur any, seg, path string) (any, error) {
	if key, idx, indexed := splitSegment(seg); indexed {
		inner, ok := stepKey(cur, key)
		if !ok {
			return nil, &TraversalError{Path: path, Segment: seg, Reason: "missing key " + strconv.Quote(key)}
		}
		v, ok := stepIndex(inner, idx)
		if !ok {
			return nil, &TraversalError{Path: path, Segment: seg, Reason: fmt.Sprintf("index %d not addressable", idx)}
		}
		return v, nil
	}
	if idx, numeric := numericSegment(seg); numeric {
		v, ok := stepIndex(cur, idx)
		if !ok {
			return nil, &TraversalError{Path: path, Segment: seg, Reason: fmt.Sprintf("index %d not addressable", idx)}
		}
		return v, nil
	}
	v, ok := stepKey(cur, seg)
	if !ok {
		return nil, &TraversalError{Path: path, Segment: seg, Reason: "missing key " + strconv.Quote(seg)}
	}
	return v, nil
}

func setIndex(container any, idx int, value any, path, seg string) error {
	a, ok := container.([]any)
	if !ok {
		return &TraversalError{Path: path, Segment: seg, Reason: "target container is not an array"}
	}
	if idx < 0 || idx >= len(a) {
		return &TraversalError{Path: path, Segment: seg, Reason: fmt.Sprintf("index %d out of range (len %d)", idx, len(a))}
	}
	a[idx] = value
	return nil
}
