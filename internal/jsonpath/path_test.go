package jsonpath

import (
	"errors"
	"reflect"
	"testing"
)

func doc() map[string]any {
	return map[string]any{
		"title": "Front Page",
		"hero": map[string]any{
			"image":   "hero.png",
			"caption": "Morning",
		},
		"articles": []any{
			map[string]any{"headline": "First", "body": []any{"p1", "p2"}},
			map[string]any{"headline": "Second"},
		},
		"counts": []any{float64(1), float64(2), float64(3)},
	}
}

func TestResolve(t *testing.T) {
	root := doc()

	tests := []struct {
		name string
		path string
		want any
		ok   bool
	}{
		{name: "top level key", path: "title", want: "Front Page", ok: true},
		{name: "nested key", path: "hero.image", want: "hero.png", ok: true},
		{name: "bracket index", path: "articles[1].headline", want: "Second", ok: true},
		{name: "numeric segment", path: "articles.0.headline", want: "First", ok: true},
		{name: "nested array", path: "articles[0].body[1]", want: "p2", ok: true},
		{name: "whole array", path: "counts", want: []any{float64(1), float64(2), float64(3)}, ok: true},
		{name: "missing key", path: "missing", want: nil, ok: false},
		{name: "missing intermediate", path: "missing.deeper.still", want: nil, ok: false},
		{name: "index out of range", path: "counts[9]", want: nil, ok: false},
		{name: "index into object", path: "hero[0]", want: nil, ok: false},
		{name: "key into array", path: "counts.first", want: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(root, tt.path)
			if ok != tt.ok {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// A digits-only segment must address an array index even when the container
// is a map carrying the same digits as a string key.
func TestResolveNumericPrecedence(t *testing.T) {
	root := map[string]any{
		"data": map[string]any{"0": "key-form"},
	}
	if v, ok := Resolve(root, "data.0"); ok {
		t.Fatalf("Resolve(data.0) = %v, want undefined (array precedence over string key)", v)
	}

	arrRoot := map[string]any{"data": []any{"index-form"}}
	v, ok := Resolve(arrRoot, "data.0")
	if !ok || v != "index-form" {
		t.Fatalf("Resolve(data.0) = %v, %v; want index-form", v, ok)
	}
}

func TestAssign(t *testing.T) {
	t.Run("map key", func(t *testing.T) {
		root := doc()
		if err := Assign(root, "hero.caption", "Evening"); err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if v, _ := Resolve(root, "hero.caption"); v != "Evening" {
			t.Errorf("got %v, want Evening", v)
		}
	})

	t.Run("new key on existing map", func(t *testing.T) {
		root := doc()
		if err := Assign(root, "hero.alt", "sunrise"); err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if v, _ := Resolve(root, "hero.alt"); v != "sunrise" {
			t.Errorf("got %v, want sunrise", v)
		}
	})

	t.Run("bracket index", func(t *testing.T) {
		root := doc()
		if err := Assign(root, "articles[1].headline", "Updated"); err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if v, _ := Resolve(root, "articles[1].headline"); v != "Updated" {
			t.Errorf("got %v, want Updated", v)
		}
	})

	t.Run("numeric last segment", func(t *testing.T) {
		root := doc()
		if err := Assign(root, "counts.1", float64(20)); err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if v, _ := Resolve(root, "counts[1]"); v != float64(20) {
			t.Errorf("got %v, want 20", v)
		}
	})

	t.Run("whole array replacement", func(t *testing.T) {
		root := doc()
		if err := Assign(root, "counts", []any{float64(9)}); err != nil {
			t.Fatalf("Assign: %v", err)
		}
		want := []any{float64(9)}
		if v, _ := Resolve(root, "counts"); !reflect.DeepEqual(v, want) {
			t.Errorf("got %v, want %v", v, want)
		}
	})
}

func TestAssignTraversalErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "missing intermediate", path: "missing.child"},
		{name: "intermediate index out of range", path: "articles[5].headline"},
		{name: "last index out of range", path: "counts[3]"},
		{name: "scalar as container", path: "title.sub"},
		{name: "numeric write into object", path: "hero.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := doc()
			err := Assign(root, tt.path, "x")
			if err == nil {
				t.Fatalf("Assign(%q) succeeded, want TraversalError", tt.path)
			}
			var te *TraversalError
			if !errors.As(err, &te) {
				t.Errorf("Assign(%q) error = %v, want *TraversalError", tt.path, err)
			}
		})
	}
}

// Assigning a resolved value back to its own path must leave the value
// readable unchanged.
func TestAssignResolveRoundTrip(t *testing.T) {
	root := doc()
	paths := []string{
		"title",
		"hero.image",
		"articles[0].headline",
		"articles[0].body[1]",
		"counts[2]",
		"articles",
	}
	for _, p := range paths {
		v, ok := Resolve(root, p)
		if !ok {
			t.Fatalf("Resolve(%q) undefined", p)
		}
		if err := Assign(root, p, v); err != nil {
			t.Fatalf("Assign(%q): %v", p, err)
		}
		got, ok := Resolve(root, p)
		if !ok || !reflect.DeepEqual(got, v) {
			t.Errorf("round trip %q: got %v, want %v", p, got, v)
		}
	}
}

func TestIndexed(t *testing.T) {
	if got := Indexed("articles", 2); got != "articles[2]" {
		t.Errorf("Indexed = %q, want articles[2]", got)
	}
}
