package confmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlatten_DepthOneIsShallowCopy(t *testing.T) {
	doc := Document{
		"database": map[string]any{"host": "localhost", "port": 5432},
		"app":      map[string]any{"name": "myapp"},
	}

	got := Flatten(doc, 1)
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("Flatten(doc, 1) mismatch (-want +got):\n%s", diff)
	}

	// Copy, not alias: adding to the result must not touch the input.
	got["extra"] = true
	if _, ok := doc["extra"]; ok {
		t.Error("Flatten(doc, 1) aliased the input map")
	}
}

func TestFlatten_DepthTwo(t *testing.T) {
	doc := Document{
		"database": map[string]any{"host": "localhost", "port": 5432},
		"app":      map[string]any{"name": "myapp"},
	}
	want := FlatMap{
		"database.host": "localhost",
		"database.port": 5432,
		"app.name":      "myapp",
	}

	got := Flatten(doc, 2)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten(doc, 2) mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_DepthTwoStopsDescent(t *testing.T) {
	doc := Document{
		"a": map[string]any{
			"b": map[string]any{"c": 1, "d": 2},
		},
	}
	want := FlatMap{
		"a.b": map[string]any{"c": 1, "d": 2},
	}

	got := Flatten(doc, 2)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("depth limit did not stop descent (-want +got):\n%s", diff)
	}
}

func TestFlatten_DepthZeroUnlimited(t *testing.T) {
	doc := Document{
		"level1": map[string]any{
			"level2": map[string]any{"level3": "value"},
		},
	}
	want := FlatMap{"level1.level2.level3": "value"}

	got := Flatten(doc, 0)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten(doc, 0) mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_LeavesAreNotRecursed(t *testing.T) {
	doc := Document{
		"list":  []any{1, 2, map[string]any{"k": "v"}},
		"empty": map[string]any{},
		"null":  nil,
	}

	got := Flatten(doc, 0)
	want := FlatMap{
		"list":  []any{1, 2, map[string]any{"k": "v"}},
		"empty": map[string]any{},
		"null":  nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lists and empty mappings must flatten as leaves (-want +got):\n%s", diff)
	}
}

func TestUnflatten_Simple(t *testing.T) {
	flat := FlatMap{
		"database.host": "localhost",
		"database.port": 5432,
		"app.name":      "myapp",
	}
	want := Document{
		"database": map[string]any{"host": "localhost", "port": 5432},
		"app":      map[string]any{"name": "myapp"},
	}

	got := Unflatten(flat)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unflatten mismatch (-want +got):\n%s", diff)
	}
}

func TestUnflatten_RoundTrip(t *testing.T) {
	docs := []Document{
		{"a": 1, "b": "two", "c": true},
		{
			"database": map[string]any{"host": "localhost", "port": 5432},
			"app":      map[string]any{"name": "myapp", "tags": []any{"x", "y"}},
		},
		{
			"deep": map[string]any{
				"deeper": map[string]any{
					"deepest": map[string]any{"leaf": nil},
				},
			},
		},
	}

	for _, doc := range docs {
		got := Unflatten(Flatten(doc, 0))
		if diff := cmp.Diff(doc, got); diff != "" {
			t.Errorf("Unflatten(Flatten(doc, 0)) != doc (-want +got):\n%s", diff)
		}
	}
}

// Leaf/container conflicts are unspecified behavior; this pins the current
// deterministic outcome (sorted key order, last write wins) without
// promising it.
func TestUnflatten_ConflictResolution(t *testing.T) {
	flat := FlatMap{
		"a":   1,
		"a.b": 2,
	}
	want := Document{
		"a": map[string]any{"b": 2},
	}

	got := Unflatten(flat)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("conflict resolution changed (-want +got):\n%s", diff)
	}
}
