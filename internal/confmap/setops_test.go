package confmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func simpleDocs() (Document, Document) {
	a := Document{"database": "postgres", "port": 5432, "debug": true}
	b := Document{"database": "postgres", "port": 3306, "logging": "verbose"}
	return a, b
}

func nestedDocs() (Document, Document) {
	a := Document{
		"database": map[string]any{"host": "localhost", "port": 5432},
		"app":      map[string]any{"name": "myapp"},
	}
	b := Document{
		"database": map[string]any{"host": "localhost", "port": 3306},
		"app":      map[string]any{"name": "myapp"},
	}
	return a, b
}

func TestPerform_Union(t *testing.T) {
	a, b := simpleDocs()

	t.Run("kv mode prefers left values", func(t *testing.T) {
		got := Perform(a, b, OpUnion, CompareKeyValue, 1)
		assert.Equal(t, "postgres", got["database"])
		assert.Equal(t, 5432, got["port"])
		assert.Equal(t, true, got["debug"])
		assert.Equal(t, "verbose", got["logging"])
	})

	t.Run("keys mode", func(t *testing.T) {
		got := Perform(a, b, OpUnion, CompareKeys, 1)
		assert.Len(t, got, 4)
		assert.Equal(t, 5432, got["port"])
	})

	t.Run("commutative as key sets", func(t *testing.T) {
		ab := Perform(a, b, OpUnion, CompareKeyValue, 1)
		ba := Perform(b, a, OpUnion, CompareKeyValue, 1)
		assert.ElementsMatch(t, docKeys(ab), docKeys(ba))
	})

	t.Run("empty document is the identity element", func(t *testing.T) {
		got := Perform(Document{}, a, OpUnion, CompareKeyValue, 1)
		if diff := cmp.Diff(a, got); diff != "" {
			t.Errorf("union with empty changed the document (-want +got):\n%s", diff)
		}
	})
}

func TestPerform_Intersect(t *testing.T) {
	a, b := simpleDocs()

	t.Run("kv mode keeps pairs equal on both sides", func(t *testing.T) {
		got := Perform(a, b, OpIntersect, CompareKeyValue, 1)
		assert.Equal(t, Document{"database": "postgres"}, got)
	})

	t.Run("keys mode keeps shared keys with left values", func(t *testing.T) {
		got := Perform(a, b, OpIntersect, CompareKeys, 1)
		assert.Equal(t, Document{"database": "postgres", "port": 5432}, got)
	})

	t.Run("commutative in keys", func(t *testing.T) {
		ab := Perform(a, b, OpIntersect, CompareKeys, 1)
		ba := Perform(b, a, OpIntersect, CompareKeys, 1)
		assert.ElementsMatch(t, docKeys(ab), docKeys(ba))
	})

	t.Run("kv mode commutative in values too", func(t *testing.T) {
		ab := Perform(a, b, OpIntersect, CompareKeyValue, 1)
		ba := Perform(b, a, OpIntersect, CompareKeyValue, 1)
		assert.Equal(t, ab, ba)
	})
}

func TestPerform_Diff(t *testing.T) {
	a, b := simpleDocs()

	t.Run("kv mode", func(t *testing.T) {
		got := Perform(a, b, OpDiff, CompareKeyValue, 1)
		assert.Equal(t, Document{"port": 5432, "debug": true}, got)
	})

	t.Run("keys mode", func(t *testing.T) {
		got := Perform(a, b, OpDiff, CompareKeys, 1)
		assert.Equal(t, Document{"debug": true}, got)
	})

	t.Run("document diffed against itself is empty", func(t *testing.T) {
		for _, mode := range []CompareMode{CompareKeys, CompareKeyValue} {
			for _, depth := range []int{0, 1, 2} {
				got := Perform(a, a, OpDiff, mode, depth)
				assert.Empty(t, got, "mode=%s depth=%d", mode, depth)
			}
		}
	})

	t.Run("keys-mode diff equals symdiff restricted to left keys", func(t *testing.T) {
		diff := Perform(a, b, OpDiff, CompareKeys, 1)
		sym := Perform(a, b, OpSymDiff, CompareKeys, 1)
		var symInA []string
		for k := range sym {
			if _, ok := a[k]; ok {
				symInA = append(symInA, k)
			}
		}
		assert.ElementsMatch(t, docKeys(diff), symInA)
	})
}

func TestPerform_RDiff(t *testing.T) {
	a, b := simpleDocs()

	t.Run("kv mode resolves values from the right document", func(t *testing.T) {
		got := Perform(a, b, OpRDiff, CompareKeyValue, 1)
		assert.Equal(t, Document{"port": 3306, "logging": "verbose"}, got)
	})

	t.Run("keys mode", func(t *testing.T) {
		got := Perform(a, b, OpRDiff, CompareKeys, 1)
		assert.Equal(t, Document{"logging": "verbose"}, got)
	})
}

func TestPerform_SymDiff(t *testing.T) {
	a, b := simpleDocs()

	t.Run("kv mode collapses shared keys with left precedence", func(t *testing.T) {
		got := Perform(a, b, OpSymDiff, CompareKeyValue, 1)
		assert.Equal(t, true, got["debug"])
		assert.Equal(t, "verbose", got["logging"])
		// port differs on both sides, so it survives from each; the result
		// mapping keeps the left value.
		assert.Equal(t, 5432, got["port"])
		assert.NotContains(t, got, "database")
	})

	t.Run("keys mode keeps keys present on exactly one side", func(t *testing.T) {
		got := Perform(a, b, OpSymDiff, CompareKeys, 1)
		assert.Equal(t, Document{"debug": true, "logging": "verbose"}, got)
	})
}

func TestPerform_Depth(t *testing.T) {
	n1, n2 := nestedDocs()

	t.Run("depth 2 keys-mode intersect returns nested result", func(t *testing.T) {
		got := Perform(n1, n2, OpIntersect, CompareKeyValue, 2)
		want := Document{
			"database": map[string]any{"host": "localhost"},
			"app":      map[string]any{"name": "myapp"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("nested intersect mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("depth 1 compares whole subtrees", func(t *testing.T) {
		got := Perform(n1, n2, OpIntersect, CompareKeys, 1)
		assert.Contains(t, got, "database")
		assert.Contains(t, got, "app")
		db := got["database"].(map[string]any)
		assert.Equal(t, 5432, db["port"]) // left value wins
	})

	t.Run("depth 0 result stays flat", func(t *testing.T) {
		got := Perform(n1, n2, OpIntersect, CompareKeyValue, 0)
		assert.Equal(t, Document{"database.host": "localhost", "app.name": "myapp"}, got)
	})
}

func TestPerform_Unsupported(t *testing.T) {
	a, b := simpleDocs()

	assert.Empty(t, Perform(a, b, Operation("merge"), CompareKeyValue, 1))
	assert.Empty(t, Perform(a, b, OpUnion, CompareMode("values"), 1))
}

func docKeys(d Document) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}
