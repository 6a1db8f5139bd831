package confmap

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_Valid(t *testing.T) {
	path := writeFile(t, "config.yml", "database: postgres\nport: 5432\ndebug: true\n")

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", doc["database"])
	assert.Equal(t, 5432, doc["port"])
	assert.Equal(t, true, doc["debug"])
}

func TestLoadFile_Empty(t *testing.T) {
	path := writeFile(t, "empty.yml", "")

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Error(), "missing.yml")
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeFile(t, "invalid.yml", "invalid: yaml: content:\n  bad syntax")

	_, err := LoadFile(path)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.NotNil(t, errors.Unwrap(pe))
}

func TestLoadFile_NonMappingRoot(t *testing.T) {
	for name, content := range map[string]string{
		"list.yml":   "- item1\n- item2\n",
		"scalar.yml": "just a string\n",
	} {
		path := writeFile(t, name, content)

		_, err := LoadFile(path)

		var ir *InvalidRootError
		require.ErrorAs(t, err, &ir, "root of %s should be rejected", name)
	}
}

func TestDump(t *testing.T) {
	t.Run("empty renders as {}", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Dump(&buf, Document{}))
		assert.Equal(t, "{}\n", buf.String())
	})

	t.Run("round trips through Load", func(t *testing.T) {
		doc := Document{
			"app":  map[string]any{"name": "myapp"},
			"tags": []any{"a", "b"},
		}
		var buf bytes.Buffer
		require.NoError(t, Dump(&buf, doc))

		back, err := Load(buf.Bytes(), "buffer")
		require.NoError(t, err)
		assert.Equal(t, doc, back)
	})
}
