package confmap

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// NotFoundError reports that a referenced document path does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// ParseError reports that a document failed to parse as YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid YAML in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidRootError reports that a parsed document's root is not a mapping.
type InvalidRootError struct {
	Path string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("root must be a YAML mapping in %s", e.Path)
}

// LoadFile reads and decodes a mapping-rooted YAML document. Missing files,
// parse failures, and non-mapping roots are surfaced as typed errors before
// any flatten or set-operation work can run. An empty file loads as an empty
// document.
func LoadFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	return Load(raw, path)
}

// Load decodes raw YAML bytes as a mapping-rooted document. The path is used
// only for error messages.
func Load(raw []byte, path string) (Document, error) {
	var root any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if root == nil {
		return Document{}, nil
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return nil, &InvalidRootError{Path: path}
	}
	return doc, nil
}

// Dump writes doc to w as YAML. An empty document renders as {} so the
// output is always a valid mapping.
func Dump(w io.Writer, doc Document) error {
	if len(doc) == 0 {
		_, err := io.WriteString(w, "{}\n")
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
