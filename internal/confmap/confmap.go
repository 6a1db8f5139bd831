// Package confmap implements flattening, unflattening, and set algebra over
// mapping-rooted configuration documents.
//
// Documents are the trees produced by decoding YAML into interface values:
// internal nodes are map[string]any, leaves are scalars or sequences.
// Sequences are opaque leaf values and are never recursed into.
package confmap

import (
	"sort"
	"strings"
)

// Separator joins path segments when building flat keys. Original keys that
// already contain the separator are not escaped, so flattening such documents
// is not injective and round-tripping can collide two distinct paths.
const Separator = "."

// Document is a mapping-rooted configuration tree.
type Document = map[string]any

// FlatMap maps separator-joined key paths to values. A value may itself be a
// nested mapping when flattening stopped early due to a depth limit.
type FlatMap = map[string]any

// Flatten converts doc into a flat key/value mapping.
//
// Depth controls how far the traversal descends: 1 returns a shallow copy of
// doc (no flattening), 0 descends without limit, and n > 1 stops once a flat
// key has accumulated n path segments, leaving the remaining value as-is.
func Flatten(doc Document, depth int) FlatMap {
	if depth == 1 {
		out := make(FlatMap, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		return out
	}

	out := make(FlatMap)
	flattenInto(out, doc, depth, "")
	return out
}

func flattenInto(out FlatMap, doc Document, depth int, prefix string) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + Separator + k
		}
		segments := strings.Count(key, Separator) + 1

		child, isMapping := v.(map[string]any)
		switch {
		case depth > 0 && segments >= depth:
			out[key] = v
		case isMapping && len(child) > 0:
			flattenInto(out, child, depth, key)
		default:
			out[key] = v
		}
	}
}

// Unflatten rebuilds a nested document from a flat mapping, splitting each
// key on the separator. It is the inverse of Flatten(doc, 0) for documents
// whose keys contain no separator and which have no empty intermediate
// mappings.
//
// When flat keys disagree on whether a prefix is a leaf or a container the
// resolution is unspecified; keys are processed in sorted order so the
// outcome is at least reproducible, but callers must not rely on it.
func Unflatten(flat FlatMap) Document {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(Document)
	for _, key := range keys {
		parts := strings.Split(key, Separator)
		node := result
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = flat[key]
	}
	return result
}
