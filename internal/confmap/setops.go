package confmap

// Operation enumerates the supported set operations over two documents.
type Operation string

const (
	OpUnion     Operation = "union"
	OpIntersect Operation = "intersect"
	OpDiff      Operation = "diff"
	OpRDiff     Operation = "rdiff"
	OpSymDiff   Operation = "symdiff"
)

// CompareMode selects what participates in set membership: keys alone, or
// key/value pairs with values compared structurally.
type CompareMode string

const (
	CompareKeys     CompareMode = "keys"
	CompareKeyValue CompareMode = "kv"
)

// Perform flattens both documents to the requested depth, applies the set
// operation under the given compare mode, and materializes the surviving
// entries back into a document.
//
// Value resolution prefers the left document when both sides carry the key,
// except for rdiff where surviving pairs designate the right document. The
// result is unflattened back to nested form only for depth > 1; depth 0
// results keep their flat dotted keys and depth 1 results were never
// flattened.
//
// An operation or compare mode outside the enumerated sets is a documented
// no-op yielding an empty document; callers should validate beforehand.
func Perform(left, right Document, op Operation, mode CompareMode, depth int) Document {
	flatLeft := Flatten(left, depth)
	flatRight := Flatten(right, depth)

	var surviving map[string]string
	switch mode {
	case CompareKeys, CompareKeyValue:
		surviving = applySet(members(flatLeft, mode), members(flatRight, mode), op)
	default:
		// Unsupported compare mode: empty result.
	}

	result := make(Document, len(surviving))
	for _, key := range surviving {
		if op == OpRDiff {
			if v, ok := flatRight[key]; ok {
				result[key] = v
			} else {
				result[key] = flatLeft[key]
			}
			continue
		}
		if v, ok := flatLeft[key]; ok {
			result[key] = v
		} else {
			result[key] = flatRight[key]
		}
	}

	if depth > 1 {
		return Unflatten(result)
	}
	return result
}

// members builds the set representation of a flat map for the compare mode.
// The returned map goes from membership identity to the plain flat key, so a
// surviving member can be resolved back to its entry.
func members(flat FlatMap, mode CompareMode) map[string]string {
	out := make(map[string]string, len(flat))
	for k, v := range flat {
		if mode == CompareKeys {
			out[k] = k
		} else {
			out[k+"\x00"+canonicalKey(v)] = k
		}
	}
	return out
}

func applySet(left, right map[string]string, op Operation) map[string]string {
	out := make(map[string]string)
	switch op {
	case OpUnion:
		for m, k := range right {
			out[m] = k
		}
		for m, k := range left {
			out[m] = k
		}
	case OpIntersect:
		for m, k := range left {
			if _, ok := right[m]; ok {
				out[m] = k
			}
		}
	case OpDiff:
		for m, k := range left {
			if _, ok := right[m]; !ok {
				out[m] = k
			}
		}
	case OpRDiff:
		for m, k := range right {
			if _, ok := left[m]; !ok {
				out[m] = k
			}
		}
	case OpSymDiff:
		for m, k := range left {
			if _, ok := right[m]; !ok {
				out[m] = k
			}
		}
		for m, k := range right {
			if _, ok := left[m]; !ok {
				out[m] = k
			}
		}
	default:
		// Unsupported operation: empty result.
	}
	return out
}
