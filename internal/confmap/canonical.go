package confmap

import (
	"fmt"
	"sort"
	"strings"
)

// canonicalKey returns a stable fingerprint for an arbitrary decoded value,
// usable for set membership. Mapping fingerprints are order-independent
// (entries sorted by key), sequence fingerprints preserve element order, and
// scalars are tagged with their dynamic type so values of different kinds
// never compare equal.
func canonicalKey(v any) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("m{")
		for _, k := range keys {
			fmt.Fprintf(sb, "%q:", k)
			writeCanonical(sb, t[k])
			sb.WriteByte(';')
		}
		sb.WriteByte('}')
	case []any:
		sb.WriteString("s[")
		for _, elem := range t {
			writeCanonical(sb, elem)
			sb.WriteByte(';')
		}
		sb.WriteByte(']')
	case string:
		// %q escapes embedded quotes, keeping the encoding unambiguous.
		fmt.Fprintf(sb, "str%q", t)
	case nil:
		sb.WriteString("null")
	default:
		fmt.Fprintf(sb, "%T(%v)", t, t)
	}
}
