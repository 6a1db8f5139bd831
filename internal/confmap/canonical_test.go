package confmap

import "testing"

func TestCanonicalKey_MappingOrderIndependent(t *testing.T) {
	a := map[string]any{"x": 1, "y": map[string]any{"z": 2}}
	b := map[string]any{"y": map[string]any{"z": 2}, "x": 1}

	if canonicalKey(a) != canonicalKey(b) {
		t.Error("mapping fingerprints must not depend on key order")
	}
}

func TestCanonicalKey_SequenceOrderSensitive(t *testing.T) {
	a := []any{1, 2, 3}
	b := []any{3, 2, 1}

	if canonicalKey(a) == canonicalKey(b) {
		t.Error("sequence fingerprints must preserve element order")
	}
}

func TestCanonicalKey_TypeTagged(t *testing.T) {
	if canonicalKey(1) == canonicalKey("1") {
		t.Error("int and string scalars must not collide")
	}
	if canonicalKey(nil) == canonicalKey("null") {
		t.Error("null and the string \"null\" must not collide")
	}
	if canonicalKey(true) == canonicalKey("true") {
		t.Error("bool and string scalars must not collide")
	}
}

func TestCanonicalKey_NoStringForgery(t *testing.T) {
	// A crafted string must not reproduce the fingerprint of a sequence of
	// separate elements.
	forged := []any{`a;str"b"`}
	honest := []any{"a", "b"}

	if canonicalKey(forged) == canonicalKey(honest) {
		t.Error("string content forged a structural fingerprint")
	}
}

func TestCanonicalKey_NestedEquality(t *testing.T) {
	a := map[string]any{"cfg": []any{map[string]any{"k": "v", "n": 1}}}
	b := map[string]any{"cfg": []any{map[string]any{"n": 1, "k": "v"}}}

	if canonicalKey(a) != canonicalKey(b) {
		t.Error("nested mapping order must not affect the fingerprint")
	}
}
