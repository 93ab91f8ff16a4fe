package vtree

import (
	"testing"
)

func TestDiffAntiReflexive(t *testing.T) {
	trees := []Value{
		Null(),
		Int(42),
		String("hello"),
		MustParse(`{"head": {"unitsPerEm": 1000, "flags": 3}, "tags": ["a", "b"]}`),
		MustParse(`[1, [2, [3]]]`),
	}
	for _, tree := range trees {
		if d := Diff(tree, tree); !d.IsNull() {
			t.Errorf("expected diff(X, X) to be empty for %s, have %s", tree, d)
		}
	}
}

func TestDiffLeafPair(t *testing.T) {
	d := Diff(Int(1), Int(2))
	pair := d.AsArray()
	if len(pair) != 2 {
		t.Fatalf("expected a leaf pair, have %s", d)
	}
	if pair[0].AsNumber() != 1 || pair[1].AsNumber() != 2 {
		t.Errorf("expected leaf pair [1,2], have %s", d)
	}
}

func TestDiffSymmetricUnderSwap(t *testing.T) {
	a := MustParse(`{"head": {"upem": 1000}, "hhea": {"ascender": 800}, "onlyimg": 1}`)
	b := MustParse(`{"head": {"upem": 2048}, "hhea": {"ascender": 800}, "other": 2}`)
	ab := Diff(a, b)
	ba := Diff(b, a)
	abKeys := collectLeafPaths(t, ab, "")
	baKeys := collectLeafPaths(t, ba, "")
	if len(abKeys) != len(baKeys) {
		t.Fatalf("expected same key set under swap: %v vs %v", abKeys, baKeys)
	}
	for path, pair := range abKeys {
		rev, ok := baKeys[path]
		if !ok {
			t.Errorf("path %q missing from swapped diff", path)
			continue
		}
		if !Equal(pair[0], rev[1]) || !Equal(pair[1], rev[0]) {
			t.Errorf("path %q: expected reversed leaf pair, have %s/%s vs %s/%s",
				path, pair[0], pair[1], rev[0], rev[1])
		}
	}
}

func collectLeafPaths(t *testing.T, d Value, prefix string) map[string][2]Value {
	t.Helper()
	out := make(map[string][2]Value)
	if pair := d.AsArray(); pair != nil {
		if len(pair) != 2 {
			t.Fatalf("malformed leaf pair at %q: %s", prefix, d)
		}
		out[prefix] = [2]Value{pair[0], pair[1]}
		return out
	}
	obj := d.AsObj()
	if obj == nil {
		t.Fatalf("unexpected diff node at %q: %s", prefix, d)
	}
	for _, key := range obj.Keys() {
		child, _ := obj.Get(key)
		for p, pair := range collectLeafPaths(t, child, prefix+"/"+key) {
			out[p] = pair
		}
	}
	return out
}

func TestDiffAbsentVersusNull(t *testing.T) {
	empty := MustParse(`{}`)
	withNull := MustParse(`{"a": null}`)
	d := Diff(empty, withNull)
	obj := d.AsObj()
	if obj == nil || obj.Len() != 1 {
		t.Fatalf("expected diff({}, {a:null}) to report key a, have %s", d)
	}
	if _, ok := obj.Get("a"); !ok {
		t.Errorf("expected key a in diff, have %s", d)
	}
	if d := Diff(withNull, MustParse(`{"a": null}`)); !d.IsNull() {
		t.Errorf("expected diff({a:null}, {a:null}) to be empty, have %s", d)
	}
}

func TestDiffDropsEqualKeys(t *testing.T) {
	a := MustParse(`{"same": {"x": 1}, "changed": 1}`)
	b := MustParse(`{"same": {"x": 1}, "changed": 2}`)
	d := Diff(a, b)
	obj := d.AsObj()
	if obj == nil {
		t.Fatalf("expected object diff, have %s", d)
	}
	if _, ok := obj.Get("same"); ok {
		t.Errorf("expected equal key to be dropped, have %s", d)
	}
	if obj.Len() != 1 {
		t.Errorf("expected exactly one differing key, have %s", d)
	}
}

func TestDiffKeyOrderLeftFirst(t *testing.T) {
	a := MustParse(`{"b": 1, "a": 2}`)
	b := MustParse(`{"z": 3, "a": 4}`)
	d := Diff(a, b)
	keys := d.AsObj().Keys()
	want := []string{"b", "a", "z"}
	if len(keys) != len(want) {
		t.Fatalf("expected keys %v, have %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key[%d]: expected %q, have %q", i, want[i], keys[i])
		}
	}
}

func TestDiffArraysAreAtomic(t *testing.T) {
	a := MustParse(`{"coords": [1, 2, 3, 4]}`)
	b := MustParse(`{"coords": [1, 2, 9, 4]}`)
	d := Diff(a, b)
	child, ok := d.AsObj().Get("coords")
	if !ok {
		t.Fatalf("expected coords to differ, have %s", d)
	}
	pair := child.AsArray()
	if len(pair) != 2 {
		t.Fatalf("expected a leaf pair for the array, have %s", child)
	}
	if len(pair[0].AsArray()) != 4 || len(pair[1].AsArray()) != 4 {
		t.Errorf("expected whole arrays on both sides, have %s", child)
	}
}

func TestDiffErrorLeaf(t *testing.T) {
	errLeaf := ErrorLeaf("could not parse")
	if !IsErrorLeaf(errLeaf) {
		t.Fatalf("expected %s to be recognized as error leaf", errLeaf)
	}
	good := MustParse(`{"unitsPerEm": 1000}`)
	d := Diff(errLeaf, good)
	if !IsErrorLeaf(d) {
		t.Errorf("expected error leaf to surface from diff, have %s", d)
	}
	// even two identical error leaves count as different
	if d := Diff(errLeaf, ErrorLeaf("could not parse")); d.IsNull() {
		t.Errorf("expected identical error leaves to still report a difference")
	}
}

func TestDiffOfDiffHasNoEqualPairs(t *testing.T) {
	a := MustParse(`{"head": {"upem": 1000, "flags": 3}}`)
	b := MustParse(`{"head": {"upem": 2048, "flags": 3}}`)
	d := Diff(a, b)
	// a diff is a value tree; re-diffing it against itself is empty
	if dd := Diff(d, d); !dd.IsNull() {
		t.Errorf("expected diff of diff with itself to be empty, have %s", dd)
	}
}
