package vtree

// ErrorLeaf wraps a decoding failure as a value tree node. Error leaves
// flow through Diff unchanged and always count as a difference.
func ErrorLeaf(msg string) Value {
	return NewObj().Set("error", String(msg)).Value()
}

// IsErrorLeaf reports whether v is an error leaf, i.e. an object whose
// single key is "error" with a string payload.
func IsErrorLeaf(v Value) bool {
	obj := v.AsObj()
	if obj == nil || obj.Len() != 1 {
		return false
	}
	e, ok := obj.Get("error")
	return ok && e.Kind() == KindString
}

// Diff compares two value trees and returns a diff tree.
//
// The result is Null when left and right do not differ. When both sides
// are objects, the result is an object holding one child diff per
// differing key; keys whose values compare equal are omitted entirely.
// Key order is left's keys first (in their order), then right's keys not
// present on the left (in their order), which keeps output deterministic
// regardless of which side carries more keys. A key held by only one
// side always produces a leaf pair, with the absent side rendered as
// Null — absence and presence-with-null stay distinguishable.
//
// In every other case the result is a leaf pair, a two-element array
// [left, right]. Arrays are never diffed element by element: a single
// differing element surfaces the whole array on both sides.
func Diff(left, right Value) Value {
	if IsErrorLeaf(left) {
		return left
	}
	if IsErrorLeaf(right) {
		return right
	}
	if left.Kind() == KindObject && right.Kind() == KindObject {
		lo, ro := left.AsObj(), right.AsObj()
		out := NewObj()
		for _, key := range unionKeys(lo, ro) {
			lv, inLeft := lo.Get(key)
			if !inLeft {
				lv = Null()
			}
			rv, inRight := ro.Get(key)
			if !inRight {
				rv = Null()
			}
			if inLeft != inRight {
				// Absence is distinct from presence-with-null: a key held
				// by only one side is always a difference, even if the
				// held value is itself null or empty.
				out.Set(key, Array(lv, rv))
				continue
			}
			if d := Diff(lv, rv); !d.IsNull() {
				out.Set(key, d)
			}
		}
		if out.Len() == 0 {
			return Null()
		}
		return out.Value()
	}
	if Equal(left, right) {
		return Null()
	}
	return Array(left, right)
}

func unionKeys(left, right *Obj) []string {
	keys := make([]string, 0, left.Len()+right.Len())
	keys = append(keys, left.Keys()...)
	for _, key := range right.Keys() {
		if _, ok := left.Get(key); !ok {
			keys = append(keys, key)
		}
	}
	return keys
}
