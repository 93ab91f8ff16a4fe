package vtree

import (
	"encoding/json"
	"strings"
)

// Kind enumerates the variants a Value may take.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// Value is one node of a value tree. The zero Value is the null value.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	a    []Value
	o    *Obj
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number wraps a float64.
func Number(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// Int wraps an integer as a number value.
func Int(n int64) Value {
	return Value{kind: KindNumber, n: float64(n)}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Array wraps an ordered sequence of values.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, a: elems}
}

// Obj is an insertion-ordered mapping from string keys to values.
// Keys are unique within one Obj; Set overwrites in place, keeping the
// original position of the key.
type Obj struct {
	keys    []string
	entries map[string]Value
}

// NewObj creates an empty ordered object.
func NewObj() *Obj {
	return &Obj{entries: make(map[string]Value)}
}

// Set inserts or replaces the value under key. It returns the receiver
// so that object literals can be chained.
func (o *Obj) Set(key string, v Value) *Obj {
	if _, ok := o.entries[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.entries[key] = v
	return o
}

// Get looks up a key. A nil receiver has no keys.
func (o *Obj) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.entries[key]
	return v, ok
}

// Len returns the number of keys.
func (o *Obj) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The returned slice must not
// be modified.
func (o *Obj) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Value wraps the object as a tree node.
func (o *Obj) Value() Value {
	return Value{kind: KindObject, o: o}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull is true for the null value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean payload (false for other kinds).
func (v Value) AsBool() bool {
	return v.kind == KindBool && v.b
}

// AsNumber returns the numeric payload (0 for other kinds).
func (v Value) AsNumber() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.n
}

// AsString returns the string payload ("" for other kinds).
func (v Value) AsString() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// AsArray returns the element slice (nil for other kinds).
func (v Value) AsArray() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.a
}

// AsObj returns the ordered object (nil for other kinds).
func (v Value) AsObj() *Obj {
	if v.kind != KindObject {
		return nil
	}
	return v.o
}

// IsSomething reports whether v is meaningfully present: not null, not
// an empty string, not an empty array and not an empty object. Numbers
// and booleans always count as present.
func (v Value) IsSomething() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.a) > 0
	case KindObject:
		return v.o.Len() > 0
	}
	return true
}

// Equal reports deep structural equality of two value trees. Object
// comparison ignores key order but not key sets.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.a) != len(b.a) {
			return false
		}
		for i := range a.a {
			if !Equal(a.a[i], b.a[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.o.Len() != b.o.Len() {
			return false
		}
		for _, key := range a.o.Keys() {
			bv, ok := b.o.Get(key)
			if !ok {
				return false
			}
			av, _ := a.o.Get(key)
			if !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON serializes the tree, preserving object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	if err := encodeJSON(&sb, v); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// String returns the compact JSON rendering of v. It is what the report
// layer prints for leaf values.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return "<invalid>"
	}
	return string(data)
}

func encodeJSON(sb *strings.Builder, v Value) error {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		data, err := json.Marshal(v.n)
		if err != nil {
			return err
		}
		sb.Write(data)
	case KindString:
		data, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		sb.Write(data)
	case KindArray:
		sb.WriteByte('[')
		for i, elem := range v.a {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := encodeJSON(sb, elem); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, key := range v.o.Keys() {
			if i > 0 {
				sb.WriteByte(',')
			}
			data, err := json.Marshal(key)
			if err != nil {
				return err
			}
			sb.Write(data)
			sb.WriteByte(':')
			child, _ := v.o.Get(key)
			if err := encodeJSON(sb, child); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}
