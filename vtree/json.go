package vtree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalIndent serializes the tree as indented JSON with stable key
// order.
func (v Value) MarshalIndent() ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes JSON into a value tree, preserving object key order.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return Null(), err
	}
	if dec.More() {
		return Null(), fmt.Errorf("vtree: trailing data after JSON value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(n), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var elems []Value
			for dec.More() {
				elem, err := parseValue(dec)
				if err != nil {
					return Null(), err
				}
				elems = append(elems, elem)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return Null(), err
			}
			return Array(elems...), nil
		case '{':
			obj := NewObj()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Null(), fmt.Errorf("vtree: object key is not a string: %v", keyTok)
				}
				child, err := parseValue(dec)
				if err != nil {
					return Null(), err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return Null(), err
			}
			return obj.Value(), nil
		}
	}
	return Null(), fmt.Errorf("vtree: unexpected JSON token %v", tok)
}

// MustParse is Parse for statically known-good input, mainly tests.
func MustParse(data string) Value {
	v, err := Parse([]byte(strings.TrimSpace(data)))
	if err != nil {
		panic(err)
	}
	return v
}
