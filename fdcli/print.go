package main

import (
	"fmt"

	"github.com/npillmayer/fontdiff/vtree"
	"github.com/pterm/pterm"
)

// lsOp lists the children of the current location. Objects show their
// keys with a kind summary per entry, arrays their element count.
func lsOp(intp *Intp, arg string) (error, bool) {
	cur := intp.current()
	switch cur.Kind() {
	case vtree.KindObject:
		obj := cur.AsObj()
		data := [][]string{
			{"Key", "Kind", "Value"},
		}
		for _, key := range obj.Keys() {
			v, _ := obj.Get(key)
			data = append(data, []string{key, v.Kind().String(), leafSummary(v)})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render(), false
	case vtree.KindArray:
		elems := cur.AsArray()
		pterm.Printf("array with %d elements\n", len(elems))
		for i, v := range elems {
			pterm.Printf("  [%d] %s %s\n", i, v.Kind().String(), leafSummary(v))
		}
		return nil, false
	}
	pterm.Printf("%s leaf: %s\n", cur.Kind().String(), cur.String())
	return nil, false
}

// leafSummary renders leaves verbatim and containers as a size hint.
func leafSummary(v vtree.Value) string {
	switch v.Kind() {
	case vtree.KindObject:
		return fmt.Sprintf("{%d entries}", v.AsObj().Len())
	case vtree.KindArray:
		return fmt.Sprintf("[%d elements]", len(v.AsArray()))
	}
	return v.String()
}

// catOp pretty-prints the current location, or one of its children if
// a key is given.
func catOp(intp *Intp, arg string) (error, bool) {
	v := intp.current()
	if arg != "" {
		child, _, err := intp.child(arg)
		if err != nil {
			return err, false
		}
		v = child
	}
	out, err := v.MarshalIndent()
	if err != nil {
		return err, false
	}
	pterm.Println(string(out))
	return nil, false
}
