/*
Package otdump decodes the tables of an OpenType font into a generic
value tree (package vtree). The tree mirrors the table structure of the
font: one top-level key per table tag, field objects below. Tables
without a field decoder are summarized by length and checksum, so that a
byte-level change still registers as a difference.

Decoding failures are isolated per table: a table that cannot be decoded
becomes an error leaf in the tree and never aborts the dump.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otdump

import (
	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/fontdiff/vtree"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontdiff.otdump'
func tracer() tracing.Trace {
	return tracing.Select("fontdiff.otdump")
}

// DecodeTables decodes every table in the font's directory into one
// value tree, keyed by table tag in directory order. The name table is
// normalized into localized form and always appended last.
func DecodeTables(f *fontload.Font) vtree.Value {
	out := vtree.NewObj()
	for _, tag := range f.TableTags() {
		if tag == "name" {
			continue // normalized form appended below
		}
		b, err := f.RawTable(tag)
		if err != nil {
			tracer().Debugf("table %s: %v", tag, err)
			out.Set(tag, vtree.ErrorLeaf("could not read table: "+err.Error()))
			continue
		}
		v, err := decodeTable(tag, b, f)
		if err != nil {
			tracer().Debugf("table %s: %v", tag, err)
			out.Set(tag, vtree.ErrorLeaf("could not parse: "+err.Error()))
			continue
		}
		out.Set(tag, v)
	}
	if f.HasTable("name") {
		names, err := decodeNameTable(f)
		if err != nil {
			tracer().Debugf("table name: %v", err)
			names = vtree.ErrorLeaf("could not parse: " + err.Error())
		}
		out.Set("name", names)
	}
	return out.Value()
}

func decodeTable(tag string, b []byte, f *fontload.Font) (vtree.Value, error) {
	switch tag {
	case "head":
		return decodeHead(b)
	case "hhea", "vhea":
		return decodeHea(b)
	case "maxp":
		return decodeMaxp(b)
	case "OS/2":
		return decodeOS2(b)
	case "post":
		return decodePost(b)
	case "fvar":
		return decodeFvar(f)
	case "avar":
		return decodeAvar(b)
	case "gasp":
		return decodeGasp(b)
	case "hmtx":
		return decodeHmtx(b, f, "hhea")
	case "vmtx":
		return decodeHmtx(b, f, "vhea")
	case "cmap":
		return decodeCmap(b, f)
	}
	return summarize(b), nil
}

// summarize condenses an undecoded table into its length and OpenType
// checksum. Any byte-level change flips the checksum leaf.
func summarize(b []byte) vtree.Value {
	return vtree.NewObj().
		Set("length", vtree.Int(int64(len(b)))).
		Set("checksum", vtree.Int(int64(checksum(b)))).
		Value()
}

func checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= len(b); i += 4 {
		sum += uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3])
	}
	if rest := len(b) % 4; rest != 0 {
		var last uint32
		for i := len(b) - rest; i < len(b); i++ {
			last = last<<8 | uint32(b[i])
		}
		last <<= uint(8 * (4 - rest))
		sum += last
	}
	return sum
}
