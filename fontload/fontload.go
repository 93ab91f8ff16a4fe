/*
Package fontload loads OpenType fonts and answers the font-level queries
the diff engines need: supported codepoints, supported scripts, variation
axes, named instances and a design-space location shared by outline
extraction and shaping.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontload

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"unicode"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'fontdiff.fontload'
func tracer() tracing.Trace {
	return tracing.Select("fontdiff.fontload")
}

// Font is a parsed scalable font, holding the original bytes together
// with the decoded views the pipelines consume: an SFNT view for name
// lookups and a typesetting face for shaping and outlines.
//
// A Font is effectively immutable once its location has been set; the
// rendering pipeline obtains per-worker faces via NewShapingFace instead
// of sharing the embedded one.
type Font struct {
	Fontname string
	Binary   []byte
	SFNT     *sfnt.Font

	face       *font.Face
	loader     *ot.Loader
	codepoints []rune
	cpset      map[rune]struct{}
	location   []font.Variation
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*Font, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (*Font, error) {
	f := &Font{Binary: fbytes}
	var err error
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	f.loader, err = ot.NewLoader(bytes.NewReader(f.Binary))
	if err != nil {
		return nil, err
	}
	face, err := font.ParseTTF(bytes.NewReader(f.Binary))
	if err != nil {
		return nil, err
	}
	f.face = face
	f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull)
	if err != nil {
		f.Fontname = "Unknown"
	}
	f.collectCodepoints()
	tracer().Infof("loaded font %q, %d codepoints", f.Fontname, len(f.codepoints))
	return f, nil
}

// collectCodepoints walks the font's character map. Subtables may map a
// codepoint more than once, so entries are deduplicated; the zero glyph
// does not count as coverage.
func (f *Font) collectCodepoints() {
	f.cpset = make(map[rune]struct{})
	iter := f.face.Font.Cmap.Iter()
	for iter.Next() {
		r, gid := iter.Char()
		if gid == 0 {
			continue
		}
		if _, ok := f.cpset[r]; ok {
			continue
		}
		f.cpset[r] = struct{}{}
		f.codepoints = append(f.codepoints, r)
	}
	sort.Slice(f.codepoints, func(i, j int) bool { return f.codepoints[i] < f.codepoints[j] })
}

// Face returns the typesetting face with the font's current design-space
// location applied. The face is not safe for concurrent use; concurrent
// callers should obtain their own via NewShapingFace.
func (f *Font) Face() *font.Face {
	return f.face
}

// NewShapingFace returns a fresh face over the same parsed font, with
// the same design-space location applied. Faces carry mutable glyph
// caches, so every rendering worker needs its own.
func (f *Font) NewShapingFace() *font.Face {
	face := font.NewFace(f.face.Font)
	if len(f.location) > 0 {
		face.SetVariations(f.location)
	}
	return face
}

// Codepoints returns all codepoints mapped by the font's character map,
// in ascending order. The returned slice must not be modified.
func (f *Font) Codepoints() []rune {
	return f.codepoints
}

// SupportsRune reports whether the font's character map covers r.
func (f *Font) SupportsRune(r rune) bool {
	_, ok := f.cpset[r]
	return ok
}

// SupportedScripts returns the set of Unicode script names (e.g. "Latin",
// "Arabic") for which the font maps at least one codepoint.
func (f *Font) SupportedScripts() map[string]bool {
	scripts := make(map[string]bool)
	for _, r := range f.codepoints {
		for name, table := range unicode.Scripts {
			if scripts[name] {
				continue
			}
			if unicode.Is(table, r) {
				scripts[name] = true
				break
			}
		}
	}
	return scripts
}

// FamilyName returns the font's family name, or "Unknown" if the name
// table holds none.
func (f *Font) FamilyName() string {
	name, err := f.SFNT.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return "Unknown"
	}
	return name
}

// StyleName returns the font's subfamily (style) name.
func (f *Font) StyleName() string {
	name, err := f.SFNT.Name(nil, sfnt.NameIDSubfamily)
	if err != nil {
		return "Regular"
	}
	return name
}

// TableTags returns the tags of all tables in the font's directory, in
// directory order.
func (f *Font) TableTags() []string {
	tags := f.loader.Tables()
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.String()
	}
	return out
}

// RawTable returns the raw bytes of the table with the given 4-character
// tag.
func (f *Font) RawTable(tag string) ([]byte, error) {
	if len(tag) != 4 {
		return nil, fmt.Errorf("fontload: invalid table tag %q", tag)
	}
	return f.loader.RawTable(ot.NewTag(tag[0], tag[1], tag[2], tag[3]))
}

// HasTable reports whether the font's directory contains the given tag.
func (f *Font) HasTable(tag string) bool {
	if len(tag) != 4 {
		return false
	}
	return f.loader.HasTable(ot.NewTag(tag[0], tag[1], tag[2], tag[3]))
}

// IsVariable reports whether the font carries variation axes.
func (f *Font) IsVariable() bool {
	return f.HasTable("fvar")
}

// IsColor reports whether the font carries color glyph tables.
func (f *Font) IsColor() bool {
	return f.HasTable("SVG ") || f.HasTable("COLR") || f.HasTable("CBDT")
}

// Location returns the currently applied design-space location, one
// entry per axis that has been pinned.
func (f *Font) Location() []font.Variation {
	return f.location
}

// UnitsPerEm returns the design grid resolution from table 'head'.
func (f *Font) UnitsPerEm() float32 {
	if b, err := f.RawTable("head"); err == nil && len(b) >= 20 {
		return float32(u16(b[18:20]))
	}
	return 1000
}

// Ascender returns the hhea ascender in font units.
func (f *Font) Ascender() float32 {
	if b, err := f.RawTable("hhea"); err == nil && len(b) >= 6 {
		return float32(int16(u16(b[4:6])))
	}
	return 0
}

// Descender returns the hhea descender in font units, typically negative.
func (f *Font) Descender() float32 {
	if b, err := f.RawTable("hhea"); err == nil && len(b) >= 8 {
		return float32(int16(u16(b[6:8])))
	}
	return 0
}
