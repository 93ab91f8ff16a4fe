/*
Package fontdiff compares two versions of an OpenType font. A
comparison runs over three independent domains: the decoded font tables
(structural diff), the glyph inventory (single-rune render probes) and
per-script word renderings. The result is one value tree keyed
"tables", "glyphs" and "words", ready for JSON serialization or the
report package.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fontdiff

import (
	"fmt"

	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/fontdiff/otdump"
	"github.com/npillmayer/fontdiff/render"
	"github.com/npillmayer/fontdiff/vtree"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontdiff.core'
func tracer() tracing.Trace {
	return tracing.Select("fontdiff.core")
}

// Options select the comparison domains and the design-space location
// both fonts are pinned to before comparing.
type Options struct {
	Tables bool // diff decoded font tables
	Glyphs bool // diff single-glyph renderings
	Words  bool // diff per-script word renderings

	Location string // design-space location, "wght=600,ital=1"
	Instance string // named instance, alternative to Location

	PointSize float32 // render size for glyph and word probes
	Jobs      int     // render worker count, ≤0 means GOMAXPROCS
}

// DefaultOptions enable all three domains at 40pt.
func DefaultOptions() Options {
	return Options{Tables: true, Glyphs: true, Words: true, PointSize: 40}
}

// Compare diffs two fonts under the given options. An unresolvable
// location or named instance is a configuration error and fails the
// whole run before any diffing; per-table and per-probe failures are
// recorded inside the result instead. Domains without differences are
// absent from the result, so comparing a font against itself yields an
// empty object.
func Compare(a, b *fontload.Font, opts Options) (vtree.Value, error) {
	if err := pinLocation(a, b, opts); err != nil {
		return vtree.Null(), err
	}
	renderOpts := render.Options{PointSize: opts.PointSize, Jobs: opts.Jobs}
	if renderOpts.PointSize <= 0 {
		renderOpts.PointSize = 40
	}
	out := vtree.NewObj()
	if opts.Tables {
		tracer().Debugf("diffing tables of %s and %s", a.Fontname, b.Fontname)
		tables := vtree.Diff(otdump.DecodeTables(a), otdump.DecodeTables(b))
		if tables.IsSomething() {
			out.Set("tables", tables)
		}
	}
	if opts.Glyphs {
		tracer().Debugf("diffing glyph renderings")
		glyphs, err := render.GlyphDiff(a, b, renderOpts)
		if err != nil {
			return vtree.Null(), err
		}
		if glyphs.IsSomething() {
			out.Set("glyphs", glyphs)
		}
	}
	if opts.Words {
		tracer().Debugf("diffing word renderings")
		words, err := render.WordDiff(a, b, renderOpts)
		if err != nil {
			return vtree.Null(), err
		}
		if words.IsSomething() {
			out.Set("words", words)
		}
	}
	return out.Value(), nil
}

// pinLocation moves both fonts to the same design-space location. The
// two fonts must share a comparable location, so failure on either side
// is fatal to the run.
func pinLocation(a, b *fontload.Font, opts Options) error {
	switch {
	case opts.Location != "" && opts.Instance != "":
		return fmt.Errorf("fontdiff: location and instance are mutually exclusive")
	case opts.Location != "":
		if err := a.SetLocation(opts.Location); err != nil {
			return fmt.Errorf("fontdiff: %s: %w", a.Fontname, err)
		}
		if err := b.SetLocation(opts.Location); err != nil {
			return fmt.Errorf("fontdiff: %s: %w", b.Fontname, err)
		}
	case opts.Instance != "":
		if err := a.SetNamedInstance(opts.Instance); err != nil {
			return fmt.Errorf("fontdiff: %s: %w", a.Fontname, err)
		}
		if err := b.SetNamedInstance(opts.Instance); err != nil {
			return fmt.Errorf("fontdiff: %s: %w", b.Fontname, err)
		}
	}
	return nil
}
