/*
Package render draws probe strings with a font and compares the
resulting bitmaps. A Renderer wraps one font at one point size, shaping
text with go-text's HarfBuzz port and rasterizing glyph outlines onto a
shared grayscale canvas. The comparison drivers GlyphDiff and WordDiff
render the same probes against two fonts and classify the outcome.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package render

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// tracer writes to trace with key 'fontdiff.render'
func tracer() tracing.Trace {
	return tracing.Select("fontdiff.render")
}

// Renderer shapes and rasterizes probe strings for a single font at a
// fixed point size, direction and script. It holds a private shaping
// face and outline cache and is therefore not safe for concurrent use;
// comparison drivers give each worker its own Renderer pair.
type Renderer struct {
	font     *fontload.Font
	face     *font.Face
	shaper   shaping.HarfbuzzShaper
	dir      di.Direction
	script   language.Script
	size     float32
	factor   float32 // size / unitsPerEm
	ascender float32 // font units
	outlines map[font.GID]*outline
}

// outline is an extracted glyph outline in font units, cached per GID.
// A nil entry records that the glyph has no outline (e.g. a space).
type outline struct {
	segments               []font.Segment
	minX, minY, maxX, maxY float32
}

// NewRenderer prepares a rendering pipeline for one font. The font's
// design-space location, if any, is carried into the shaping face.
func NewRenderer(f *fontload.Font, size float32, dir di.Direction, script language.Script) (*Renderer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("render: point size must be positive, have %g", size)
	}
	upem := f.UnitsPerEm()
	if upem <= 0 {
		return nil, fmt.Errorf("render: font %s has no units-per-em", f.Fontname)
	}
	return &Renderer{
		font:     f,
		face:     f.NewShapingFace(),
		dir:      dir,
		script:   script,
		size:     size,
		factor:   size / upem,
		ascender: f.Ascender(),
		outlines: make(map[font.GID]*outline),
	}, nil
}

// positioned is one shaped glyph with its drawing position in canvas
// coordinates (x right, baseline given in y-down canvas space).
type positioned struct {
	gid      font.GID
	x        float32
	baseline float32
}

// RenderString shapes and rasterizes a probe string. It returns a
// shaping trace, the rendered bitmap, and ok=false when the font cannot
// represent the probe: an uncovered codepoint, an unmapped glyph (GID 0)
// or an empty shaping result. A not-ok outcome is a first-class result,
// distinct from a rendered-but-blank bitmap.
func (r *Renderer) RenderString(text string) (string, *image.Gray, bool) {
	runes := []rune(text)
	for _, c := range runes {
		if !r.font.SupportsRune(c) {
			return "", nil, false
		}
	}
	script := r.script
	if script == 0 {
		script = detectScript(runes)
	}
	// Shape at upem size: offsets and advances come back in font units,
	// which keeps the trace integral and scaling in one place.
	out := r.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: r.dir,
		Face:      r.face,
		Size:      fixed.I(int(r.font.UnitsPerEm())),
		Script:    script,
		Language:  language.NewLanguage("en"),
	})
	if len(out.Glyphs) == 0 {
		return "", nil, false
	}
	// The cursor starts at the side bearing of the first glyph that
	// actually advances, so leading marks sit inside the canvas.
	var cursor float32
	for _, g := range out.Glyphs {
		if g.Advance > 0 {
			cursor = r.sideBearing(font.GID(g.GlyphID)) * r.factor
			break
		}
	}
	var tokens []string
	var glyphs []positioned
	for _, g := range out.Glyphs {
		if g.GlyphID == 0 {
			return "", nil, false
		}
		xoff := float32(g.XOffset) / 64
		yoff := float32(g.YOffset) / 64
		glyphs = append(glyphs, positioned{
			gid:      font.GID(g.GlyphID),
			x:        cursor + xoff*r.factor,
			baseline: -yoff*r.factor + r.factor*r.ascender,
		})
		tokens = append(tokens, fmt.Sprintf("gid=%d,position=%d,%d",
			g.GlyphID, int(xoff), int(yoff)))
		cursor += float32(g.Advance) / 64 * r.factor
	}
	width := r.canvasWidth(cursor, glyphs)
	height := int(r.size * 1.2)
	if width <= 0 || height <= 0 {
		return "", nil, false
	}
	canvas := image.NewGray(image.Rect(0, 0, width, height))
	for _, g := range glyphs {
		r.drawGlyph(canvas, g)
	}
	return strings.Join(tokens, "|"), canvas, true
}

// canvasWidth returns the canvas width in pixels. The pen position after
// the last advance is a lower bound only: the final glyph may protrude
// past it through a shaping x-offset or a right side bearing, so the
// width also covers the last glyph's positioned outline extent.
func (r *Renderer) canvasWidth(cursor float32, glyphs []positioned) int {
	width := cursor
	if len(glyphs) > 0 {
		last := glyphs[len(glyphs)-1]
		if o := r.outline(last.gid); o != nil {
			width = max(width, last.x+o.maxX*r.factor)
		}
	}
	return int(width + 0.5)
}

// detectScript returns the script of the first non-space rune, used
// when a Renderer was built without a script hint (single-glyph probes).
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// sideBearing returns the left side bearing of a glyph in font units,
// approximated by the outline's minimal x. Glyphs without an outline
// bear zero.
func (r *Renderer) sideBearing(gid font.GID) float32 {
	if o := r.outline(gid); o != nil {
		return o.minX
	}
	return 0
}

// outline extracts a glyph outline, memoized by GID for the lifetime of
// the Renderer. Population is a read-check-write sequence, hence the
// no-sharing rule.
func (r *Renderer) outline(gid font.GID) *outline {
	if o, ok := r.outlines[gid]; ok {
		return o
	}
	var o *outline
	if data, ok := r.face.GlyphData(gid).(font.GlyphOutline); ok && len(data.Segments) > 0 {
		o = &outline{segments: data.Segments}
		o.minX, o.minY = float32(math.Inf(1)), float32(math.Inf(1))
		o.maxX, o.maxY = float32(math.Inf(-1)), float32(math.Inf(-1))
		for _, seg := range data.Segments {
			for _, p := range seg.Args[:segmentArity(seg.Op)] {
				o.minX = min(o.minX, p.X)
				o.minY = min(o.minY, p.Y)
				o.maxX = max(o.maxX, p.X)
				o.maxY = max(o.maxY, p.Y)
			}
		}
	}
	r.outlines[gid] = o
	return o
}

func segmentArity(op ot.SegmentOp) int {
	switch op {
	case ot.SegmentOpQuadTo:
		return 2
	case ot.SegmentOpCubeTo:
		return 3
	}
	return 1
}

// drawGlyph rasterizes one positioned glyph into a local alpha patch
// and blends it onto the canvas: coverage of at least one half becomes
// full intensity, lower coverage none, and overlapping glyphs add up
// saturating instead of overwriting. Pixels outside the canvas clip
// silently.
func (r *Renderer) drawGlyph(canvas *image.Gray, g positioned) {
	o := r.outline(g.gid)
	if o == nil {
		return
	}
	// Patch extent in canvas coordinates. Font units are y-up, the
	// canvas is y-down, so the outline's maxY maps to the patch top.
	left := int(math.Floor(float64(g.x + o.minX*r.factor)))
	top := int(math.Floor(float64(g.baseline - o.maxY*r.factor)))
	right := int(math.Ceil(float64(g.x + o.maxX*r.factor)))
	bottom := int(math.Ceil(float64(g.baseline - o.minY*r.factor)))
	w, h := right-left, bottom-top
	if w <= 0 || h <= 0 {
		return
	}
	ras := vector.NewRasterizer(w, h)
	tx := func(p font.SegmentPoint) (float32, float32) {
		return g.x + p.X*r.factor - float32(left),
			g.baseline - p.Y*r.factor - float32(top)
	}
	started := false
	for _, seg := range o.segments {
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if started {
				ras.ClosePath()
			}
			started = true
			x, y := tx(seg.Args[0])
			ras.MoveTo(x, y)
		case ot.SegmentOpLineTo:
			x, y := tx(seg.Args[0])
			ras.LineTo(x, y)
		case ot.SegmentOpQuadTo:
			cx, cy := tx(seg.Args[0])
			x, y := tx(seg.Args[1])
			ras.QuadTo(cx, cy, x, y)
		case ot.SegmentOpCubeTo:
			c1x, c1y := tx(seg.Args[0])
			c2x, c2y := tx(seg.Args[1])
			x, y := tx(seg.Args[2])
			ras.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if started {
		ras.ClosePath()
	}
	patch := image.NewAlpha(image.Rect(0, 0, w, h))
	ras.Draw(patch, patch.Bounds(), image.Opaque, image.Point{})
	bounds := canvas.Bounds()
	for py := 0; py < h; py++ {
		cy := top + py
		if cy < bounds.Min.Y || cy >= bounds.Max.Y {
			continue
		}
		for px := 0; px < w; px++ {
			cx := left + px
			if cx < bounds.Min.X || cx >= bounds.Max.X {
				continue
			}
			if patch.AlphaAt(px, py).A < 128 {
				continue
			}
			// Half coverage or more contributes full intensity, so the
			// saturating blend collapses to an assignment.
			canvas.Pix[canvas.PixOffset(cx, cy)] = 255
		}
	}
}
