package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func loadTestdataFont(t *testing.T, pattern string) *fontload.Font {
	t.Helper()
	fname := fmt.Sprintf("../testdata/fonts/%s.ttf", pattern)
	f, err := fontload.LoadOpenTypeFont(fname)
	if err != nil {
		t.Skipf("testdata font %s not available: %v", pattern, err)
	}
	t.Logf("loaded font = %s", f.Fontname)
	return f
}

func TestNewRendererRejectsZeroSize(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	f := loadTestdataFont(t, "Go-Regular")
	if _, err := NewRenderer(f, 0, di.DirectionLTR, 0); err == nil {
		t.Errorf("expected zero point size to be rejected")
	}
}

func TestRenderStringTrace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	f := loadTestdataFont(t, "Go-Regular")
	r, err := NewRenderer(f, 40, di.DirectionLTR, 0)
	if err != nil {
		t.Fatalf("cannot build renderer: %v", err)
	}
	trace, img, ok := r.RenderString("AB")
	if !ok {
		t.Fatalf("font cannot render plain 'AB'")
	}
	tokens := strings.Split(trace, "|")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 trace tokens, have %d: %q", len(tokens), trace)
	}
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "gid=") || !strings.Contains(tok, ",position=") {
			t.Errorf("malformed trace token %q", tok)
		}
	}
	if img.Bounds().Dy() != 48 {
		t.Errorf("canvas height = %d, want 48 (1.2 x 40pt)", img.Bounds().Dy())
	}
	var lit bool
	for _, p := range img.Pix {
		if p != 0 {
			lit = true
			break
		}
	}
	if !lit {
		t.Errorf("rendered bitmap is entirely blank")
	}
}

func TestRenderStringUncoveredRune(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	f := loadTestdataFont(t, "Go-Regular")
	r, err := NewRenderer(f, 40, di.DirectionLTR, 0)
	if err != nil {
		t.Fatalf("cannot build renderer: %v", err)
	}
	// The Go fonts carry no Thai coverage; a string containing an
	// uncovered rune must be refused outright, never partially rendered.
	if f.SupportsRune('ก') {
		t.Fatalf("fixture unexpectedly covers U+0E01")
	}
	if _, _, ok := r.RenderString("AกB"); ok {
		t.Errorf("string with uncovered rune rendered instead of refused")
	}
}

func TestCanvasWidthCoversProtrudingGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	// The last glyph's outline reaches past the pen position, as happens
	// with a shaping x-offset or a right side bearing. The canvas must
	// cover it, or the glyph gets clipped and scores blank.
	r := &Renderer{
		factor: 1,
		outlines: map[font.GID]*outline{
			7: {maxX: 30},
			8: nil,
		},
	}
	if w := r.canvasWidth(20, []positioned{{gid: 7, x: 5}}); w != 35 {
		t.Errorf("expected width 35 for protruding outline, have %d", w)
	}
	// Without an outline the pen position bounds the canvas.
	if w := r.canvasWidth(20, []positioned{{gid: 8, x: 5}}); w != 20 {
		t.Errorf("expected cursor width 20 for outline-less glyph, have %d", w)
	}
}

func TestRenderStringDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	f := loadTestdataFont(t, "Go-Regular")
	r1, _ := NewRenderer(f, 40, di.DirectionLTR, 0)
	r2, _ := NewRenderer(f, 40, di.DirectionLTR, 0)
	t1, img1, ok1 := r1.RenderString("Hamburgefonstiv")
	t2, img2, ok2 := r2.RenderString("Hamburgefonstiv")
	if ok1 != ok2 || t1 != t2 {
		t.Fatalf("two renderers disagree on the same probe")
	}
	if ok1 && BitmapPercent(img1, img2) != 0 {
		t.Errorf("same probe renders differently across pipeline instances")
	}
}

func TestGlyphDiffSelfIsEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	f := loadTestdataFont(t, "Go-Regular")
	diff, err := GlyphDiff(f, f, DefaultOptions())
	if err != nil {
		t.Fatalf("glyph diff failed: %v", err)
	}
	if diff.IsSomething() {
		t.Errorf("comparing a font against itself reports glyph differences: %s", diff)
	}
}

func TestWordDiffSelfIsEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	f := loadTestdataFont(t, "Go-Regular")
	diff, err := WordDiff(f, f, DefaultOptions())
	if err != nil {
		t.Fatalf("word diff failed: %v", err)
	}
	if diff.IsSomething() {
		t.Errorf("comparing a font against itself reports word differences: %s", diff)
	}
}
