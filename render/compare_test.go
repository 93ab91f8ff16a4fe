package render

import (
	"image"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func grayImage(w, h int, lit ...image.Point) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for _, p := range lit {
		img.Pix[img.PixOffset(p.X, p.Y)] = 255
	}
	return img
}

func TestBitmapPercentIdentical(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	a := grayImage(10, 10, image.Pt(1, 1), image.Pt(5, 5))
	b := grayImage(10, 10, image.Pt(1, 1), image.Pt(5, 5))
	if p := BitmapPercent(a, b); p != 0 {
		t.Errorf("identical bitmaps score %v, want 0", p)
	}
}

func TestBitmapPercentCountsPixels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	a := grayImage(10, 10, image.Pt(0, 0))
	b := grayImage(10, 10, image.Pt(9, 9))
	if p := BitmapPercent(a, b); p != 2 {
		t.Errorf("two differing pixels of 100 score %v, want 2", p)
	}
}

func TestBitmapPercentSymmetric(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	a := grayImage(10, 8, image.Pt(2, 2), image.Pt(3, 3))
	b := grayImage(7, 11, image.Pt(2, 2))
	if pab, pba := BitmapPercent(a, b), BitmapPercent(b, a); pab != pba {
		t.Errorf("score is asymmetric: %v vs %v", pab, pba)
	}
}

func TestBitmapPercentPenalizesSizeChange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	// 10x10 vs 10x12: overlap is clean, the extra 20 pixels out of the
	// 120-pixel union all count as differing.
	a := grayImage(10, 10)
	b := grayImage(10, 12)
	want := 20.0 / 120.0 * 100
	if p := BitmapPercent(a, b); p != want {
		t.Errorf("size change scores %v, want %v", p, want)
	}
}

func TestBitmapPercentEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	a := image.NewGray(image.Rect(0, 0, 0, 0))
	b := image.NewGray(image.Rect(0, 0, 0, 0))
	if p := BitmapPercent(a, b); p != 0 {
		t.Errorf("empty bitmaps score %v, want 0", p)
	}
}

func TestClassifyRendered(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	img := grayImage(4, 4, image.Pt(1, 1))
	same := grayImage(4, 4, image.Pt(1, 1))
	changed := grayImage(4, 4, image.Pt(2, 2))

	if cat, _ := classifyRendered(nil, false, nil, false); cat != probeSkip {
		t.Errorf("unrenderable on both sides should yield no entry")
	}
	if cat, p := classifyRendered(img, true, nil, false); cat != probeMissing || p != 100 {
		t.Errorf("render only on the left should classify missing at 100%%, got %d/%v", cat, p)
	}
	if cat, p := classifyRendered(nil, false, img, true); cat != probeNew || p != 100 {
		t.Errorf("render only on the right should classify new at 100%%, got %d/%v", cat, p)
	}
	if cat, _ := classifyRendered(img, true, same, true); cat != probeSkip {
		t.Errorf("identical renders should yield no entry")
	}
	cat, p := classifyRendered(img, true, changed, true)
	if cat != probeModified || p <= 0 {
		t.Errorf("differing renders should classify modified, got %d/%v", cat, p)
	}
}

func TestRoundPercent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.render")
	defer teardown()
	if got := roundPercent(33.333333); got != 33.333 {
		t.Errorf("roundPercent = %v, want 33.333", got)
	}
	if got := roundPercent(100); got != 100 {
		t.Errorf("roundPercent = %v, want 100", got)
	}
}
