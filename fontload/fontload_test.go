package fontload

import (
	"fmt"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseLocation(t *testing.T) {
	coords, err := ParseLocation("wght=600, ital=1")
	if err != nil {
		t.Fatalf("cannot parse location: %v", err)
	}
	if len(coords) != 2 {
		t.Fatalf("expected 2 coords, have %d", len(coords))
	}
	if coords[0].Tag != "wght" || coords[0].Value != 600 {
		t.Errorf("expected wght=600, have %s=%v", coords[0].Tag, coords[0].Value)
	}
	if coords[1].Tag != "ital" || coords[1].Value != 1 {
		t.Errorf("expected ital=1, have %s=%v", coords[1].Tag, coords[1].Value)
	}
}

func TestParseLocationPadsShortTags(t *testing.T) {
	coords, err := ParseLocation("wd=80")
	if err != nil {
		t.Fatalf("cannot parse location: %v", err)
	}
	if coords[0].Tag != "wd  " {
		t.Errorf("expected tag padded to 4 chars, have %q", coords[0].Tag)
	}
}

func TestParseLocationErrors(t *testing.T) {
	malformed := []string{"", "wght", "wght=abc", "toolong=1", "=400"}
	for _, loc := range malformed {
		if _, err := ParseLocation(loc); err == nil {
			t.Errorf("expected location %q to be rejected", loc)
		}
	}
}

// ---------------------------------------------------------------------------

func loadTestdataFont(t *testing.T, pattern string) *Font {
	t.Helper()
	fname := fmt.Sprintf("../testdata/fonts/%s.ttf", pattern)
	f, err := LoadOpenTypeFont(fname)
	if err != nil {
		t.Skipf("testdata font %s not available: %v", pattern, err)
	}
	t.Logf("loaded font = %s", f.Fontname)
	return f
}

func TestLoadFontCodepoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.fontload")
	defer teardown()
	//
	f := loadTestdataFont(t, "Go-Regular")
	cps := f.Codepoints()
	if len(cps) == 0 {
		t.Fatalf("expected font to map codepoints")
	}
	for i := 1; i < len(cps); i++ {
		if cps[i-1] >= cps[i] {
			t.Fatalf("expected codepoints sorted and unique, have %U before %U", cps[i-1], cps[i])
		}
	}
	if f.SupportsRune('￾') {
		t.Errorf("expected noncharacter U+FFFE to be unmapped")
	}
	if !f.SupportsRune('A') {
		t.Errorf("expected font to support 'A'")
	}
	if !f.SupportedScripts()["Latin"] {
		t.Errorf("expected font to support the Latin script")
	}
}
