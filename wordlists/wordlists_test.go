package wordlists

import (
	"testing"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

func TestEveryCorpusDecompresses(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.wordlists")
	defer teardown()
	for _, script := range Scripts() {
		words := Get(script)
		if len(words) == 0 {
			t.Errorf("corpus for %s is empty", script)
		}
		for _, w := range words {
			if w == "" {
				t.Errorf("corpus for %s carries an empty word", script)
			}
		}
	}
}

func TestCorpusMatchesScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.wordlists")
	defer teardown()
	// Spot-check that Hebrew words are made of Hebrew letters.
	for _, w := range Get("Hebrew") {
		for _, r := range w {
			if !unicode.Is(unicode.Hebrew, r) {
				t.Fatalf("corpus word %q carries non-Hebrew rune %q", w, r)
			}
		}
	}
}

func TestGetUnknownScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.wordlists")
	defer teardown()
	if words := Get("Klingon"); words != nil {
		t.Errorf("expected nil corpus for unknown script, got %d words", len(words))
	}
	if _, ok := ScriptTag("Klingon"); ok {
		t.Errorf("expected no script tag for unknown script")
	}
}

// --- Script metadata test suite --------------------------------------------

type ScriptMetaEnviron struct {
	suite.Suite
}

// listen for 'go test' command --> run test methods
func TestScriptMetadata(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.wordlists")
	defer teardown()
	suite.Run(t, new(ScriptMetaEnviron))
}

func (env *ScriptMetaEnviron) TestScriptTags() {
	tags := []struct {
		script string
		tag    string
	}{
		{"Arabic", "Arab"},
		{"Common", "Zyyy"},
		{"Cyrillic", "Cyrl"},
		{"Devanagari", "Deva"},
		{"Hebrew", "Hebr"},
		{"Latin", "Latn"},
		{"Tamil", "Taml"},
		{"Thai", "Thai"},
	}
	for _, pair := range tags {
		tag, ok := ScriptTag(pair.script)
		env.True(ok, "expected a tag for script %s", pair.script)
		env.Equal(pair.tag, tag.String(), "expected tag match for %s", pair.script)
	}
	for _, script := range Scripts() {
		_, ok := ScriptTag(script)
		env.True(ok, "script %s has a corpus but no tag", script)
	}
}

func (env *ScriptMetaEnviron) TestDirection() {
	dirs := []struct {
		script string
		dir    di.Direction
	}{
		{"Arabic", di.DirectionRTL},
		{"Avestan", di.DirectionRTL},
		{"Hebrew", di.DirectionRTL},
		{"Syriac", di.DirectionRTL},
		{"Thaana", di.DirectionRTL},
		{"Common", di.DirectionLTR},
		{"Greek", di.DirectionLTR},
		{"Latin", di.DirectionLTR},
	}
	for _, pair := range dirs {
		env.Equal(pair.dir, Direction(pair.script), "direction mismatch for %s", pair.script)
	}
}
