/*
Package wordlists ships per-script word corpora for rendering
comparisons. Each corpus is a gzip-compressed word-per-line text file,
embedded in the binary and decompressed lazily on first use.

Scripts are addressed by their Unicode script name ("Latin", "Arabic").

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package wordlists

import (
	"embed"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/klauspost/compress/gzip"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontdiff.wordlists'
func tracer() tracing.Trace {
	return tracing.Select("fontdiff.wordlists")
}

//go:embed data/*.txt.gz
var corpora embed.FS

// scriptTags maps Unicode script names of shipped corpora to their
// ISO 15924 tag.
var scriptTags = map[string]string{
	"Arabic":     "Arab",
	"Armenian":   "Armn",
	"Bengali":    "Beng",
	"Common":     "Zyyy",
	"Cyrillic":   "Cyrl",
	"Devanagari": "Deva",
	"Georgian":   "Geor",
	"Greek":      "Grek",
	"Hebrew":     "Hebr",
	"Latin":      "Latn",
	"Tamil":      "Taml",
	"Thai":       "Thai",
}

var rtlScripts = map[string]bool{
	"Arabic":  true,
	"Avestan": true,
	"Hebrew":  true,
	"Syriac":  true,
	"Thaana":  true,
}

var (
	loadMx sync.Mutex
	loaded map[string][]string
)

// Scripts lists the script names with a shipped corpus, sorted.
func Scripts() []string {
	names := make([]string, 0, len(scriptTags))
	for name := range scriptTags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the word corpus for a script, or nil if none is shipped.
// The returned slice is shared; callers must not modify it.
func Get(script string) []string {
	loadMx.Lock()
	defer loadMx.Unlock()
	if words, ok := loaded[script]; ok {
		return words
	}
	if _, ok := scriptTags[script]; !ok {
		return nil
	}
	words, err := decompress(script)
	if err != nil {
		tracer().Errorf("corpus for script %s unreadable: %v", script, err)
		return nil
	}
	if loaded == nil {
		loaded = make(map[string][]string)
	}
	loaded[script] = words
	return words
}

func decompress(script string) ([]string, error) {
	f, err := corpora.Open("data/" + script + ".txt.gz")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}
	var words []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			words = append(words, line)
		}
	}
	return words, nil
}

// ScriptTag returns the ISO 15924 script identifier for a shipped
// corpus, and false for scripts without one.
func ScriptTag(script string) (language.Script, bool) {
	tag, ok := scriptTags[script]
	if !ok {
		return 0, false
	}
	scr, err := language.ParseScript(tag)
	if err != nil {
		return 0, false
	}
	return scr, true
}

// Direction returns the dominant text direction of a script.
func Direction(script string) di.Direction {
	if rtlScripts[script] {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}
