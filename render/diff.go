package render

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/fontdiff/vtree"
	"github.com/npillmayer/fontdiff/wordlists"
	"golang.org/x/text/unicode/runenames"
)

// Options configure the comparison drivers.
type Options struct {
	PointSize float32 // probe rendering size
	Jobs      int     // worker count, ≤0 means GOMAXPROCS
}

// DefaultOptions renders probes at 40pt with one worker per CPU.
func DefaultOptions() Options {
	return Options{PointSize: 40, Jobs: runtime.GOMAXPROCS(0)}
}

func (opts Options) jobs(n int) int {
	j := opts.Jobs
	if j <= 0 {
		j = runtime.GOMAXPROCS(0)
	}
	if j > n {
		j = n
	}
	if j < 1 {
		j = 1
	}
	return j
}

// probe classification, per rendered pair.
const (
	probeSkip = iota
	probeMissing
	probeNew
	probeModified
)

// classify renders the same probe with both renderers and scores the
// pair. A probe only one font can render is missing or new at 100%.
// A probe neither can render, or that renders identically, yields no
// entry.
func classify(ra, rb *Renderer, probe string) (int, float64) {
	_, imgA, okA := ra.RenderString(probe)
	_, imgB, okB := rb.RenderString(probe)
	return classifyRendered(imgA, okA, imgB, okB)
}

func classifyRendered(imgA *image.Gray, okA bool, imgB *image.Gray, okB bool) (int, float64) {
	switch {
	case !okA && !okB:
		return probeSkip, 0
	case okA && !okB:
		return probeMissing, 100
	case !okA && okB:
		return probeNew, 100
	}
	percent := roundPercent(BitmapPercent(imgA, imgB))
	if percent == 0 {
		return probeSkip, 0
	}
	return probeModified, percent
}

// roundPercent stabilizes scores for display and diffing.
func roundPercent(p float64) float64 {
	return math.Round(p*1000) / 1000
}

// GlyphDiff compares the two fonts glyph by glyph over the sorted union
// of their character maps, rendering each codepoint as a single-rune
// probe. The result groups entries into missing, new and modified
// arrays in codepoint order; each entry carries the rune, its U+XXXX
// notation, its Unicode name and a percent score.
func GlyphDiff(a, b *fontload.Font, opts Options) (vtree.Value, error) {
	probes := codepointUnion(a, b)
	results := make([]int, len(probes))
	percents := make([]float64, len(probes))
	err := fanOut(a, b, opts, di.DirectionLTR, 0, len(probes), func(ra, rb *Renderer, i int) {
		results[i], percents[i] = classify(ra, rb, string(probes[i]))
	})
	if err != nil {
		return vtree.Null(), err
	}
	var missing, newGlyphs, modified []vtree.Value
	for i, r := range probes {
		entry := vtree.NewObj().
			Set("string", vtree.String(string(r))).
			Set("unicode", vtree.String(fmt.Sprintf("U+%04X", r))).
			Set("name", vtree.String(runenames.Name(r))).
			Set("percent", vtree.Number(percents[i])).
			Value()
		switch results[i] {
		case probeMissing:
			missing = append(missing, entry)
		case probeNew:
			newGlyphs = append(newGlyphs, entry)
		case probeModified:
			modified = append(modified, entry)
		}
	}
	out := vtree.NewObj()
	if len(missing) > 0 {
		out.Set("missing", vtree.Array(missing...))
	}
	if len(newGlyphs) > 0 {
		out.Set("new", vtree.Array(newGlyphs...))
	}
	if len(modified) > 0 {
		out.Set("modified", vtree.Array(modified...))
	}
	return out.Value(), nil
}

// WordDiff compares word renderings per script. Scripts are the sorted
// union of both fonts' script support, restricted to scripts with a
// shipped corpus; each corpus word is shaped with the script's
// direction and ISO 15924 tag. Word-list order is preserved within a
// script.
func WordDiff(a, b *fontload.Font, opts Options) (vtree.Value, error) {
	scriptsA := a.SupportedScripts()
	scriptsB := b.SupportedScripts()
	var scripts []string
	for _, name := range wordlists.Scripts() {
		if scriptsA[name] || scriptsB[name] {
			scripts = append(scripts, name)
		}
	}
	out := vtree.NewObj()
	for _, script := range scripts {
		words := wordlists.Get(script)
		if len(words) == 0 {
			continue
		}
		dir := wordlists.Direction(script)
		tag, _ := wordlists.ScriptTag(script)
		results := make([]int, len(words))
		percents := make([]float64, len(words))
		err := fanOut(a, b, opts, dir, tag, len(words), func(ra, rb *Renderer, i int) {
			results[i], percents[i] = classify(ra, rb, words[i])
		})
		if err != nil {
			return vtree.Null(), err
		}
		var entries []vtree.Value
		for i, word := range words {
			if results[i] == probeSkip {
				continue
			}
			entries = append(entries, vtree.NewObj().
				Set("word", vtree.String(word)).
				Set("percent", vtree.Number(percents[i])).
				Value())
		}
		if len(entries) > 0 {
			out.Set(script, vtree.Array(entries...))
		}
	}
	return out.Value(), nil
}

func codepointUnion(a, b *fontload.Font) []rune {
	seen := make(map[rune]struct{})
	var union []rune
	for _, r := range a.Codepoints() {
		seen[r] = struct{}{}
		union = append(union, r)
	}
	for _, r := range b.Codepoints() {
		if _, ok := seen[r]; !ok {
			union = append(union, r)
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i] < union[j] })
	return union
}

// fanOut runs fn over the index range [0,n) on a bounded worker pool.
// Each worker owns one Renderer pair, so outline caches and shaping
// faces are never shared. Result order is the caller's to impose via
// the index.
func fanOut(a, b *fontload.Font, opts Options, dir di.Direction,
	script language.Script, n int, fn func(ra, rb *Renderer, i int)) error {

	if n == 0 {
		return nil
	}
	// Probe renderer construction once, so a bad point size fails the
	// driver instead of panicking workers.
	if _, err := NewRenderer(a, opts.PointSize, dir, script); err != nil {
		return err
	}
	if _, err := NewRenderer(b, opts.PointSize, dir, script); err != nil {
		return err
	}
	jobs := opts.jobs(n)
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ra, _ := NewRenderer(a, opts.PointSize, dir, script)
			rb, _ := NewRenderer(b, opts.PointSize, dir, script)
			for i := range indices {
				fn(ra, rb, i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return nil
}
