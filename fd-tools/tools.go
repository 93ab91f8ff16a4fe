/*
fd-tools is a command line interface to font comparison and dumping.

	fd-tools diff old.ttf new.ttf --location wght=600
	fd-tools dump myfont.ttf
	fd-tools render myfont.ttf Hamburgefonstiv --output probe.png

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/fontdiff"
	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/fontdiff/otdump"
	"github.com/npillmayer/fontdiff/render"
	"github.com/npillmayer/fontdiff/report"
	"github.com/npillmayer/fontdiff/vtree"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("fd-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for comparing two versions of an OpenType font.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("diff").
		SetDescription("Compare two font files and report the differences.").
		SetShortDescription("compare two fonts").
		AddArgument("font1", "the first font file (old)", "").
		AddArgument("font2", "the second font file (new)", "").
		AddFlag("location,L", "design-space location (e.g. wght=600,ital=1)", commando.String, "-").
		AddFlag("instance,I", "named instance to pin both fonts to", commando.String, "-").
		AddFlag("no-tables", "skip comparing decoded font tables", commando.Bool, nil).
		AddFlag("no-glyphs", "skip comparing glyph renderings", commando.Bool, nil).
		AddFlag("no-words", "skip comparing word renderings", commando.Bool, nil).
		AddFlag("no-succinct", "spell out one-sided table entries in full", commando.Bool, nil).
		AddFlag("json,j", "write the diff as pretty-printed JSON", commando.Bool, nil).
		AddFlag("html,H", "write an HTML report instead of terminal output", commando.Bool, nil).
		AddFlag("output,o", "output directory for the HTML report", commando.String, "out").
		AddFlag("templates,t", "directory with user HTML templates", commando.String, "-").
		AddFlag("point-size,p", "render size in points for glyph and word probes", commando.Int, 40).
		AddFlag("jobs,J", "number of render workers (0 uses all CPUs)", commando.Int, 0).
		SetAction(runDiffCommand)

	commando.
		Register("dump").
		SetDescription("Decode the tables of a font file and print them as JSON.").
		SetShortDescription("dump font tables").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("location,L", "design-space location (e.g. wght=600,ital=1)", commando.String, "-").
		SetAction(runDumpCommand)

	commando.
		Register("render").
		SetDescription("Render a probe string with a font and write it to a PNG image.").
		SetShortDescription("render a probe").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("text...", "text to render (variadic argument parts joined by comma by commando)", "").
		AddFlag("script,s", "script (ISO 15924, e.g. Latn, Arab, Hebr)", commando.String, "-").
		AddFlag("direction,d", "direction: ltr|rtl", commando.String, "ltr").
		AddFlag("location,L", "design-space location (e.g. wght=600,ital=1)", commando.String, "-").
		AddFlag("point-size,p", "render size in points", commando.Int, 40).
		AddFlag("output,o", "output PNG file", commando.String, "fd-tools-render.png").
		SetAction(runRenderCommand)

	commando.Parse(nil)
}

func runDiffCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	path1 := strings.TrimSpace(args["font1"].Value)
	path2 := strings.TrimSpace(args["font2"].Value)
	if path1 == "" || path2 == "" {
		fatalf("two font paths are required")
	}
	fontA := mustLoadFont(path1)
	fontB := mustLoadFont(path2)

	opts := fontdiff.DefaultOptions()
	opts.Tables = !mustFlagBool(flags["no-tables"], "no-tables")
	opts.Glyphs = !mustFlagBool(flags["no-glyphs"], "no-glyphs")
	opts.Words = !mustFlagBool(flags["no-words"], "no-words")
	opts.Location = optionalFlagString(flags["location"], "location")
	opts.Instance = optionalFlagString(flags["instance"], "instance")
	opts.PointSize = float32(mustFlagInt(flags["point-size"], "point-size"))
	opts.Jobs = mustFlagInt(flags["jobs"], "jobs")

	diff, err := fontdiff.Compare(fontA, fontB, opts)
	if err != nil {
		fatalf("%v", err)
	}

	if mustFlagBool(flags["html"], "html") {
		outDir := mustFlagString(flags["output"], "output")
		tmplDir := optionalFlagString(flags["templates"], "templates")
		writeHTMLReport(diff, fontA, path1, fontB, path2, outDir, tmplDir)
		return
	}
	if mustFlagBool(flags["json"], "json") {
		out, err := diff.MarshalIndent()
		if err != nil {
			fatalf("cannot serialize diff: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	succinct := !mustFlagBool(flags["no-succinct"], "no-succinct")
	report.Terminal(os.Stdout, diff, succinct)
}

// writeHTMLReport materializes a self-contained report directory: both
// fonts are copied next to the page so the @font-face rules can load
// them with relative URLs.
func writeHTMLReport(diff vtree.Value, fontA *fontload.Font, path1 string,
	fontB *fontload.Font, path2 string, outDir, tmplDir string) {
	//
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fatalf("cannot create output directory %s: %v", outDir, err)
	}
	oldName := "old-" + filepath.Base(path1)
	newName := "new-" + filepath.Base(path2)
	if err := copyFile(path1, filepath.Join(outDir, oldName)); err != nil {
		fatalf("cannot copy old font: %v", err)
	}
	if err := copyFile(path2, filepath.Join(outDir, newName)); err != nil {
		fatalf("cannot copy new font: %v", err)
	}
	html, err := report.HTML(diff,
		report.FontMeta{Font: fontA, Filename: oldName, Suffix: "old"},
		report.FontMeta{Font: fontB, Filename: newName, Suffix: "new"},
		report.TemplateConfig{Dir: tmplDir},
	)
	if err != nil {
		fatalf("cannot render HTML report: %v", err)
	}
	outFile := filepath.Join(outDir, "diffenator.html")
	if err := os.WriteFile(outFile, []byte(html), 0o644); err != nil {
		fatalf("cannot write %s: %v", outFile, err)
	}
	fmt.Printf("Writing output to %s\n", outFile)
}

func runDumpCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	f := mustLoadFont(fontPath)
	if loc := optionalFlagString(flags["location"], "location"); loc != "" {
		if err := f.SetLocation(loc); err != nil {
			fatalf("%v", err)
		}
	}
	tables := otdump.DecodeTables(f)
	out, err := tables.MarshalIndent()
	if err != nil {
		fatalf("cannot serialize table tree: %v", err)
	}
	fmt.Println(string(out))
}

func runRenderCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	text := strings.ReplaceAll(args["text"].Value, ",", " ")
	if strings.TrimSpace(text) == "" {
		fatalf("text to render is required")
	}
	f := mustLoadFont(fontPath)
	if loc := optionalFlagString(flags["location"], "location"); loc != "" {
		if err := f.SetLocation(loc); err != nil {
			fatalf("%v", err)
		}
	}
	size := float32(mustFlagInt(flags["point-size"], "point-size"))
	dir := mustDirection(flags["direction"])
	script := mustScript(flags["script"])

	renderer, err := render.NewRenderer(f, size, dir, script)
	if err != nil {
		fatalf("%v", err)
	}
	trace, img, ok := renderer.RenderString(text)
	if !ok {
		fatalf("font %s cannot render %q", fontPath, text)
	}
	fmt.Println(trace)

	outPath := mustFlagString(flags["output"], "output")
	file, err := os.Create(outPath)
	if err != nil {
		fatalf("cannot create %s: %v", outPath, err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		fatalf("cannot encode PNG: %v", err)
	}
	fmt.Printf("Wrote %dx%d image to %s\n", img.Bounds().Dx(), img.Bounds().Dy(), outPath)
}

// --- Helpers ----------------------------------------------------------

func mustLoadFont(path string) *fontload.Font {
	f, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		fatalf("%v", err)
	}
	return f
}

func mustDirection(flag commando.FlagValue) di.Direction {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --direction flag: %v", err)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr":
		return di.DirectionLTR
	case "rtl":
		return di.DirectionRTL
	}
	fatalf("invalid direction %q, expected ltr|rtl", s)
	return di.DirectionLTR
}

// mustScript parses an ISO 15924 script tag. The placeholder "-" leaves
// the script unset so the renderer detects it from the text.
func mustScript(flag commando.FlagValue) language.Script {
	s := optionalFlagString(flag, "script")
	if s == "" {
		var unset language.Script
		return unset
	}
	scr, err := language.ParseScript(s)
	if err != nil {
		fatalf("invalid script %q: %v", s, err)
	}
	return scr
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func mustFlagString(flag commando.FlagValue, name string) string {
	s, err := flag.GetString()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return strings.TrimSpace(s)
}

// optionalFlagString treats the placeholder default "-" as unset.
func optionalFlagString(flag commando.FlagValue, name string) string {
	s := mustFlagString(flag, name)
	if s == "-" {
		return ""
	}
	return s
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "fd-tools: "+format+"\n", args...)
	os.Exit(1)
}
