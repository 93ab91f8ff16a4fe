/*
Package report renders a font comparison tree for people: a colored
terminal view and a self-contained HTML page. Both consume the value
tree produced by fontdiff.Compare and nothing else.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/fontdiff/vtree"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
)

// tracer writes to trace with key 'fontdiff.report'
func tracer() tracing.Trace {
	return tracing.Select("fontdiff.report")
}

var (
	lhsStyle    = pterm.NewStyle(pterm.FgGreen)
	rhsStyle    = pterm.NewStyle(pterm.FgRed)
	absentStyle = pterm.NewStyle(pterm.Italic)
	errorStyle  = pterm.NewStyle(pterm.FgRed)
)

// Terminal writes a colored plain-text rendering of a comparison tree.
// In succinct mode a value that is present on one side and null or
// empty on the other is reported as absent instead of being dumped.
func Terminal(w io.Writer, diff vtree.Value, succinct bool) {
	obj := diff.AsObj()
	if obj == nil {
		fmt.Fprintln(w, "(no differences)")
		return
	}
	if tables, ok := obj.Get("tables"); ok {
		writeTables(w, tables, succinct)
	}
	if glyphs, ok := obj.Get("glyphs"); ok {
		writeGlyphs(w, glyphs)
	}
	if words, ok := obj.Get("words"); ok {
		writeWords(w, words)
	}
}

func writeTables(w io.Writer, tables vtree.Value, succinct bool) {
	obj := tables.AsObj()
	if obj == nil {
		return
	}
	for _, tag := range obj.Keys() {
		diff, _ := obj.Get(tag)
		if !diff.IsSomething() {
			continue
		}
		fmt.Fprintf(w, "\n# %s\n", tag)
		switch diff.Kind() {
		case vtree.KindArray:
			pair := diff.AsArray()
			left, right := pair[0], pair[1]
			switch {
			case succinct && left.IsSomething() && !right.IsSomething():
				fmt.Fprintln(w, "Table was present in LHS but absent in RHS")
			case succinct && right.IsSomething() && !left.IsSomething():
				fmt.Fprintln(w, "Table was present in RHS but absent in LHS")
			default:
				fmt.Fprintf(w, "LHS had: %s\n", left)
				fmt.Fprintf(w, "RHS had: %s\n", right)
			}
		case vtree.KindObject:
			writeFieldDiffs(w, diff.AsObj(), 0, succinct)
		default:
			tracer().Errorf("unexpected diff shape for table %s: %s", tag, diff)
			fmt.Fprintf(w, "Unexpected diff format: %s\n", diff)
		}
	}
}

func writeFieldDiffs(w io.Writer, fields *vtree.Obj, indent int, succinct bool) {
	for _, field := range fields.Keys() {
		diff, _ := fields.Get(field)
		fmt.Fprint(w, strings.Repeat("  ", indent))
		if field == "error" && diff.Kind() == vtree.KindString {
			fmt.Fprintln(w, errorStyle.Sprint(diff.AsString()))
			continue
		}
		switch diff.Kind() {
		case vtree.KindArray:
			pair := diff.AsArray()
			left, right := pair[0], pair[1]
			switch {
			case succinct && left.IsSomething() && !right.IsSomething():
				fmt.Fprintf(w, "%s: %s => %s\n", field,
					lhsStyle.Sprint(left), absentStyle.Sprint("<absent>"))
			case succinct && right.IsSomething() && !left.IsSomething():
				fmt.Fprintf(w, "%s: %s => %s\n", field,
					absentStyle.Sprint("<absent>"), rhsStyle.Sprint(right))
			default:
				fmt.Fprintf(w, "%s: %s => %s\n", field,
					lhsStyle.Sprint(left), rhsStyle.Sprint(right))
			}
		case vtree.KindObject:
			fmt.Fprintf(w, "%s:\n", field)
			writeFieldDiffs(w, diff.AsObj(), indent+1, succinct)
		}
	}
}

func writeGlyphs(w io.Writer, glyphs vtree.Value) {
	obj := glyphs.AsObj()
	if obj == nil {
		return
	}
	fmt.Fprintln(w, "\n# Glyphs")
	sections := []struct{ key, title string }{
		{"missing", "Missing glyphs:"},
		{"new", "New glyphs:"},
		{"modified", "Modified glyphs:"},
	}
	for _, section := range sections {
		entries, ok := obj.Get(section.key)
		if !ok || !entries.IsSomething() {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", section.title)
		for _, entry := range entries.AsArray() {
			e := entry.AsObj()
			str, _ := e.Get("string")
			uni, _ := e.Get("unicode")
			name, _ := e.Get("name")
			percent, _ := e.Get("percent")
			fmt.Fprintf(w, "  - %s (%s: %s) %.3f%%\n",
				str.AsString(), uni.AsString(), name.AsString(), percent.AsNumber())
		}
	}
}

func writeWords(w io.Writer, words vtree.Value) {
	obj := words.AsObj()
	if obj == nil {
		return
	}
	fmt.Fprintln(w, "\n# Words")
	for _, script := range obj.Keys() {
		entries, _ := obj.Get(script)
		if !entries.IsSomething() {
			continue
		}
		fmt.Fprintf(w, "\n## %s\n", script)
		for _, entry := range entries.AsArray() {
			e := entry.AsObj()
			word, _ := e.Get("word")
			percent, _ := e.Get("percent")
			fmt.Fprintf(w, "  - %s (%.3f%%)\n", word.AsString(), percent.AsNumber())
		}
	}
}
