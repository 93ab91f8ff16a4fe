package report

import (
	"strings"
	"testing"

	"github.com/npillmayer/fontdiff/vtree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pterm/pterm"
)

func pair(l, r vtree.Value) vtree.Value {
	return vtree.Array(l, r)
}

func sampleDiff() vtree.Value {
	head := vtree.NewObj().
		Set("unitsPerEm", pair(vtree.Int(1000), vtree.Int(2000))).
		Set("macStyle", pair(vtree.Int(0), vtree.Null()))
	tables := vtree.NewObj().Set("head", head.Value())
	glyphs := vtree.NewObj().
		Set("missing", vtree.Array(vtree.NewObj().
			Set("string", vtree.String("A")).
			Set("unicode", vtree.String("U+0041")).
			Set("name", vtree.String("LATIN CAPITAL LETTER A")).
			Set("percent", vtree.Number(100)).
			Value()))
	words := vtree.NewObj().
		Set("Latin", vtree.Array(vtree.NewObj().
			Set("word", vtree.String("Hamburgefonstiv")).
			Set("percent", vtree.Number(3.25)).
			Value()))
	return vtree.NewObj().
		Set("tables", tables.Value()).
		Set("glyphs", glyphs.Value()).
		Set("words", words.Value()).
		Value()
}

func TestTerminalReport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.report")
	defer teardown()
	pterm.DisableColor()
	defer pterm.EnableColor()
	var sb strings.Builder
	Terminal(&sb, sampleDiff(), false)
	out := sb.String()
	for _, want := range []string{
		"# head",
		"unitsPerEm: 1000 => 2000",
		"macStyle: 0 => null",
		"# Glyphs",
		"Missing glyphs:",
		"- A (U+0041: LATIN CAPITAL LETTER A) 100.000%",
		"# Words",
		"## Latin",
		"- Hamburgefonstiv (3.250%)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal report lacks %q\n%s", want, out)
		}
	}
}

func TestTerminalReportSuccinct(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.report")
	defer teardown()
	pterm.DisableColor()
	defer pterm.EnableColor()
	var sb strings.Builder
	Terminal(&sb, sampleDiff(), true)
	out := sb.String()
	if !strings.Contains(out, "macStyle: 0 => <absent>") {
		t.Errorf("succinct mode should report one-sided values as absent\n%s", out)
	}
	if !strings.Contains(out, "unitsPerEm: 1000 => 2000") {
		t.Errorf("succinct mode must not hide two-sided values\n%s", out)
	}
}

func TestTerminalReportEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.report")
	defer teardown()
	var sb strings.Builder
	Terminal(&sb, vtree.Null(), false)
	if !strings.Contains(sb.String(), "no differences") {
		t.Errorf("empty diff should say so, have %q", sb.String())
	}
}

func TestTableSectionsFlattening(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.report")
	defer teardown()
	nested := vtree.NewObj().
		Set("outer", vtree.NewObj().
			Set("inner", pair(vtree.Int(1), vtree.Int(2))).
			Value())
	tables := vtree.NewObj().Set("GPOS", nested.Value()).Value()
	sections := tableSections(tables)
	if len(sections) != 1 || sections[0].Tag != "GPOS" {
		t.Fatalf("expected one GPOS section, have %+v", sections)
	}
	rows := sections[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected group row plus leaf row, have %+v", rows)
	}
	if rows[0].Field != "outer" || rows[0].Left != "" {
		t.Errorf("first row should be the group header, have %+v", rows[0])
	}
	if rows[1].Field != "inner" || rows[1].Indent != 1 || rows[1].Left != "1" {
		t.Errorf("leaf row mismatch: %+v", rows[1])
	}
}

func TestHTMLBundledTemplatesParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.report")
	defer teardown()
	if _, err := loadTemplates(TemplateConfig{}); err != nil {
		t.Fatalf("bundled templates unparsable: %v", err)
	}
}

func TestHTMLUserTemplateDirMissing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontdiff.report")
	defer teardown()
	if _, err := loadTemplates(TemplateConfig{Dir: "testdata/does-not-exist"}); err == nil {
		t.Errorf("expected missing user template dir to be reported")
	}
}
