package report

import (
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/fontdiff/vtree"
)

//go:embed templates/*.tmpl templates/style.css
var bundledTemplates embed.FS

// FontMeta describes one side of the comparison for the HTML page: the
// font itself plus the file name the page's @font-face rule points at.
type FontMeta struct {
	Font     *fontload.Font
	Filename string // font file relative to the page
	Suffix   string // "old" or "new"
}

// CSSFontFace carries the values of one @font-face rule.
type CSSFontFace struct {
	Suffix        string
	Filename      string
	FamilyName    string
	CSSFamilyName string
	ClassName     string
	FontWeight    string
	FontWidth     string
	FontStyle     string
}

// CSSFontStyle carries the values of one style class, including the
// font-variation-settings for the pinned design-space location.
type CSSFontStyle struct {
	Suffix        string
	FamilyName    string
	StyleName     string
	CSSFamilyName string
	ClassName     string
	// Pre-validated CSS: built from four-letter axis tags and numbers only.
	FontVariationSettings template.CSS
}

// NewCSSFontFace derives the @font-face values for one comparison side.
func NewCSSFontFace(meta FontMeta) CSSFontFace {
	familyname := meta.Suffix + " " + meta.Font.FamilyName()
	return CSSFontFace{
		Suffix:        meta.Suffix,
		Filename:      filepath.Base(meta.Filename),
		FamilyName:    familyname,
		CSSFamilyName: familyname,
		ClassName:     strings.ReplaceAll(familyname, " ", "-"),
		FontWeight:    "normal",
		FontWidth:     "normal",
		FontStyle:     "normal",
	}
}

// NewCSSFontStyle derives the style class values for one comparison
// side, serializing the applied variation coordinates.
func NewCSSFontStyle(meta FontMeta) CSSFontStyle {
	familyname := meta.Font.FamilyName()
	stylename := meta.Font.StyleName()
	var settings []string
	for _, v := range meta.Font.Location() {
		settings = append(settings, fmt.Sprintf("'%s' %g", v.Tag, v.Value))
	}
	return CSSFontStyle{
		Suffix:                meta.Suffix,
		FamilyName:            familyname,
		StyleName:             stylename,
		CSSFamilyName:         meta.Suffix + " " + familyname,
		ClassName:             strings.ReplaceAll(meta.Suffix+"-"+stylename, " ", "-"),
		FontVariationSettings: template.CSS(strings.Join(settings, ", ")),
	}
}

// TemplateConfig points the renderer at a directory of user templates.
// Files there override same-named bundled templates; an empty Dir keeps
// the bundled set. There is no implicit per-user template directory.
type TemplateConfig struct {
	Dir string
}

// view models handed to the templates

type tableRow struct {
	Field       string
	Indent      int
	Left, Right string
	Error       string
}

type tableSection struct {
	Tag  string
	Rows []tableRow
}

type glyphEntry struct {
	String  string
	Unicode string
	Name    string
	Percent float64
}

type wordEntry struct {
	Word    string
	Percent float64
}

type wordSection struct {
	Script  string
	Entries []wordEntry
}

type htmlData struct {
	FontFaceOld  CSSFontFace
	FontFaceNew  CSSFontFace
	FontStyleOld CSSFontStyle
	FontStyleNew CSSFontStyle
	Tables       []tableSection
	Missing      []glyphEntry
	New          []glyphEntry
	Modified     []glyphEntry
	Words        []wordSection
	PointSize    int
	CSS          template.CSS
}

// HTML renders a comparison tree to a self-contained page. The two
// FontMeta values describe the fonts as the page should reference them.
func HTML(diff vtree.Value, oldFont, newFont FontMeta, cfg TemplateConfig) (string, error) {
	tmpl, err := loadTemplates(cfg)
	if err != nil {
		return "", err
	}
	css, _ := bundledTemplates.ReadFile("templates/style.css")
	data := htmlData{
		FontFaceOld:  NewCSSFontFace(oldFont),
		FontFaceNew:  NewCSSFontFace(newFont),
		FontStyleOld: NewCSSFontStyle(oldFont),
		FontStyleNew: NewCSSFontStyle(newFont),
		PointSize:    40,
		CSS:          template.CSS(css),
	}
	obj := diff.AsObj()
	if obj != nil {
		if tables, ok := obj.Get("tables"); ok {
			data.Tables = tableSections(tables)
		}
		if glyphs, ok := obj.Get("glyphs"); ok {
			data.Missing = glyphEntries(glyphs, "missing")
			data.New = glyphEntries(glyphs, "new")
			data.Modified = glyphEntries(glyphs, "modified")
		}
		if words, ok := obj.Get("words"); ok {
			data.Words = wordSections(words)
		}
	}
	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, "diffenator.html.tmpl", data); err != nil {
		return "", fmt.Errorf("report: rendering HTML: %w", err)
	}
	return sb.String(), nil
}

func loadTemplates(cfg TemplateConfig) (*template.Template, error) {
	tmpl, err := template.ParseFS(bundledTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("report: bundled templates unparsable: %w", err)
	}
	if cfg.Dir != "" {
		tmpl, err = tmpl.ParseGlob(filepath.Join(cfg.Dir, "*.tmpl"))
		if err != nil {
			return nil, fmt.Errorf("report: user templates in %s: %w", cfg.Dir, err)
		}
	}
	return tmpl, nil
}

func tableSections(tables vtree.Value) []tableSection {
	obj := tables.AsObj()
	if obj == nil {
		return nil
	}
	var sections []tableSection
	for _, tag := range obj.Keys() {
		diff, _ := obj.Get(tag)
		if !diff.IsSomething() {
			continue
		}
		section := tableSection{Tag: tag}
		collectRows(&section.Rows, "", 0, diff)
		sections = append(sections, section)
	}
	return sections
}

func collectRows(rows *[]tableRow, field string, indent int, diff vtree.Value) {
	switch diff.Kind() {
	case vtree.KindArray:
		pair := diff.AsArray()
		if len(pair) == 2 {
			*rows = append(*rows, tableRow{
				Field: field, Indent: indent,
				Left: pair[0].String(), Right: pair[1].String(),
			})
		}
	case vtree.KindObject:
		o := diff.AsObj()
		if field != "" {
			*rows = append(*rows, tableRow{Field: field, Indent: indent})
			indent++
		}
		for _, key := range o.Keys() {
			child, _ := o.Get(key)
			if key == "error" && child.Kind() == vtree.KindString {
				*rows = append(*rows, tableRow{Indent: indent, Error: child.AsString()})
				continue
			}
			collectRows(rows, key, indent, child)
		}
	}
}

func glyphEntries(glyphs vtree.Value, key string) []glyphEntry {
	obj := glyphs.AsObj()
	if obj == nil {
		return nil
	}
	arr, ok := obj.Get(key)
	if !ok {
		return nil
	}
	var entries []glyphEntry
	for _, v := range arr.AsArray() {
		e := v.AsObj()
		if e == nil {
			continue
		}
		str, _ := e.Get("string")
		uni, _ := e.Get("unicode")
		name, _ := e.Get("name")
		percent, _ := e.Get("percent")
		entries = append(entries, glyphEntry{
			String:  str.AsString(),
			Unicode: uni.AsString(),
			Name:    name.AsString(),
			Percent: percent.AsNumber(),
		})
	}
	return entries
}

func wordSections(words vtree.Value) []wordSection {
	obj := words.AsObj()
	if obj == nil {
		return nil
	}
	var sections []wordSection
	for _, script := range obj.Keys() {
		arr, _ := obj.Get(script)
		section := wordSection{Script: script}
		for _, v := range arr.AsArray() {
			e := v.AsObj()
			if e == nil {
				continue
			}
			word, _ := e.Get("word")
			percent, _ := e.Get("percent")
			section.Entries = append(section.Entries, wordEntry{
				Word:    word.AsString(),
				Percent: percent.AsNumber(),
			})
		}
		if len(section.Entries) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}
