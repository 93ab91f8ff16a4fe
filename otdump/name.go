package otdump

import (
	"fmt"

	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/fontdiff/vtree"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

type platformID uint16

const (
	platformUnicode   platformID = 0
	platformMacintosh platformID = 1 // not decoded
	platformWindows   platformID = 3
)

const (
	encodingUnicodeBMP uint16 = 3
	encodingWindowsBMP uint16 = 1
)

// decodeNameTable decodes table 'name' into an object keyed by name ID,
// each entry holding one string per language. Entries are grouped by ID
// so that a renamed style diffs to a small subtree, independent of where
// the record sits in the table.
//
// Only Unicode BMP and Windows BMP records are decoded; malformed or
// out-of-bounds records are skipped.
func decodeNameTable(f *fontload.Font) (vtree.Value, error) {
	b, err := f.RawTable("name")
	if err != nil {
		return vtree.Null(), err
	}
	if len(b) < nameHeaderSize {
		return vtree.Null(), fmt.Errorf("name table too short: %d bytes", len(b))
	}
	v := &view{b: b}
	v.skip(2) // format
	count := int(v.u16())
	storage := int(v.u16())
	if storage > len(b) || nameHeaderSize+count*nameRecordSize > len(b) {
		return vtree.Null(), fmt.Errorf("name table record section out of bounds: count=%d", count)
	}
	byID := vtree.NewObj()
	for i := 0; i < count; i++ {
		rec := &view{b: b}
		rec.seek(nameHeaderSize + i*nameRecordSize)
		platform := platformID(rec.u16())
		encoding := rec.u16()
		language := rec.u16()
		nameID := rec.u16()
		strLen := int(rec.u16())
		strOff := int(rec.u16())
		if rec.err != nil {
			continue
		}
		if !isSupportedNameEncoding(platform, encoding) {
			continue
		}
		start, end := storage+strOff, storage+strOff+strLen
		if start < 0 || strLen < 0 || end > len(b) {
			tracer().Debugf("name record %d out of bounds, skipping", i)
			continue
		}
		value, err := decodeNameUTF16(b[start:end])
		if err != nil || value == "" {
			continue
		}
		key := fmt.Sprintf("id%d", nameID)
		var langs *vtree.Obj
		if entry, ok := byID.Get(key); ok && entry.Kind() == vtree.KindObject {
			langs = entry.AsObj()
		} else {
			langs = vtree.NewObj()
		}
		langs.Set(languageName(platform, language), vtree.String(value))
		byID.Set(key, langs.Value())
	}
	return byID.Value(), nil
}

func isSupportedNameEncoding(platform platformID, encoding uint16) bool {
	return (platform == platformUnicode && encoding == encodingUnicodeBMP) ||
		(platform == platformWindows && encoding == encodingWindowsBMP)
}

func decodeNameUTF16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}

// languageName maps the most common Windows LCIDs to a readable label.
// Unicode-platform records carry no language, so they are tagged "default".
func languageName(platform platformID, lcid uint16) string {
	if platform == platformUnicode {
		return "default"
	}
	switch lcid {
	case 0x0409:
		return "en"
	case 0x0407:
		return "de"
	case 0x040c:
		return "fr"
	case 0x0410:
		return "it"
	case 0x0c0a, 0x040a:
		return "es"
	case 0x0411:
		return "ja"
	case 0x0412:
		return "ko"
	case 0x0804:
		return "zh-Hans"
	case 0x0404:
		return "zh-Hant"
	case 0x0419:
		return "ru"
	}
	return fmt.Sprintf("lang0x%04x", lcid)
}
