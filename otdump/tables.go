package otdump

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/fontdiff/vtree"
)

// decodeHead decodes table 'head' field by field.
func decodeHead(b []byte) (vtree.Value, error) {
	v := &view{b: b}
	obj := vtree.NewObj().
		Set("majorVersion", vtree.Int(int64(v.u16()))).
		Set("minorVersion", vtree.Int(int64(v.u16()))).
		Set("fontRevision", vtree.Number(float64(v.fixed()))).
		Set("checksumAdjustment", vtree.Int(int64(v.u32()))).
		Set("magicNumber", vtree.Int(int64(v.u32()))).
		Set("flags", vtree.Int(int64(v.u16()))).
		Set("unitsPerEm", vtree.Int(int64(v.u16()))).
		Set("created", vtree.Int(v.i64())).
		Set("modified", vtree.Int(v.i64())).
		Set("xMin", vtree.Int(int64(v.i16()))).
		Set("yMin", vtree.Int(int64(v.i16()))).
		Set("xMax", vtree.Int(int64(v.i16()))).
		Set("yMax", vtree.Int(int64(v.i16()))).
		Set("macStyle", vtree.Int(int64(v.u16()))).
		Set("lowestRecPPEM", vtree.Int(int64(v.u16()))).
		Set("fontDirectionHint", vtree.Int(int64(v.i16()))).
		Set("indexToLocFormat", vtree.Int(int64(v.i16()))).
		Set("glyphDataFormat", vtree.Int(int64(v.i16())))
	if v.err != nil {
		return vtree.Null(), v.err
	}
	return obj.Value(), nil
}

// decodeHea decodes 'hhea' or 'vhea'; the two tables share one layout.
func decodeHea(b []byte) (vtree.Value, error) {
	v := &view{b: b}
	obj := vtree.NewObj().
		Set("majorVersion", vtree.Int(int64(v.u16()))).
		Set("minorVersion", vtree.Int(int64(v.u16()))).
		Set("ascender", vtree.Int(int64(v.i16()))).
		Set("descender", vtree.Int(int64(v.i16()))).
		Set("lineGap", vtree.Int(int64(v.i16()))).
		Set("advanceMax", vtree.Int(int64(v.u16()))).
		Set("minLeadingBearing", vtree.Int(int64(v.i16()))).
		Set("minTrailingBearing", vtree.Int(int64(v.i16()))).
		Set("maxExtent", vtree.Int(int64(v.i16()))).
		Set("caretSlopeRise", vtree.Int(int64(v.i16()))).
		Set("caretSlopeRun", vtree.Int(int64(v.i16()))).
		Set("caretOffset", vtree.Int(int64(v.i16())))
	v.skip(8) // reserved
	obj.Set("metricDataFormat", vtree.Int(int64(v.i16()))).
		Set("numberOfMetrics", vtree.Int(int64(v.u16())))
	if v.err != nil {
		return vtree.Null(), v.err
	}
	return obj.Value(), nil
}

func decodeMaxp(b []byte) (vtree.Value, error) {
	v := &view{b: b}
	version := v.u32()
	obj := vtree.NewObj().
		Set("version", vtree.Number(float64(version)/65536)).
		Set("numGlyphs", vtree.Int(int64(v.u16())))
	if version == 0x00010000 {
		obj.Set("maxPoints", vtree.Int(int64(v.u16()))).
			Set("maxContours", vtree.Int(int64(v.u16()))).
			Set("maxCompositePoints", vtree.Int(int64(v.u16()))).
			Set("maxCompositeContours", vtree.Int(int64(v.u16()))).
			Set("maxZones", vtree.Int(int64(v.u16()))).
			Set("maxTwilightPoints", vtree.Int(int64(v.u16()))).
			Set("maxStorage", vtree.Int(int64(v.u16()))).
			Set("maxFunctionDefs", vtree.Int(int64(v.u16()))).
			Set("maxInstructionDefs", vtree.Int(int64(v.u16()))).
			Set("maxStackElements", vtree.Int(int64(v.u16()))).
			Set("maxSizeOfInstructions", vtree.Int(int64(v.u16()))).
			Set("maxComponentElements", vtree.Int(int64(v.u16()))).
			Set("maxComponentDepth", vtree.Int(int64(v.u16())))
	}
	if v.err != nil {
		return vtree.Null(), v.err
	}
	return obj.Value(), nil
}

func decodeOS2(b []byte) (vtree.Value, error) {
	v := &view{b: b}
	version := v.u16()
	obj := vtree.NewObj().
		Set("version", vtree.Int(int64(version))).
		Set("xAvgCharWidth", vtree.Int(int64(v.i16()))).
		Set("usWeightClass", vtree.Int(int64(v.u16()))).
		Set("usWidthClass", vtree.Int(int64(v.u16()))).
		Set("fsType", vtree.Int(int64(v.u16()))).
		Set("ySubscriptXSize", vtree.Int(int64(v.i16()))).
		Set("ySubscriptYSize", vtree.Int(int64(v.i16()))).
		Set("ySubscriptXOffset", vtree.Int(int64(v.i16()))).
		Set("ySubscriptYOffset", vtree.Int(int64(v.i16()))).
		Set("ySuperscriptXSize", vtree.Int(int64(v.i16()))).
		Set("ySuperscriptYSize", vtree.Int(int64(v.i16()))).
		Set("ySuperscriptXOffset", vtree.Int(int64(v.i16()))).
		Set("ySuperscriptYOffset", vtree.Int(int64(v.i16()))).
		Set("yStrikeoutSize", vtree.Int(int64(v.i16()))).
		Set("yStrikeoutPosition", vtree.Int(int64(v.i16()))).
		Set("sFamilyClass", vtree.Int(int64(v.i16())))
	panose := v.bytes(10)
	panoseElems := make([]vtree.Value, len(panose))
	for i, p := range panose {
		panoseElems[i] = vtree.Int(int64(p))
	}
	obj.Set("panose", vtree.Array(panoseElems...)).
		Set("ulUnicodeRange1", vtree.Int(int64(v.u32()))).
		Set("ulUnicodeRange2", vtree.Int(int64(v.u32()))).
		Set("ulUnicodeRange3", vtree.Int(int64(v.u32()))).
		Set("ulUnicodeRange4", vtree.Int(int64(v.u32()))).
		Set("achVendID", vtree.String(strings.TrimRight(v.tag(), " "))).
		Set("fsSelection", vtree.Int(int64(v.u16()))).
		Set("usFirstCharIndex", vtree.Int(int64(v.u16()))).
		Set("usLastCharIndex", vtree.Int(int64(v.u16()))).
		Set("sTypoAscender", vtree.Int(int64(v.i16()))).
		Set("sTypoDescender", vtree.Int(int64(v.i16()))).
		Set("sTypoLineGap", vtree.Int(int64(v.i16()))).
		Set("usWinAscent", vtree.Int(int64(v.u16()))).
		Set("usWinDescent", vtree.Int(int64(v.u16())))
	if version >= 1 {
		obj.Set("ulCodePageRange1", vtree.Int(int64(v.u32()))).
			Set("ulCodePageRange2", vtree.Int(int64(v.u32())))
	}
	if version >= 2 {
		obj.Set("sxHeight", vtree.Int(int64(v.i16()))).
			Set("sCapHeight", vtree.Int(int64(v.i16()))).
			Set("usDefaultChar", vtree.Int(int64(v.u16()))).
			Set("usBreakChar", vtree.Int(int64(v.u16()))).
			Set("usMaxContext", vtree.Int(int64(v.u16())))
	}
	if version >= 5 {
		obj.Set("usLowerOpticalPointSize", vtree.Int(int64(v.u16()))).
			Set("usUpperOpticalPointSize", vtree.Int(int64(v.u16())))
	}
	if v.err != nil {
		return vtree.Null(), v.err
	}
	return obj.Value(), nil
}

func decodePost(b []byte) (vtree.Value, error) {
	v := &view{b: b}
	version := v.u32()
	obj := vtree.NewObj().
		Set("version", vtree.Number(float64(version)/65536)).
		Set("italicAngle", vtree.Number(float64(v.fixed()))).
		Set("underlinePosition", vtree.Int(int64(v.i16()))).
		Set("underlineThickness", vtree.Int(int64(v.i16()))).
		Set("isFixedPitch", vtree.Int(int64(v.u32()))).
		Set("minMemType42", vtree.Int(int64(v.u32()))).
		Set("maxMemType42", vtree.Int(int64(v.u32()))).
		Set("minMemType1", vtree.Int(int64(v.u32()))).
		Set("maxMemType1", vtree.Int(int64(v.u32())))
	if version == 0x00020000 {
		names, err := postGlyphNames(v)
		if err != nil {
			return vtree.Null(), err
		}
		obj.Set("glyphNames", names)
	}
	if v.err != nil {
		return vtree.Null(), v.err
	}
	return obj.Value(), nil
}

// postGlyphNames decodes the version 2.0 glyph name mapping. Names are
// keyed by glyph id so that a single rename diffs to a single leaf.
func postGlyphNames(v *view) (vtree.Value, error) {
	numGlyphs := int(v.u16())
	indices := make([]uint16, numGlyphs)
	for i := range indices {
		indices[i] = v.u16()
	}
	if v.err != nil {
		return vtree.Null(), v.err
	}
	// Pascal-string pool follows the index array.
	var pool []string
	for v.err == nil && v.off < len(v.b) {
		n := int(v.u8())
		s := v.bytes(n)
		if v.err != nil {
			break
		}
		pool = append(pool, string(s))
	}
	names := vtree.NewObj()
	for gid, inx := range indices {
		var name string
		if inx < 258 {
			name = macGlyphName(int(inx))
		} else if custom := int(inx) - 258; custom < len(pool) {
			name = pool[custom]
		} else {
			continue
		}
		names.Set(fmt.Sprintf("gid%d", gid), vtree.String(name))
	}
	return names.Value(), nil
}

// decodeFvar reports axes and named instances keyed by tag and name, so
// that diffs localize to the axis or instance that changed.
func decodeFvar(f *fontload.Font) (vtree.Value, error) {
	axes := f.Axes()
	if axes == nil {
		return vtree.Null(), fmt.Errorf("fvar carries no axis records")
	}
	axesObj := vtree.NewObj()
	for _, axis := range axes {
		axesObj.Set(strings.TrimRight(axis.Tag, " "), vtree.NewObj().
			Set("min", vtree.Number(float64(axis.Minimum))).
			Set("default", vtree.Number(float64(axis.Default))).
			Set("max", vtree.Number(float64(axis.Maximum))).
			Value())
	}
	instObj := vtree.NewObj()
	for _, inst := range f.NamedInstances() {
		coords := vtree.NewObj()
		for _, coord := range inst.Coordinates {
			coords.Set(strings.TrimRight(coord.Tag, " "), vtree.Number(float64(coord.Value)))
		}
		instObj.Set(inst.Name, coords.Value())
	}
	return vtree.NewObj().
		Set("axes", axesObj.Value()).
		Set("instances", instObj.Value()).
		Value(), nil
}

func decodeAvar(b []byte) (vtree.Value, error) {
	v := &view{b: b}
	major := v.u16()
	minor := v.u16()
	v.skip(2) // reserved
	axisCount := int(v.u16())
	obj := vtree.NewObj().
		Set("majorVersion", vtree.Int(int64(major))).
		Set("minorVersion", vtree.Int(int64(minor))).
		Set("axisCount", vtree.Int(int64(axisCount)))
	maps := vtree.NewObj()
	for i := 0; i < axisCount && v.err == nil; i++ {
		pairCount := int(v.u16())
		pairs := make([]vtree.Value, 0, pairCount)
		for p := 0; p < pairCount; p++ {
			from := v.f2dot14()
			to := v.f2dot14()
			pairs = append(pairs, vtree.Array(
				vtree.Number(float64(from)), vtree.Number(float64(to))))
		}
		maps.Set(fmt.Sprintf("axis%d", i), vtree.Array(pairs...))
	}
	obj.Set("segmentMaps", maps.Value())
	if v.err != nil {
		return vtree.Null(), v.err
	}
	return obj.Value(), nil
}

func decodeGasp(b []byte) (vtree.Value, error) {
	v := &view{b: b}
	version := v.u16()
	numRanges := int(v.u16())
	ranges := vtree.NewObj()
	for i := 0; i < numRanges && v.err == nil; i++ {
		maxPPEM := v.u16()
		behavior := v.u16()
		ranges.Set(fmt.Sprintf("upto%d", maxPPEM), vtree.Int(int64(behavior)))
	}
	if v.err != nil {
		return vtree.Null(), v.err
	}
	return vtree.NewObj().
		Set("version", vtree.Int(int64(version))).
		Set("ranges", ranges.Value()).
		Value(), nil
}

// decodeHmtx decodes 'hmtx' or 'vmtx'. Metrics are keyed per glyph id:
// a single advance change diffs to a single leaf instead of surfacing
// the whole metrics array.
func decodeHmtx(b []byte, f *fontload.Font, heaTag string) (vtree.Value, error) {
	numMetrics, err := metricCount(f, heaTag)
	if err != nil {
		return vtree.Null(), err
	}
	numGlyphs, err := glyphCount(f)
	if err != nil {
		return vtree.Null(), err
	}
	v := &view{b: b}
	obj := vtree.NewObj()
	var lastAdvance uint16
	for gid := 0; gid < numGlyphs; gid++ {
		var advance uint16
		var bearing int16
		if gid < numMetrics {
			advance = v.u16()
			bearing = v.i16()
			lastAdvance = advance
		} else {
			advance = lastAdvance
			bearing = v.i16()
		}
		if v.err != nil {
			return vtree.Null(), v.err
		}
		obj.Set(fmt.Sprintf("gid%d", gid), vtree.Array(
			vtree.Int(int64(advance)), vtree.Int(int64(bearing))))
	}
	return obj.Value(), nil
}

func metricCount(f *fontload.Font, heaTag string) (int, error) {
	b, err := f.RawTable(heaTag)
	if err != nil {
		return 0, err
	}
	v := &view{b: b}
	v.seek(34)
	n := int(v.u16())
	if v.err != nil {
		return 0, v.err
	}
	return n, nil
}

func glyphCount(f *fontload.Font) (int, error) {
	b, err := f.RawTable("maxp")
	if err != nil {
		return 0, err
	}
	v := &view{b: b}
	v.seek(4)
	n := int(v.u16())
	if v.err != nil {
		return 0, v.err
	}
	return n, nil
}

// decodeCmap reports the subtable inventory plus the total number of
// mapped codepoints. Per-codepoint regressions surface through the
// glyph comparison domain, not the table tree.
func decodeCmap(b []byte, f *fontload.Font) (vtree.Value, error) {
	v := &view{b: b}
	version := v.u16()
	numTables := int(v.u16())
	subtables := vtree.NewObj()
	for i := 0; i < numTables && v.err == nil; i++ {
		platform := v.u16()
		encoding := v.u16()
		offset := int(v.u32())
		format := -1
		if offset >= 0 && offset+2 <= len(b) {
			format = int(uint16(b[offset])<<8 | uint16(b[offset+1]))
		}
		subtables.Set(fmt.Sprintf("platform%d.encoding%d", platform, encoding),
			vtree.NewObj().Set("format", vtree.Int(int64(format))).Value())
	}
	if v.err != nil {
		return vtree.Null(), v.err
	}
	return vtree.NewObj().
		Set("version", vtree.Int(int64(version))).
		Set("numTables", vtree.Int(int64(numTables))).
		Set("subtables", subtables.Value()).
		Set("mappedCodepoints", vtree.Int(int64(len(f.Codepoints())))).
		Value(), nil
}
