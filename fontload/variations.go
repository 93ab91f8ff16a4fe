package fontload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Axis describes one variation axis of a variable font, with values in
// design units.
type Axis struct {
	Tag     string
	Minimum float32
	Default float32
	Maximum float32
	NameID  uint16
}

// Instance is a named instance from the font's fvar table.
type Instance struct {
	Name        string
	Coordinates []AxisCoord
}

// AxisCoord pins one axis to a design-space value.
type AxisCoord struct {
	Tag   string
	Value float32
}

const (
	fvarHeaderSize = 16
	fvarAxisSize   = 20
)

// Axes decodes the font's variation axes from the fvar table. A static
// font yields an empty slice.
func (f *Font) Axes() []Axis {
	b, err := f.RawTable("fvar")
	if err != nil || len(b) < fvarHeaderSize {
		return nil
	}
	axesOffset := int(u16(b[4:6]))
	axisCount := int(u16(b[8:10]))
	axisSize := int(u16(b[10:12]))
	if axisSize < fvarAxisSize || axesOffset+axisCount*axisSize > len(b) {
		tracer().Debugf("fvar axis records out of bounds")
		return nil
	}
	axes := make([]Axis, 0, axisCount)
	for i := 0; i < axisCount; i++ {
		rec := b[axesOffset+i*axisSize:]
		axes = append(axes, Axis{
			Tag:     string(rec[0:4]),
			Minimum: fixed1616(rec[4:8]),
			Default: fixed1616(rec[8:12]),
			Maximum: fixed1616(rec[12:16]),
			NameID:  u16(rec[18:20]),
		})
	}
	return axes
}

// NamedInstances decodes the named instances from the fvar table,
// resolving each instance's subfamily name through the name table.
func (f *Font) NamedInstances() []Instance {
	b, err := f.RawTable("fvar")
	if err != nil || len(b) < fvarHeaderSize {
		return nil
	}
	axes := f.Axes()
	axisCount := len(axes)
	instanceCount := int(u16(b[12:14]))
	instanceSize := int(u16(b[14:16]))
	axesOffset := int(u16(b[4:6]))
	axisSize := int(u16(b[10:12]))
	instOffset := axesOffset + axisCount*axisSize
	if instanceSize < 4+axisCount*4 || instOffset+instanceCount*instanceSize > len(b) {
		tracer().Debugf("fvar instance records out of bounds")
		return nil
	}
	instances := make([]Instance, 0, instanceCount)
	for i := 0; i < instanceCount; i++ {
		rec := b[instOffset+i*instanceSize:]
		nameID := u16(rec[0:2])
		name, err := f.SFNT.Name(nil, sfnt.NameID(nameID))
		if err != nil {
			name = fmt.Sprintf("instance-%d", i)
		}
		coords := make([]AxisCoord, axisCount)
		for a := 0; a < axisCount; a++ {
			coords[a] = AxisCoord{
				Tag:   axes[a].Tag,
				Value: fixed1616(rec[4+a*4 : 8+a*4]),
			}
		}
		instances = append(instances, Instance{Name: name, Coordinates: coords})
	}
	return instances
}

// SetLocation parses a design-space location of the form
// "wght=600,ital=1" and applies it to the font's faces. Values are
// clamped to the axis range; axes the font does not carry are ignored,
// since the same location string is applied to both fonts of a
// comparison and the axis sets may legitimately differ.
func (f *Font) SetLocation(location string) error {
	coords, err := ParseLocation(location)
	if err != nil {
		return err
	}
	return f.applyCoords(coords)
}

// SetNamedInstance looks up a named instance (case-insensitive) and
// applies its coordinates as the font's location.
func (f *Font) SetNamedInstance(name string) error {
	for _, inst := range f.NamedInstances() {
		if strings.EqualFold(inst.Name, name) {
			return f.applyCoords(inst.Coordinates)
		}
	}
	return fmt.Errorf("fontload: font %q has no instance named %q", f.Fontname, name)
}

func (f *Font) applyCoords(coords []AxisCoord) error {
	axes := f.Axes()
	variations := make([]font.Variation, 0, len(coords))
	for _, coord := range coords {
		axis, ok := findAxis(axes, coord.Tag)
		if !ok {
			tracer().Infof("font %q has no axis %q, ignoring", f.Fontname, coord.Tag)
			continue
		}
		value := coord.Value
		if value < axis.Minimum {
			value = axis.Minimum
		}
		if value > axis.Maximum {
			value = axis.Maximum
		}
		tag := coord.Tag
		variations = append(variations, font.Variation{
			Tag:   ot.NewTag(tag[0], tag[1], tag[2], tag[3]),
			Value: value,
		})
	}
	f.location = variations
	f.face.SetVariations(variations)
	return nil
}

// ParseLocation parses "axis=value" pairs separated by commas. Tags are
// padded to 4 characters with spaces.
func ParseLocation(location string) ([]AxisCoord, error) {
	var coords []AxisCoord
	for _, part := range strings.Split(location, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tag, valueStr, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("fontload: location entry %q is not of the form axis=value", part)
		}
		tag = strings.TrimSpace(tag)
		if len(tag) == 0 || len(tag) > 4 {
			return nil, fmt.Errorf("fontload: invalid axis tag %q", tag)
		}
		for len(tag) < 4 {
			tag += " "
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 32)
		if err != nil {
			return nil, fmt.Errorf("fontload: invalid axis value in %q: %v", part, err)
		}
		coords = append(coords, AxisCoord{Tag: tag, Value: float32(value)})
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("fontload: empty location %q", location)
	}
	return coords, nil
}

func findAxis(axes []Axis, tag string) (Axis, bool) {
	for _, axis := range axes {
		if axis.Tag == tag {
			return axis, true
		}
	}
	return Axis{}, false
}

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func fixed1616(b []byte) float32 {
	v := int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
	return float32(v) / 65536
}
