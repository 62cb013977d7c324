package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths for configuration and markup.
// The engine itself works in integer pixels; lengths are resolved once at the edge.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitPX Unit = iota // pixels, also used for unit-less numbers
	UnitMM             // millimeters
	UnitCM             // centimeters
	UnitIN             // inches
	UnitPT             // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	// DefaultResolution is the pixel density used when none is configured.
	DefaultResolution = 160.0
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return "px"
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

// Px is a shorthand for a pixel length.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPX} }

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// Inches converts an absolute length to inches; pixels need a resolution.
func (l Length) Inches(resolution float64) float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value / 25.4
	case UnitCM:
		return l.Value / 2.54
	case UnitIN:
		return l.Value
	case UnitPT:
		return l.Value / 72
	default:
		if resolution <= 0 {
			resolution = DefaultResolution
		}
		return l.Value / resolution
	}
}

// ToMM converts to millimeters at the given resolution.
func (l Length) ToMM(resolution float64) float64 { return l.Inches(resolution) * 25.4 }

// ToPT converts to points at the given resolution.
func (l Length) ToPT(resolution float64) float64 { return l.ToMM(resolution) * MmToPt }

// Pixels converts to fractional pixels at resolution (pixels per inch).
func (l Length) Pixels(resolution float64) float64 {
	if l.Unit == UnitPX {
		return l.Value
	}
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	return l.Inches(resolution) * resolution
}

// IntPixels rounds Pixels half away from zero.
func (l Length) IntPixels(resolution float64) int {
	return int(math.Round(l.Pixels(resolution)))
}

// ParseLength 解析带单位的长度，无单位的数字视为像素。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, nil
	}
	unit := UnitPX
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// UnmarshalYAML accepts both "12pt" style scalars and plain numbers.
func (l *Length) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseLength(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec preserves author intent: either a factor of the font size (e.g. 1.2x) or an absolute length (e.g. 18pt).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 解析 "1.5x" 形式的倍数或带单位的绝对行高。
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if f, ok := strings.CutSuffix(v, "x"); ok {
		factor, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return LineHeightSpec{}, fmt.Errorf("无法解析行高倍数 %q: %w", value, err)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: factor}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// Pixels resolves the line height in pixels for a font of fontSize pixels.
func (s LineHeightSpec) Pixels(fontSize, resolution float64) int {
	switch s.Kind {
	case LineHeightFactor:
		return int(math.Round(fontSize * s.Factor))
	case LineHeightAbsolute:
		return s.Len.IntPixels(resolution)
	default:
		// fallback to 1.4x if unspecified
		return int(math.Round(fontSize * 1.4))
	}
}
