package models

import (
	"fmt"
	"math"
	"strings"
)

// Style selects the blur radius of the light layer and the unsharp radius.
type Style int

const (
	StyleDefault Style = iota
	StyleDetailed
	StyleSoft
	StyleCartoon
)

var styleNames = map[Style]string{
	StyleDefault:  "default",
	StyleDetailed: "detailed",
	StyleSoft:     "soft",
	StyleCartoon:  "cartoon",
}

var styleBlurRadius = map[Style]int{
	StyleDefault:  21,
	StyleDetailed: 10,
	StyleSoft:     30,
	StyleCartoon:  5,
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// Valid reports whether s is one of the declared styles.
func (s Style) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

// BlurRadius returns the Gaussian radius used for the inverted light layer.
func (s Style) BlurRadius() int {
	if radius, ok := styleBlurRadius[s]; ok {
		return radius
	}
	return styleBlurRadius[StyleDefault]
}

// SharpenRadius returns the unsharp-mask radius for the style.
func (s Style) SharpenRadius() int {
	if s == StyleCartoon {
		return 3
	}
	return 2
}

// ParseStyle accepts the short names ("soft") as well as the labels used by
// the original sketch app ("Soft Sketch").
func ParseStyle(name string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, " sketch")
	if key == "" {
		return StyleDefault, nil
	}
	for style, styleName := range styleNames {
		if styleName == key {
			return style, nil
		}
	}
	return StyleDefault, &InvalidParameterError{Name: "style", Value: name, Reason: "unknown sketch style"}
}

// ColorMode selects whether the sketch is composited against the grayscale
// image or against the original color image.
type ColorMode int

const (
	ColorGrayscale ColorMode = iota
	ColorColor
)

func (c ColorMode) String() string {
	switch c {
	case ColorGrayscale:
		return "grayscale"
	case ColorColor:
		return "color"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(c))
	}
}

func ParseColorMode(name string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "grayscale", "gray", "bw":
		return ColorGrayscale, nil
	case "color", "colour", "rgb":
		return ColorColor, nil
	default:
		return ColorGrayscale, &InvalidParameterError{Name: "color", Value: name, Reason: "unknown color mode"}
	}
}

// CompositeMode selects the compositor algorithm.
type CompositeMode int

const (
	// CompositeBlend linearly blends the target with the inverted blurred
	// layer, using ContrastLevel as alpha.
	CompositeBlend CompositeMode = iota
	// CompositeDivide color-dodges the target by the inverted blurred layer
	// and then scales the result by ContrastLevel.
	CompositeDivide
)

func (m CompositeMode) String() string {
	switch m {
	case CompositeBlend:
		return "blend"
	case CompositeDivide:
		return "divide"
	default:
		return fmt.Sprintf("CompositeMode(%d)", int(m))
	}
}

func ParseCompositeMode(name string) (CompositeMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "blend":
		return CompositeBlend, nil
	case "divide", "dodge":
		return CompositeDivide, nil
	default:
		return CompositeBlend, &InvalidParameterError{Name: "mode", Value: name, Reason: "unknown composite mode"}
	}
}

// ParameterRange is the closed interval a numeric parameter is clamped to.
type ParameterRange struct {
	Min float64
	Max float64
}

func (r ParameterRange) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

func (r ParameterRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	BlendContrastRange  = ParameterRange{Min: 0.1, Max: 1.0}
	DivideContrastRange = ParameterRange{Min: 0.1, Max: 3.0}
	SharpnessRange      = ParameterRange{Min: 0, Max: 200}
	ThicknessRange      = ParameterRange{Min: 0.5, Max: 3.0}
)

// Parameters configures one render. The zero value is not useful; start from
// DefaultParameters or Preset.
type Parameters struct {
	ContrastLevel  float64
	SharpnessLevel int
	Style          Style
	RefineEdges    bool
	SmoothLines    bool
	ThicknessLevel float64
	ColorMode      ColorMode
	Composite      CompositeMode
}

// DefaultParameters matches the slider defaults of the original sketch app.
func DefaultParameters() Parameters {
	return Parameters{
		ContrastLevel:  0.5,
		SharpnessLevel: 100,
		Style:          StyleDefault,
		RefineEdges:    true,
		SmoothLines:    true,
		ThicknessLevel: 1.0,
		ColorMode:      ColorGrayscale,
		Composite:      CompositeBlend,
	}
}

// ContrastRange returns the valid contrast interval for the composite mode.
func (p Parameters) ContrastRange() ParameterRange {
	if p.Composite == CompositeDivide {
		return DivideContrastRange
	}
	return BlendContrastRange
}

// Validate rejects values that cannot be clamped: unknown enum values and
// non-finite numbers.
func (p Parameters) Validate() error {
	if !p.Style.Valid() {
		return &InvalidParameterError{Name: "style", Value: p.Style, Reason: "unknown sketch style"}
	}
	if p.ColorMode != ColorGrayscale && p.ColorMode != ColorColor {
		return &InvalidParameterError{Name: "color", Value: p.ColorMode, Reason: "unknown color mode"}
	}
	if p.Composite != CompositeBlend && p.Composite != CompositeDivide {
		return &InvalidParameterError{Name: "mode", Value: p.Composite, Reason: "unknown composite mode"}
	}
	if !finite(p.ContrastLevel) {
		return &InvalidParameterError{Name: "contrast", Value: p.ContrastLevel, Reason: "must be a finite number"}
	}
	if !finite(p.ThicknessLevel) {
		return &InvalidParameterError{Name: "thickness", Value: p.ThicknessLevel, Reason: "must be a finite number"}
	}
	return nil
}

// Normalize validates p and clamps every numeric field into its documented
// range. The returned slice names the fields that were adjusted.
func (p Parameters) Normalize() (Parameters, []string, error) {
	if err := p.Validate(); err != nil {
		return p, nil, err
	}

	var clamped []string

	if r := p.ContrastRange(); !r.Contains(p.ContrastLevel) {
		p.ContrastLevel = r.Clamp(p.ContrastLevel)
		clamped = append(clamped, "contrast")
	}
	if !SharpnessRange.Contains(float64(p.SharpnessLevel)) {
		p.SharpnessLevel = int(SharpnessRange.Clamp(float64(p.SharpnessLevel)))
		clamped = append(clamped, "sharpness")
	}
	if !ThicknessRange.Contains(p.ThicknessLevel) {
		p.ThicknessLevel = ThicknessRange.Clamp(p.ThicknessLevel)
		clamped = append(clamped, "thickness")
	}

	return p, clamped, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
