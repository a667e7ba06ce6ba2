package models

import (
	"sort"
	"strings"
)

// Named presets cover the variants the sketch app grew through: the
// original black-and-white app, one preset per style, a color sketch and a
// color-dodge "charcoal" look with heavier lines.
var presets = map[string]Parameters{
	"classic": DefaultParameters(),
	"detailed": {
		ContrastLevel:  0.6,
		SharpnessLevel: 120,
		Style:          StyleDetailed,
		RefineEdges:    true,
		SmoothLines:    false,
		ThicknessLevel: 1.0,
	},
	"soft": {
		ContrastLevel:  0.4,
		SharpnessLevel: 60,
		Style:          StyleSoft,
		RefineEdges:    false,
		SmoothLines:    true,
		ThicknessLevel: 0.8,
	},
	"cartoon": {
		ContrastLevel:  0.7,
		SharpnessLevel: 150,
		Style:          StyleCartoon,
		RefineEdges:    true,
		SmoothLines:    true,
		ThicknessLevel: 1.3,
	},
	"color": {
		ContrastLevel:  0.5,
		SharpnessLevel: 100,
		Style:          StyleDefault,
		RefineEdges:    false,
		SmoothLines:    true,
		ThicknessLevel: 1.0,
		ColorMode:      ColorColor,
	},
	"charcoal": {
		ContrastLevel:  1.0,
		SharpnessLevel: 100,
		Style:          StyleDefault,
		RefineEdges:    false,
		SmoothLines:    false,
		ThicknessLevel: 1.5,
		Composite:      CompositeDivide,
	},
}

// Preset returns a copy of the named built-in preset.
func Preset(name string) (Parameters, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Parameters{}, &InvalidParameterError{Name: "preset", Value: name, Reason: "unknown preset"}
	}
	return p, nil
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
