package scene

import (
	"sort"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
)

// presets are starter scenes: a pinned sheet with two pulled anchors in the
// plane, and a cube with one corner pushed inwards in space.
var presets = map[string]func() *Scene{
	"sheet": func() *Scene {
		return &Scene{
			Name:       "sheet",
			Dimensions: 2,
			Mode:       "simple",
			Anchors: []Anchor{
				{Origin: []float64{100, 100}},
				{Origin: []float64{600, 100}},
				{Origin: []float64{600, 600}},
				{Origin: []float64{100, 600}},
				{Origin: []float64{300, 300}, Target: []float64{350, 330}},
				{Origin: []float64{400, 400}, Target: []float64{350, 370}},
			},
		}
	},
	"cube": func() *Scene {
		return &Scene{
			Name:       "cube",
			Dimensions: 3,
			Mode:       "simple",
			Anchors: []Anchor{
				{Origin: []float64{125, 125, 125}, Target: []float64{-25, -25, -25}},
				{Origin: []float64{-125, -125, 125}},
				{Origin: []float64{-125, 125, -125}},
				{Origin: []float64{125, -125, -125}},
			},
		}
	},
}

// Preset returns a defaulted copy of a named starter scene.
func Preset(name string) (*Scene, error) {
	mk, ok := presets[name]
	if !ok {
		return nil, werrors.New(werrors.ErrCodeInvalidArgument, "unknown preset %q (available: %v)", name, PresetNames())
	}
	s := mk()
	s.SetDefaults()
	return s, nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
