// Package scene describes a deformation to render: the anchors, the
// weighting parameters and the lattice of points to push through the engine.
//
// Scenes are read-only input for the command line tools and the HTTP API.
// The engine itself keeps no state on disk; a scene is only a recipe for
// building one.
//
// A scene file is TOML (or JSON with the same field names):
//
//	name = "stretch"
//	dimensions = 2
//	mode = "directional"
//
//	[exponents]
//	peer = 1
//	point = 2
//	direction = 1
//
//	[[anchors]]
//	origin = [300, 300]
//	target = [350, 330]
//
//	[grid]
//	min = [100, 100]
//	max = [600, 600]
//	step = 10
//
// Omitted fields take defaults: two dimensions, simple mode, the engine's
// default exponents, identity anchors when target is missing, and the grid
// of [DefaultGrid].
package scene

import (
	"encoding/json"
	"fmt"
	"slices"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// Limits applied by [Scene.Validate].
const (
	MaxAnchors    = 1024
	MaxGridPoints = 250_000
)

// Scene is a complete deformation setup.
type Scene struct {
	Name       string    `toml:"name" json:"name,omitempty"`
	Dimensions int       `toml:"dimensions" json:"dimensions"`
	Mode       string    `toml:"mode" json:"mode,omitempty"`
	Exponents  Exponents `toml:"exponents" json:"exponents"`
	Anchors    []Anchor  `toml:"anchors" json:"anchors"`
	Grid       *Grid     `toml:"grid" json:"grid,omitempty"`
}

// Exponents holds the three weighting exponents. Nil means default.
type Exponents struct {
	Peer      *float64 `toml:"peer" json:"peer,omitempty"`
	Point     *float64 `toml:"point" json:"point,omitempty"`
	Direction *float64 `toml:"direction" json:"direction,omitempty"`
}

// Anchor is one origin/target pair. An empty Target means the anchor holds
// its origin in place.
type Anchor struct {
	Origin []float64 `toml:"origin" json:"origin"`
	Target []float64 `toml:"target" json:"target,omitempty"`
}

// Grid is the axis-aligned lattice sampled for rendering. Lines run along
// every axis through each multiple of Step between Min and Max.
type Grid struct {
	Min  []float64 `toml:"min" json:"min"`
	Max  []float64 `toml:"max" json:"max"`
	Step float64   `toml:"step" json:"step"`
}

// DefaultGrid returns the lattice used when a scene has none: a 500×500
// sheet at step 10 in the plane, a 250-unit cube at step 50 in space.
func DefaultGrid(dims int) *Grid {
	if dims == 3 {
		return &Grid{Min: []float64{-125, -125, -125}, Max: []float64{125, 125, 125}, Step: 50}
	}
	return &Grid{Min: []float64{100, 100}, Max: []float64{600, 600}, Step: 10}
}

// SetDefaults fills omitted fields. It never overrides values that are set.
func (s *Scene) SetDefaults() {
	if s.Dimensions == 0 {
		s.Dimensions = 2
		if len(s.Anchors) > 0 && len(s.Anchors[0].Origin) == 3 {
			s.Dimensions = 3
		}
	}
	if s.Mode == "" {
		s.Mode = stretch.Simple.String()
	}
	if s.Exponents.Peer == nil {
		s.Exponents.Peer = ptr(stretch.DefaultExponent1)
	}
	if s.Exponents.Point == nil {
		s.Exponents.Point = ptr(stretch.DefaultExponent2)
	}
	if s.Exponents.Direction == nil {
		s.Exponents.Direction = ptr(stretch.DefaultExponent3)
	}
	for i := range s.Anchors {
		if len(s.Anchors[i].Target) == 0 {
			s.Anchors[i].Target = append([]float64(nil), s.Anchors[i].Origin...)
		}
	}
	if s.Grid == nil {
		s.Grid = DefaultGrid(s.Dimensions)
	}
}

// Validate checks a defaulted scene.
func (s *Scene) Validate() error {
	if s.Dimensions != 2 && s.Dimensions != 3 {
		return invalid("dimensions must be 2 or 3, got %d", s.Dimensions)
	}
	if _, err := stretch.ParseWeightingMode(s.Mode); err != nil {
		return err
	}
	for _, e := range []struct {
		name string
		v    *float64
	}{
		{"exponents.peer", s.Exponents.Peer},
		{"exponents.point", s.Exponents.Point},
		{"exponents.direction", s.Exponents.Direction},
	} {
		if e.v == nil {
			continue
		}
		if err := werrors.ValidateExponent(e.name, *e.v); err != nil {
			return werrors.Wrap(werrors.ErrCodeInvalidScene, err, "bad %s", e.name)
		}
	}

	if len(s.Anchors) > MaxAnchors {
		return invalid("too many anchors (max %d)", MaxAnchors)
	}
	for i, a := range s.Anchors {
		if err := werrors.ValidateCoords(a.Origin, s.Dimensions); err != nil {
			return werrors.Wrap(werrors.ErrCodeInvalidScene, err, "anchor %d origin", i)
		}
		if len(a.Target) == 0 {
			continue
		}
		if err := werrors.ValidateCoords(a.Target, s.Dimensions); err != nil {
			return werrors.Wrap(werrors.ErrCodeInvalidScene, err, "anchor %d target", i)
		}
	}

	if s.Grid != nil {
		if err := s.Grid.validate(s.Dimensions); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grid) validate(dims int) error {
	if err := werrors.ValidateCoords(g.Min, dims); err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidScene, err, "grid min")
	}
	if err := werrors.ValidateCoords(g.Max, dims); err != nil {
		return werrors.Wrap(werrors.ErrCodeInvalidScene, err, "grid max")
	}
	if !(g.Step > 0) {
		return invalid("grid step must be positive, got %v", g.Step)
	}
	for i := range g.Min {
		if g.Max[i] <= g.Min[i] {
			return invalid("grid max[%d] = %v must exceed min[%d] = %v", i, g.Max[i], i, g.Min[i])
		}
	}

	points := 1.0
	for i := range g.Min {
		points *= (g.Max[i]-g.Min[i])/g.Step + 1
	}
	if points*float64(dims) > MaxGridPoints {
		return invalid("grid too dense: step %v over [%v, %v] exceeds %d samples", g.Step, g.Min, g.Max, MaxGridPoints)
	}
	return nil
}

// WeightingMode returns the parsed mode, falling back to Simple.
func (s *Scene) WeightingMode() stretch.WeightingMode {
	m, err := stretch.ParseWeightingMode(s.Mode)
	if err != nil {
		return stretch.Simple
	}
	return m
}

// Clone returns a deep copy of s.
func (s *Scene) Clone() *Scene {
	c := *s
	c.Anchors = make([]Anchor, len(s.Anchors))
	for i, a := range s.Anchors {
		c.Anchors[i] = Anchor{Origin: slices.Clone(a.Origin), Target: slices.Clone(a.Target)}
	}
	if s.Grid != nil {
		c.Grid = &Grid{Min: slices.Clone(s.Grid.Min), Max: slices.Clone(s.Grid.Max), Step: s.Grid.Step}
	}
	for _, e := range []**float64{&c.Exponents.Peer, &c.Exponents.Point, &c.Exponents.Direction} {
		if *e != nil {
			*e = ptr(**e)
		}
	}
	return &c
}

// Canonical returns a stable JSON encoding of the scene, used for cache keys.
func (s *Scene) Canonical() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return data, nil
}

func invalid(format string, args ...any) error {
	return werrors.New(werrors.ErrCodeInvalidScene, format, args...)
}

func ptr(v float64) *float64 { return &v }
