package pipeline

import (
	"context"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stretchwarp/pkg/lattice"
	"github.com/matzehuels/stretchwarp/pkg/render"
	"github.com/matzehuels/stretchwarp/pkg/scene"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// Warp is a warped lattice with its anchors. Exactly one of the plane or
// volume fields is set, matching Dimensions.
type Warp struct {
	Name          string                  `json:"name,omitempty"`
	Dimensions    int                     `json:"dimensions"`
	Mode          stretch.WeightingMode   `json:"mode"`
	Exponents     [3]float64              `json:"exponents"`
	Plane         []lattice.Line[r2.Vec]  `json:"plane,omitempty"`
	PlaneAnchors  []render.Marker[r2.Vec] `json:"plane_anchors,omitempty"`
	Volume        []lattice.Line[r3.Vec]  `json:"volume,omitempty"`
	VolumeAnchors []render.Marker[r3.Vec] `json:"volume_anchors,omitempty"`
}

// Lines returns the number of lattice lines.
func (w *Warp) Lines() int { return len(w.Plane) + len(w.Volume) }

// Points returns the number of warped points.
func (w *Warp) Points() int { return lattice.Count(w.Plane) + lattice.Count(w.Volume) }

// Anchors returns the number of anchors.
func (w *Warp) Anchors() int { return len(w.PlaneAnchors) + len(w.VolumeAnchors) }

// Engine2D builds the plane engine for s with the option overrides applied.
func Engine2D(s *scene.Scene, opts Options) (*stretch.Engine2D, error) {
	e, err := s.Engine2D(opts.EngineOptions()...)
	if err != nil {
		return nil, err
	}
	applyExponents(&opts, e)
	return e, nil
}

// Engine3D builds the volume engine for s with the option overrides applied.
func Engine3D(s *scene.Scene, opts Options) (*stretch.Engine3D, error) {
	e, err := s.Engine3D(opts.EngineOptions()...)
	if err != nil {
		return nil, err
	}
	applyExponents(&opts, e)
	return e, nil
}

// bounds returns the lattice bounds of s.
func bounds(s *scene.Scene, opts Options) lattice.Bounds {
	g := s.Grid
	if g == nil {
		g = scene.DefaultGrid(s.Dimensions)
	}
	return lattice.Bounds{Min: g.Min, Max: g.Max, Step: g.Step, Subdiv: opts.Subdiv}
}

// WarpScene builds the engine and lattice for s and warps the lattice.
func WarpScene(ctx context.Context, s *scene.Scene, opts Options) (*Warp, error) {
	if s.Dimensions == 3 {
		e, err := Engine3D(s, opts)
		if err != nil {
			return nil, err
		}
		lines, err := lattice.Volume(bounds(s, opts))
		if err != nil {
			return nil, err
		}
		warped, err := lattice.Warp(ctx, e, lines)
		if err != nil {
			return nil, err
		}
		w := newWarp(s, e)
		w.Volume, w.VolumeAnchors = warped, render.Markers(e)
		return w, nil
	}

	e, err := Engine2D(s, opts)
	if err != nil {
		return nil, err
	}
	lines, err := lattice.Plane(bounds(s, opts))
	if err != nil {
		return nil, err
	}
	warped, err := lattice.Warp(ctx, e, lines)
	if err != nil {
		return nil, err
	}
	w := newWarp(s, e)
	w.Plane, w.PlaneAnchors = warped, render.Markers(e)
	return w, nil
}

func newWarp[V, R any](s *scene.Scene, e *stretch.Engine[V, R]) *Warp {
	return &Warp{
		Name:       s.Name,
		Dimensions: e.Space().Dim(),
		Mode:       e.WeightingMode(),
		Exponents:  [3]float64{e.Exponent1(), e.Exponent2(), e.Exponent3()},
	}
}
