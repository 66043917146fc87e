package stretch

import (
	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
)

// Transform maps p through the current deformation.
//
// Each anchor i proposes a displacement for p: in [Simple] mode its local
// transform applied to p − originᵢ, minus p − originᵢ; in [Directional] mode
// the blend of its pairwise transforms. The displacements are combined with
// Weights(p, Origins, -1, Exponent2) and added to p. With no anchors p is
// returned unchanged.
//
// A stale cache is rebuilt first, so results always reflect the current
// anchors, exponents and mode.
func (e *Engine[V, R]) Transform(p V) V {
	if len(e.anchors) == 0 {
		return p
	}
	e.ensure()

	weights := e.Weights(p, Origins, -1, e.exp2)
	directional := e.mode == Directional

	var sum V
	for i, a := range e.anchors {
		if weights[i] == 0 {
			continue
		}
		d := e.space.Sub(p, a.origin)

		var off V
		if directional {
			off = e.directionalOffset(a, d)
		} else {
			off = e.space.Sub(a.mapper.Apply(d), d)
		}
		sum = e.space.Add(sum, e.space.Scale(weights[i], off))
	}
	return e.space.Add(p, sum)
}

// TransformAll maps every point in ps and returns the results in order.
func (e *Engine[V, R]) TransformAll(ps []V) []V {
	out := make([]V, len(ps))
	for i, p := range ps {
		out[i] = e.Transform(p)
	}
	return out
}

// TransformCoords maps a point given as raw coordinates. The number of
// coordinates must match the engine's dimensionality.
func (e *Engine[V, R]) TransformCoords(coords ...float64) ([]float64, error) {
	if err := werrors.ValidateCoords(coords, e.space.Dim()); err != nil {
		return nil, err
	}
	return e.space.Coords(e.Transform(e.space.Vec(coords))), nil
}
