package stretch

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// directionalOffset blends anchor a's pairwise transforms for the offset
// aToP (from a's origin to the query point) and returns the resulting
// displacement.
//
// Each peer j is weighted by its distance weight times
// max(dirⱼ·unit(aToP) + 1, 0)^exponent3, so peers lying in the direction of
// the point count more. If either direction is undefined the alignment
// factor is 1. When no peer carries weight the displacement is zero.
func (e *Engine[V, R]) directionalOffset(a *Anchor[V, R], aToP V) V {
	var out V
	if len(a.peers) == 0 {
		return out
	}

	toP := unit(e.space, aToP)
	hasDir := e.space.Norm(aToP) > 0

	ws := make([]float64, len(a.peers))
	for j, p := range a.peers {
		if p.mapper == nil {
			continue
		}
		w := 1.0
		if hasDir && e.space.Norm(p.dir) > 0 {
			w = math.Pow(math.Max(e.space.Dot(p.dir, toP)+1, 0), e.exp3)
		}
		ws[j] = w * a.peerWeights[j]
	}

	sum := floats.Sum(ws)
	if sum == 0 {
		return out
	}
	for j, p := range a.peers {
		if ws[j] == 0 {
			continue
		}
		off := e.space.Sub(p.mapper.Apply(aToP), aToP)
		out = e.space.Add(out, e.space.Scale(ws[j]/sum, off))
	}
	return out
}
