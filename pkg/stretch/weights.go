package stretch

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Weights returns the inverse-distance weight of every anchor relative to p,
// measuring to each anchor's origin or target as selected by set.
//
// The anchor at index exclude always gets weight 0 (pass -1 to exclude
// nothing). If p coincides with the nearest remaining anchor, that anchor
// gets weight 1 and all others 0. Otherwise anchor i gets 1/dᵢ^exponent and
// the weights are normalized to sum to 1. With no remaining anchor, or when
// every raw weight underflows to zero, all weights are 0.
//
// The returned slice has one entry per anchor and is owned by the caller.
func (e *Engine[V, R]) Weights(p V, set PointSet, exclude int, exponent float64) []float64 {
	n := len(e.anchors)
	weights := make([]float64, n)
	dists := make([]float64, n)

	k := -1
	minDist := math.Inf(1)
	for i, a := range e.anchors {
		dists[i] = e.space.Norm(e.space.Sub(p, a.position(set)))
		if i != exclude && dists[i] < minDist {
			minDist = dists[i]
			k = i
		}
	}
	if k < 0 {
		return weights
	}
	if minDist == 0 {
		weights[k] = 1
		return weights
	}

	for i, d := range dists {
		if i != exclude {
			weights[i] = 1 / math.Pow(d, exponent)
		}
	}
	sum := floats.Sum(weights)
	switch {
	case sum == 0:
		return weights
	case math.IsInf(sum, 1):
		// the nearest anchor is close enough for its raw weight to overflow
		clear(weights)
		weights[k] = 1
		return weights
	}
	floats.Scale(1/sum, weights)
	return weights
}
