package stretch

import (
	"math"
	"time"

	"github.com/matzehuels/stretchwarp/pkg/observability"
)

// DegenerateScale is the pairwise scale assigned when two anchors share an
// origin but have distinct targets. The true ratio is unbounded.
const DegenerateScale = 10.0

// relation is how anchor j moved as seen from anchor i.
type relation[R any] struct {
	rotation R
	scale    float64
}

// relate compares the segment origin_i→origin_j with target_i→target_j.
func (e *Engine[V, R]) relate(a, b *Anchor[V, R]) relation[R] {
	from := e.space.Sub(b.origin, a.origin)
	to := e.space.Sub(b.target, a.target)
	return relation[R]{
		rotation: e.space.Between(from, to),
		scale:    pairScale(e.space.Norm(from), e.space.Norm(to)),
	}
}

// pairScale returns d2/d1 with the degenerate cases pinned: both zero is no
// change and a zero origin distance is [DegenerateScale].
func pairScale(d1, d2 float64) float64 {
	switch {
	case d1 == 0 && d2 == 0:
		return 1
	case d1 == 0:
		return DegenerateScale
	}
	return d2 / d1
}

// rebuild recomputes every anchor's local transform, peer weights and (in
// Directional mode) pairwise transforms. Results are collected first and
// committed together, so the cache is never seen half updated.
func (e *Engine[V, R]) rebuild() {
	start := time.Now()
	n := len(e.anchors)
	directional := e.mode == Directional

	locals := make([]Similarity[V, R], n)
	mappers := make([]Mapper[V], n)
	peerWeights := make([][]float64, n)
	peers := make([][]peer[V], n)

	for i, a := range e.anchors {
		w := e.Weights(a.target, Targets, i, e.exp1)
		delta := e.space.Sub(a.target, a.origin)

		rots := make([]R, 0, n)
		rws := make([]float64, 0, n)
		sFac := 1.0
		var row []peer[V]
		if directional {
			row = make([]peer[V], n)
		}

		for j, b := range e.anchors {
			if j == i {
				continue
			}
			rel := e.relate(a, b)
			rots = append(rots, rel.rotation)
			rws = append(rws, w[j])
			sFac *= math.Pow(rel.scale, w[j])

			if directional {
				row[j] = peer[V]{
					mapper: e.space.Compile(Similarity[V, R]{
						Translation: delta,
						Rotation:    rel.rotation,
						Scale:       rel.scale,
					}),
					dir: unit(e.space, e.space.Sub(b.origin, a.origin)),
				}
			}
		}

		rot := e.space.Identity()
		if len(rots) > 0 {
			rot = e.space.Mean(rots, rws)
		}
		locals[i] = Similarity[V, R]{Translation: delta, Rotation: rot, Scale: sFac}
		mappers[i] = e.space.Compile(locals[i])
		peerWeights[i] = w
		peers[i] = row
	}

	for i, a := range e.anchors {
		a.local = locals[i]
		a.mapper = mappers[i]
		a.peerWeights = peerWeights[i]
		a.peers = peers[i]
	}
	e.state = clean

	elapsed := time.Since(start)
	e.logger.Debug("rebuilt anchor transforms",
		"dims", e.space.Dim(), "anchors", n, "mode", e.mode, "duration", elapsed)
	observability.Engine().OnRebuild(e.space.Dim(), n, e.mode.String(), elapsed)
}

// LocalTransform returns the cached local similarity of anchor i, rebuilding
// the cache first if it is stale.
func (e *Engine[V, R]) LocalTransform(i int) (Similarity[V, R], error) {
	if err := e.checkIndex(i); err != nil {
		return Similarity[V, R]{}, err
	}
	e.ensure()
	return e.anchors[i].local, nil
}

// PeerWeights returns how strongly every anchor influences the rotation and
// scale of anchor i. The entry at i is 0.
func (e *Engine[V, R]) PeerWeights(i int) ([]float64, error) {
	if err := e.checkIndex(i); err != nil {
		return nil, err
	}
	e.ensure()
	return append([]float64(nil), e.anchors[i].peerWeights...), nil
}
