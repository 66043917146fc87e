package stretch

// Anchor is one control point of an [Engine]: where a point was (origin) and
// where it should go (target).
//
// Anchors are created and mutated only through their engine so that every
// change invalidates the engine's cache. The derived fields below are valid
// only while the owning engine is clean.
type Anchor[V, R any] struct {
	origin V
	target V

	local  Similarity[V, R]
	mapper Mapper[V]

	// peerWeights[j] is the influence of anchor j on this anchor's rotation
	// and scale (0 at this anchor's own index).
	peerWeights []float64

	// peers[j] is the pairwise transform towards anchor j. Populated only in
	// Directional mode; the entry at this anchor's own index has a nil mapper.
	peers []peer[V]
}

// peer is the pairwise transform implied by one other anchor, plus the unit
// direction from this anchor's origin to the peer's origin.
type peer[V any] struct {
	mapper Mapper[V]
	dir    V
}

// Origin returns the anchor's position before deformation.
func (a *Anchor[V, R]) Origin() V { return a.origin }

// Target returns the anchor's position after deformation.
func (a *Anchor[V, R]) Target() V { return a.target }

func (a *Anchor[V, R]) position(set PointSet) V {
	if set == Targets {
		return a.target
	}
	return a.origin
}
