// Package stretch implements an anchor-driven deformation of the plane and of
// space.
//
// # Overview
//
// An [Engine] owns an ordered list of anchors. Each anchor pairs an origin
// (where a point was) with a target (where it should go). From those pairs
// the engine derives a continuous map: every point is moved by a weighted
// blend of the local similarity transforms (translation, rotation and
// uniform scale) implied by the anchors around it.
//
// The same engine drives both dimensionalities through a [Space]:
//
//   - [Plane]: points are [r2.Vec], rotations are angles in radians.
//   - [Volume]: points are [r3.Vec], rotations are unit quaternions.
//
// Use [New2D] or [New3D] to get a ready engine:
//
//	e := stretch.New2D()
//	e.AddAnchorPair(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 5})
//	e.AddAnchorPair(r2.Vec{X: 10, Y: 0}, r2.Vec{X: 15, Y: 5})
//	p := e.Transform(r2.Vec{X: 3, Y: 7}) // ≈ (8, 12)
//
// # Weighting
//
// All influence is inverse-distance weighting ([Engine.Weights]): anchor i
// gets 1/dᵢ^exponent, normalized to sum to 1. A point that coincides with an
// anchor is owned by that anchor alone. Three exponents shape the field:
//
//   - Exponent1: how sharply peers influence an anchor's own rotation and
//     scale (measured between targets).
//   - Exponent2: how sharply anchors influence an evaluated point (measured
//     from the point to each origin).
//   - Exponent3: how strongly directional alignment sharpens peer weights
//     ([Directional] mode only).
//
// # Local Transforms
//
// For every anchor the engine compares how each peer moved relative to it:
// the rotation carrying origin→origin onto target→target and the ratio of
// the two distances. Rotations are averaged (circular mean in 2D, chained
// slerp in 3D) and scales are combined as a weighted geometric mean. The
// result is Translate(target − origin) ∘ Rotate(mean) ∘ Scale(factor).
//
// Two peers that share an origin but not a target imply an unbounded
// stretch; the pair is assigned [DegenerateScale] instead.
//
// # Weighting Modes
//
// In [Simple] mode each anchor applies its single local transform to the
// offset from its origin to the point. In [Directional] mode each anchor
// keeps one pairwise transform per peer and blends them by both distance
// and how well the direction towards the point agrees with the direction
// towards that peer.
//
// # Caching
//
// Local and pairwise transforms are cached. Every mutation (adding, removing
// or moving an anchor, changing an exponent or the mode) marks the cache
// stale; the next evaluation rebuilds all anchors in one pass and only then
// replaces the cache. Rebuilding is O(n²) in the number of anchors;
// evaluating a point is O(n) in Simple mode and O(n²) in Directional mode.
//
// # Anchor Identity
//
// Anchors are addressed by index, and indices shift when an earlier anchor is
// removed. Callers must not hold an index across a removal. Pointers returned
// by [Engine.AnchorAt] stay valid and can be passed to
// [Engine.RemoveAnchorRef] or [Engine.IndexOf].
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Evaluation writes the cache, so
// even concurrent calls to [Engine.Transform] must be serialized by the
// caller.
package stretch
