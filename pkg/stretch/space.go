package stretch

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stretchwarp/pkg/geom"
)

// Similarity is a translation, rotation and uniform scale. Applied to a
// vector v it yields Translation + Rotate(Scale·v).
type Similarity[V, R any] struct {
	Translation V
	Rotation    R
	Scale       float64
}

// Mapper applies a compiled transform to a vector.
type Mapper[V any] interface {
	Apply(V) V
}

// Space supplies the vector algebra and rotation model for one
// dimensionality. V is the point type, R the rotation type.
type Space[V, R any] interface {
	// Dim returns the number of coordinates per point.
	Dim() int
	// Vec builds a point from exactly Dim coordinates.
	Vec(coords []float64) V
	// Coords returns the coordinates of v.
	Coords(v V) []float64

	Add(a, b V) V
	Sub(a, b V) V
	Scale(f float64, v V) V
	Dot(a, b V) float64
	Norm(v V) float64

	// Identity returns the rotation that leaves every vector unchanged.
	Identity() R
	// Between returns the rotation that turns the direction of from into
	// the direction of to.
	Between(from, to V) R
	// Mean returns the weighted average of rotations.
	Mean(rs []R, ws []float64) R
	// Angle returns the rotation angle of r in radians.
	Angle(r R) float64

	// Compile turns a similarity into a reusable Mapper.
	Compile(s Similarity[V, R]) Mapper[V]
}

var (
	_ Space[r2.Vec, float64]     = Plane{}
	_ Space[r3.Vec, quat.Number] = Volume{}
)

// Plane is the 2D space. Rotations are counter-clockwise angles in radians.
type Plane struct{}

func (Plane) Dim() int { return 2 }

func (Plane) Vec(c []float64) r2.Vec { return r2.Vec{X: c[0], Y: c[1]} }

func (Plane) Coords(v r2.Vec) []float64 { return []float64{v.X, v.Y} }

func (Plane) Add(a, b r2.Vec) r2.Vec           { return r2.Add(a, b) }
func (Plane) Sub(a, b r2.Vec) r2.Vec           { return r2.Sub(a, b) }
func (Plane) Scale(f float64, v r2.Vec) r2.Vec { return r2.Scale(f, v) }
func (Plane) Dot(a, b r2.Vec) float64          { return r2.Dot(a, b) }
func (Plane) Norm(v r2.Vec) float64            { return r2.Norm(v) }

func (Plane) Identity() float64 { return 0 }

func (Plane) Angle(r float64) float64 { return r }

// Mean returns the weighted circular mean; see [geom.AngleAverage].
func (Plane) Mean(rs []float64, ws []float64) float64 { return geom.AngleAverage(rs, ws) }

// Between returns the signed shorter-arc angle from the heading of from to
// the heading of to. A zero vector has heading 0.
func (Plane) Between(from, to r2.Vec) float64 {
	return geom.AngleDiff(math.Atan2(to.Y, to.X), math.Atan2(from.Y, from.X))
}

func (Plane) Compile(s Similarity[r2.Vec, float64]) Mapper[r2.Vec] {
	return geom.Similarity2(s.Translation, s.Rotation, s.Scale)
}

// Volume is the 3D space. Rotations are unit quaternions.
type Volume struct{}

func (Volume) Dim() int { return 3 }

func (Volume) Vec(c []float64) r3.Vec { return r3.Vec{X: c[0], Y: c[1], Z: c[2]} }

func (Volume) Coords(v r3.Vec) []float64 { return []float64{v.X, v.Y, v.Z} }

func (Volume) Add(a, b r3.Vec) r3.Vec           { return r3.Add(a, b) }
func (Volume) Sub(a, b r3.Vec) r3.Vec           { return r3.Sub(a, b) }
func (Volume) Scale(f float64, v r3.Vec) r3.Vec { return r3.Scale(f, v) }
func (Volume) Dot(a, b r3.Vec) float64          { return r3.Dot(a, b) }
func (Volume) Norm(v r3.Vec) float64            { return r3.Norm(v) }

func (Volume) Identity() quat.Number { return geom.IdentityQuat() }

func (Volume) Between(from, to r3.Vec) quat.Number { return geom.RotationBetween(from, to) }

// Mean chains slerps in the order given; see [geom.ChainSlerp].
func (Volume) Mean(rs []quat.Number, ws []float64) quat.Number { return geom.ChainSlerp(rs, ws) }

func (Volume) Angle(r quat.Number) float64 {
	angle, _ := geom.QuatAxisAngle(r)
	return angle
}

func (Volume) Compile(s Similarity[r3.Vec, quat.Number]) Mapper[r3.Vec] {
	return geom.Similarity3(s.Translation, s.Rotation, s.Scale)
}

// unit returns v scaled to length 1, or the zero vector when v has no length.
func unit[V, R any](s Space[V, R], v V) V {
	n := s.Norm(v)
	if n == 0 {
		var zero V
		return zero
	}
	return s.Scale(1/n, v)
}
