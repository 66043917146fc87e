package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Affine2 is a 2D affine matrix stored as [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type Affine2 [6]float64

// Identity2 returns the identity matrix.
func Identity2() Affine2 {
	return Affine2{1, 0, 0, 1, 0, 0}
}

// Translate2 returns a translation by t.
func Translate2(t r2.Vec) Affine2 {
	return Affine2{1, 0, 0, 1, t.X, t.Y}
}

// Rotate2 returns a counter-clockwise rotation by theta radians.
func Rotate2(theta float64) Affine2 {
	sin, cos := math.Sincos(theta)
	return Affine2{cos, sin, -sin, cos, 0, 0}
}

// Scale2 returns a uniform scale by s.
func Scale2(s float64) Affine2 {
	return Affine2{s, 0, 0, s, 0, 0}
}

// Mul returns m * n, the transform that applies n first and then m.
func (m Affine2) Mul(n Affine2) Affine2 {
	return Affine2{
		m[0]*n[0] + m[2]*n[1],
		m[1]*n[0] + m[3]*n[1],
		m[0]*n[2] + m[2]*n[3],
		m[1]*n[2] + m[3]*n[3],
		m[0]*n[4] + m[2]*n[5] + m[4],
		m[1]*n[4] + m[3]*n[5] + m[5],
	}
}

// Apply transforms p as a point (translation included).
func (m Affine2) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Similarity2 returns Translate(t) ∘ Rotate(theta) ∘ Scale(s).
func Similarity2(t r2.Vec, theta, s float64) Affine2 {
	return Translate2(t).Mul(Rotate2(theta)).Mul(Scale2(s))
}
