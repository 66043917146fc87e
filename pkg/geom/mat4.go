package geom

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mat4 is a homogeneous 4×4 matrix in column-major order: element (row r,
// column c) is stored at index c*4+r, so the translation sits in m[12:15].
type Mat4 [16]float64

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 returns a translation by t.
func Translate4(t r3.Vec) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

// Scale4 returns a uniform scale by s.
func Scale4(s float64) Mat4 {
	m := Identity4()
	m[0], m[5], m[10] = s, s, s
	return m
}

// Rotate4 returns the rotation described by q. q is normalized first; a zero
// quaternion yields the identity.
func Rotate4(q quat.Number) Mat4 {
	q = NormalizeQuat(q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	m := Identity4()
	m[0] = 1 - 2*(y*y+z*z)
	m[1] = 2 * (x*y + w*z)
	m[2] = 2 * (x*z - w*y)

	m[4] = 2 * (x*y - w*z)
	m[5] = 1 - 2*(x*x+z*z)
	m[6] = 2 * (y*z + w*x)

	m[8] = 2 * (x*z + w*y)
	m[9] = 2 * (y*z - w*x)
	m[10] = 1 - 2*(x*x+y*y)
	return m
}

// Mul returns m * n, the transform that applies n first and then m.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Apply transforms p as a point (w = 1, translation included).
func (m Mat4) Apply(p r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// Similarity3 returns Translate(t) ∘ Rotate(q) ∘ Scale(s).
func Similarity3(t r3.Vec, q quat.Number, s float64) Mat4 {
	return Translate4(t).Mul(Rotate4(q)).Mul(Scale4(s))
}
