package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// slerpLinearThreshold is the cosine above which Slerp falls back to a
// normalized linear interpolation.
const slerpLinearThreshold = 0.9995

// IdentityQuat returns the quaternion of the identity rotation.
func IdentityQuat() quat.Number {
	return quat.Number{Real: 1}
}

// NormalizeQuat scales q to unit length. The zero quaternion maps to the
// identity.
func NormalizeQuat(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return IdentityQuat()
	}
	return quat.Scale(1/n, q)
}

// QuatDot returns the four-dimensional dot product of q and p.
func QuatDot(q, p quat.Number) float64 {
	return q.Real*p.Real + q.Imag*p.Imag + q.Jmag*p.Jmag + q.Kmag*p.Kmag
}

// RotationBetween returns the unit quaternion of the shortest rotation that
// carries the direction of from onto the direction of to. If either vector
// is zero there is no direction to relate and the identity is returned.
func RotationBetween(from, to r3.Vec) quat.Number {
	if r3.Norm(from) == 0 || r3.Norm(to) == 0 {
		return IdentityQuat()
	}
	u := r3.Unit(from)
	v := r3.Unit(to)

	d := r3.Dot(u, v)
	switch {
	case d >= 1:
		return IdentityQuat()
	case d <= -1+1e-12:
		// Opposite directions: half a turn about any axis perpendicular to u.
		axis := r3.Cross(r3.Vec{X: 1}, u)
		if r3.Norm(axis) < 1e-6 {
			axis = r3.Cross(r3.Vec{Y: 1}, u)
		}
		axis = r3.Unit(axis)
		return quat.Number{Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
	}

	c := r3.Cross(u, v)
	return NormalizeQuat(quat.Number{Real: 1 + d, Imag: c.X, Jmag: c.Y, Kmag: c.Z})
}

// Slerp interpolates along the shorter great arc from q (t = 0) to p (t = 1).
func Slerp(q, p quat.Number, t float64) quat.Number {
	v0 := NormalizeQuat(q)
	v1 := NormalizeQuat(p)

	dot := QuatDot(v0, v1)
	if dot < 0 {
		v1 = quat.Scale(-1, v1)
		dot = -dot
	}
	if dot > slerpLinearThreshold {
		return NormalizeQuat(quat.Add(v0, quat.Scale(t, quat.Sub(v1, v0))))
	}

	theta := math.Acos(math.Min(dot, 1)) * t
	v2 := NormalizeQuat(quat.Sub(v1, quat.Scale(dot, v0)))
	sin, cos := math.Sincos(theta)
	return quat.Add(quat.Scale(cos, v0), quat.Scale(sin, v2))
}

// ChainSlerp approximates the weighted average of qs.
//
// Starting from qs[0], the running result is slerped toward qs[i] by
// ws[i] / (ws[0] + … + ws[i]). Entries that add no weight are skipped, so a
// zero total weight returns qs[0] unchanged. The result depends on the
// order of qs. ws must be as long as qs. An empty input yields the identity.
func ChainSlerp(qs []quat.Number, ws []float64) quat.Number {
	if len(qs) == 0 {
		return IdentityQuat()
	}
	cum := floats.CumSum(make([]float64, len(qs)), ws[:len(qs)])

	res := qs[0]
	for i := 1; i < len(qs); i++ {
		if ws[i] == 0 || cum[i] <= 0 {
			continue
		}
		res = Slerp(res, qs[i], ws[i]/cum[i])
	}
	return res
}

// QuatAxisAngle decomposes a rotation quaternion into its angle (radians,
// in [0, π]) and unit axis. The identity reports angle 0 and the X axis.
func QuatAxisAngle(q quat.Number) (float64, r3.Vec) {
	q = NormalizeQuat(q)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	axis := r3.Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	s := r3.Norm(axis)
	if s < 1e-12 {
		return 0, r3.Vec{X: 1}
	}
	return 2 * math.Atan2(s, q.Real), r3.Scale(1/s, axis)
}
