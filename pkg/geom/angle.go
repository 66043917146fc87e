package geom

import "math"

const twoPi = 2 * math.Pi

// NormalizeAngle wraps an angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	// a tiny negative input rounds up to exactly 2π
	if a >= twoPi {
		a -= twoPi
	}
	return a
}

// AngleDiff returns the signed difference a1 - a2 along the shorter arc.
// The result lies in (-π, π]; a difference of exactly half a turn is
// reported as +π.
func AngleDiff(a1, a2 float64) float64 {
	d := NormalizeAngle(a1) - NormalizeAngle(a2)
	switch {
	case d > math.Pi:
		d -= twoPi
	case d <= -math.Pi:
		d += twoPi
	}
	return d
}

// AngleAverage returns the weighted circular mean of angles.
//
// Each angle becomes the unit vector (cos θ, sin θ) scaled by its weight;
// the mean is the direction of the sum. Weights need not sum to 1. When the
// sum vanishes (no weight, or perfectly opposed angles) the result is 0.
// weights must be at least as long as angles.
func AngleAverage(angles, weights []float64) float64 {
	var x, y float64
	for i, a := range angles {
		sin, cos := math.Sincos(a)
		x += weights[i] * cos
		y += weights[i] * sin
	}
	return math.Atan2(y, x)
}
