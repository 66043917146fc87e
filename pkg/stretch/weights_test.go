package stretch

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) <= tol }

func approx2(a, b r2.Vec) bool { return approx(a.X, b.X) && approx(a.Y, b.Y) }

func approx3(a, b r3.Vec) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

// plane builds a 2D engine from origin/target pairs.
func plane(pairs ...[2]r2.Vec) *Engine2D {
	e := New2D()
	for _, p := range pairs {
		e.AddAnchorPair(p[0], p[1])
	}
	return e
}

func TestWeights(t *testing.T) {
	tests := []struct {
		name     string
		anchors  []r2.Vec
		p        r2.Vec
		exclude  int
		exponent float64
		want     []float64
	}{
		{
			name:     "empty",
			anchors:  nil,
			p:        r2.Vec{X: 1},
			exclude:  -1,
			exponent: 2,
			want:     []float64{},
		},
		{
			name:     "midpoint",
			anchors:  []r2.Vec{{}, {X: 10}},
			p:        r2.Vec{X: 5},
			exclude:  -1,
			exponent: 2,
			want:     []float64{0.5, 0.5},
		},
		{
			name:     "inverse distance",
			anchors:  []r2.Vec{{}, {X: 4}},
			p:        r2.Vec{X: 1},
			exclude:  -1,
			exponent: 1,
			want:     []float64{0.75, 0.25},
		},
		{
			name:     "inverse square",
			anchors:  []r2.Vec{{}, {X: 4}},
			p:        r2.Vec{X: 1},
			exclude:  -1,
			exponent: 2,
			want:     []float64{0.9, 0.1},
		},
		{
			name:     "coincident dominates",
			anchors:  []r2.Vec{{}, {X: 10}, {X: 20}},
			p:        r2.Vec{X: 10},
			exclude:  -1,
			exponent: 2,
			want:     []float64{0, 1, 0},
		},
		{
			name:     "first coincident wins",
			anchors:  []r2.Vec{{X: 3}, {X: 3}},
			p:        r2.Vec{X: 3},
			exclude:  -1,
			exponent: 2,
			want:     []float64{1, 0},
		},
		{
			name:     "excluded coincident anchor",
			anchors:  []r2.Vec{{}, {X: 10}},
			p:        r2.Vec{},
			exclude:  0,
			exponent: 1,
			want:     []float64{0, 1},
		},
		{
			name:     "only the excluded anchor",
			anchors:  []r2.Vec{{X: 7}},
			p:        r2.Vec{},
			exclude:  0,
			exponent: 1,
			want:     []float64{0},
		},
		{
			name:     "zero exponent is uniform",
			anchors:  []r2.Vec{{X: 1}, {X: 50}, {Y: -300}, {X: 9, Y: 9}},
			p:        r2.Vec{X: 100, Y: 100},
			exclude:  2,
			exponent: 0,
			want:     []float64{1.0 / 3, 1.0 / 3, 0, 1.0 / 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New2D()
			for _, a := range tt.anchors {
				e.AddAnchor(a)
			}
			got := e.Weights(tt.p, Origins, tt.exclude, tt.exponent)
			if len(got) != len(tt.want) {
				t.Fatalf("len(Weights) = %d, want %d", len(got), len(tt.want))
			}
			if !floats.EqualApprox(got, tt.want, tol) {
				t.Errorf("Weights() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightsTargets(t *testing.T) {
	e := plane(
		[2]r2.Vec{{}, {Y: 10}},
		[2]r2.Vec{{Y: 10}, {X: 40}},
	)

	// measured to targets, p sits on anchor 0's target
	if got := e.Weights(r2.Vec{Y: 10}, Targets, -1, 2); !floats.Equal(got, []float64{1, 0}) {
		t.Errorf("Weights(Targets) = %v, want [1 0]", got)
	}
	// measured to origins, p sits on anchor 1's origin
	if got := e.Weights(r2.Vec{Y: 10}, Origins, -1, 2); !floats.Equal(got, []float64{0, 1}) {
		t.Errorf("Weights(Origins) = %v, want [0 1]", got)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	e := New3D()
	for _, a := range []r3.Vec{{}, {X: 10}, {Y: -4, Z: 2}, {X: 3, Y: 3, Z: 3}, {Z: -50}} {
		e.AddAnchor(a)
	}

	for _, exponent := range []float64{0.5, 1, 2, 4} {
		for exclude := -1; exclude < e.AnchorCount(); exclude++ {
			for _, p := range []r3.Vec{{X: 1, Y: 1, Z: 1}, {X: -20, Y: 5}, {X: 10}, {Z: 100}} {
				w := e.Weights(p, Origins, exclude, exponent)
				if sum := floats.Sum(w); !approx(sum, 1) {
					t.Errorf("sum(Weights(%v, exclude=%d, exp=%v)) = %v, want 1", p, exclude, exponent, sum)
				}
				if exclude >= 0 && w[exclude] != 0 {
					t.Errorf("Weights(%v)[%d] = %v, want 0 for excluded index", p, exclude, w[exclude])
				}
			}
		}
	}
}

func TestWeightsOverflowPicksNearest(t *testing.T) {
	e := plane(
		[2]r2.Vec{{}, {}},
		[2]r2.Vec{{X: 1}, {X: 1}},
	)
	// 1e-200^2 underflows the denominator and the raw weight becomes +Inf
	got := e.Weights(r2.Vec{X: 1e-200}, Origins, -1, 2)
	if !floats.Equal(got, []float64{1, 0}) {
		t.Errorf("Weights() = %v, want [1 0]", got)
	}
}
