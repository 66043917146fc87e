// Package lattice builds the axis-aligned line sets that make a deformation
// visible, and pushes them through a [stretch.Engine].
//
// A lattice is a set of polylines. In the plane there is one horizontal and
// one vertical line through every grid tick; in space there is one line per
// axis through every tick of the other two axes, which draws the edges of
// stacked cubes. Lines are sampled at every tick, optionally subdivided so
// bent lines render smoothly.
package lattice

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// MaxSamples caps the number of points in one lattice, counted after
// subdivision.
const MaxSamples = 250_000

// ctxCheckEvery is how many points Warp maps between context checks.
const ctxCheckEvery = 4096

// Axis names the coordinate a line runs along.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "unknown"
}

// Line is one polyline of a lattice.
type Line[V any] struct {
	Axis   Axis
	Points []V
}

// Bounds is the box and spacing of a lattice.
type Bounds struct {
	Min  []float64
	Max  []float64
	Step float64
	// Subdiv is the number of samples per step along each line. Values
	// below 1 mean 1.
	Subdiv int
}

func (b Bounds) validate(dims int) error {
	if err := werrors.ValidateCoords(b.Min, dims); err != nil {
		return err
	}
	if err := werrors.ValidateCoords(b.Max, dims); err != nil {
		return err
	}
	if !(b.Step > 0) || math.IsInf(b.Step, 0) {
		return werrors.New(werrors.ErrCodeInvalidArgument, "step must be positive and finite, got %v", b.Step)
	}
	for i := range b.Min {
		if b.Max[i] < b.Min[i] {
			return werrors.New(werrors.ErrCodeInvalidArgument, "max[%d] = %v is below min[%d] = %v", i, b.Max[i], i, b.Min[i])
		}
	}
	return nil
}

// Lines returns how many lines a lattice over b has in dims dimensions, or
// zero if b is invalid.
func (b Bounds) Lines(dims int) int {
	if b.validate(dims) != nil {
		return 0
	}
	n := make([]int, dims)
	for i := range dims {
		n[i] = len(ticks(b.Min[i], b.Max[i], b.Step))
	}
	total := 0
	for axis := range dims {
		count := 1
		for i := range dims {
			if i != axis {
				count *= n[i]
			}
		}
		total += count
	}
	return total
}

// Samples returns how many points a lattice over b has in dims dimensions,
// counting subdivision, or zero if b is invalid. The count is a float so
// absurd bounds cannot overflow it.
func (b Bounds) Samples(dims int) float64 {
	if b.validate(dims) != nil {
		return 0
	}
	sub := float64(max(b.Subdiv, 1))
	n := make([]float64, dims)
	along := make([]float64, dims)
	for i := range dims {
		n[i] = math.Floor((b.Max[i]-b.Min[i])/b.Step+1e-9) + 1
		along[i] = math.Floor((b.Max[i]-b.Min[i])/(b.Step/sub)+1e-9) + 1
	}
	total := 0.0
	for axis := range dims {
		count := along[axis]
		for i := range dims {
			if i != axis {
				count *= n[i]
			}
		}
		total += count
	}
	return total
}

func (b Bounds) checkSamples(dims int) error {
	if n := b.Samples(dims); n > MaxSamples {
		return werrors.New(werrors.ErrCodeInvalidArgument,
			"lattice too dense: %.0f samples at subdiv %d exceeds %d", n, max(b.Subdiv, 1), MaxSamples)
	}
	return nil
}

// ticks returns min, min+step, ... up to max inclusive.
func ticks(lo, hi, step float64) []float64 {
	n := int(math.Floor((hi-lo)/step + 1e-9))
	out := make([]float64, n+1)
	for k := range out {
		out[k] = lo + float64(k)*step
	}
	return out
}

// samples returns the positions along one line, ticks split subdiv times.
func samples(lo, hi, step float64, subdiv int) []float64 {
	return ticks(lo, hi, step/float64(max(subdiv, 1)))
}

// Plane builds the horizontal and vertical lines of a 2D lattice.
// Horizontal lines (AxisX) come first, top to bottom. Lattices over
// [MaxSamples] points are rejected.
func Plane(b Bounds) ([]Line[r2.Vec], error) {
	if err := b.validate(2); err != nil {
		return nil, err
	}
	if err := b.checkSamples(2); err != nil {
		return nil, err
	}
	xs, ys := ticks(b.Min[0], b.Max[0], b.Step), ticks(b.Min[1], b.Max[1], b.Step)
	sx := samples(b.Min[0], b.Max[0], b.Step, b.Subdiv)
	sy := samples(b.Min[1], b.Max[1], b.Step, b.Subdiv)

	lines := make([]Line[r2.Vec], 0, len(xs)+len(ys))
	for _, y := range ys {
		pts := make([]r2.Vec, len(sx))
		for i, x := range sx {
			pts[i] = r2.Vec{X: x, Y: y}
		}
		lines = append(lines, Line[r2.Vec]{Axis: AxisX, Points: pts})
	}
	for _, x := range xs {
		pts := make([]r2.Vec, len(sy))
		for i, y := range sy {
			pts[i] = r2.Vec{X: x, Y: y}
		}
		lines = append(lines, Line[r2.Vec]{Axis: AxisY, Points: pts})
	}
	return lines, nil
}

// Volume builds the x, y and z lines of a 3D lattice, in that order.
// Lattices over [MaxSamples] points are rejected.
func Volume(b Bounds) ([]Line[r3.Vec], error) {
	if err := b.validate(3); err != nil {
		return nil, err
	}
	if err := b.checkSamples(3); err != nil {
		return nil, err
	}
	var t, s [3][]float64
	for i := range 3 {
		t[i] = ticks(b.Min[i], b.Max[i], b.Step)
		s[i] = samples(b.Min[i], b.Max[i], b.Step, b.Subdiv)
	}

	var lines []Line[r3.Vec]
	for axis := range 3 {
		// u and v are the two axes the line does not run along.
		u, v := (axis+1)%3, (axis+2)%3
		for _, tu := range t[u] {
			for _, tv := range t[v] {
				pts := make([]r3.Vec, len(s[axis]))
				for i, along := range s[axis] {
					var c [3]float64
					c[axis], c[u], c[v] = along, tu, tv
					pts[i] = r3.Vec{X: c[0], Y: c[1], Z: c[2]}
				}
				lines = append(lines, Line[r3.Vec]{Axis: Axis(axis), Points: pts})
			}
		}
	}
	return lines, nil
}

// Warp maps every line through e. The context is checked before each line
// and every few thousand points within a line.
func Warp[V, R any](ctx context.Context, e *stretch.Engine[V, R], lines []Line[V]) ([]Line[V], error) {
	out := make([]Line[V], len(lines))
	done := 0
	for i, l := range lines {
		pts := make([]V, len(l.Points))
		for j, p := range l.Points {
			if done%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			pts[j] = e.Transform(p)
			done++
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = Line[V]{Axis: l.Axis, Points: pts}
	}
	return out, nil
}

// Count returns the total number of points over all lines.
func Count[V any](lines []Line[V]) int {
	n := 0
	for _, l := range lines {
		n += len(l.Points)
	}
	return n
}
