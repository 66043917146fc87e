package lattice

import (
	"context"
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

func TestTicks(t *testing.T) {
	tests := []struct {
		name         string
		lo, hi, step float64
		want         []float64
	}{
		{"exact", 0, 10, 5, []float64{0, 5, 10}},
		{"remainder dropped", 0, 11, 5, []float64{0, 5, 10}},
		{"single", 3, 3, 1, []float64{3}},
		{"fractional step", 0, 0.3, 0.1, []float64{0, 0.1, 0.2, 0.30000000000000004}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ticks(tt.lo, tt.hi, tt.step)
			if len(got) != len(tt.want) {
				t.Fatalf("ticks() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ticks()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlane(t *testing.T) {
	lines, err := Plane(Bounds{Min: []float64{0, 0}, Max: []float64{20, 10}, Step: 10})
	if err != nil {
		t.Fatal(err)
	}
	// 2 horizontal lines of 3 points, 3 vertical lines of 2 points
	if len(lines) != 5 {
		t.Fatalf("len(lines) = %d, want 5", len(lines))
	}
	if Count(lines) != 12 {
		t.Errorf("Count() = %d, want 12", Count(lines))
	}
	if lines[0].Axis != AxisX || lines[2].Axis != AxisY {
		t.Errorf("axes = %v, %v", lines[0].Axis, lines[2].Axis)
	}
	if got := lines[1].Points[2]; got != (r2.Vec{X: 20, Y: 10}) {
		t.Errorf("last horizontal point = %v", got)
	}
	if got := lines[4].Points[1]; got != (r2.Vec{X: 20, Y: 10}) {
		t.Errorf("last vertical point = %v", got)
	}
}

func TestPlaneSubdiv(t *testing.T) {
	lines, err := Plane(Bounds{Min: []float64{0, 0}, Max: []float64{10, 10}, Step: 10, Subdiv: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4", len(lines))
	}
	for _, l := range lines {
		if len(l.Points) != 6 {
			t.Errorf("%s line has %d points, want 6", l.Axis, len(l.Points))
		}
	}
}

func TestVolume(t *testing.T) {
	lines, err := Volume(Bounds{Min: []float64{0, 0, 0}, Max: []float64{1, 1, 1}, Step: 1})
	if err != nil {
		t.Fatal(err)
	}
	// the 12 edges of a unit cube
	if len(lines) != 12 {
		t.Fatalf("len(lines) = %d, want 12", len(lines))
	}
	perAxis := map[Axis]int{}
	for _, l := range lines {
		perAxis[l.Axis]++
		a, b := l.Points[0], l.Points[len(l.Points)-1]
		d := r3.Sub(b, a)
		var along float64
		switch l.Axis {
		case AxisX:
			along = d.X
		case AxisY:
			along = d.Y
		case AxisZ:
			along = d.Z
		}
		if along != 1 || r3.Norm(d) != 1 {
			t.Errorf("%s line runs %v", l.Axis, d)
		}
	}
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		if perAxis[axis] != 4 {
			t.Errorf("%d lines along %s, want 4", perAxis[axis], axis)
		}
	}
}

func TestBoundsErrors(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
	}{
		{"short min", Bounds{Min: []float64{0}, Max: []float64{1, 1}, Step: 1}},
		{"zero step", Bounds{Min: []float64{0, 0}, Max: []float64{1, 1}}},
		{"inverted", Bounds{Min: []float64{2, 0}, Max: []float64{1, 1}, Step: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Plane(tt.b); !werrors.Is(err, werrors.ErrCodeInvalidArgument) {
				t.Errorf("Plane() error = %v, want INVALID_ARGUMENT", err)
			}
		})
	}
}

func TestWarp(t *testing.T) {
	e := stretch.New2D()
	e.AddAnchorPair(r2.Vec{}, r2.Vec{X: 5, Y: 5})

	lines, _ := Plane(Bounds{Min: []float64{0, 0}, Max: []float64{10, 10}, Step: 10})
	warped, err := Warp(context.Background(), e, lines)
	if err != nil {
		t.Fatal(err)
	}
	if len(warped) != len(lines) {
		t.Fatalf("len = %d, want %d", len(warped), len(lines))
	}
	for i := range warped {
		if warped[i].Axis != lines[i].Axis {
			t.Errorf("line %d axis changed", i)
		}
		for j, p := range warped[i].Points {
			want := r2.Add(lines[i].Points[j], r2.Vec{X: 5, Y: 5})
			if r2.Norm(r2.Sub(p, want)) > 1e-9 {
				t.Errorf("line %d point %d = %v, want %v", i, j, p, want)
			}
		}
	}
	if lines[0].Points[0] != (r2.Vec{}) {
		t.Error("Warp modified its input")
	}
}

func TestWarpCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lines, _ := Plane(Bounds{Min: []float64{0, 0}, Max: []float64{10, 10}, Step: 10})
	if _, err := Warp(ctx, stretch.New2D(), lines); !errors.Is(err, context.Canceled) {
		t.Errorf("Warp() error = %v, want context.Canceled", err)
	}
}

func TestBoundsLines(t *testing.T) {
	b2 := Bounds{Min: []float64{0, 0}, Max: []float64{20, 10}, Step: 10}
	lines, _ := Plane(b2)
	if got := b2.Lines(2); got != len(lines) {
		t.Errorf("Lines(2) = %d, want %d", got, len(lines))
	}

	b3 := Bounds{Min: []float64{0, 0, 0}, Max: []float64{2, 1, 1}, Step: 1}
	vol, _ := Volume(b3)
	if got := b3.Lines(3); got != len(vol) {
		t.Errorf("Lines(3) = %d, want %d", got, len(vol))
	}

	if got := (Bounds{}).Lines(2); got != 0 {
		t.Errorf("invalid bounds Lines() = %d, want 0", got)
	}
}

func TestBoundsSamples(t *testing.T) {
	tests := []struct {
		name string
		dims int
		b    Bounds
	}{
		{"plane", 2, Bounds{Min: []float64{0, 0}, Max: []float64{20, 10}, Step: 10}},
		{"plane subdiv", 2, Bounds{Min: []float64{0, 0}, Max: []float64{30, 10}, Step: 10, Subdiv: 4}},
		{"volume", 3, Bounds{Min: []float64{0, 0, 0}, Max: []float64{2, 1, 1}, Step: 1}},
		{"volume subdiv", 3, Bounds{Min: []float64{-125, -125, -125}, Max: []float64{125, 125, 125}, Step: 50, Subdiv: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var count int
			if tt.dims == 2 {
				lines, err := Plane(tt.b)
				if err != nil {
					t.Fatal(err)
				}
				count = Count(lines)
			} else {
				lines, err := Volume(tt.b)
				if err != nil {
					t.Fatal(err)
				}
				count = Count(lines)
			}
			if got := tt.b.Samples(tt.dims); got != float64(count) {
				t.Errorf("Samples(%d) = %v, want %d", tt.dims, got, count)
			}
		})
	}

	if got := (Bounds{}).Samples(2); got != 0 {
		t.Errorf("invalid bounds Samples() = %v, want 0", got)
	}
}

func TestDenseLatticeRejected(t *testing.T) {
	// Few enough ticks to build without subdivision, far too many samples
	// once every step is split 64 times.
	b := Bounds{Min: []float64{0, 0}, Max: []float64{60000, 1}, Step: 1}
	if got := b.Samples(2); got > MaxSamples {
		t.Fatalf("Samples() = %v, fixture should fit without subdivision", got)
	}

	b.Subdiv = 64
	if _, err := Plane(b); !werrors.Is(err, werrors.ErrCodeInvalidArgument) {
		t.Errorf("Plane(subdiv 64) error = %v, want INVALID_ARGUMENT", err)
	}

	cube := Bounds{Min: []float64{0, 0, 0}, Max: []float64{60, 60, 60}, Step: 1, Subdiv: 2}
	if _, err := Volume(cube); !werrors.Is(err, werrors.ErrCodeInvalidArgument) {
		t.Errorf("Volume(dense) error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestWarpCanceledWithinLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	line := Line[r2.Vec]{Axis: AxisX, Points: make([]r2.Vec, 3*ctxCheckEvery)}
	e := stretch.New2D()
	e.AddAnchorPair(r2.Vec{}, r2.Vec{X: 1})
	if _, err := Warp(ctx, e, []Line[r2.Vec]{line}); !errors.Is(err, context.Canceled) {
		t.Errorf("Warp() error = %v, want context.Canceled", err)
	}
}
