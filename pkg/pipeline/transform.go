package pipeline

import (
	"context"
	"fmt"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/scene"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// MaxPoints caps the number of points in one TransformPoints call.
const MaxPoints = 100_000

// MappedPoint is one point pushed through a scene's engine.
type MappedPoint struct {
	Input   []float64 `json:"input"`
	Output  []float64 `json:"output"`
	Weights []float64 `json:"weights,omitempty"`
}

// TransformPoints builds the engine for s with the overrides in opts and
// maps every point through it. With weights set, each result also carries
// the anchor weights at its input point.
func TransformPoints(ctx context.Context, s *scene.Scene, opts Options, points [][]float64, weights bool) ([]MappedPoint, error) {
	if err := opts.ValidateForWarp(); err != nil {
		return nil, err
	}
	if len(points) > MaxPoints {
		return nil, werrors.New(werrors.ErrCodeInvalidArgument, "too many points: %d (max %d)", len(points), MaxPoints)
	}
	if s.Dimensions == 3 {
		e, err := Engine3D(s, opts)
		if err != nil {
			return nil, err
		}
		return mapPoints(ctx, e, points, weights)
	}
	e, err := Engine2D(s, opts)
	if err != nil {
		return nil, err
	}
	return mapPoints(ctx, e, points, weights)
}

// mapPoints transforms each point, checking ctx between points.
func mapPoints[V, R any](ctx context.Context, e *stretch.Engine[V, R], points [][]float64, weights bool) ([]MappedPoint, error) {
	space := e.Space()
	results := make([]MappedPoint, 0, len(points))
	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := e.TransformCoords(p...)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i+1, err)
		}
		r := MappedPoint{Input: p, Output: out}
		if weights {
			r.Weights = e.Weights(space.Vec(p), stretch.Origins, -1, e.Exponent2())
		}
		results = append(results, r)
	}
	return results, nil
}
