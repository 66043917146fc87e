package stretch

import (
	"fmt"
	"strings"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
)

// WeightingMode selects how an anchor's contribution to a point is formed.
type WeightingMode int

const (
	// Simple applies each anchor's single local transform.
	Simple WeightingMode = iota
	// Directional blends per-peer transforms by distance and direction.
	Directional
)

func (m WeightingMode) String() string {
	switch m {
	case Simple:
		return "simple"
	case Directional:
		return "directional"
	default:
		return fmt.Sprintf("WeightingMode(%d)", int(m))
	}
}

// ParseWeightingMode parses "simple" or "directional", ignoring case and
// surrounding whitespace.
func ParseWeightingMode(s string) (WeightingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return Simple, nil
	case "directional":
		return Directional, nil
	}
	return Simple, werrors.New(werrors.ErrCodeInvalidMode, "unknown weighting mode %q (want simple or directional)", s)
}

// PointSet selects which end of each anchor distances are measured to.
type PointSet int

const (
	Origins PointSet = iota
	Targets
)

func (s PointSet) String() string {
	if s == Targets {
		return "targets"
	}
	return "origins"
}
