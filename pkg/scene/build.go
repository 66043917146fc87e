package scene

import (
	"fmt"

	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// Options returns the engine options the scene asks for. Extra options are
// applied after them and win.
func (s *Scene) Options(extra ...stretch.Option) []stretch.Option {
	opts := []stretch.Option{
		stretch.WithWeightingMode(s.WeightingMode()),
		stretch.WithExponents(
			deref(s.Exponents.Peer, stretch.DefaultExponent1),
			deref(s.Exponents.Point, stretch.DefaultExponent2),
			deref(s.Exponents.Direction, stretch.DefaultExponent3),
		),
	}
	return append(opts, extra...)
}

// Engine2D builds a plane engine with the scene's anchors.
func (s *Scene) Engine2D(extra ...stretch.Option) (*stretch.Engine2D, error) {
	if s.Dimensions != 2 {
		return nil, invalid("scene %q has %d dimensions, want 2", s.Name, s.Dimensions)
	}
	e := stretch.New2D(s.Options(extra...)...)
	if err := s.addAnchors(e.AddAnchorCoords); err != nil {
		return nil, err
	}
	return e, nil
}

// Engine3D builds a space engine with the scene's anchors.
func (s *Scene) Engine3D(extra ...stretch.Option) (*stretch.Engine3D, error) {
	if s.Dimensions != 3 {
		return nil, invalid("scene %q has %d dimensions, want 3", s.Name, s.Dimensions)
	}
	e := stretch.New3D(s.Options(extra...)...)
	if err := s.addAnchors(e.AddAnchorCoords); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Scene) addAnchors(add func(...float64) (int, error)) error {
	for i, a := range s.Anchors {
		coords := append(append([]float64(nil), a.Origin...), a.Target...)
		if _, err := add(coords...); err != nil {
			return fmt.Errorf("anchor %d: %w", i, err)
		}
	}
	return nil
}

func deref(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
