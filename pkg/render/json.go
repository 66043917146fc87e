package render

import (
	"encoding/json"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/matzehuels/stretchwarp/pkg/lattice"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// JSONOption configures JSON rendering via [JSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	name      string
	mode      string
	precision int
}

// WithJSONName records the scene name.
func WithJSONName(name string) JSONOption { return func(r *jsonRenderer) { r.name = name } }

// WithJSONMode records the weighting mode the lattice was warped with.
func WithJSONMode(m stretch.WeightingMode) JSONOption {
	return func(r *jsonRenderer) { r.mode = m.String() }
}

// WithJSONPrecision rounds coordinates to the given number of decimal
// places. The default is 4.
func WithJSONPrecision(places int) JSONOption {
	return func(r *jsonRenderer) { r.precision = max(places, 0) }
}

type jsonOutput struct {
	Name       string       `json:"name,omitempty"`
	Dimensions int          `json:"dimensions"`
	Mode       string       `json:"mode,omitempty"`
	Points     int          `json:"points"`
	Lines      []jsonLine   `json:"lines"`
	Anchors    []jsonAnchor `json:"anchors"`
}

type jsonLine struct {
	Axis   string      `json:"axis"`
	Points [][]float64 `json:"points"`
}

type jsonAnchor struct {
	Origin []float64 `json:"origin"`
	Target []float64 `json:"target"`
}

// JSON encodes warped lines and anchor markers. space supplies the
// coordinate layout of V.
func JSON[V, R any](space stretch.Space[V, R], lines []lattice.Line[V], markers []Marker[V], opts ...JSONOption) ([]byte, error) {
	r := &jsonRenderer{precision: 4}
	for _, opt := range opts {
		opt(r)
	}

	coords := func(v V) []float64 {
		c := space.Coords(v)
		for i := range c {
			c[i] = scalar.Round(c[i], r.precision)
		}
		return c
	}

	out := jsonOutput{
		Name:       r.name,
		Dimensions: space.Dim(),
		Mode:       r.mode,
		Points:     lattice.Count(lines),
		Lines:      make([]jsonLine, len(lines)),
		Anchors:    make([]jsonAnchor, len(markers)),
	}
	for i, l := range lines {
		pts := make([][]float64, len(l.Points))
		for j, p := range l.Points {
			pts[j] = coords(p)
		}
		out.Lines[i] = jsonLine{Axis: l.Axis.String(), Points: pts}
	}
	for i, m := range markers {
		out.Anchors[i] = jsonAnchor{Origin: coords(m.Origin), Target: coords(m.Target)}
	}
	return json.MarshalIndent(out, "", "  ")
}
