package pipeline

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stretchwarp/pkg/render"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, w *Warp, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = renderSVG(w, opts)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgOnce(), opts.PNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgOnce())
		case FormatJSON:
			data, err = renderJSON(w)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderSVG(w *Warp, opts Options) []byte {
	if w.Dimensions == 3 {
		return render.SVGVolume(w.Volume, w.VolumeAnchors, opts.SVGOptions()...)
	}
	return render.SVGPlane(w.Plane, w.PlaneAnchors, opts.SVGOptions()...)
}

func renderJSON(w *Warp) ([]byte, error) {
	jsonOpts := []render.JSONOption{
		render.WithJSONName(w.Name),
		render.WithJSONMode(w.Mode),
	}
	if w.Dimensions == 3 {
		return render.JSON[r3.Vec, quat.Number](stretch.Volume{}, w.Volume, w.VolumeAnchors, jsonOpts...)
	}
	return render.JSON[r2.Vec, float64](stretch.Plane{}, w.Plane, w.PlaneAnchors, jsonOpts...)
}
