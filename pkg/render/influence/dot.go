package influence

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stretchwarp/pkg/render"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// Options configures influence diagram rendering.
type Options struct {
	// Detailed adds coordinates and the local rotation and scale to node
	// labels. When false, only the anchor index is shown.
	Detailed bool
	// MinWeight drops arrows whose weight is below it. Zero weights are
	// never drawn.
	MinWeight float64
}

// ToDOT converts the engine's peer weights to Graphviz DOT. The engine's
// cache is rebuilt if stale.
func ToDOT[V, R any](e *stretch.Engine[V, R], opts Options) string {
	space := e.Space()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#009600\"];\n")
	buf.WriteString("\n")

	for i, a := range e.Anchors() {
		origin, target := space.Coords(a.Origin()), space.Coords(a.Target())
		label := fmt.Sprintf("a%d", i)
		if opts.Detailed {
			label += "\n" + fmtCoords(origin) + " → " + fmtCoords(target)
			if local, err := e.LocalTransform(i); err == nil {
				label += fmt.Sprintf("\nrot %.3f  scale %.3f", space.Angle(local.Rotation), local.Scale)
			}
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if pinned(origin, target) {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", fmt.Sprintf("a%d", i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range e.AnchorCount() {
		weights, err := e.PeerWeights(i)
		if err != nil {
			continue
		}
		for j, w := range weights {
			if j == i || w == 0 || w < opts.MinWeight {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%.2f\", penwidth=%.2f];\n",
				fmt.Sprintf("a%d", i), fmt.Sprintf("a%d", j), w, 1+4*w)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtCoords(c []float64) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'g', 6, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func pinned(origin, target []float64) bool {
	for i := range origin {
		if origin[i] != target[i] {
			return false
		}
	}
	return true
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
