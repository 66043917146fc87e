package render

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stretchwarp/pkg/lattice"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// Default camera for [SVGVolume], in radians.
const (
	DefaultYaw   = 0.6
	DefaultPitch = 0.4
)

const (
	background     = "#ffffff"
	anchorColor    = "rgb(0,150,0)"
	highlightColor = "rgb(200,100,0)"
	volumeAnchor   = "rgb(120,120,120)"
)

// axisColors are the volume line colors, indexed by lattice.Axis.
var axisColors = [...]string{"rgb(200,50,0)", "rgb(0,170,0)", "rgb(40,40,255)"}

// Marker is an anchor as drawn: a ring at the origin, a dot at the target
// and a segment between them.
type Marker[V any] struct {
	Origin V
	Target V
}

// Markers returns one marker per anchor of e, in index order.
func Markers[V, R any](e *stretch.Engine[V, R]) []Marker[V] {
	out := make([]Marker[V], 0, e.AnchorCount())
	for _, a := range e.Anchors() {
		out = append(out, Marker[V]{Origin: a.Origin(), Target: a.Target()})
	}
	return out
}

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	padding    float64
	scale      float64
	yaw, pitch float64
	highlight  int
	anchors    bool
}

// WithPadding sets the blank border around the content, in scene units.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = math.Max(p, 0) } }

// WithScale sets output pixels per scene unit.
func WithScale(s float64) SVGOption {
	return func(r *svgRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithView sets the camera turn for volumes: yaw about the vertical axis,
// then pitch about the horizontal one.
func WithView(yaw, pitch float64) SVGOption {
	return func(r *svgRenderer) { r.yaw, r.pitch = yaw, pitch }
}

// WithHighlight draws anchor i in the highlight color.
func WithHighlight(i int) SVGOption { return func(r *svgRenderer) { r.highlight = i } }

// WithoutAnchors leaves the anchor markers out.
func WithoutAnchors() SVGOption { return func(r *svgRenderer) { r.anchors = false } }

func newSVGRenderer(opts ...SVGOption) *svgRenderer {
	r := &svgRenderer{
		padding:   20,
		scale:     1,
		yaw:       DefaultYaw,
		pitch:     DefaultPitch,
		highlight: -1,
		anchors:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type polyline struct {
	class string
	color string
	pts   []r2.Vec
}

type marker struct {
	origin, target r2.Vec
}

type drawing struct {
	lines        []polyline
	markers      []marker
	lineWidth    float64
	anchorColor  string
	originRadius float64
	targetRadius float64
}

// SVGPlane draws a 2D lattice in its own coordinates: black lines on white
// with green anchors.
func SVGPlane(lines []lattice.Line[r2.Vec], markers []Marker[r2.Vec], opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	d := drawing{
		lineWidth:    0.5,
		anchorColor:  anchorColor,
		originRadius: 6.5,
		targetRadius: 3.5,
	}
	for _, l := range lines {
		d.lines = append(d.lines, polyline{class: "lattice-" + l.Axis.String(), color: "#000000", pts: l.Points})
	}
	if r.anchors {
		for _, m := range markers {
			d.markers = append(d.markers, marker{origin: m.Origin, target: m.Target})
		}
	}
	return r.write(d)
}

// SVGVolume projects a 3D lattice orthographically. Lines are colored by
// axis: x red, y green, z blue. Up is +y.
func SVGVolume(lines []lattice.Line[r3.Vec], markers []Marker[r3.Vec], opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	d := drawing{
		lineWidth:    1,
		anchorColor:  volumeAnchor,
		originRadius: 7,
		targetRadius: 3,
	}
	for _, l := range lines {
		pts := make([]r2.Vec, len(l.Points))
		for i, p := range l.Points {
			pts[i] = r.project(p)
		}
		color := "#000000"
		if int(l.Axis) < len(axisColors) {
			color = axisColors[l.Axis]
		}
		d.lines = append(d.lines, polyline{class: "lattice-" + l.Axis.String(), color: color, pts: pts})
	}
	if r.anchors {
		for _, m := range markers {
			d.markers = append(d.markers, marker{origin: r.project(m.Origin), target: r.project(m.Target)})
		}
	}
	return r.write(d)
}

// project turns p by the camera and drops depth. Screen y points down.
func (r *svgRenderer) project(p r3.Vec) r2.Vec {
	yaw := r3.NewRotation(r.yaw, r3.Vec{Y: 1})
	pitch := r3.NewRotation(r.pitch, r3.Vec{X: 1})
	q := pitch.Rotate(yaw.Rotate(p))
	return r2.Vec{X: q.X, Y: -q.Y}
}

func (r *svgRenderer) write(d drawing) []byte {
	box := d.bounds()
	corner := r2.Sub(box.Min, r2.Vec{X: r.padding, Y: r.padding})
	size := r2.Add(r2.Sub(box.Max, box.Min), r2.Vec{X: 2 * r.padding, Y: 2 * r.padding})
	size.X, size.Y = math.Max(size.X, 1), math.Max(size.Y, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		corner.X, corner.Y, size.X, size.Y, size.X*r.scale, size.Y*r.scale)
	fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		corner.X, corner.Y, size.X, size.Y, background)

	buf.WriteString(`  <g id="lattice" fill="none">` + "\n")
	for _, l := range d.lines {
		if len(l.pts) < 2 {
			continue
		}
		fmt.Fprintf(&buf, `    <polyline class="%s" stroke="%s" stroke-width="%g" points="`, l.class, l.color, d.lineWidth)
		for i, p := range l.pts {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%.2f,%.2f", p.X, p.Y)
		}
		buf.WriteString(`"/>` + "\n")
	}
	buf.WriteString("  </g>\n")

	if len(d.markers) > 0 {
		r.writeMarkers(&buf, d)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// writeMarkers draws segments first, then origin rings, then target dots,
// so dots are never hidden by another anchor's ring.
func (r *svgRenderer) writeMarkers(buf *bytes.Buffer, d drawing) {
	color := func(i int) string {
		if i == r.highlight {
			return highlightColor
		}
		return d.anchorColor
	}

	buf.WriteString(`  <g id="anchors">` + "\n")
	for i, m := range d.markers {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g"/>`+"\n",
			m.origin.X, m.origin.Y, m.target.X, m.target.Y, color(i), d.lineWidth)
	}
	for i, m := range d.markers {
		fmt.Fprintf(buf, `    <circle class="anchor-origin" data-anchor="%d" cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="%s"/>`+"\n",
			i, m.origin.X, m.origin.Y, d.originRadius, background, color(i))
	}
	for i, m := range d.markers {
		fmt.Fprintf(buf, `    <circle class="anchor-target" data-anchor="%d" cx="%.2f" cy="%.2f" r="%g" fill="%s"/>`+"\n",
			i, m.target.X, m.target.Y, d.targetRadius, color(i))
	}
	buf.WriteString("  </g>\n")
}

// bounds is the box around every drawn point, markers included with their
// radius. An empty drawing has an empty box at the origin.
func (d drawing) bounds() r2.Box {
	first := true
	var box r2.Box
	add := func(p r2.Vec, rad float64) {
		lo, hi := r2.Sub(p, r2.Vec{X: rad, Y: rad}), r2.Add(p, r2.Vec{X: rad, Y: rad})
		if first {
			box, first = r2.Box{Min: lo, Max: hi}, false
			return
		}
		box.Min = r2.Vec{X: math.Min(box.Min.X, lo.X), Y: math.Min(box.Min.Y, lo.Y)}
		box.Max = r2.Vec{X: math.Max(box.Max.X, hi.X), Y: math.Max(box.Max.Y, hi.Y)}
	}
	for _, l := range d.lines {
		for _, p := range l.pts {
			add(p, 0)
		}
	}
	for _, m := range d.markers {
		add(m.origin, d.originRadius)
		add(m.target, d.targetRadius)
	}
	return box
}
