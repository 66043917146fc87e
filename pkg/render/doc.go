// Package render draws warped lattices and their anchors.
//
// # Overview
//
// A render takes the lines produced by the lattice package after they have
// been pushed through an engine, plus one [Marker] per anchor, and writes
// them out as:
//
//   - SVG: [SVGPlane] draws 2D lattices as-is, [SVGVolume] projects 3D
//     lattices orthographically after a yaw/pitch turn of the camera
//   - JSON: [JSON] dumps the warped coordinates for other tools
//   - PDF and PNG: [ToPDF] and [ToPNG] convert any SVG with rsvg-convert
//
// The SVG view box is fitted to the drawn content, so scenes at any scale
// come out framed the same way.
//
//	lines, _ := lattice.Plane(bounds)
//	warped, _ := lattice.Warp(ctx, engine, lines)
//	svg := render.SVGPlane(warped, render.Markers(engine))
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// # Influence Graphs
//
// The [influence] subpackage draws how strongly each anchor's local
// transform depends on every other anchor, using Graphviz.
//
// [influence]: github.com/matzehuels/stretchwarp/pkg/render/influence
package render
