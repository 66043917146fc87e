// Package influence renders the peer weighting of an engine as a node-link
// diagram.
//
// # Overview
//
// Each anchor's local transform is a weighted blend of how every other
// anchor moved relative to it. This package draws one node per anchor and
// one arrow i → j per peer weight, with the pen width following the weight,
// using Graphviz.
//
// # Usage
//
//	dot := influence.ToDOT(engine, influence.Options{MinWeight: 0.05})
//	svg, err := influence.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := influence.RenderPDF(ctx, dot)
//	png, err := influence.RenderPNG(ctx, dot, 2.0)
//
// Anchors that hold their origin in place are drawn dashed and grey.
package influence
