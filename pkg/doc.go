// Package pkg provides the libraries behind stretchwarp.
//
// # Overview
//
// Stretchwarp deforms 2D and 3D space from a set of anchor points. Each
// anchor pairs an origin with a target; every other point is carried along
// by a blend of the anchors' local rotations, scales and translations. The
// pkg directory is organized into four main areas:
//
//  1. [stretch] - The deformation engine and its geometry
//  2. [scene] and [lattice] - Scene files and the grids pushed through an engine
//  3. [render] - SVG, JSON, PDF and PNG output plus influence graphs
//  4. [pipeline] and [cache] - Orchestration (load → warp → render) with caching
//
// # Architecture
//
// The typical data flow through stretchwarp:
//
//	Scene file or preset
//	         ↓
//	    [scene] package (decode, default, validate)
//	         ↓
//	    [stretch] package (engine with one anchor per scene anchor)
//	         ↓
//	    [lattice] package (sample grid lines and warp them)
//	         ↓
//	    [render] package (SVG/PDF/PNG/JSON output)
//
// # Quick Start
//
// Build an engine and map points:
//
//	import (
//	    "github.com/matzehuels/stretchwarp/pkg/stretch"
//	    "gonum.org/v1/gonum/spatial/r2"
//	)
//
//	e := stretch.New2D(stretch.WithWeightingMode(stretch.Directional))
//	e.AddAnchor(r2.Vec{X: 0, Y: 0})
//	e.AddAnchorPair(r2.Vec{X: 100, Y: 0}, r2.Vec{X: 120, Y: 10})
//	p := e.Transform(r2.Vec{X: 50, Y: 20})
//
// Run the whole pipeline on a scene file:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ScenePath: "stretch.toml",
//	    Formats:   []string{"svg", "png"},
//	})
//
// # Main Packages
//
// ## Deformation
//
// [stretch] - The anchor-driven engine. Generic over a [stretch.Space], with
// [stretch.Plane] for 2D and [stretch.Volume] for 3D. Local transforms are
// rebuilt lazily after any mutation.
//
// [geom] - Angle and quaternion helpers (wrapping, circular means, slerp
// chains) and the 3×3 and 4×4 similarity matrices that mirror them.
//
// ## Scenes
//
// [scene] - TOML and JSON scene files, presets and engine construction.
//
// [lattice] - Axis-aligned grid lines, sampled and warped point by point.
//
// ## Visualization
//
// [render] - SVG for warped lattices (orthographic projection in 3D),
// JSON dumps, and PDF/PNG conversion through rsvg-convert.
//
// [render/influence] - Graphviz diagrams of peer weights between anchors.
//
// ## Infrastructure
//
// [pipeline] - Complete pipeline used by the command line tools and the HTTP
// API. Ensures consistent defaults, validation and caching at every entry
// point.
//
// [cache] - Content-addressed caches for warps and artifacts:
//
//   - FileCache: local filesystem, used by the command line tools
//   - RedisCache: fast shared tier with native expiry
//   - MongoCache: durable shared tier with a TTL index
//   - TieredCache: Redis in front of MongoDB for the API server
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks for cache and pipeline events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/stretch/...            # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [stretch]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/stretch
// [geom]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/geom
// [scene]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/scene
// [lattice]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/lattice
// [render]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/render
// [render/influence]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/render/influence
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/observability
// [stretch.Space]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/stretch#Space
// [stretch.Plane]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/stretch#Plane
// [stretch.Volume]: https://pkg.go.dev/github.com/matzehuels/stretchwarp/pkg/stretch#Volume
package pkg
