package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stretchwarp/pkg/cache"
	"github.com/matzehuels/stretchwarp/pkg/observability"
	"github.com/matzehuels/stretchwarp/pkg/scene"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → warp → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	s, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Scene = s
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Anchors = len(s.Anchors)
	if data, err := s.Canonical(); err == nil {
		result.SceneHash = cache.Hash(data)
	}

	r.Logger.Info("loaded scene",
		"name", s.Name,
		"dimensions", s.Dimensions,
		"anchors", len(s.Anchors),
		"duration", result.Stats.LoadTime)

	// Stage 2: Warp
	warpStart := time.Now()
	w, warpHit, err := r.WarpWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	result.Warp = w
	result.Stats.WarpTime = time.Since(warpStart)
	result.Stats.Lines = w.Lines()
	result.Stats.Points = w.Points()
	result.CacheInfo.WarpHit = warpHit
	if data, err := json.Marshal(w); err == nil {
		result.WarpHash = cache.Hash(data)
	}

	r.Logger.Info("warped lattice",
		"mode", w.Mode,
		"lines", w.Lines(),
		"points", w.Points(),
		"cached", warpHit,
		"duration", result.Stats.WarpTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, w, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the scene named by opts.
func (r *Runner) Load(ctx context.Context, opts Options) (s *scene.Scene, err error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	source := opts.describe()
	start := time.Now()
	hooks.OnLoadStart(ctx, source)
	defer func() {
		anchors := 0
		if s != nil {
			anchors = len(s.Anchors)
		}
		hooks.OnLoadComplete(ctx, source, anchors, time.Since(start), err)
	}()

	return LoadScene(ctx, opts)
}

// WarpWithCacheInfo warps the scene's lattice with caching and returns cache
// hit info.
func (r *Runner) WarpWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (*Warp, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForWarp(); err != nil {
		return nil, false, err
	}

	sceneData, err := s.Canonical()
	if err != nil {
		return nil, false, err
	}
	mode, exps := effective(s, opts)
	cacheKey := r.Keyer.WarpKey(cache.Hash(sceneData), opts.WarpKeyOpts(mode, exps))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Warp
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}

	hooks := observability.Pipeline()
	hooks.OnWarpStart(ctx, s.Dimensions, bounds(s, opts).Lines(s.Dimensions))
	start := time.Now()

	w, err := WarpScene(ctx, s, opts)
	points := 0
	if w != nil {
		points = w.Points()
	}
	hooks.OnWarpComplete(ctx, points, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(w); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLWarp)
	}
	return w, false, nil
}

// Warp is a convenience wrapper that calls WarpWithCacheInfo and discards the cache hit info.
func (r *Runner) Warp(ctx context.Context, s *scene.Scene, opts Options) (*Warp, error) {
	w, _, err := r.WarpWithCacheInfo(ctx, s, opts)
	return w, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, w *Warp, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	warpData, err := json.Marshal(w)
	if err != nil {
		return nil, false, fmt.Errorf("serialize warp for cache key: %w", err)
	}
	warpHash := cache.Hash(warpData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(warpHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, w, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(warpHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, w *Warp, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, w, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// effective returns the mode and exponents the engine will run with.
func effective(s *scene.Scene, opts Options) (stretch.WeightingMode, [3]float64) {
	mode := s.WeightingMode()
	if opts.Mode != "" {
		if m, err := stretch.ParseWeightingMode(opts.Mode); err == nil {
			mode = m
		}
	}
	exps := [3]float64{stretch.DefaultExponent1, stretch.DefaultExponent2, stretch.DefaultExponent3}
	for i, v := range []*float64{s.Exponents.Peer, s.Exponents.Point, s.Exponents.Direction} {
		if v != nil {
			exps[i] = *v
		}
	}
	for i, v := range []*float64{opts.Exponent1, opts.Exponent2, opts.Exponent3} {
		if v != nil {
			exps[i] = *v
		}
	}
	return mode, exps
}
