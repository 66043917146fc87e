// Package pipeline provides the scene pipeline for stretchwarp.
//
// This package implements the complete load → warp → render pipeline used by
// the command line tools. Centralizing it keeps defaults, caching and
// validation the same for every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a scene file or a preset, apply defaults and validate
//  2. Warp: Build an engine from the scene and push its lattice through it
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ScenePath: "stretch.toml",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	s, err := runner.Load(ctx, opts)
//	w, err := runner.Warp(ctx, s, opts)
//	artifacts, err := runner.Render(ctx, w, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stretchwarp/pkg/cache"
	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/render"
	"github.com/matzehuels/stretchwarp/pkg/scene"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSubdiv is the number of samples per grid step along each line.
	DefaultSubdiv = 4

	// MaxSubdiv bounds DefaultSubdiv overrides.
	MaxSubdiv = 64

	// DefaultScale is output pixels per scene unit.
	DefaultScale = 1.0

	// DefaultPNGScale is the rsvg-convert zoom for PNG output.
	DefaultPNGScale = 2.0

	// DefaultPadding is the blank border around the drawing, in scene units.
	DefaultPadding = 20.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the scene pipeline.
type Options struct {
	// Load options. Scene wins over Preset, which wins over ScenePath.
	ScenePath string       `json:"scene_path,omitempty"`
	Preset    string       `json:"preset,omitempty"`
	Scene     *scene.Scene `json:"-"`

	// Warp options. Unset overrides keep the scene's values.
	Mode      string   `json:"mode,omitempty"`
	Exponent1 *float64 `json:"exponent1,omitempty"`
	Exponent2 *float64 `json:"exponent2,omitempty"`
	Exponent3 *float64 `json:"exponent3,omitempty"`
	Subdiv    int      `json:"subdiv,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	PNGScale    float64  `json:"png_scale,omitempty"`
	Padding     float64  `json:"padding,omitempty"`
	Yaw         *float64 `json:"yaw,omitempty"`
	Pitch       *float64 `json:"pitch,omitempty"`
	HideAnchors bool     `json:"hide_anchors,omitempty"`
	Highlight   *int     `json:"highlight,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the loaded, defaulted scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the scene.
	SceneHash string

	// Warp is the warped lattice.
	Warp *Warp

	// WarpHash is the content hash of the warped lattice.
	WarpHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Anchors    int
	Lines      int
	Points     int
	LoadTime   time.Duration
	WarpTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	WarpHit   bool // Whether the warped lattice came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return werrors.New(werrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full
// pipeline. Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForWarp(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a scene source is given.
func (o *Options) ValidateForLoad() error {
	if o.Scene == nil && o.Preset == "" && o.ScenePath == "" {
		return werrors.New(werrors.ErrCodeInvalidArgument, "scene path or preset is required")
	}
	o.setLogger()
	return nil
}

// SetWarpDefaults sets default values for warping.
func (o *Options) SetWarpDefaults() {
	if o.Subdiv == 0 {
		o.Subdiv = DefaultSubdiv
	}
	o.setLogger()
}

// ValidateForWarp validates the engine overrides and sets warp defaults.
func (o *Options) ValidateForWarp() error {
	o.SetWarpDefaults()
	if o.Mode != "" {
		if _, err := stretch.ParseWeightingMode(o.Mode); err != nil {
			return err
		}
	}
	for _, e := range []struct {
		name string
		v    *float64
	}{
		{"exponent1", o.Exponent1},
		{"exponent2", o.Exponent2},
		{"exponent3", o.Exponent3},
	} {
		if e.v == nil {
			continue
		}
		if err := werrors.ValidateExponent(e.name, *e.v); err != nil {
			return err
		}
	}
	if o.Subdiv < 1 || o.Subdiv > MaxSubdiv {
		return werrors.New(werrors.ErrCodeInvalidArgument, "subdiv must be between 1 and %d, got %d", MaxSubdiv, o.Subdiv)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if !(o.Scale > 0) || !(o.PNGScale > 0) {
		return werrors.New(werrors.ErrCodeInvalidArgument, "scale must be positive")
	}
	if o.Padding < 0 {
		return werrors.New(werrors.ErrCodeInvalidArgument, "padding must not be negative, got %v", o.Padding)
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// EngineOptions returns the engine options for the overrides that are set.
// They are applied after the scene's own settings.
func (o *Options) EngineOptions() []stretch.Option {
	var opts []stretch.Option
	if o.Mode != "" {
		if m, err := stretch.ParseWeightingMode(o.Mode); err == nil {
			opts = append(opts, stretch.WithWeightingMode(m))
		}
	}
	if o.Logger != nil {
		opts = append(opts, stretch.WithLogger(o.Logger))
	}
	return opts
}

// applyExponents applies the exponent overrides to an engine.
func applyExponents[V, R any](o *Options, e *stretch.Engine[V, R]) {
	if o.Exponent1 != nil {
		e.SetExponent1(*o.Exponent1)
	}
	if o.Exponent2 != nil {
		e.SetExponent2(*o.Exponent2)
	}
	if o.Exponent3 != nil {
		e.SetExponent3(*o.Exponent3)
	}
}

// SVGOptions returns the render options for this configuration.
func (o *Options) SVGOptions() []render.SVGOption {
	yaw, pitch := render.DefaultYaw, render.DefaultPitch
	if o.Yaw != nil {
		yaw = *o.Yaw
	}
	if o.Pitch != nil {
		pitch = *o.Pitch
	}
	opts := []render.SVGOption{
		render.WithScale(o.Scale),
		render.WithPadding(o.Padding),
		render.WithView(yaw, pitch),
	}
	if o.HideAnchors {
		opts = append(opts, render.WithoutAnchors())
	}
	if o.Highlight != nil {
		opts = append(opts, render.WithHighlight(*o.Highlight))
	}
	return opts
}

// WarpKeyOpts returns cache key options for a warp with the given effective
// engine settings.
func (o *Options) WarpKeyOpts(mode stretch.WeightingMode, exps [3]float64) cache.WarpKeyOpts {
	return cache.WarpKeyOpts{
		Mode:      mode.String(),
		Exponents: exps,
		Subdiv:    o.Subdiv,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:    format,
		Yaw:       render.DefaultYaw,
		Pitch:     render.DefaultPitch,
		Scale:     o.Scale,
		Padding:   o.Padding,
		Anchors:   !o.HideAnchors,
		Highlight: -1,
	}
	if format == FormatPNG {
		opts.Scale *= o.PNGScale
	}
	if o.Yaw != nil {
		opts.Yaw = *o.Yaw
	}
	if o.Pitch != nil {
		opts.Pitch = *o.Pitch
	}
	if o.Highlight != nil {
		opts.Highlight = *o.Highlight
	}
	return opts
}

// describe returns a short name for the scene source, for logs and hooks.
func (o *Options) describe() string {
	switch {
	case o.Scene != nil:
		return fmt.Sprintf("scene:%s", o.Scene.Name)
	case o.Preset != "":
		return "preset:" + o.Preset
	}
	return o.ScenePath
}
