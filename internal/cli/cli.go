// Package cli implements the stretchwarp command-line interface.
//
// # Commands
//
//   - render: Warp a scene's lattice and write SVG, PNG, PDF, or JSON
//   - inspect: Print anchors, local transforms and peer weights
//   - transform: Map individual points through a scene
//   - init: Write a starter scene from a preset
//   - cache: Manage the local warp and render cache
//   - serve: Run the HTTP API with a Redis and/or MongoDB cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The root
// command attaches the CLI's logger to the command context, so helpers that
// only receive a context can still log through loggerFromContext.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/stretchwarp/pkg/buildinfo"
	"github.com/matzehuels/stretchwarp/pkg/cache"
	"github.com/matzehuels/stretchwarp/pkg/pipeline"
	"github.com/matzehuels/stretchwarp/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stretchwarp"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stretchwarp deforms space by dragging anchor points",
		Long: `Stretchwarp deforms 2D and 3D space from a set of anchor points.

Each anchor pairs an origin with a target. Points near an anchor follow it
closely, and points between anchors blend their local rotations and scales.
Scenes are TOML or JSON files; 'stretchwarp init' writes a starter scene.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stretchwarp/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// newOptions returns pipeline options with warp and render defaults applied.
func newOptions() pipeline.Options {
	opts := pipeline.Options{}
	opts.SetWarpDefaults()
	opts.SetRenderDefaults()
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	formats := strings.Split(s, ",")
	for i, f := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return formats
}

// sceneSource fills the load options from a positional scene path or the
// --preset flag. Exactly one of them must be given.
func sceneSource(opts *pipeline.Options, args []string, preset string) error {
	switch {
	case len(args) > 0 && preset != "":
		return usageError("pass a scene file or --preset, not both")
	case len(args) > 0:
		opts.ScenePath = args[0]
	case preset != "":
		opts.Preset = preset
	default:
		return usageError("a scene file or --preset is required (presets: %s)", strings.Join(scene.PresetNames(), ", "))
	}
	return nil
}

// engineFlags holds the engine overrides shared by several commands.
type engineFlags struct {
	mode      string
	exponent1 float64
	exponent2 float64
	exponent3 float64
}

// bind registers the engine flags on fs.
func (f *engineFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.mode, "mode", "", "weighting mode: simple, directional (default: from scene)")
	fs.Float64Var(&f.exponent1, "exp1", 0, "peer weighting exponent (default: from scene)")
	fs.Float64Var(&f.exponent2, "exp2", 0, "point weighting exponent (default: from scene)")
	fs.Float64Var(&f.exponent3, "exp3", 0, "directional falloff exponent (default: from scene)")
}

// apply copies the flags the user set into opts.
func (f *engineFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	opts.Mode = f.mode
	if fs.Changed("exp1") {
		opts.Exponent1 = &f.exponent1
	}
	if fs.Changed("exp2") {
		opts.Exponent2 = &f.exponent2
	}
	if fs.Changed("exp3") {
		opts.Exponent3 = &f.exponent3
	}
}
