package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stretchwarp/pkg/pipeline"
)

// renderFlags holds the render command's flags that do not map directly
// onto pipeline.Options fields.
type renderFlags struct {
	preset     string
	formatsStr string
	output     string
	noCache    bool
	yaw        float64
	pitch      float64
	highlight  int
	engine     engineFlags
}

// renderCommand creates the render command, which runs the full
// load → warp → render pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := newOptions()

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Warp a scene's lattice and render it",
		Long: `Warp a scene's lattice and render it.

The render command loads a scene (a TOML or JSON file, or a built-in preset),
builds the deformation engine from its anchors, pushes a regular lattice
through it, and writes the result as SVG, PNG, PDF, or JSON.

PNG and PDF output need rsvg-convert on the PATH.
Results are cached locally for faster subsequent runs.`,
		Example: `  stretchwarp render scene.toml
  stretchwarp render --preset sheet -f svg,json -o out/sheet
  stretchwarp render --preset cube --yaw 0.3 --pitch 0.2 --mode directional`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sceneSource(&opts, args, flags.preset); err != nil {
				return err
			}
			flags.apply(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			input := opts.ScenePath
			if input == "" {
				input = opts.Preset
			}
			_, err := c.runRender(cmd.Context(), input, opts, flags.output, flags.noCache)
			return err
		},
	}

	// Common flags
	cmd.Flags().StringVar(&flags.preset, "preset", "", "use a built-in scene instead of a file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute the warp even if it is cached")

	// Warp flags
	flags.engine.bind(cmd.Flags())
	cmd.Flags().IntVar(&opts.Subdiv, "subdiv", opts.Subdiv, "samples per lattice cell")

	// Render flags
	cmd.Flags().StringVarP(&flags.formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "SVG size multiplier")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", opts.PNGScale, "extra resolution multiplier for PNG")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "margin around the drawing")
	cmd.Flags().Float64Var(&flags.yaw, "yaw", 0, "3D view rotation about the vertical axis, in radians")
	cmd.Flags().Float64Var(&flags.pitch, "pitch", 0, "3D view tilt, in radians")
	cmd.Flags().BoolVar(&opts.HideAnchors, "no-anchors", false, "hide anchor markers")
	cmd.Flags().IntVar(&flags.highlight, "highlight", -1, "draw the anchor with this index in the highlight colour")

	return cmd
}

// apply copies the flags the user set into opts.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	f.engine.apply(fs, opts)
	opts.Formats = parseFormats(f.formatsStr)
	if fs.Changed("yaw") {
		opts.Yaw = &f.yaw
	}
	if fs.Changed("pitch") {
		opts.Pitch = &f.pitch
	}
	if fs.Changed("highlight") {
		opts.Highlight = &f.highlight
	}
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) ([]string, error) {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Warping %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	prog := newProgress(loggerFromContext(ctx), "write artifacts")
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  result.CacheInfo.WarpHit && result.CacheInfo.RenderHit,
	})
	if err != nil {
		prog.fail(err)
		return paths, err
	}
	prog.done("files", len(paths), "cached", result.CacheInfo.RenderHit)
	printStats(result.Stats, result.CacheInfo.WarpHit)
	return paths, nil
}
