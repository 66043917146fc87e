package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/pipeline"
)

type transformFlags struct {
	preset  string
	points  []string
	asJSON  bool
	weights bool
	engine  engineFlags
}

// transformCommand creates the transform command, which maps individual
// points through a scene's engine.
func (c *CLI) transformCommand() *cobra.Command {
	var flags transformFlags

	cmd := &cobra.Command{
		Use:   "transform [scene.toml]",
		Short: "Map points through a scene's deformation",
		Long: `Map points through a scene's deformation.

Points are given with --point (repeatable) or read from stdin, one per line.
Coordinates may be separated by commas or whitespace; blank lines and lines
starting with # are skipped. Each mapped point is printed on its own line.`,
		Example: `  stretchwarp transform --preset sheet -p 300,300 -p 350,350
  echo "125 125 125" | stretchwarp transform --preset cube --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := newOptions()
			if err := sceneSource(&opts, args, flags.preset); err != nil {
				return err
			}
			flags.engine.apply(cmd.Flags(), &opts)

			var points [][]float64
			var err error
			if len(flags.points) > 0 {
				points, err = parsePoints(strings.NewReader(strings.Join(flags.points, "\n")))
			} else {
				points, err = parsePoints(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			return c.runTransform(cmd.Context(), cmd.OutOrStdout(), opts, points, flags)
		},
	}

	cmd.Flags().StringVar(&flags.preset, "preset", "", "use a built-in scene instead of a file")
	cmd.Flags().StringArrayVarP(&flags.points, "point", "p", nil, "point to map, e.g. 10,20 (repeatable)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&flags.weights, "weights", false, "include each point's anchor weights")
	flags.engine.bind(cmd.Flags())

	return cmd
}

// runTransform loads the scene and maps each point through its engine.
func (c *CLI) runTransform(ctx context.Context, w io.Writer, opts pipeline.Options, points [][]float64, flags transformFlags) error {
	opts.Logger = c.Logger
	if err := opts.ValidateForWarp(); err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	s, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	results, err := pipeline.TransformPoints(ctx, s, opts, points, flags.weights)
	if err != nil {
		return err
	}

	if flags.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		line := formatPlain(r.Output)
		if flags.weights {
			line += "\t" + formatPlain(r.Weights)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// parsePoints reads one point per line. Coordinates are separated by commas
// or whitespace.
func parsePoints(r io.Reader) ([][]float64, error) {
	var points [][]float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		p := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, werrors.New(werrors.ErrCodeInvalidArgument, "line %d: bad coordinate %q", line, f)
			}
			p[i] = v
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, usageError("no points given")
	}
	return points, nil
}

// formatPlain joins values with spaces using the shortest exact form.
func formatPlain(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
