package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/pipeline"
	"github.com/matzehuels/stretchwarp/pkg/render/influence"
	"github.com/matzehuels/stretchwarp/pkg/scene"
	"github.com/matzehuels/stretchwarp/pkg/stretch"
)

// maxWeightColumns caps the peer weight matrix; wider scenes only get the
// anchor table.
const maxWeightColumns = 10

type inspectFlags struct {
	preset    string
	graph     string
	detailed  bool
	minWeight float64
	pngScale  float64
	engine    engineFlags
}

// inspectCommand creates the inspect command, which prints an engine's
// anchors, their local transforms and the weights between them.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect [scene.toml]",
		Short: "Show anchors, local transforms and peer weights",
		Long: `Show anchors, local transforms and peer weights.

The inspect command builds the engine for a scene and prints each anchor's
origin, target, local rotation and scale, followed by the matrix of peer
weights used to derive them.

With --graph, the peer weights are also drawn as an influence diagram.
The file extension picks the format: .dot, .svg, .pdf or .png.`,
		Example: `  stretchwarp inspect scene.toml
  stretchwarp inspect --preset sheet --graph influence.svg --detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := newOptions()
			if err := sceneSource(&opts, args, flags.preset); err != nil {
				return err
			}
			flags.engine.apply(cmd.Flags(), &opts)
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), opts, flags)
		},
	}

	cmd.Flags().StringVar(&flags.preset, "preset", "", "use a built-in scene instead of a file")
	flags.engine.bind(cmd.Flags())
	cmd.Flags().StringVarP(&flags.graph, "graph", "g", "", "write an influence diagram (.dot, .svg, .pdf, .png)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show coordinates and local transforms in the diagram")
	cmd.Flags().Float64Var(&flags.minWeight, "min-weight", 0, "omit diagram arrows below this weight")
	cmd.Flags().Float64Var(&flags.pngScale, "png-scale", pipeline.DefaultPNGScale, "resolution multiplier for PNG diagrams")

	return cmd
}

// runInspect loads the scene, builds its engine and reports on it.
func (c *CLI) runInspect(ctx context.Context, w io.Writer, opts pipeline.Options, flags inspectFlags) error {
	logger := loggerFromContext(ctx)
	opts.Logger = c.Logger
	if err := opts.ValidateForWarp(); err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	s, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}

	var dot string
	if s.Dimensions == 3 {
		e, err := pipeline.Engine3D(s, opts)
		if err != nil {
			return err
		}
		writeInspection(w, s, e)
		dot = influence.ToDOT(e, influence.Options{Detailed: flags.detailed, MinWeight: flags.minWeight})
	} else {
		e, err := pipeline.Engine2D(s, opts)
		if err != nil {
			return err
		}
		writeInspection(w, s, e)
		dot = influence.ToDOT(e, influence.Options{Detailed: flags.detailed, MinWeight: flags.minWeight})
	}

	if flags.graph == "" {
		return nil
	}
	prog := newProgress(logger, "influence diagram")
	data, err := renderInfluence(ctx, dot, flags.graph, flags.pngScale)
	if err != nil {
		prog.fail(err)
		return err
	}
	if err := writeFile(flags.graph, data); err != nil {
		prog.fail(err)
		return fmt.Errorf("write influence diagram: %w", err)
	}
	prog.done("path", flags.graph, "bytes", len(data))
	fmt.Fprintln(w)
	printFileTo(w, flags.graph)
	return nil
}

// renderInfluence converts DOT into the format named by path's extension.
func renderInfluence(ctx context.Context, dot, path string, pngScale float64) ([]byte, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "dot", "gv":
		return []byte(dot), nil
	case pipeline.FormatSVG:
		return influence.RenderSVG(ctx, dot)
	case pipeline.FormatPDF:
		return influence.RenderPDF(ctx, dot)
	case pipeline.FormatPNG:
		return influence.RenderPNG(ctx, dot, pngScale)
	default:
		return nil, werrors.New(werrors.ErrCodeInvalidFormat, "unsupported diagram format %q (use .dot, .svg, .pdf or .png)", ext)
	}
}

// writeInspection prints the scene summary, the anchor table and, for
// small scenes, the peer weight matrix.
func writeInspection[V, R any](w io.Writer, s *scene.Scene, e *stretch.Engine[V, R]) {
	name := s.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintln(w, StyleTitle.Render(name))
	fmt.Fprintln(w, keyValue("Dimensions", strconv.Itoa(s.Dimensions)))
	fmt.Fprintln(w, keyValue("Mode", e.WeightingMode().String()))
	fmt.Fprintln(w, keyValue("Exponents", fmt.Sprintf("peer %g · point %g · direction %g",
		e.Exponent1(), e.Exponent2(), e.Exponent3())))
	fmt.Fprintln(w, keyValue("Anchors", strconv.Itoa(e.AnchorCount())))

	if e.AnchorCount() == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Origin", "Target", "Rotation°", "Scale"},
		anchorRows(e),
		3, 4,
	))

	n := e.AnchorCount()
	if n < 2 {
		return
	}
	if n > maxWeightColumns {
		fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("Peer weights omitted for %d anchors (limit %d)", n, maxWeightColumns)))
		return
	}
	headers, rows := weightRows(e)
	numeric := make([]int, 0, n)
	for j := range n {
		numeric = append(numeric, j+1)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleDim.Render("Peer weights (row: anchor, column: peer)"))
	fmt.Fprintln(w, renderTable(headers, rows, numeric...))
}

// anchorRows returns one row per anchor with its local transform.
func anchorRows[V, R any](e *stretch.Engine[V, R]) [][]string {
	space := e.Space()
	rows := make([][]string, 0, e.AnchorCount())
	for i, a := range e.Anchors() {
		rot, scale := "-", "-"
		if local, err := e.LocalTransform(i); err == nil {
			rot = strconv.FormatFloat(space.Angle(local.Rotation)*180/math.Pi, 'f', 2, 64)
			scale = strconv.FormatFloat(local.Scale, 'f', 4, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			formatCoords(space.Coords(a.Origin())),
			formatCoords(space.Coords(a.Target())),
			rot,
			scale,
		})
	}
	return rows
}

// weightRows returns the header and rows of the peer weight matrix.
func weightRows[V, R any](e *stretch.Engine[V, R]) ([]string, [][]string) {
	n := e.AnchorCount()
	headers := make([]string, 0, n+1)
	headers = append(headers, "")
	for j := range n {
		headers = append(headers, fmt.Sprintf("a%d", j))
	}
	rows := make([][]string, 0, n)
	for i := range n {
		weights, err := e.PeerWeights(i)
		if err != nil {
			continue
		}
		row := make([]string, 0, n+1)
		row = append(row, fmt.Sprintf("a%d", i))
		for j, wt := range weights {
			if j == i {
				row = append(row, "·")
				continue
			}
			row = append(row, strconv.FormatFloat(wt, 'f', 3, 64))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// formatCoords prints coordinates as "(x, y)" with trailing zeros dropped.
func formatCoords(c []float64) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
