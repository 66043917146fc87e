package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/scene"
)

// initCommand creates the init command, which writes a starter scene file.
func (c *CLI) initCommand() *cobra.Command {
	var (
		preset string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [scene.toml]",
		Short: "Write a starter scene file",
		Long: fmt.Sprintf(`Write a starter scene file.

The scene is copied from a built-in preset (%s) and written as TOML,
or as JSON when the file name ends in .json. Without a file name the scene
is written to <preset>.toml.`, strings.Join(scene.PresetNames(), ", ")),
		Example: `  stretchwarp init
  stretchwarp init --preset cube cube.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := preset + ".toml"
			if len(args) > 0 {
				path = args[0]
			}
			return c.runInit(preset, path, force)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "sheet", "preset to start from")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// runInit encodes the preset and writes it to path.
func (c *CLI) runInit(preset, path string, force bool) error {
	if err := werrors.ValidatePath(path); err != nil {
		return err
	}
	s, err := scene.Preset(preset)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return usageError("%s already exists (use --force to overwrite)", path)
		}
	}

	var buf bytes.Buffer
	if err := scene.Encode(&buf, s, scene.FormatFromPath(path)); err != nil {
		return err
	}
	if err := writeFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	c.Logger.Debug("wrote scene", "preset", preset, "path", path, "bytes", buf.Len())

	printSuccess("Created %s scene", preset)
	printFile(path)
	printNewline()
	printNextStep("Render", appName+" render "+path)
	return nil
}
