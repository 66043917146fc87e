package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/pipeline"
)

// usageError reports a bad combination of arguments or flags.
func usageError(format string, args ...any) error {
	return werrors.New(werrors.ErrCodeInvalidArgument, format, args...)
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // scene path or preset name, used to derive file names
	output    string // explicit output file (single format) or base path
	cacheHit  bool
}

// writeArtifacts writes each rendered format to disk and reports the paths.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(p.output, p.input, format, len(p.formats))
		if err := writeFile(path, data); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}

	status := "Rendered"
	if p.cacheHit {
		status = "Rendered (cached)"
	}
	printSuccess("%s %d file(s)", status, len(paths))
	for _, path := range paths {
		printFile(path)
	}
	return paths, nil
}

// outputPath picks the file name for one format. A single format with an
// explicit output path is written there unchanged.
func outputPath(output, input, format string, formats int) string {
	if output != "" && formats == 1 && filepath.Ext(output) != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty or "-", it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
