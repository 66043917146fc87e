package cli

import (
	"path/filepath"
	"strings"
	"testing"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
	"github.com/matzehuels/stretchwarp/pkg/pipeline"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG, json ", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derived from input", "", "scenes/sheet.toml", "scenes/sheet"},
		{"preset name", "", "cube", "cube"},
		{"format extension stripped", "out/warp.svg", "sheet.toml", "out/warp"},
		{"other extension kept", "out/warp.v2", "sheet.toml", "out/warp.v2"},
		{"plain base", "out/warp", "sheet.toml", "out/warp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		format  string
		formats int
		want    string
	}{
		{"single explicit file", "art.svg", "svg", 1, "art.svg"},
		{"single explicit other extension", "art.image", "png", 1, "art.image"},
		{"single base path", "out/art", "svg", 1, "out/art.svg"},
		{"multiple formats use base", "art.svg", "json", 2, "art.json"},
		{"derived", "", "pdf", 1, "sheet.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, "sheet.toml", tt.format, tt.formats); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSceneSource(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		preset  string
		path    string
		wantErr bool
	}{
		{"file", []string{"a.toml"}, "", "a.toml", false},
		{"preset", nil, "cube", "", false},
		{"both", []string{"a.toml"}, "cube", "", true},
		{"neither", nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts pipeline.Options
			err := sceneSource(&opts, tt.args, tt.preset)
			if tt.wantErr {
				if !werrors.Is(err, werrors.ErrCodeInvalidArgument) {
					t.Errorf("sceneSource() error = %v, want INVALID_ARGUMENT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("sceneSource() error: %v", err)
			}
			if opts.ScenePath != tt.path || opts.Preset != tt.preset {
				t.Errorf("opts = path %q preset %q", opts.ScenePath, opts.Preset)
			}
		})
	}
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    [][]float64
		wantErr bool
	}{
		{"commas", "1,2\n3,4", [][]float64{{1, 2}, {3, 4}}, false},
		{"whitespace", "1 2 3\n\t-4\t5e1  6", [][]float64{{1, 2, 3}, {-4, 50, 6}}, false},
		{"mixed", "1, 2", [][]float64{{1, 2}}, false},
		{"comments and blanks", "# header\n\n7,8\n", [][]float64{{7, 8}}, false},
		{"bad number", "1,x", nil, true},
		{"empty", "\n# nothing\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePoints(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePoints() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parsePoints() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if formatPlain(got[i]) != formatPlain(tt.want[i]) {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatCoords(t *testing.T) {
	if got := formatCoords([]float64{100, -2.5}); got != "(100, -2.5)" {
		t.Errorf("formatCoords() = %q", got)
	}
	if got := formatPlain([]float64{350, 330.25}); got != "350 330.25" {
		t.Errorf("formatPlain() = %q", got)
	}
}

func TestRenderInfluenceFormat(t *testing.T) {
	data, err := renderInfluence(t.Context(), "digraph G {}", "graph.DOT", 2)
	if err != nil || string(data) != "digraph G {}" {
		t.Errorf("renderInfluence(.dot) = %q, %v", data, err)
	}
	if _, err := renderInfluence(t.Context(), "digraph G {}", "graph.bmp", 2); !werrors.Is(err, werrors.ErrCodeInvalidFormat) {
		t.Errorf("renderInfluence(.bmp) error = %v, want INVALID_FORMAT", err)
	}
}
