package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	werrors "github.com/matzehuels/stretchwarp/pkg/errors"
)

// Format is a scene file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension. Anything other
// than .json is read as TOML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Load reads, defaults and validates the scene at path.
func Load(path string) (*Scene, error) {
	if err := werrors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, werrors.Wrap(werrors.ErrCodeFileNotFound, err, "scene file not found: %s", path)
		}
		return nil, err
	}
	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes, defaults and validates a scene.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, werrors.Wrap(werrors.ErrCodeInvalidScene, err, "decode json scene")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return nil, werrors.Wrap(werrors.ErrCodeInvalidScene, err, "decode toml scene")
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, werrors.New(werrors.ErrCodeInvalidScene, "unknown scene key %q", undec[0].String())
		}
	default:
		return nil, werrors.New(werrors.ErrCodeInvalidFormat, "unsupported scene format: %s", format)
	}

	s.SetDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode writes s in the given format.
func Encode(w io.Writer, s *Scene, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(s)
	}
	return werrors.New(werrors.ErrCodeInvalidFormat, "unsupported scene format: %s", format)
}
