package pipeline

import (
	"context"

	"github.com/matzehuels/stretchwarp/pkg/scene"
)

// LoadScene returns the scene named by opts: an inline scene, a preset, or
// a file.
func LoadScene(ctx context.Context, opts Options) (*scene.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case opts.Scene != nil:
		s := opts.Scene.Clone()
		s.SetDefaults()
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return s, nil
	case opts.Preset != "":
		return scene.Preset(opts.Preset)
	}
	return scene.Load(opts.ScenePath)
}
