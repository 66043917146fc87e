package scene_test

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/stretchwarp/pkg/scene"
)

func ExampleParse() {
	s, err := scene.Parse([]byte(`
[[anchors]]
origin = [0, 0]

[[anchors]]
origin = [100, 0]
target = [200, 0]
`), scene.FormatTOML)
	if err != nil {
		panic(err)
	}

	e, err := s.Engine2D()
	if err != nil {
		panic(err)
	}
	fmt.Println(s.Dimensions, s.Mode, e.AnchorCount())
	fmt.Println(e.Transform(r2.Vec{X: 100}))
	// Output:
	// 2 simple 2
	// {200 0}
}

func ExamplePresetNames() {
	fmt.Println(scene.PresetNames())
	// Output: [cube sheet]
}
