package scene

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithBackground sets the clear color from a packed 0xRRGGBB value.
//
// Parameters:
//   - hex: the packed color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(hex uint32) SceneBuilderOption {
	return func(s *scene) {
		s.background = common.ColorFromHex(hex)
	}
}

// WithBackgroundColor sets the clear color from linear RGB components.
func WithBackgroundColor(color mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.background = color
	}
}

// WithNodes attaches initial children to the root group.
//
// Parameters:
//   - nodes: the nodes to attach
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithNodes(nodes ...Node) SceneBuilderOption {
	return func(s *scene) {
		_ = s.root.Add(nodes...)
	}
}
