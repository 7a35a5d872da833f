package scene

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeBuilderOption is a functional option for configuring a Node.
// Use the With* functions to create options.
type NodeBuilderOption func(n *node)

// WithPosition sets the node's initial translation.
//
// Parameters:
//   - p: the position relative to the parent
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithPosition(p mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.position = p
	}
}

// WithRotation sets the node's initial Euler rotation in radians.
//
// Parameters:
//   - r: the rotation around X, Y and Z
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithRotation(r mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.rotation = r
	}
}

// WithScale sets the node's initial per-axis scale.
func WithScale(s mgl32.Vec3) NodeBuilderOption {
	return func(n *node) {
		n.scale = s
	}
}

// WithRotationOrder sets the order the Euler angles are composed in. The default is
// common.RotationXYZ.
//
// Parameters:
//   - order: the rotation order
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithRotationOrder(order common.RotationOrder) NodeBuilderOption {
	return func(n *node) {
		n.order = order
	}
}

// WithRenderOrder sets the node's draw priority. Lower values draw first; equal values keep
// traversal order.
func WithRenderOrder(order int) NodeBuilderOption {
	return func(n *node) {
		n.renderOrder = order
	}
}
