package camera

import "github.com/go-gl/mathgl/mgl32"

// Controller owns the positional state of a camera. The camera reads from its controller on
// every Update and derives its view matrix from the result.
type Controller interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3
}

// staticController is a Controller with a fixed position and target.
type staticController struct {
	position mgl32.Vec3
	target   mgl32.Vec3
}

var _ Controller = &staticController{}

// NewStaticController creates a Controller that always reports the same position and target.
//
// Parameters:
//   - position: the camera position
//   - target: the look-at point
//
// Returns:
//   - Controller: the controller
func NewStaticController(position, target mgl32.Vec3) Controller {
	return &staticController{position: position, target: target}
}

func (s *staticController) Position() mgl32.Vec3 {
	return s.position
}

func (s *staticController) Target() mgl32.Vec3 {
	return s.target
}
