package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCamera_Options(t *testing.T) {
	c := NewCamera(
		WithFov(60),
		WithAspect(800.0/600.0),
		WithPlanes(1, 1000),
		WithPosition(mgl32.Vec3{0, 4, 21}),
		WithTarget(mgl32.Vec3{0, 0, 0}),
	)

	assert.Equal(t, float32(60), c.Fov())
	assert.InDelta(t, 800.0/600.0, c.Aspect(), 1e-6)
	assert.Equal(t, float32(1), c.Near())
	assert.Equal(t, float32(1000), c.Far())
	assert.Equal(t, mgl32.Vec3{0, 4, 21}, c.Position())

	want := mgl32.Perspective(mgl32.DegToRad(60), 800.0/600.0, 1, 1000)
	assert.True(t, want.ApproxEqual(c.Projection()))

	// the target lands on the view axis
	eye := c.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, eye.X(), 1e-5)
	assert.InDelta(t, 0, eye.Y(), 1e-5)
	assert.Less(t, eye.Z(), float32(0))
}

func TestCamera_SetAspect(t *testing.T) {
	c := NewCamera(WithFov(50))
	c.SetAspect(400.0 / 300.0)
	assert.InDelta(t, 400.0/300.0, c.Aspect(), 1e-6)
	assert.True(t, mgl32.Perspective(mgl32.DegToRad(50), 400.0/300.0, 0.1, 100).ApproxEqual(c.Projection()))

	c.SetAspect(0)
	c.SetAspect(-2)
	assert.InDelta(t, 400.0/300.0, c.Aspect(), 1e-6)
}

func TestCamera_LookAtAndPosition(t *testing.T) {
	c := NewCamera()
	c.SetPosition(mgl32.Vec3{0, 2.6, 18})
	c.LookAt(mgl32.Vec3{0, 0.6, 0})
	assert.Equal(t, mgl32.Vec3{0, 0.6, 0}, c.Target())
	assert.True(t, mgl32.LookAtV(mgl32.Vec3{0, 2.6, 18}, mgl32.Vec3{0, 0.6, 0}, mgl32.Vec3{0, 1, 0}).ApproxEqual(c.View()))
	assert.True(t, c.Projection().Mul4(c.View()).ApproxEqual(c.ViewProjection()))
}

type movingController struct {
	position mgl32.Vec3
}

func (m *movingController) Position() mgl32.Vec3 { return m.position }
func (m *movingController) Target() mgl32.Vec3   { return mgl32.Vec3{} }

func TestCamera_Controller(t *testing.T) {
	ctrl := &movingController{position: mgl32.Vec3{0, 0, 10}}
	c := NewCamera(WithController(ctrl))
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, c.Position())
	assert.Same(t, ctrl, c.Controller())

	ctrl.position = mgl32.Vec3{3, 0, 10}
	assert.Equal(t, mgl32.Vec3{0, 0, 10}, c.Position())
	c.Update()
	assert.Equal(t, mgl32.Vec3{3, 0, 10}, c.Position())

	c.SetController(nil)
	ctrl.position = mgl32.Vec3{9, 9, 9}
	c.Update()
	assert.Equal(t, mgl32.Vec3{3, 0, 10}, c.Position())
}

func TestNewStaticController(t *testing.T) {
	s := NewStaticController(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 1, 0})
	c := NewCamera(WithController(s))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.Position())
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, c.Target())
}

func TestCamera_Setters(t *testing.T) {
	c := NewCamera(WithUp(mgl32.Vec3{0, 0, 1}), WithAspect(2))
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, c.Up())

	c.SetFov(55)
	c.SetNear(0.5)
	c.SetFar(500)
	assert.Equal(t, float32(55), c.Fov())
	assert.Equal(t, float32(0.5), c.Near())
	assert.Equal(t, float32(500), c.Far())
	assert.True(t, mgl32.Perspective(mgl32.DegToRad(55), 2, 0.5, 500).ApproxEqual(c.Projection()))

	c.SetPosition(mgl32.Vec3{0, 0, 10})
	c.SetUp(mgl32.Vec3{0, 1, 0})
	assert.True(t, mgl32.LookAtV(mgl32.Vec3{0, 0, 10}, c.Target(), mgl32.Vec3{0, 1, 0}).ApproxEqual(c.View()))
}
