package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Line(t *testing.T) {
	l := NewDefaultLogger("backdrop", false)
	assert.Equal(t, "[backdrop] WARN: 3 frames", l.line("WARN", "%d frames", 3))
	assert.Equal(t, "INFO: ok", NewDefaultLogger("", false).line("INFO", "ok"))

	assert.False(t, l.DebugEnabled())
	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
}

func TestRecordingLogger_Lines(t *testing.T) {
	r := NewRecordingLogger()
	r.Warnf("a %s", "b")
	r.Infof("c")

	lines := r.Lines("WARN")
	assert.Equal(t, []string{"a b"}, lines)
	lines[0] = "changed"
	assert.Equal(t, []string{"a b"}, r.Lines("WARN"))
	assert.Empty(t, r.Lines("ERROR"))
}

func TestColorFromHex(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, ColorFromHex(0xff0000))
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, ColorFromHex(0xaa00ff00))
}

func TestComposeTransform_Order(t *testing.T) {
	rot := mgl32.Vec3{math.Pi / 2, 0, math.Pi / 2}
	one := mgl32.Vec3{1, 1, 1}
	x := mgl32.Vec4{1, 0, 0, 0}

	xyz := ComposeTransform(mgl32.Vec3{}, rot, one, RotationXYZ).Mul4x1(x)
	zyx := ComposeTransform(mgl32.Vec3{}, rot, one, RotationZYX).Mul4x1(x)

	assert.InDeltaSlice(t, []float32{0, 0, 1}, xyz[:3], 1e-5)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, zyx[:3], 1e-5)

	moved := ComposeTransform(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2}, RotationXYZ).Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.Equal(t, mgl32.Vec4{3, 4, 5, 1}, moved)
}

func TestScaleSize(t *testing.T) {
	assert.Equal(t, Size{Width: 1440, Height: 1080}, ScaleSize(Size{Width: 800, Height: 600}, 1.8))
	assert.Equal(t, Size{Width: 800, Height: 600}, ScaleSize(Size{Width: 800, Height: 600}, 0))
	assert.Equal(t, Size{Width: 1, Height: 1}, ScaleSize(Size{Width: 1, Height: 1}, 0.2))
}

func TestSize(t *testing.T) {
	assert.False(t, Size{Width: 0, Height: 3}.Valid())
	assert.Equal(t, float32(1), Size{}.Aspect())
	assert.InDelta(t, 4.0/3.0, Size{Width: 400, Height: 300}.Aspect(), 1e-6)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, []byte{1, 0, 0, 0}, SliceToBytes([]uint32{1}))
	assert.Nil(t, SliceToBytes[float32](nil))
}
