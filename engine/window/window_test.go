package window

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHeadlessHost_Defaults(t *testing.T) {
	h := NewHeadlessHost()

	require.NotNil(t, h.Container())
	assert.Equal(t, common.Size{Width: 800, Height: 600}, h.Container().Size())
	assert.Equal(t, common.Size{Width: 800, Height: 600}, h.Viewport().Size())
	assert.Equal(t, 1.0, h.Viewport().PixelRatio())
	assert.False(t, h.Viewport().Hidden())
	assert.Equal(t, time.Duration(0), h.Now())

	snap := h.Capabilities()
	assert.Zero(t, snap.Cores)
	assert.Zero(t, snap.MemoryGB)
	assert.Equal(t, 800, snap.ViewportWidth)
	assert.Equal(t, 600, snap.ViewportHeight)
}

func TestNewHeadlessHost_Options(t *testing.T) {
	h := NewHeadlessHost(
		WithSize(400, 300),
		WithViewportSize(1280, 720),
		WithPixelRatio(2),
		WithReducedMotion(true),
		WithDeviceMemory(8),
		WithCores(8),
		WithUserAgent("Mozilla/5.0 (iPhone)"),
	)

	assert.Equal(t, common.Size{Width: 400, Height: 300}, h.Container().Size())
	snap := h.Capabilities()
	assert.Equal(t, 1280, snap.ViewportWidth)
	assert.Equal(t, 720, snap.ViewportHeight)
	assert.Equal(t, 2.0, snap.PixelRatio)
	assert.True(t, snap.ReducedMotion)
	assert.Equal(t, 8.0, snap.MemoryGB)
	assert.Equal(t, 8, snap.Cores)
	assert.Equal(t, "Mozilla/5.0 (iPhone)", snap.UserAgent)
}

func TestHeadlessHost_WithoutContainer(t *testing.T) {
	h := NewHeadlessHost(WithoutContainer())
	assert.Nil(t, h.Container())

	// resizing a missing container is harmless
	h.ResizeContainer(10, 10)
}

func TestHeadlessHost_FramesRunOnStep(t *testing.T) {
	h := NewHeadlessHost()

	var got []time.Duration
	var loop FrameCallback
	loop = func(now time.Duration) {
		got = append(got, now)
		h.RequestFrame(loop)
	}
	h.RequestFrame(loop)
	assert.Equal(t, 1, h.PendingFrames())

	assert.Equal(t, 1, h.Step(16*time.Millisecond))
	assert.Equal(t, 1, h.Step(16*time.Millisecond))
	assert.Equal(t, []time.Duration{16 * time.Millisecond, 32 * time.Millisecond}, got)
	assert.Equal(t, 1, h.PendingFrames())
}

func TestHeadlessHost_CancelFrame(t *testing.T) {
	h := NewHeadlessHost()

	ran := false
	id := h.RequestFrame(func(time.Duration) { ran = true })
	h.CancelFrame(id)
	h.CancelFrame(id)

	assert.Equal(t, 0, h.PendingFrames())
	assert.Equal(t, 0, h.Step(time.Millisecond))
	assert.False(t, ran)
	assert.Equal(t, time.Millisecond, h.Now())
}

func TestContainer_Children(t *testing.T) {
	h := NewHeadlessHost()
	c := h.Container()
	s := h.NewSurface("backdrop")

	assert.Nil(t, s.Parent())
	c.AppendChild(s)
	c.AppendChild(s)
	assert.Len(t, c.Children(), 1)
	assert.Equal(t, c, s.Parent())

	assert.True(t, c.RemoveChild(s))
	assert.False(t, c.RemoveChild(s))
	assert.Empty(t, c.Children())
	assert.Nil(t, s.Parent())
}

func TestContainer_ObserveResize(t *testing.T) {
	h := NewHeadlessHost()
	c := h.Container()

	var sizes []common.Size
	obs := c.ObserveResize(func(s common.Size) { sizes = append(sizes, s) })
	assert.Equal(t, 1, c.ObserverCount())

	h.ResizeContainer(400, 300)
	assert.Equal(t, []common.Size{{Width: 400, Height: 300}}, sizes)
	assert.Equal(t, common.Size{Width: 400, Height: 300}, c.Size())

	obs.Disconnect()
	obs.Disconnect()
	assert.Equal(t, 0, c.ObserverCount())

	h.ResizeContainer(200, 100)
	assert.Len(t, sizes, 1)
}

func TestViewport_Listeners(t *testing.T) {
	h := NewHeadlessHost()
	v := h.Viewport()

	var pointer, touch []Event
	var hidden []bool
	pid := v.AddListener(EventPointerMove, func(e Event) { pointer = append(pointer, e) })
	tid := v.AddListener(EventTouchMove, func(e Event) { touch = append(touch, e) })
	hid := v.AddListener(EventVisibilityChange, func(e Event) { hidden = append(hidden, e.Hidden) })
	rid := v.AddListener(EventResize, func(Event) {})
	assert.Equal(t, 4, v.ListenerCount())

	h.MovePointer(10, 20)
	h.Touch(30, 40)
	h.SetHidden(true)
	h.ResizeViewport(640, 480)

	require.Len(t, pointer, 1)
	assert.Equal(t, 10.0, pointer[0].X)
	assert.Equal(t, 20.0, pointer[0].Y)
	require.Len(t, touch, 1)
	assert.Equal(t, EventTouchMove, touch[0].Kind)
	assert.Equal(t, []bool{true}, hidden)
	assert.True(t, v.Hidden())
	assert.Equal(t, common.Size{Width: 640, Height: 480}, v.Size())

	for _, id := range []ListenerID{pid, tid, hid, rid} {
		assert.True(t, v.RemoveListener(id))
	}
	assert.False(t, v.RemoveListener(pid))
	assert.Equal(t, 0, v.ListenerCount())

	h.MovePointer(1, 1)
	assert.Len(t, pointer, 1)
}

func TestSurface_State(t *testing.T) {
	h := NewHeadlessHost()
	s := h.NewSurface("backdrop")

	assert.Equal(t, "backdrop", s.Label())
	assert.True(t, s.Interactive())
	assert.Nil(t, s.Descriptor())

	s.SetInteractive(false)
	s.SetAccessibilityHidden(true)
	s.SetSize(400, 300)
	s.SetBufferSize(800, 600)
	assert.False(t, s.Interactive())
	assert.True(t, s.AccessibilityHidden())
	assert.Equal(t, common.Size{Width: 400, Height: 300}, s.Size())
	assert.Equal(t, common.Size{Width: 800, Height: 600}, s.BufferSize())

	require.NoError(t, s.Release())
	assert.ErrorIs(t, s.Release(), ErrReleased)
	assert.True(t, s.Released())
	assert.Len(t, h.Surfaces(), 1)
}

func TestHostConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvReducedMotion: "true",
		EnvDeviceMemory:  " 4 ",
	}
	c := defaultHostConfig()
	c.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.True(t, c.reducedMotion)
	assert.Equal(t, 4.0, c.memoryGB)

	c = defaultHostConfig()
	c.memoryGB = 2
	c.applyEnv(func(k string) (string, bool) { return "garbage", true })
	assert.False(t, c.reducedMotion)
	assert.Equal(t, 2.0, c.memoryGB)
}
