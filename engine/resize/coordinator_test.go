package resize

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingResizer struct {
	sizes []common.Size
	err   error
}

func (r *recordingResizer) Resize(size common.Size) error {
	r.sizes = append(r.sizes, size)
	return r.err
}

func TestCoordinator_Apply(t *testing.T) {
	host := window.NewHeadlessHost(window.WithPixelRatio(3))
	surface := host.NewSurface("backdrop")
	cam := camera.NewCamera()
	r := &recordingResizer{}
	var ratios []float64
	c := NewCoordinator(host, surface, cam, r,
		WithPixelRatioCap(2), WithPixelRatioCallback(func(ratio float64) { ratios = append(ratios, ratio) }))

	c.Apply(400, 300)
	assert.InDelta(t, 400.0/300.0, cam.Aspect(), 1e-6)
	assert.Equal(t, common.Size{Width: 400, Height: 300}, surface.Size())
	assert.Equal(t, common.Size{Width: 800, Height: 600}, surface.BufferSize())
	assert.Equal(t, []common.Size{{Width: 800, Height: 600}}, r.sizes)
	assert.Equal(t, []float64{2}, ratios)
	assert.Equal(t, 2.0, c.PixelRatio())

	c.Apply(0, 300)
	c.Apply(400, -1)
	assert.Equal(t, 1, c.Applied())
}

func TestCoordinator_RoundsBuffer(t *testing.T) {
	host := window.NewHeadlessHost(window.WithPixelRatio(1.5))
	surface := host.NewSurface("backdrop")
	c := NewCoordinator(host, surface, camera.NewCamera(), nil)

	c.Apply(333, 101)
	assert.Equal(t, common.Size{Width: 500, Height: 152}, surface.BufferSize())
}

func TestCoordinator_FollowsContainerAndViewport(t *testing.T) {
	host := window.NewHeadlessHost(window.WithSize(800, 600))
	surface := host.NewSurface("backdrop")
	cam := camera.NewCamera()
	r := &recordingResizer{}
	c := NewCoordinator(host, surface, cam, r)

	c.Attach()
	c.Attach()
	assert.Equal(t, 1, host.Container().ObserverCount())
	assert.Equal(t, 1, host.Viewport().ListenerCount())

	host.ResizeContainer(400, 300)
	assert.Equal(t, common.Size{Width: 400, Height: 300}, surface.Size())
	assert.InDelta(t, 4.0/3.0, cam.Aspect(), 1e-6)

	// a viewport resize re-reads the container
	host.ResizeViewport(1000, 500)
	assert.Equal(t, common.Size{Width: 400, Height: 300}, surface.Size())
	assert.Len(t, r.sizes, 2)

	c.Close()
	c.Close()
	assert.Equal(t, 0, host.Container().ObserverCount())
	assert.Equal(t, 0, host.Viewport().ListenerCount())

	host.ResizeContainer(200, 100)
	assert.Equal(t, common.Size{Width: 400, Height: 300}, surface.Size())
	c.Apply(200, 100)
	assert.Len(t, r.sizes, 2)
}

func TestCoordinator_ViewportWithoutContainer(t *testing.T) {
	host := window.NewHeadlessHost(window.WithoutContainer())
	surface := host.NewSurface("backdrop")
	c := NewCoordinator(host, surface, camera.NewCamera(), nil)
	c.Attach()

	host.ResizeViewport(640, 480)
	assert.Equal(t, common.Size{Width: 640, Height: 480}, surface.Size())
	c.Close()
}

func TestCoordinator_LogsRendererFailure(t *testing.T) {
	host := window.NewHeadlessHost()
	log := common.NewRecordingLogger()
	c := NewCoordinator(host, host.NewSurface("backdrop"), camera.NewCamera(),
		&recordingResizer{err: errors.New("lost device")}, WithLogger(log))

	c.Apply(10, 10)
	require.Len(t, log.Lines("WARN"), 1)
	assert.Contains(t, log.Lines("WARN")[0], "lost device")
}
