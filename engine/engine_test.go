package engine

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/capability"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/preset"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

func find(t *testing.T, s scene.Scene, name string) scene.Node {
	t.Helper()
	var found scene.Node
	s.Root().Traverse(func(n scene.Node) {
		if found == nil && n.Name() == name {
			found = n
		}
	})
	require.NotNil(t, found, "node %s", name)
	return found
}

func positions(t *testing.T, n scene.Node) []float32 {
	t.Helper()
	attr, ok := n.Geometry().Attribute(geometry.PositionAttribute)
	require.True(t, ok)
	return attr.Data
}

func TestMount_DesktopHighTier(t *testing.T) {
	host := window.NewHeadlessHost(window.WithSize(800, 600), window.WithDeviceMemory(8), window.WithCores(8))
	log := common.NewRecordingLogger()

	h := Mount(host, WithLogger(log))
	require.False(t, h.Inert())
	assert.NotEqual(t, uuid.Nil, h.ID())
	assert.Equal(t, preset.KindNight, h.Kind())
	assert.Equal(t, capability.TierHigh, h.Tier())
	assert.Equal(t, 110000, h.Budget())
	assert.Equal(t, 110000, find(t, h.Scene(), "stars").Geometry().Count())

	container := host.Container()
	require.Len(t, container.Children(), 1)
	surface := h.Surface()
	assert.Equal(t, surface, container.Children()[0])
	assert.False(t, surface.Interactive())
	assert.True(t, surface.AccessibilityHidden())
	assert.Equal(t, common.Size{Width: 800, Height: 600}, surface.BufferSize())

	for range 3 {
		host.Step(frame)
	}
	assert.Equal(t, uint64(3), h.Frames())
	assert.Len(t, log.Lines("INFO"), 1)

	h.Cleanup()
	assert.Empty(t, container.Children())
	assert.True(t, surface.Released())
	assert.Equal(t, 0, host.PendingFrames())
	assert.Equal(t, 0, host.Viewport().ListenerCount())
	assert.Equal(t, 0, container.ObserverCount())
	assert.NoError(t, h.Err())

	host.Step(frame)
	assert.Equal(t, uint64(3), h.Frames())
}

func TestMount_NoContainer(t *testing.T) {
	host := window.NewHeadlessHost(window.WithoutContainer())
	log := common.NewRecordingLogger()

	h := Mount(host, WithLogger(log))
	assert.True(t, h.Inert())
	assert.Len(t, log.Lines("WARN"), 1)
	assert.Empty(t, host.Surfaces())
	assert.Equal(t, 0, host.PendingFrames())

	assert.NotPanics(t, func() {
		h.Cleanup()
		h.Cleanup()
	})
	assert.Equal(t, uuid.Nil, h.ID())
	assert.Nil(t, h.Scene())
	assert.Nil(t, h.Camera())
	assert.Nil(t, h.Surface())
	assert.Zero(t, h.Budget())
	assert.NoError(t, h.Err())

	assert.True(t, Mount(nil).Inert())
}

func TestMount_ResizeFollowsContainer(t *testing.T) {
	host := window.NewHeadlessHost(window.WithSize(800, 600))
	h := Mount(host, WithPreset(preset.KindRibbon))
	require.False(t, h.Inert())
	defer h.Cleanup()

	assert.InDelta(t, 800.0/600.0, h.Camera().Aspect(), 1e-6)

	host.ResizeContainer(400, 300)
	assert.InDelta(t, 400.0/300.0, h.Camera().Aspect(), 1e-6)
	assert.Equal(t, common.Size{Width: 400, Height: 300}, h.Surface().Size())
	assert.Equal(t, common.Size{Width: 400, Height: 300}, h.Surface().BufferSize())

	host.ResizeContainer(0, 300)
	assert.Equal(t, common.Size{Width: 400, Height: 300}, h.Surface().Size())
}

func TestMount_SameSeedSameLayout(t *testing.T) {
	mount := func() Handle {
		h := Mount(window.NewHeadlessHost(), WithPreset(preset.KindPetal), WithSeed(42))
		require.False(t, h.Inert())
		t.Cleanup(h.Cleanup)
		return h
	}
	a, b := mount(), mount()
	assert.Equal(t, positions(t, find(t, a.Scene(), "petals")), positions(t, find(t, b.Scene(), "petals")))
	assert.Equal(t, positions(t, find(t, a.Scene(), "orbs")), positions(t, find(t, b.Scene(), "orbs")))
}

func TestMount_NebulaSeededByDefault(t *testing.T) {
	a := Mount(window.NewHeadlessHost(), WithPreset(preset.KindNebula))
	b := Mount(window.NewHeadlessHost(), WithPreset(preset.KindNebula))
	defer a.Cleanup()
	defer b.Cleanup()
	assert.Equal(t, positions(t, find(t, a.Scene(), "stars")), positions(t, find(t, b.Scene(), "stars")))

	c := Mount(window.NewHeadlessHost(), WithPreset(preset.KindNebula), WithSeed(7))
	defer c.Cleanup()
	assert.NotEqual(t, positions(t, find(t, a.Scene(), "stars")), positions(t, find(t, c.Scene(), "stars")))
}

func TestHandle_CleanupTwice(t *testing.T) {
	host := window.NewHeadlessHost()
	log := common.NewRecordingLogger()
	h := Mount(host, WithPreset(preset.KindPetal), WithLogger(log))
	require.False(t, h.Inert())
	host.Step(frame)

	h.Cleanup()
	warnings := len(log.Lines("WARN"))
	assert.NotPanics(t, h.Cleanup)
	assert.Len(t, log.Lines("WARN"), warnings)
	assert.NoError(t, h.Err())

	for _, m := range h.Scene().Materials() {
		assert.True(t, m.Released(), m.Name())
	}
	for _, g := range h.Scene().Geometries() {
		assert.True(t, g.Released(), g.Label())
	}
}

func TestHandle_CleanupRemovesListeners(t *testing.T) {
	host := window.NewHeadlessHost()
	h := Mount(host, WithPreset(preset.KindRibbon))
	require.False(t, h.Inert())

	// pointer, touch and resize
	assert.Equal(t, 3, host.Viewport().ListenerCount())
	assert.Equal(t, 1, host.Container().ObserverCount())

	h.Cleanup()
	assert.Equal(t, 0, host.Viewport().ListenerCount())
	assert.Equal(t, 0, host.Container().ObserverCount())
	assert.Empty(t, host.Container().Children())
}

func TestMount_ReducedMotion(t *testing.T) {
	normal := Mount(window.NewHeadlessHost(), WithPreset(preset.KindNebula))
	defer normal.Cleanup()

	host := window.NewHeadlessHost(window.WithReducedMotion(true))
	reduced := Mount(host, WithPreset(preset.KindNebula))
	defer reduced.Cleanup()

	assert.True(t, reduced.Estimate().ReducedMotion)
	assert.Less(t, reduced.Budget(), normal.Budget())

	// nebula keeps still under reduced motion, so only the resize listener is added
	assert.Equal(t, 1, host.Viewport().ListenerCount())

	host.Step(frame)
	host.Step(frame)
	assert.Equal(t, uint64(2), reduced.Frames())
}

func TestMount_HiddenViewportSkipsFrames(t *testing.T) {
	host := window.NewHeadlessHost()
	h := Mount(host)
	defer h.Cleanup()

	host.Step(frame)
	host.SetHidden(true)
	host.Step(frame)
	host.Step(frame)
	assert.Equal(t, uint64(1), h.Frames())
	assert.Equal(t, 1, host.PendingFrames())

	host.SetHidden(false)
	host.Step(frame)
	assert.Equal(t, uint64(2), h.Frames())
}

func TestMount_PixelRatioCapped(t *testing.T) {
	host := window.NewHeadlessHost(window.WithPixelRatio(3))
	h := Mount(host, WithPreset(preset.KindRibbon))
	require.False(t, h.Inert())
	defer h.Cleanup()

	assert.Equal(t, common.Size{Width: 800, Height: 600}, h.Surface().Size())
	assert.Equal(t, common.Size{Width: 1440, Height: 1080}, h.Surface().BufferSize())
	for _, m := range h.Scene().Materials() {
		v, ok := m.Float(shader.UniformPixelRatio)
		require.True(t, ok)
		assert.InDelta(t, 1.8, v, 1e-6)
	}
}

func TestMount_ParallaxMovesCamera(t *testing.T) {
	host := window.NewHeadlessHost()
	h := Mount(host, WithPreset(preset.KindRibbon))
	require.False(t, h.Inert())
	defer h.Cleanup()

	host.MovePointer(800, 300)
	host.Step(frame)
	assert.InDelta(t, 0.06*6, h.Camera().Position().X(), 1e-5)
	assert.InDelta(t, 0, h.Camera().Position().Y(), 1e-5)
	assert.InDelta(t, 60, h.Camera().Position().Z(), 1e-5)
}

func TestMount_RendererFailureIsInert(t *testing.T) {
	host := window.NewHeadlessHost()
	log := common.NewRecordingLogger()

	h := Mount(host, WithRendererBackend(renderer.BackendType(99)), WithLogger(log))
	assert.True(t, h.Inert())
	assert.Len(t, log.Lines("ERROR"), 1)
	assert.Empty(t, host.Container().Children())
	require.Len(t, host.Surfaces(), 1)
	assert.True(t, host.Surfaces()[0].Released())
}

func TestMount_ConfigIsNormalized(t *testing.T) {
	host := window.NewHeadlessHost(window.WithSize(600, 900))
	h := Mount(host, WithPreset(preset.KindPetal), WithConfig(preset.Config{
		BaseColor:            0xff00ff00,
		EnableSecondaryLayer: true,
		MobileBreakpointPx:   -1,
	}))
	require.False(t, h.Inert())
	defer h.Cleanup()

	// 600 is under the default breakpoint, so the compact layout is used
	assert.True(t, h.Estimate().Mobile)
	assert.Equal(t, 140, h.Budget())
	assert.InDeltaSlice(t, []float32{0, 0.92, 0}, find(t, h.Scene(), "glow").Material().Value("color"), 1e-6)
}

func TestMount_RandomAndRendererOptions(t *testing.T) {
	seeded := Mount(window.NewHeadlessHost(), WithPreset(preset.KindRibbon), WithSeed(3))
	defer seeded.Cleanup()

	injected := Mount(window.NewHeadlessHost(), WithPreset(preset.KindRibbon),
		WithSeed(99),
		WithRandom(geometry.NewSeeded(3)),
		WithRendererOptions(renderer.WithMSAA(renderer.MSAAOff), renderer.WithPresentMode(renderer.PresentModeUncapped)),
	)
	require.False(t, injected.Inert())
	defer injected.Cleanup()

	assert.Equal(t, positions(t, find(t, seeded.Scene(), "dust")), positions(t, find(t, injected.Scene(), "dust")))
}

func TestMount_ContainerRemovedBeforeMount(t *testing.T) {
	host := window.NewHeadlessHost()
	host.RemoveContainer()
	log := common.NewRecordingLogger()

	h := Mount(host, WithLogger(log))
	assert.True(t, h.Inert())
	assert.Len(t, log.Lines("WARN"), 1)
}
