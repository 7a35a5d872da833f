package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/texture"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glowSource = `//@oxy:uniforms
//@oxy:attributes
struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
};
@vertex
fn vs_main(attr: Attributes) -> VertexOutput {
    var out: VertexOutput;
    let clip = u.projection * u.view * u.model * vec4<f32>(attr.position, 1.0);
    out.clip_position = vec4<f32>(clip.xy, 0.5 * (clip.z + clip.w), clip.w);
    return out;
}
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(u.strength);
}
`

type fixture struct {
	host    *window.HeadlessHost
	surface window.Surface
	scene   scene.Scene
	camera  camera.Camera
	stars   scene.Node
	glow    scene.Node
	sprite  texture.Texture
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	host := window.NewHeadlessHost()
	surface := host.NewSurface("backdrop")
	surface.SetBufferSize(800, 600)

	prog, err := shader.NewPointsProgram("stars")
	require.NoError(t, err)
	sprite := texture.NewRadialDot(16, []texture.Stop{
		{Offset: 0, Color: texture.Hex(0xffffff)},
		{Offset: 1, Color: texture.Transparent},
	})
	starMat := material.NewMaterial(prog, material.WithTexture(sprite))
	stars := scene.NewPoints("stars", geometry.ShellAnnulus(geometry.NewSeeded(7), 64, geometry.DefaultShellAnnulus()), starMat)

	glowProg, err := shader.NewCustomProgram("glow", glowSource,
		shader.WithAttribute("position", 3),
		shader.WithUniform("strength", shader.UniformFloat),
	)
	require.NoError(t, err)
	glowMat := material.NewMaterial(glowProg, material.WithSide(material.SideBack), material.WithBlend(material.BlendNormal))
	glow := scene.NewMesh("glow", geometry.Sphere(10, 8, 8), glowMat, scene.WithRenderOrder(-1))

	s := scene.NewScene("test", scene.WithBackground(0x102030))
	require.NoError(t, s.Root().Add(stars, glow))

	return &fixture{
		host:    host,
		surface: surface,
		scene:   s,
		camera:  camera.NewCamera(camera.WithAspect(800.0 / 600.0)),
		stars:   stars,
		glow:    glow,
		sprite:  sprite,
	}
}

func headlessStats(t *testing.T, r Renderer) HeadlessStats {
	t.Helper()
	b, ok := r.Backend().(*headlessRendererBackend)
	require.True(t, ok)
	return b.Stats()
}

func TestNewRenderer_Headless(t *testing.T) {
	f := newFixture(t)

	r, err := NewRenderer(BackendTypeHeadless, f.surface, WithPresentMode(PresentModeUncapped))
	require.NoError(t, err)
	assert.Equal(t, BackendTypeHeadless, r.BackendType())
	assert.Equal(t, common.Size{Width: 800, Height: 600}, r.Size())

	stats := headlessStats(t, r)
	assert.Equal(t, []common.Size{{Width: 800, Height: 600}}, stats.SurfaceSizes)
	assert.Equal(t, PresentModeUncapped, stats.PresentMode)
}

func TestNewRenderer_WGPUWithoutDescriptor(t *testing.T) {
	f := newFixture(t)

	_, err := NewRenderer(BackendTypeWGPU, f.surface)
	assert.Error(t, err)
}

func TestRenderer_Render(t *testing.T) {
	f := newFixture(t)
	r, err := NewRenderer(BackendTypeHeadless, f.surface)
	require.NoError(t, err)

	require.NoError(t, r.Render(f.scene, f.camera))
	require.NoError(t, r.Render(f.scene, f.camera))

	assert.Equal(t, uint64(2), r.Frames())
	assert.Equal(t, 2, r.DrawCount())
	assert.Len(t, r.Pipelines(), 2)

	stats := headlessStats(t, r)
	assert.Equal(t, 2, stats.Frames)
	assert.Equal(t, 2, stats.Meshes)
	assert.Equal(t, 1, stats.Textures)
	assert.Equal(t, 2, stats.BindGroups)
	assert.Equal(t, 4, stats.BufferWrites)
	assert.Equal(t, common.ColorFromHex(0x102030), stats.ClearColor)

	// render order puts the glow first
	require.Len(t, stats.LastFrame, 2)
	assert.Equal(t, "glow", stats.LastFrame[0].Draw)
	assert.True(t, stats.LastFrame[0].Indexed)
	assert.Equal(t, "stars", stats.LastFrame[1].Draw)
	assert.Equal(t, 6, stats.LastFrame[1].Vertices)
	assert.Equal(t, 64, stats.LastFrame[1].Instances)

	// positions are uploaded as the first vertex buffer
	pos, ok := f.stars.Geometry().Attribute(geometry.PositionAttribute)
	require.True(t, ok)
	upload := stats.VertexUploads[f.stars.Geometry().Label()]
	require.NotEmpty(t, upload)
	assert.Equal(t, common.SliceToBytes(pos.Data), upload[0])
}

func TestRenderer_ResolutionUniform(t *testing.T) {
	f := newFixture(t)
	r, err := NewRenderer(BackendTypeHeadless, f.surface)
	require.NoError(t, err)

	require.NoError(t, r.Render(f.scene, f.camera))
	assert.Equal(t, []float32{800, 600}, f.stars.Material().Value(shader.UniformResolution))

	bytes := f.stars.Material().UniformBytes(mgl32.Ident4(), mgl32.Ident4(), mgl32.Ident4())
	off, ok := f.stars.Material().Program().Layout().Offset(shader.UniformResolution)
	require.True(t, ok)
	assert.Equal(t, float32(800), math.Float32frombits(binary.LittleEndian.Uint32(bytes[off:])))
}

func TestRenderer_SkipsBrokenNode(t *testing.T) {
	f := newFixture(t)
	log := common.NewRecordingLogger()
	r, err := NewRenderer(BackendTypeHeadless, f.surface, WithLogger(log))
	require.NoError(t, err)

	// a textured program without a texture cannot be bound
	prog, err := shader.NewPointsProgram("bare")
	require.NoError(t, err)
	broken := scene.NewPoints("broken", geometry.Disc(geometry.NewSeeded(1), 8, geometry.DefaultDisc()), material.NewMaterial(prog))
	require.NoError(t, f.scene.Root().Add(broken))

	require.NoError(t, r.Render(f.scene, f.camera))
	require.NoError(t, r.Render(f.scene, f.camera))

	assert.Equal(t, 2, r.DrawCount())
	assert.Len(t, log.Lines("ERROR"), 1)
}

func TestRenderer_MissingAttribute(t *testing.T) {
	f := newFixture(t)
	log := common.NewRecordingLogger()
	r, err := NewRenderer(BackendTypeHeadless, f.surface, WithLogger(log))
	require.NoError(t, err)

	prog, err := shader.NewPointsProgram("shifted", shader.WithAttribute(geometry.ShiftAttribute, 4))
	require.NoError(t, err)
	mat := material.NewMaterial(prog, material.WithTexture(f.sprite))
	// disc geometry carries no shift attribute
	n := scene.NewPoints("discs", geometry.Disc(geometry.NewSeeded(1), 8, geometry.DefaultDisc()), mat)
	require.NoError(t, f.scene.Root().Add(n))

	require.NoError(t, r.Render(f.scene, f.camera))
	assert.Equal(t, 2, r.DrawCount())
	require.Len(t, log.Lines("ERROR"), 1)
	assert.Contains(t, log.Lines("ERROR")[0], "shift")
}

func TestRenderer_ReleaseHooksDropCaches(t *testing.T) {
	f := newFixture(t)
	r, err := NewRenderer(BackendTypeHeadless, f.surface)
	require.NoError(t, err)
	require.NoError(t, r.Render(f.scene, f.camera))

	impl := r.(*renderer)
	assert.Len(t, impl.draws, 2)
	assert.Len(t, impl.meshes, 2)
	assert.Len(t, impl.textures, 1)

	require.NoError(t, f.glow.Geometry().Release())
	assert.Len(t, impl.draws, 1)
	assert.Len(t, impl.meshes, 1)

	require.NoError(t, f.sprite.Release())
	assert.Empty(t, impl.textures)
	assert.Empty(t, impl.draws)

	require.NoError(t, f.stars.Material().Release())
	require.NoError(t, r.Render(f.scene, f.camera))
	assert.Equal(t, 0, r.DrawCount())
}

func TestRenderer_Resize(t *testing.T) {
	f := newFixture(t)
	r, err := NewRenderer(BackendTypeHeadless, f.surface)
	require.NoError(t, err)

	require.NoError(t, r.Resize(common.Size{Width: 400, Height: 300}))
	require.NoError(t, r.Resize(common.Size{Width: 400, Height: 300}))
	assert.Error(t, r.Resize(common.Size{Width: 0, Height: 300}))
	assert.Equal(t, common.Size{Width: 400, Height: 300}, r.Size())

	stats := headlessStats(t, r)
	assert.Equal(t, []common.Size{{Width: 800, Height: 600}, {Width: 400, Height: 300}}, stats.SurfaceSizes)
}

func TestRenderer_UnsizedSurfaceSkipsFrames(t *testing.T) {
	host := window.NewHeadlessHost()
	surface := host.NewSurface("unsized")
	r, err := NewRenderer(BackendTypeHeadless, surface)
	require.NoError(t, err)

	require.NoError(t, r.Render(scene.NewScene("empty"), camera.NewCamera()))
	assert.Equal(t, uint64(0), r.Frames())
}

func TestRenderer_Release(t *testing.T) {
	f := newFixture(t)
	r, err := NewRenderer(BackendTypeHeadless, f.surface)
	require.NoError(t, err)
	require.NoError(t, r.Render(f.scene, f.camera))

	require.NoError(t, r.Release())
	assert.ErrorIs(t, r.Release(), ErrReleased)
	assert.True(t, r.Released())
	assert.ErrorIs(t, r.Render(f.scene, f.camera), ErrReleased)
	assert.Empty(t, r.Pipelines())
	assert.True(t, headlessStats(t, r).Released)

	// resource hooks firing after release are harmless
	require.NoError(t, f.stars.Geometry().Release())
}

func TestNewRenderer_BackendOverride(t *testing.T) {
	f := newFixture(t)
	backend := newHeadlessRendererBackend()

	r, err := NewRenderer(BackendTypeWGPU, f.surface,
		WithBackend(backend),
		WithMSAA(MSAAOff),
		WithForceSoftwareRenderer(true),
	)
	require.NoError(t, err)
	assert.Equal(t, BackendTypeHeadless, r.BackendType())
	assert.Equal(t, MSAAOff, r.(*renderer).msaa)

	require.NoError(t, r.Render(f.scene, f.camera))
	assert.Equal(t, 1, backend.Stats().Frames)
}
