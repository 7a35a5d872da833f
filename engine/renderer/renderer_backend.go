package renderer

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// BackendType selects the implementation a renderer draws with.
type BackendType int

const (
	// BackendTypeWGPU draws to a native surface through WebGPU.
	BackendTypeWGPU BackendType = iota
	// BackendTypeHeadless records every call without touching a GPU.
	BackendTypeHeadless
)

func (t BackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// PresentMode defines how rendered frames are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync synchronizes frame presentation with the display refresh rate.
	// Frames are queued and presented in order, preventing tearing but capping FPS to the refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical sync.
	// This allows unlimited FPS but may cause screen tearing.
	PresentModeUncapped
)

// MSAASampleCount defines the number of samples per pixel for multisample anti-aliasing.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// RendererBackend is the device-facing half of a renderer. Every GPU object it creates is
// stored on a BindGroupProvider or a Pipeline so the renderer can cache and release it.
type RendererBackend interface {
	// Type retrieves the backend type.
	Type() BackendType

	// ConfigureSurface (re)configures the swapchain and the depth and MSAA targets. It is
	// required whenever the drawing buffer size changes.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: when the targets cannot be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the frame is cleared to.
	SetClearColor(c mgl32.Vec3)

	// RegisterRenderPipeline creates the shader module, bind group layout and render pipeline
	// for p and stores them on it.
	//
	// Parameters:
	//   - p: the pipeline, its program must be set
	//
	// Returns:
	//   - error: when the program is missing or the GPU rejects it
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads one vertex buffer per program attribute and the optional index
	// buffer, storing them on the provider.
	//
	// Parameters:
	//   - provider: the mesh provider
	//   - vertexData: the raw bytes of each attribute, in location order
	//   - indexData: the raw uint32 indices, empty for unindexed geometry
	//   - indexCount: the number of indices
	//   - elementCount: the number of vertices, or instances for instanced programs
	//
	// Returns:
	//   - error: when a buffer cannot be created
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData [][]byte, indexData []byte, indexCount, elementCount int) error

	// InitTexture uploads a sprite and creates its view and sampler on the provider.
	//
	// Parameters:
	//   - provider: the texture provider
	//   - staging: the RGBA pixels
	//   - sampler: the sampler configuration, zero fields take defaults
	//
	// Returns:
	//   - error: when the pixel data is empty or the GPU objects cannot be created
	InitTexture(provider bind_group_provider.BindGroupProvider, staging common.TextureStagingData, sampler common.SamplerStagingData) error

	// InitBindGroup creates the uniform buffer and the group 0 bind group of a draw.
	//
	// Parameters:
	//   - draw: the per-draw provider the buffer and bind group are stored on
	//   - p: the registered pipeline the bind group must match
	//   - tex: the texture provider for textured programs, nil otherwise
	//   - size: the uniform buffer size in bytes
	//
	// Returns:
	//   - error: when the pipeline is not registered or a textured program has no texture
	InitBindGroup(draw bind_group_provider.BindGroupProvider, p pipeline.Pipeline, tex bind_group_provider.BindGroupProvider, size uint64) error

	// WriteBuffers writes staged uniform data to the GPU queue. Writes to providers without a
	// buffer are skipped.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture and begins the render pass. It must be
	// paired with EndFrame and Present.
	//
	// Returns:
	//   - error: when the previous frame was not presented or no texture can be acquired
	BeginFrame() error

	// DrawCall encodes one draw in the current render pass. Instanced programs draw six
	// vertices per element, indexed meshes draw their indices and other meshes draw their
	// vertices.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - mesh: the provider holding the vertex and index buffers
	//   - draw: the provider holding the bind group
	DrawCall(p pipeline.Pipeline, mesh, draw bind_group_provider.BindGroupProvider)

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present presents the frame and releases the swapchain texture.
	Present()

	// Release frees the device and surface. The backend must not be used afterwards.
	Release()
}
