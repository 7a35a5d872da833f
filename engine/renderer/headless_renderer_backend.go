package renderer

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

// HeadlessDraw is one draw recorded by the headless backend.
type HeadlessDraw struct {
	Pipeline string
	Mesh     string
	Draw     string
	// Vertices and Instances are what a GPU backend would have submitted.
	Vertices  int
	Instances int
	Indexed   bool
}

// HeadlessStats is a snapshot of everything the headless backend has recorded.
type HeadlessStats struct {
	SurfaceSizes  []common.Size
	PresentMode   PresentMode
	ClearColor    mgl32.Vec3
	Pipelines     []string
	Meshes        int
	Textures      int
	BindGroups    int
	BufferWrites  int
	BytesWritten  int
	Frames        int
	LastFrame     []HeadlessDraw
	Released      bool
	VertexUploads map[string][][]byte
}

// headlessRendererBackend records every call instead of talking to a GPU. It validates the
// same preconditions the wgpu backend does so failures surface the same way.
type headlessRendererBackend struct {
	mu      sync.Mutex
	stats   HeadlessStats
	inFrame bool
	pending []HeadlessDraw
}

var _ RendererBackend = &headlessRendererBackend{}

func newHeadlessRendererBackend() *headlessRendererBackend {
	return &headlessRendererBackend{
		stats: HeadlessStats{VertexUploads: make(map[string][][]byte)},
	}
}

func (b *headlessRendererBackend) Type() BackendType {
	return BackendTypeHeadless
}

func (b *headlessRendererBackend) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("headless backend: invalid surface size %dx%d", width, height)
	}
	b.stats.SurfaceSizes = append(b.stats.SurfaceSizes, common.Size{Width: width, Height: height})
	return nil
}

func (b *headlessRendererBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.PresentMode = mode
}

func (b *headlessRendererBackend) SetClearColor(c mgl32.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.ClearColor = c
}

func (b *headlessRendererBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.Program() == nil {
		return fmt.Errorf("pipeline %s: no program set", p.PipelineKey())
	}
	b.stats.Pipelines = append(b.stats.Pipelines, p.PipelineKey())
	return nil
}

func (b *headlessRendererBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData [][]byte, indexData []byte, indexCount, elementCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, data := range vertexData {
		if len(data) == 0 {
			return fmt.Errorf("mesh %s: attribute %d is empty", provider.Label(), i)
		}
	}
	uploads := make([][]byte, len(vertexData))
	for i, data := range vertexData {
		uploads[i] = slices.Clone(data)
	}
	b.stats.VertexUploads[provider.Label()] = uploads
	b.stats.Meshes++

	if len(indexData) > 0 {
		provider.SetIndexBuffer(nil, indexCount)
	}
	provider.SetElementCount(elementCount)
	return nil
}

func (b *headlessRendererBackend) InitTexture(provider bind_group_provider.BindGroupProvider, staging common.TextureStagingData, _ common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(staging.Pixels) == 0 || staging.Width == 0 || staging.Height == 0 {
		return fmt.Errorf("texture %s: no pixel data", provider.Label())
	}
	if uint32(len(staging.Pixels)) != staging.Width*staging.Height*4 {
		return fmt.Errorf("texture %s: %d bytes for %dx%d", provider.Label(), len(staging.Pixels), staging.Width, staging.Height)
	}
	b.stats.Textures++
	return nil
}

func (b *headlessRendererBackend) InitBindGroup(draw bind_group_provider.BindGroupProvider, p pipeline.Pipeline, tex bind_group_provider.BindGroupProvider, size uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.Program() == nil {
		return fmt.Errorf("draw %s: pipeline %s has no program", draw.Label(), p.PipelineKey())
	}
	if p.Program().Textured() && tex == nil {
		return fmt.Errorf("draw %s: textured program without a texture", draw.Label())
	}
	if size == 0 {
		return fmt.Errorf("draw %s: empty uniform buffer", draw.Label())
	}
	b.stats.BindGroups++
	return nil
}

func (b *headlessRendererBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, w := range writes {
		b.stats.BufferWrites++
		b.stats.BytesWritten += len(w.Data)
	}
}

func (b *headlessRendererBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFrame {
		return errors.New("previous frame surface not yet presented")
	}
	if len(b.stats.SurfaceSizes) == 0 {
		return errors.New("surface is not configured")
	}
	b.inFrame = true
	b.pending = nil
	return nil
}

func (b *headlessRendererBackend) DrawCall(p pipeline.Pipeline, mesh, draw bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFrame {
		return
	}
	d := HeadlessDraw{
		Pipeline: p.PipelineKey(),
		Mesh:     mesh.Label(),
		Draw:     draw.Label(),
	}
	switch {
	case p.Program().Instanced():
		d.Vertices, d.Instances = 6, mesh.ElementCount()
	case mesh.IndexCount() > 0:
		d.Vertices, d.Instances, d.Indexed = mesh.IndexCount(), 1, true
	default:
		d.Vertices, d.Instances = mesh.ElementCount(), 1
	}
	b.pending = append(b.pending, d)
}

func (b *headlessRendererBackend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFrame {
		return
	}
	b.stats.LastFrame = b.pending
	b.pending = nil
}

func (b *headlessRendererBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFrame {
		return
	}
	b.inFrame = false
	b.stats.Frames++
}

func (b *headlessRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.Released = true
}

// Stats returns a copy of the recorded state.
func (b *headlessRendererBackend) Stats() HeadlessStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.stats
	s.SurfaceSizes = slices.Clone(b.stats.SurfaceSizes)
	s.Pipelines = slices.Clone(b.stats.Pipelines)
	s.LastFrame = slices.Clone(b.stats.LastFrame)
	s.VertexUploads = make(map[string][][]byte, len(b.stats.VertexUploads))
	for k, v := range b.stats.VertexUploads {
		s.VertexUploads[k] = v
	}
	return s
}
