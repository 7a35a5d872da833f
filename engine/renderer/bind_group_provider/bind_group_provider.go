package bind_group_provider

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu *sync.Mutex

	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources and must be released when no longer needed. They are populated
	// by a renderer backend, not by user-creation. A headless backend leaves them nil.

	// bindGroup is the group 0 bind group: the uniform buffer plus, for textured programs, a texture view and sampler.
	bindGroup *wgpu.BindGroup
	// buffer is the uniform buffer at binding 0.
	buffer *wgpu.Buffer
	// texture is the sprite texture owned by this provider.
	texture     *wgpu.Texture
	textureView *wgpu.TextureView
	sampler     *wgpu.Sampler

	// The following fields describe mesh data: one vertex buffer per program attribute in location order and an
	// optional index buffer.

	vertexBuffers []*wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	// indexCount is the number of indices for indexed draws, 0 when the mesh is not indexed.
	indexCount int
	// elementCount is the number of vertices, or instances for point sprites.
	elementCount int

	released bool
}

// BindGroupProvider is a container for the GPU resources a renderer backend creates for one
// CPU-side resource. The renderer holds three flavors of provider:
//
//  1. mesh providers hold the vertex buffers and index buffer of a geometry
//  2. texture providers hold a sprite texture, its view and its sampler
//  3. draw providers hold the uniform buffer and bind group of one drawn node
//
// A backend fills the provider during initialization; the renderer reads it back when it
// encodes draw calls and releases it when the owning resource is released.
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider. Calling it again does nothing.
	Release()

	// Released reports whether Release has run.
	Released() bool

	// Label returns the debug label for this provider.
	// Used for debugging and profiling purposes.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Buffer returns the uniform buffer for data writes.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer() *wgpu.Buffer

	// Texture returns the GPU texture, or nil if not set.
	Texture() *wgpu.Texture

	// TextureView returns the GPU texture view, or nil if not set.
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView() *wgpu.TextureView

	// Sampler returns the GPU sampler, or nil if not set.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler() *wgpu.Sampler

	// VertexBuffers returns the vertex buffers in attribute location order.
	//
	// Returns:
	//   - []*wgpu.Buffer: the vertex buffers, nil if not initialized
	VertexBuffers() []*wgpu.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if the mesh is not indexed.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// ElementCount returns the number of vertices, or sprite instances for point geometry.
	//
	// Returns:
	//   - int: the element count
	ElementCount() int

	// SetBindGroup sets the bind group after GPU initialization.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer sets the uniform buffer after GPU initialization.
	//
	// Parameters:
	//   - buf: the created buffer
	SetBuffer(buf *wgpu.Buffer)

	// SetTexture stores a GPU texture and the view sampled from it.
	//
	// Parameters:
	//   - tex: the texture
	//   - view: the view of tex
	SetTexture(tex *wgpu.Texture, view *wgpu.TextureView)

	// SetSampler stores a GPU sampler.
	//
	// Parameters:
	//   - s: the sampler to store
	SetSampler(s *wgpu.Sampler)

	// SetVertexBuffers stores the vertex buffers in attribute location order.
	//
	// Parameters:
	//   - bufs: the vertex buffers
	SetVertexBuffers(bufs []*wgpu.Buffer)

	// SetIndexBuffer stores the GPU index buffer and the number of indices it holds.
	//
	// Parameters:
	//   - buf: the created index buffer
	//   - count: the index count
	SetIndexBuffer(buf *wgpu.Buffer, count int)

	// SetElementCount sets the number of vertices or instances.
	SetElementCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		mu:    &sync.Mutex{},
		label: label,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer() *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer
}

func (p *bindGroupProvider) Texture() *wgpu.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.texture
}

func (p *bindGroupProvider) TextureView() *wgpu.TextureView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.textureView
}

func (p *bindGroupProvider) Sampler() *wgpu.Sampler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sampler
}

func (p *bindGroupProvider) VertexBuffers() []*wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vertexBuffers
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexCount
}

func (p *bindGroupProvider) ElementCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elementCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer = buf
}

func (p *bindGroupProvider) SetTexture(tex *wgpu.Texture, view *wgpu.TextureView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texture = tex
	p.textureView = view
}

func (p *bindGroupProvider) SetSampler(s *wgpu.Sampler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sampler = s
}

func (p *bindGroupProvider) SetVertexBuffers(bufs []*wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vertexBuffers = bufs
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer, count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexBuffer = buf
	p.indexCount = count
}

func (p *bindGroupProvider) SetElementCount(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elementCount = count
}

func (p *bindGroupProvider) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true

	// the bind group references the buffer and view, so it goes first
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.buffer != nil {
		p.buffer.Release()
		p.buffer = nil
	}
	if p.sampler != nil {
		p.sampler.Release()
		p.sampler = nil
	}
	if p.textureView != nil {
		p.textureView.Release()
		p.textureView = nil
	}
	if p.texture != nil {
		p.texture.Release()
		p.texture = nil
	}
	for i, buf := range p.vertexBuffers {
		if buf != nil {
			buf.Release()
			p.vertexBuffers[i] = nil
		}
	}
	p.vertexBuffers = nil
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
	p.elementCount = 0
}
