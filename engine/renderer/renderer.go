package renderer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ErrReleased is returned when a released renderer is used or released again.
var ErrReleased = errors.New("renderer: already released")

// meshKey identifies uploaded vertex buffers. The same geometry drawn by two programs is
// uploaded once per program since each selects its own attributes.
type meshKey struct {
	geometry uuid.UUID
	program  string
}

// drawEntry holds the GPU state of one drawable node.
type drawEntry struct {
	pipeline pipeline.Pipeline
	mesh     bind_group_provider.BindGroupProvider
	draw     bind_group_provider.BindGroupProvider
	geometry uuid.UUID
	material uuid.UUID
	texture  uuid.UUID
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType BackendType
	backend     RendererBackend
	surface     window.Surface
	logger      common.Logger
	size        common.Size

	pipelineCache map[string]pipeline.Pipeline
	meshes        map[meshKey]bind_group_provider.BindGroupProvider
	textures      map[uuid.UUID]bind_group_provider.BindGroupProvider
	draws         map[uuid.UUID]*drawEntry
	failed        map[uuid.UUID]struct{}
	hooked        map[uuid.UUID]struct{}

	frames    uint64
	drawCount int
	released  bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	msaa                 MSAASampleCount
	backendOverride      RendererBackend
}

// Renderer draws a scene graph through a backend.
//
// GPU resources are created lazily on the first frame a node is drawn and cached: pipelines
// by material pipeline key, vertex buffers by geometry and program, textures by texture and
// uniform buffers by node. Releasing a geometry, material or texture drops the cached
// resources built from it.
type Renderer interface {
	// BackendType retrieves the type of the backend in use.
	BackendType() BackendType

	// Render draws every drawable of the scene from the camera's point of view and presents
	// the frame. A node whose resources cannot be built is logged once and skipped from then
	// on, so a broken layer leaves the rest of the scene on screen.
	//
	// Parameters:
	//   - s: the scene
	//   - cam: the camera
	//
	// Returns:
	//   - error: ErrReleased after Release, or when the frame cannot be acquired
	Render(s scene.Scene, cam camera.Camera) error

	// Resize configures the backend for a new drawing buffer size.
	// This should be called whenever the surface's buffer size changes.
	//
	// Parameters:
	//   - size: the new buffer size in physical pixels
	//
	// Returns:
	//   - error: when the size is not positive or the backend cannot be reconfigured
	Resize(size common.Size) error

	// Size retrieves the current drawing buffer size.
	Size() common.Size

	// SetPresentMode changes the present mode; it takes effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the sorted keys of every cached pipeline.
	Pipelines() []string

	// Frames retrieves the number of presented frames.
	Frames() uint64

	// DrawCount retrieves the number of draws in the last presented frame.
	DrawCount() int

	// Backend retrieves the backend the renderer draws with.
	Backend() RendererBackend

	// Release frees every cached GPU resource and the backend. It does not release scene
	// geometries, materials or textures.
	//
	// Returns:
	//   - error: ErrReleased when called a second time
	Release() error

	// Released reports whether Release has already run.
	Released() bool
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer for a surface and configures it for the surface's buffer
// size when that size is known.
//
// Parameters:
//   - backendType: the backend to draw with
//   - surface: the output surface, must not be nil
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: when the backend cannot be created or configured
func NewRenderer(backendType BackendType, surface window.Surface, options ...RendererBuilderOption) (Renderer, error) {
	if surface == nil {
		panic("renderer: surface must not be nil")
	}
	r := &renderer{
		mu:            &sync.Mutex{},
		backendType:   backendType,
		surface:       surface,
		logger:        common.NopLogger(),
		msaa:          MSAA4x,
		pipelineCache: make(map[string]pipeline.Pipeline),
		meshes:        make(map[meshKey]bind_group_provider.BindGroupProvider),
		textures:      make(map[uuid.UUID]bind_group_provider.BindGroupProvider),
		draws:         make(map[uuid.UUID]*drawEntry),
		failed:        make(map[uuid.UUID]struct{}),
		hooked:        make(map[uuid.UUID]struct{}),
	}
	for _, opt := range options {
		opt(r)
	}

	switch {
	case r.backendOverride != nil:
		r.backend = r.backendOverride
		r.backendType = r.backend.Type()
	case backendType == BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend()
	case backendType == BackendTypeWGPU:
		b, err := newWGPURendererBackend(surface.Descriptor(), r.forceFallbackAdapter, r.msaa)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = b
	default:
		return nil, fmt.Errorf("renderer: unknown backend type %d", backendType)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	if size := surface.BufferSize(); size.Valid() {
		if err := r.backend.ConfigureSurface(size.Width, size.Height); err != nil {
			r.backend.Release()
			return nil, fmt.Errorf("renderer: configure surface: %w", err)
		}
		r.size = size
	}

	r.logger.Debugf("renderer: %s backend ready for %s at %dx%d", r.backendType, surface.Label(), r.size.Width, r.size.Height)
	return r, nil
}

func (r *renderer) BackendType() BackendType {
	return r.backendType
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if !r.size.Valid() {
		return nil
	}

	r.backend.SetClearColor(s.Background())
	view, projection := cam.View(), cam.Projection()
	resolution := mgl32.Vec2{float32(r.size.Width), float32(r.size.Height)}

	var writes []bind_group_provider.BufferWrite
	var entries []*drawEntry
	for _, n := range s.Drawables() {
		if _, bad := r.failed[n.ID()]; bad {
			continue
		}
		geo, mat := n.Geometry(), n.Material()
		if geo.Released() || mat.Released() {
			continue
		}

		entry, err := r.prepare(n)
		if err != nil {
			r.failed[n.ID()] = struct{}{}
			r.logger.Errorf("renderer: skipping %s: %v", n.Name(), err)
			continue
		}

		if _, ok := mat.Program().Layout().Offset(shader.UniformResolution); ok {
			_ = mat.SetVec2(shader.UniformResolution, resolution)
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: entry.draw,
			Data:     mat.UniformBytes(n.WorldMatrix(), view, projection),
		})
		entries = append(entries, entry)
	}

	r.backend.WriteBuffers(writes)
	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("renderer: begin frame: %w", err)
	}
	for _, e := range entries {
		r.backend.DrawCall(e.pipeline, e.mesh, e.draw)
	}
	r.backend.EndFrame()
	r.backend.Present()

	r.frames++
	r.drawCount = len(entries)
	return nil
}

// prepare returns the cached draw state of a node, building whatever is missing.
func (r *renderer) prepare(n scene.Node) (*drawEntry, error) {
	if e, ok := r.draws[n.ID()]; ok && !e.mesh.Released() && !e.draw.Released() {
		return e, nil
	}

	geo, mat := n.Geometry(), n.Material()
	p, err := r.pipelineFor(mat)
	if err != nil {
		return nil, err
	}
	mesh, err := r.meshFor(geo, mat.Program())
	if err != nil {
		return nil, err
	}

	var texProvider bind_group_provider.BindGroupProvider
	var texID uuid.UUID
	if mat.Program().Textured() {
		tex := mat.Texture()
		if tex == nil {
			return nil, fmt.Errorf("material %s: textured program without a texture", mat.Name())
		}
		texProvider, err = r.textureFor(tex.ID(), tex.Label(), tex.Staging, tex.Sampler, tex.OnRelease)
		if err != nil {
			return nil, err
		}
		texID = tex.ID()
	}

	draw := bind_group_provider.NewBindGroupProvider(n.Name())
	if err := r.backend.InitBindGroup(draw, p, texProvider, mat.Program().Layout().Size); err != nil {
		draw.Release()
		return nil, err
	}

	e := &drawEntry{
		pipeline: p,
		mesh:     mesh,
		draw:     draw,
		geometry: geo.ID(),
		material: mat.ID(),
		texture:  texID,
	}
	if old, ok := r.draws[n.ID()]; ok {
		old.draw.Release()
	}
	r.draws[n.ID()] = e
	r.hook(mat.ID(), mat.OnRelease, func() { r.dropDraws(func(e *drawEntry) bool { return e.material == mat.ID() }) })
	return e, nil
}

func (r *renderer) pipelineFor(mat material.Material) (pipeline.Pipeline, error) {
	key := mat.PipelineKey()
	if p, ok := r.pipelineCache[key]; ok {
		return p, nil
	}
	p := pipeline.FromMaterial(mat)
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return nil, err
	}
	r.pipelineCache[key] = p
	r.logger.Debugf("renderer: registered pipeline %s", key)
	return p, nil
}

func (r *renderer) meshFor(geo geometry.Geometry, prog shader.Program) (bind_group_provider.BindGroupProvider, error) {
	key := meshKey{geometry: geo.ID(), program: prog.Key()}
	if m, ok := r.meshes[key]; ok && !m.Released() {
		return m, nil
	}

	specs := prog.Attributes()
	vertexData := make([][]byte, len(specs))
	for i, spec := range specs {
		attr, ok := geo.Attribute(spec.Name)
		if !ok {
			return nil, fmt.Errorf("geometry %s: missing attribute %q for program %s", geo.Label(), spec.Name, prog.Key())
		}
		if attr.Size != spec.Size {
			return nil, fmt.Errorf("geometry %s: attribute %q has %d components, program %s wants %d", geo.Label(), spec.Name, attr.Size, prog.Key(), spec.Size)
		}
		vertexData[i] = common.SliceToBytes(attr.Data)
	}
	indices := geo.Indices()

	mesh := bind_group_provider.NewBindGroupProvider(geo.Label())
	if err := r.backend.InitMeshBuffers(mesh, vertexData, common.SliceToBytes(indices), len(indices), geo.Count()); err != nil {
		mesh.Release()
		return nil, err
	}
	r.meshes[key] = mesh
	r.hook(geo.ID(), geo.OnRelease, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for k, m := range r.meshes {
			if k.geometry == geo.ID() {
				m.Release()
				delete(r.meshes, k)
			}
		}
		r.dropDrawsLocked(func(e *drawEntry) bool { return e.geometry == geo.ID() })
	})
	return mesh, nil
}

func (r *renderer) textureFor(
	id uuid.UUID,
	label string,
	staging func() common.TextureStagingData,
	sampler func() common.SamplerStagingData,
	onRelease func(func()),
) (bind_group_provider.BindGroupProvider, error) {
	if t, ok := r.textures[id]; ok && !t.Released() {
		return t, nil
	}
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := r.backend.InitTexture(provider, staging(), sampler()); err != nil {
		provider.Release()
		return nil, err
	}
	r.textures[id] = provider
	r.hook(id, onRelease, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if t, ok := r.textures[id]; ok {
			t.Release()
			delete(r.textures, id)
		}
		r.dropDrawsLocked(func(e *drawEntry) bool { return e.texture == id })
	})
	return provider, nil
}

// hook registers fn as a release hook of the resource with the given id, once.
func (r *renderer) hook(id uuid.UUID, register func(func()), fn func()) {
	if _, ok := r.hooked[id]; ok {
		return
	}
	r.hooked[id] = struct{}{}
	register(fn)
}

func (r *renderer) dropDraws(match func(*drawEntry) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropDrawsLocked(match)
}

func (r *renderer) dropDrawsLocked(match func(*drawEntry) bool) {
	for id, e := range r.draws {
		if match(e) {
			e.draw.Release()
			delete(r.draws, id)
		}
	}
}

func (r *renderer) Resize(size common.Size) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if !size.Valid() {
		return fmt.Errorf("renderer: invalid size %dx%d", size.Width, size.Height)
	}
	if size == r.size {
		return nil
	}
	if err := r.backend.ConfigureSurface(size.Width, size.Height); err != nil {
		return fmt.Errorf("renderer: configure surface: %w", err)
	}
	r.size = size
	return nil
}

func (r *renderer) Size() common.Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.released {
		r.backend.SetPresentMode(mode)
	}
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.pipelineCache))
	for k := range r.pipelineCache {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) DrawCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drawCount
}

func (r *renderer) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	r.released = true

	for id, e := range r.draws {
		e.draw.Release()
		delete(r.draws, id)
	}
	for k, m := range r.meshes {
		m.Release()
		delete(r.meshes, k)
	}
	for id, t := range r.textures {
		t.Release()
		delete(r.textures, id)
	}
	for k, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, k)
	}
	r.backend.Release()
	r.logger.Debugf("renderer: released after %d frames", r.frames)
	return nil
}

func (r *renderer) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
