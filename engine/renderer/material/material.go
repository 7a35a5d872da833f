package material

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ErrReleased is returned by Release when the material was already released.
var ErrReleased = errors.New("material: already released")

// Blend selects how fragments combine with the framebuffer.
type Blend int

const (
	// BlendAdditive adds src·alpha to the destination. Particles and glows use it.
	BlendAdditive Blend = iota
	// BlendNormal is classic alpha blending.
	BlendNormal
	// BlendOpaque writes fragments unblended.
	BlendOpaque
)

func (b Blend) String() string {
	switch b {
	case BlendAdditive:
		return "additive"
	case BlendNormal:
		return "normal"
	case BlendOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Side selects which triangle faces are drawn.
type Side int

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	case SideDouble:
		return "double"
	default:
		return "unknown"
	}
}

// material is the implementation of the Material interface.
type material struct {
	mu         sync.Mutex
	id         uuid.UUID
	name       string
	program    shader.Program
	texture    texture.Texture
	blend      Blend
	side       Side
	depthTest  bool
	depthWrite bool
	topology   wgpu.PrimitiveTopology
	values     map[string][]float32
	released   bool
	onRelease  []func()
}

// Material pairs a shader program with its render state and uniform values.
//
// Uniform values are kept on the CPU and packed on demand by UniformBytes; the renderer owns
// the GPU buffers. The built-in model, view and projection matrices are supplied per draw and
// cannot be set on the material.
type Material interface {
	// ID retrieves the unique identifier of the material.
	//
	// Returns:
	//   - uuid.UUID: the material id
	ID() uuid.UUID

	// Name retrieves the material identifier used in logs.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Program retrieves the shader program the material draws with.
	//
	// Returns:
	//   - shader.Program: the program
	Program() shader.Program

	// Texture retrieves the sprite texture, or nil for untextured programs.
	//
	// Returns:
	//   - texture.Texture: the texture, or nil
	Texture() texture.Texture

	// Blend retrieves the blend mode.
	Blend() Blend

	// Side retrieves the face culling side.
	Side() Side

	// DepthTest reports whether fragments are depth tested.
	DepthTest() bool

	// DepthWrite reports whether fragments write depth.
	DepthWrite() bool

	// Topology retrieves the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// PipelineKey derives the cache key of the render pipeline this material needs. Materials
	// that share a program and render state share a pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SetFloat sets a scalar uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//   - v: the value
	//
	// Returns:
	//   - error: when the uniform does not exist, has another type or is a matrix built-in
	SetFloat(name string, v float32) error

	// SetVec2 sets a vec2 uniform.
	SetVec2(name string, v mgl32.Vec2) error

	// SetVec3 sets a vec3 uniform.
	SetVec3(name string, v mgl32.Vec3) error

	// SetVec4 sets a vec4 uniform.
	SetVec4(name string, v mgl32.Vec4) error

	// Float retrieves a scalar uniform value.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - float32: the value
	//   - bool: whether a scalar uniform of that name exists
	Float(name string) (float32, bool)

	// Value retrieves a copy of the raw components of any non-matrix uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - []float32: the components, or nil when the uniform does not exist
	Value(name string) []float32

	// UniformBytes packs every uniform into a buffer laid out per the program's Layout.
	//
	// Parameters:
	//   - model: the world matrix of the drawn node
	//   - view: the camera view matrix
	//   - projection: the camera projection matrix
	//
	// Returns:
	//   - []byte: the little-endian uniform buffer contents
	UniformBytes(model, view, projection mgl32.Mat4) []byte

	// OnRelease registers a hook run once when the material is released. Renderer backends use
	// it to drop their bind groups and uniform buffers.
	//
	// Parameters:
	//   - fn: the hook, ignored when nil
	OnRelease(fn func())

	// Release runs the release hooks. The texture is not released; textures outlive materials
	// and are torn down separately.
	//
	// Returns:
	//   - error: ErrReleased when called a second time, nil otherwise
	Release() error

	// Released reports whether Release has already run.
	Released() bool
}

var _ Material = &material{}

// NewMaterial creates a new Material for a program. Without options the material blends
// additively with depth testing and depth writes disabled, the state every particle and glow
// layer uses.
//
// Parameters:
//   - program: the shader program, must not be nil
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(program shader.Program, options ...MaterialBuilderOption) Material {
	if program == nil {
		panic("material: program must not be nil")
	}
	m := &material{
		id:       uuid.New(),
		name:     program.Key(),
		program:  program,
		blend:    BlendAdditive,
		side:     SideFront,
		topology: wgpu.PrimitiveTopologyTriangleList,
		values:   make(map[string][]float32),
	}
	for _, u := range program.Uniforms() {
		if u.Type != shader.UniformMat4 {
			m.values[u.Name] = make([]float32, u.Type.Floats())
		}
	}
	if v, ok := m.values[shader.UniformPixelRatio]; ok {
		v[0] = 1
	}
	if v, ok := m.values[shader.UniformTint]; ok {
		v[0], v[1], v[2] = 1, 1, 1
	}
	if v, ok := m.values[shader.UniformPointSize]; ok {
		v[0] = 1
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) ID() uuid.UUID {
	return m.id
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Program() shader.Program {
	return m.program
}

func (m *material) Texture() texture.Texture {
	return m.texture
}

func (m *material) Blend() Blend {
	return m.blend
}

func (m *material) Side() Side {
	return m.side
}

func (m *material) DepthTest() bool {
	return m.depthTest
}

func (m *material) DepthWrite() bool {
	return m.depthWrite
}

func (m *material) Topology() wgpu.PrimitiveTopology {
	return m.topology
}

func (m *material) PipelineKey() string {
	return fmt.Sprintf("%s|%s|%s|dt=%t|dw=%t|%d", m.program.Key(), m.blend, m.side, m.depthTest, m.depthWrite, m.topology)
}

func (m *material) set(name string, want shader.UniformType, v []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.values[name]
	if !ok {
		return fmt.Errorf("material %s: no settable uniform %q", m.name, name)
	}
	if len(cur) != want.Floats() {
		return fmt.Errorf("material %s: uniform %q is not a %s", m.name, name, want)
	}
	copy(cur, v)
	return nil
}

func (m *material) SetFloat(name string, v float32) error {
	return m.set(name, shader.UniformFloat, []float32{v})
}

func (m *material) SetVec2(name string, v mgl32.Vec2) error {
	return m.set(name, shader.UniformVec2, v[:])
}

func (m *material) SetVec3(name string, v mgl32.Vec3) error {
	return m.set(name, shader.UniformVec3, v[:])
}

func (m *material) SetVec4(name string, v mgl32.Vec4) error {
	return m.set(name, shader.UniformVec4, v[:])
}

func (m *material) Float(name string) (float32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[name]
	if !ok || len(v) != 1 {
		return 0, false
	}
	return v[0], true
}

func (m *material) Value(name string) []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.values[name])
}

func (m *material) UniformBytes(model, view, projection mgl32.Mat4) []byte {
	layout := m.program.Layout()
	buf := make([]byte, layout.Size)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range layout.Fields {
		var src []float32
		switch f.Name {
		case shader.UniformModel:
			src = model[:]
		case shader.UniformView:
			src = view[:]
		case shader.UniformProjection:
			src = projection[:]
		default:
			src = m.values[f.Name]
		}
		for i, v := range src {
			binary.LittleEndian.PutUint32(buf[f.Offset+uint64(i)*4:], math.Float32bits(v))
		}
	}
	return buf
}

func (m *material) OnRelease(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return
	}
	m.onRelease = append(m.onRelease, fn)
}

func (m *material) Release() error {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return ErrReleased
	}
	m.released = true
	hooks := m.onRelease
	m.onRelease = nil
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return nil
}

func (m *material) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}
