package pipeline

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render state a program is drawn with and, once registered, the GPU pipeline.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// program is required before a pipeline can be registered with a backend
	program shader.Program

	// renderPipeline is nil until a GPU backend registers the pipeline
	renderPipeline  *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline: a program plus the fixed-function state
// it is drawn with.
type Pipeline interface {
	// PipelineKey retrieves the unique identifier for this pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Program retrieves the shader program.
	//
	// Returns:
	//   - shader.Program: the program, or nil when unset
	Program() shader.Program

	// RenderPipeline retrieves the GPU pipeline, nil until registered with a GPU backend.
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout retrieves the group 0 layout, nil until registered with a GPU backend.
	BindGroupLayout() *wgpu.BindGroupLayout

	// VertexLayouts derives one vertex buffer layout per program attribute, in location order.
	// Instanced programs step per instance.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor derives the group 0 layout from the program: the uniform
	// buffer and, when textured, the texture and its sampler.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor

	DepthTestEnabled() bool
	DepthWriteEnabled() bool
	BlendEnabled() bool
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the GPU pipeline and its group 0 layout once created.
	//
	// Parameters:
	//   - p: the created render pipeline
	//   - layout: the bind group layout used to create it
	SetRenderPipeline(p *wgpu.RenderPipeline, layout *wgpu.BindGroupLayout)

	// Release frees the GPU pipeline and layout if they were created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new Pipeline with the provided options applied.
// Without options the pipeline depth tests, writes depth and does not blend.
//
// Parameters:
//   - pipelineKey: a unique identifier for the pipeline
//   - opts: variadic list of PipelineBuilderOption functions
//
// Returns:
//   - Pipeline: a new Pipeline instance
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState:        normalBlend(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromMaterial derives the pipeline a material needs. The key is the material's PipelineKey,
// so materials that share a program and render state resolve to the same cached pipeline.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - Pipeline: a new, unregistered Pipeline
func FromMaterial(m material.Material) Pipeline {
	opts := []PipelineBuilderOption{
		WithProgram(m.Program()),
		WithDepthTestEnabled(m.DepthTest()),
		WithDepthWriteEnabled(m.DepthWrite()),
		WithTopology(m.Topology()),
	}

	switch m.Blend() {
	case material.BlendAdditive:
		opts = append(opts, WithBlendEnabled(true), WithBlendState(additiveBlend()))
	case material.BlendNormal:
		opts = append(opts, WithBlendEnabled(true), WithBlendState(normalBlend()))
	default:
		opts = append(opts, WithBlendEnabled(false))
	}

	switch m.Side() {
	case material.SideFront:
		opts = append(opts, WithCullMode(wgpu.CullModeBack))
	case material.SideBack:
		opts = append(opts, WithCullMode(wgpu.CullModeFront))
	default:
		opts = append(opts, WithCullMode(wgpu.CullModeNone))
	}

	return NewPipeline(m.PipelineKey(), opts...)
}

// additiveBlend adds the source weighted by its alpha onto the destination.
func additiveBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// normalBlend is straight alpha "over" compositing.
func normalBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Program() shader.Program {
	return p.program
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	if p.program == nil {
		return nil
	}
	step := wgpu.VertexStepModeVertex
	if p.program.Instanced() {
		step = wgpu.VertexStepModeInstance
	}
	attrs := p.program.Attributes()
	layouts := make([]wgpu.VertexBufferLayout, len(attrs))
	for i, a := range attrs {
		layouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: uint64(a.Size) * 4,
			StepMode:    step,
			Attributes: []wgpu.VertexAttribute{{
				Format:         a.Format(),
				Offset:         0,
				ShaderLocation: uint32(i),
			}},
		}
	}
	return layouts
}

func (p *pipeline) BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	desc := wgpu.BindGroupLayoutDescriptor{Label: p.pipelineKey + " Layout"}
	if p.program == nil {
		return desc
	}
	desc.Entries = append(desc.Entries, wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: p.program.Layout().Size,
		},
	})
	if p.program.Textured() {
		desc.Entries = append(desc.Entries,
			wgpu.BindGroupLayoutEntry{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			wgpu.BindGroupLayoutEntry{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		)
	}
	return desc
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline, layout *wgpu.BindGroupLayout) {
	p.renderPipeline = rp
	p.bindGroupLayout = layout
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
}
