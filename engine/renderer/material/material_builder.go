package material

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		if name != "" {
			m.name = name
		}
	}
}

// WithTexture is an option builder that sets the sprite texture sampled by textured programs.
//
// Parameters:
//   - tex: the texture, shared and not owned by the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.texture = tex
	}
}

// WithBlend is an option builder that sets the blend mode.
//
// Parameters:
//   - blend: BlendAdditive, BlendNormal or BlendOpaque
//
// Returns:
//   - MaterialBuilderOption: a function that applies the blend option to a material
func WithBlend(blend Blend) MaterialBuilderOption {
	return func(m *material) {
		m.blend = blend
	}
}

// WithSide is an option builder that sets which faces are drawn.
//
// Parameters:
//   - side: SideFront, SideBack or SideDouble
//
// Returns:
//   - MaterialBuilderOption: a function that applies the side option to a material
func WithSide(side Side) MaterialBuilderOption {
	return func(m *material) {
		m.side = side
	}
}

// WithDepthTest is an option builder that toggles depth testing.
func WithDepthTest(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.depthTest = enabled
	}
}

// WithDepthWrite is an option builder that toggles depth writes.
func WithDepthWrite(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.depthWrite = enabled
	}
}

// WithTopology is an option builder that sets the primitive topology.
//
// Parameters:
//   - topology: the wgpu primitive topology
//
// Returns:
//   - MaterialBuilderOption: a function that applies the topology option to a material
func WithTopology(topology wgpu.PrimitiveTopology) MaterialBuilderOption {
	return func(m *material) {
		m.topology = topology
	}
}
