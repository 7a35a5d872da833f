package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// UniformType is the WGSL type of a uniform value.
type UniformType int

const (
	UniformFloat UniformType = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat4
)

// wgslTypeLayout holds the byte size and alignment of a WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// wgslUniformLayoutMap maps each uniform type to its WGSL name and its size and alignment in
// the uniform address space.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var wgslUniformLayoutMap = map[UniformType]struct {
	name   string
	layout wgslTypeLayout
}{
	UniformFloat: {"f32", wgslTypeLayout{4, 4}},
	UniformVec2:  {"vec2<f32>", wgslTypeLayout{8, 8}},
	UniformVec3:  {"vec3<f32>", wgslTypeLayout{12, 16}},
	UniformVec4:  {"vec4<f32>", wgslTypeLayout{16, 16}},
	UniformMat4:  {"mat4x4<f32>", wgslTypeLayout{64, 16}},
}

// WGSL returns the WGSL spelling of the type.
func (t UniformType) WGSL() string {
	return wgslUniformLayoutMap[t].name
}

// Size returns the byte size of the type.
func (t UniformType) Size() uint64 {
	return wgslUniformLayoutMap[t].layout.size
}

// Floats returns the number of float32 components the type holds.
func (t UniformType) Floats() int {
	return int(t.Size() / 4)
}

func (t UniformType) String() string {
	if e, ok := wgslUniformLayoutMap[t]; ok {
		return e.name
	}
	return fmt.Sprintf("UniformType(%d)", int(t))
}

// attributeFormats maps an attribute component count to its WGSL type and vertex format.
var attributeFormats = map[int]struct {
	name   string
	format wgpu.VertexFormat
}{
	1: {"f32", wgpu.VertexFormatFloat32},
	2: {"vec2<f32>", wgpu.VertexFormatFloat32x2},
	3: {"vec3<f32>", wgpu.VertexFormatFloat32x3},
	4: {"vec4<f32>", wgpu.VertexFormatFloat32x4},
}

// Uniform declares one member of a program's Uniforms struct.
type Uniform struct {
	Name string
	Type UniformType
	// PerFrame marks values the engine rewrites every frame.
	PerFrame bool
}

// AttributeSpec declares one vertex input of a program.
type AttributeSpec struct {
	Name string
	// Size is the number of float32 components, 1 to 4.
	Size int
}

// Format returns the wgpu vertex format of the attribute.
func (a AttributeSpec) Format() wgpu.VertexFormat {
	return attributeFormats[a.Size].format
}

// Field is one placed member of the uniform buffer.
type Field struct {
	Uniform
	Offset uint64
}

// Layout is the byte layout of a program's uniform buffer.
type Layout struct {
	Fields []Field
	// Size is the buffer size, rounded up to the struct alignment.
	Size uint64
}

// Offset looks up the byte offset of a named uniform.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - uint64: the byte offset
//   - bool: whether the uniform exists
func (l Layout) Offset(name string) (uint64, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f.Offset, true
		}
	}
	return 0, false
}

// Field looks up a placed uniform by name.
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// computeLayout places uniforms in order using WGSL struct layout rules: each member starts
// at the next offset aligned to its type, and the total size is rounded up to the largest
// member alignment. Uniform buffers additionally need a 16-byte multiple.
//
// Parameters:
//   - uniforms: the struct members in declaration order
//
// Returns:
//   - Layout: the placed members and the buffer size
func computeLayout(uniforms []Uniform) Layout {
	fields := make([]Field, 0, len(uniforms))
	var offset uint64
	maxAlign := uint64(16)
	for _, u := range uniforms {
		l := wgslUniformLayoutMap[u.Type].layout
		offset = roundUpAlign(l.align, offset)
		fields = append(fields, Field{Uniform: u, Offset: offset})
		offset += l.size
		maxAlign = max(maxAlign, l.align)
	}
	return Layout{Fields: fields, Size: roundUpAlign(maxAlign, offset)}
}

// roundUpAlign rounds value up to the next multiple of alignment.
// Alignment must be a power of two.
//
// Parameters:
//   - alignment: the required alignment (must be a power of two)
//   - value: the value to align
//
// Returns:
//   - uint64: value rounded up to the next multiple of alignment
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}
