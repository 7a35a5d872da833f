package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadSource = `//@oxy:uniforms
//@oxy:attributes

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(attr: Attributes) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = vec4<f32>(attr.position, 1.0);
    out.uv = attr.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.uv, u.glow, 1.0);
}
`

func TestNewPointsProgram_Layout(t *testing.T) {
	p, err := NewPointsProgram("stars")
	require.NoError(t, err)

	assert.True(t, p.Textured())
	assert.True(t, p.Instanced())
	assert.Equal(t, []AttributeSpec{{Name: "position", Size: 3}}, p.Attributes())

	l := p.Layout()
	want := map[string]uint64{
		UniformModel:      0,
		UniformView:       64,
		UniformProjection: 128,
		UniformTime:       192,
		UniformPixelRatio: 196,
		UniformResolution: 200,
		UniformPointSize:  208,
		UniformTint:       224,
	}
	for name, off := range want {
		got, ok := l.Offset(name)
		require.True(t, ok, name)
		assert.Equal(t, off, got, name)
	}
	assert.Equal(t, uint64(240), l.Size)

	f, ok := l.Field(UniformTime)
	require.True(t, ok)
	assert.True(t, f.PerFrame)
}

func TestNewPointsProgram_GeneratedBlocks(t *testing.T) {
	p, err := NewPointsProgram("stars", WithAttribute("shift", 4), WithUniform("speed", UniformFloat))
	require.NoError(t, err)

	src := p.Source()
	assert.NotContains(t, src, annotationPrefix)
	assert.Contains(t, src, "@group(0) @binding(0) var<uniform> u: Uniforms;")
	assert.Contains(t, src, "@group(0) @binding(1) var sprite_texture: texture_2d<f32>;")
	assert.Contains(t, src, "@group(0) @binding(2) var sprite_sampler: sampler;")
	assert.Contains(t, src, "@location(0) position: vec3<f32>,")
	assert.Contains(t, src, "@location(1) shift: vec4<f32>,")
	assert.Contains(t, src, "speed: f32,")
	assert.Contains(t, src, "const ALPHA_CUTOFF: f32 = 0.02;")
	assert.Equal(t, "shift", p.Attributes()[1].Name)
	assert.Equal(t, p.Source(), p.Module().WGSLDescriptor.Code)
	assert.Equal(t, "stars", p.Module().Label)
}

func TestNewPointsProgram_PatchOrderIndependent(t *testing.T) {
	a := WithPatch(HookColorMix, "b_fade", "alpha = alpha * 0.5;")
	b := WithPatch(HookColorMix, "a_tint", "color = vec3<f32>(1.0, 0.0, 0.0);")
	c := WithPatch(HookPointSize, "scale", "size = size * 2.0;")

	first, err := NewPointsProgram("p", a, b, c)
	require.NoError(t, err)
	second, err := NewPointsProgram("p", c, b, a)
	require.NoError(t, err)

	assert.Equal(t, first.Source(), second.Source())
	src := first.Source()
	assert.Less(t, strings.Index(src, "// a_tint"), strings.Index(src, "// b_fade"))
	assert.Less(t, strings.Index(src, "// scale"), strings.Index(src, "// a_tint"))

	patches := first.Patches()
	require.Len(t, patches, 3)
	assert.Equal(t, "a_tint", patches[0].Name)
}

func TestNewPointsProgram_PatchIsScoped(t *testing.T) {
	p, err := NewPointsProgram("p", WithPatch(HookDisplacement, "wobble", "let k = 2.0;\nposition.y += k;"))
	require.NoError(t, err)
	assert.Contains(t, p.Source(), "    { // wobble\n        let k = 2.0;\n        position.y += k;\n    }")
}

func TestNewPointsProgram_Errors(t *testing.T) {
	cases := map[string][]ComposerOption{
		"unknown hook":       {WithPatch(Hook("fragment_color"), "x", "")},
		"unnamed patch":      {WithPatch(HookColorMix, "", "")},
		"duplicate patch":    {WithPatch(HookColorMix, "x", "a"), WithPatch(HookColorMix, "x", "b")},
		"builtin uniform":    {WithUniform(UniformTime, UniformFloat)},
		"base uniform":       {WithUniform(UniformTint, UniformVec4)},
		"conflicting types":  {WithUniform("glow", UniformFloat), WithUniform("glow", UniformVec3)},
		"bad uniform name":   {WithUniform("1glow", UniformFloat)},
		"builtin attribute":  {WithAttribute("position", 3)},
		"conflicting sizes":  {WithAttribute("shift", 4), WithAttribute("shift", 3)},
		"unsupported size":   {WithAttribute("matrix", 16)},
		"unknown type value": {WithUniform("glow", UniformType(42))},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPointsProgram("p", opts...)
			assert.Error(t, err)
		})
	}

	_, err := NewPointsProgram("")
	assert.Error(t, err)
}

func TestNewPointsProgram_RepeatedDeclarationMerges(t *testing.T) {
	p, err := NewPointsProgram("p",
		WithUniform("glow", UniformFloat),
		WithPerFrameUniform("glow", UniformFloat),
		WithAttribute("size", 1),
		WithAttribute("size", 1),
	)
	require.NoError(t, err)
	assert.Len(t, p.Attributes(), 2)
	f, ok := p.Layout().Field("glow")
	require.True(t, ok)
	assert.True(t, f.PerFrame)
	assert.Equal(t, 1, strings.Count(p.Source(), "glow: f32,"))
}

func TestWithAlphaCutoff(t *testing.T) {
	p, err := NewPointsProgram("p", WithAlphaCutoff(0.01))
	require.NoError(t, err)
	assert.Contains(t, p.Source(), "const ALPHA_CUTOFF: f32 = 0.01;")

	p, err = NewPointsProgram("p", WithAlphaCutoff(-3))
	require.NoError(t, err)
	assert.Contains(t, p.Source(), "const ALPHA_CUTOFF: f32 = 0.0;")
}

func TestNewCustomProgram(t *testing.T) {
	p, err := NewCustomProgram("quad", quadSource,
		WithAttribute("position", 3),
		WithAttribute("uv", 2),
		WithUniform("glow", UniformFloat),
		WithUniform("color", UniformVec3),
	)
	require.NoError(t, err)

	assert.False(t, p.Textured())
	assert.False(t, p.Instanced())
	assert.NotContains(t, p.Source(), "sprite_texture")

	l := p.Layout()
	off, _ := l.Offset("glow")
	assert.Equal(t, uint64(208), off)
	off, _ = l.Offset("color")
	assert.Equal(t, uint64(224), off)
	assert.Equal(t, uint64(240), l.Size)

	decls := p.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, AnnotationTypeUniforms, decls[0].Type)
	assert.Equal(t, 1, decls[0].Line)
}

func TestNewCustomProgram_Textured(t *testing.T) {
	p, err := NewCustomProgram("quad", quadSource, WithAttribute("position", 3), WithAttribute("uv", 2), WithUniform("glow", UniformFloat), WithTexture())
	require.NoError(t, err)
	assert.True(t, p.Textured())
	assert.Contains(t, p.Source(), "var sprite_sampler: sampler;")
}

func TestNewCustomProgram_Errors(t *testing.T) {
	attrs := []ComposerOption{WithAttribute("position", 3), WithAttribute("uv", 2)}

	_, err := NewCustomProgram("q", strings.Replace(quadSource, "//@oxy:uniforms\n", "", 1), attrs...)
	assert.ErrorContains(t, err, "uniforms")

	_, err = NewCustomProgram("q", strings.Replace(quadSource, "//@oxy:attributes\n", "", 1), attrs...)
	assert.ErrorContains(t, err, "attributes")

	_, err = NewCustomProgram("q", quadSource)
	assert.ErrorContains(t, err, "no attributes")

	_, err = NewCustomProgram("q", strings.Replace(quadSource, "fn fs_main", "fn frag", 1), attrs...)
	assert.ErrorContains(t, err, FragmentEntryPoint)

	_, err = NewCustomProgram("q", strings.Replace(quadSource, "fn vs_main", "fn main", 1), attrs...)
	assert.ErrorContains(t, err, VertexEntryPoint)

	_, err = NewCustomProgram("q", quadSource, append(attrs, WithPatch(HookColorMix, "x", "color = 1.0;"))...)
	assert.ErrorContains(t, err, "does not declare")

	_, err = NewCustomProgram("q", "//@oxy:uniforms\n//@oxy:uniforms\n", attrs...)
	assert.ErrorContains(t, err, "duplicate")
}

func TestParseAnnotation(t *testing.T) {
	a, err := parseAnnotation("    //@oxy:hook point_size", 4)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AnnotationTypeHook, a.Type)
	assert.Equal(t, HookPointSize, a.Hook)
	assert.Equal(t, "    ", a.Indent)
	assert.Equal(t, 4, a.Line)

	a, err = parseAnnotation("// @oxy:uniforms", 1)
	require.NoError(t, err)
	assert.Equal(t, AnnotationTypeUniforms, a.Type)

	a, err = parseAnnotation("let x = 1.0; // not an annotation", 1)
	assert.NoError(t, err)
	assert.Nil(t, a)

	for _, bad := range []string{"//@oxy:", "//@oxy:hook", "//@oxy:hook glow", "//@oxy:uniforms extra", "//@oxy:include camera"} {
		_, err := parseAnnotation(bad, 9)
		assert.ErrorContains(t, err, "line 9", bad)
	}
}

func TestParseEntryPoints_IgnoresComments(t *testing.T) {
	v, f := parseEntryPoints("/* @vertex fn nope() {} */\n// @fragment fn nope2()\n@vertex\nfn vs_main() {}\n@fragment fn fs_main() {}")
	assert.Equal(t, "vs_main", v)
	assert.Equal(t, "fs_main", f)
}
