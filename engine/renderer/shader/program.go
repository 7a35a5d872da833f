package shader

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// Entry point names every program must define.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Names of the built-in uniforms. They lead every Uniforms struct in this order.
const (
	UniformModel      = "model"
	UniformView       = "view"
	UniformProjection = "projection"
	UniformTime       = "time"
	UniformPixelRatio = "pixel_ratio"
	UniformResolution = "resolution"
)

// Names of the points program's base uniforms.
const (
	UniformPointSize = "point_size"
	UniformTint      = "tint"
)

// builtinUniforms are written by the renderer and the scheduler, never by presets.
var builtinUniforms = []Uniform{
	{Name: UniformModel, Type: UniformMat4},
	{Name: UniformView, Type: UniformMat4},
	{Name: UniformProjection, Type: UniformMat4},
	{Name: UniformTime, Type: UniformFloat, PerFrame: true},
	{Name: UniformPixelRatio, Type: UniformFloat},
	{Name: UniformResolution, Type: UniformVec2},
}

// BuiltinUniforms returns a copy of the built-in uniform declarations.
func BuiltinUniforms() []Uniform {
	return slices.Clone(builtinUniforms)
}

// program is the implementation of the Program interface.
type program struct {
	key          string
	source       string
	uniforms     []Uniform
	attributes   []AttributeSpec
	patches      []Patch
	textured     bool
	instanced    bool
	layout       Layout
	module       *wgpu.ShaderModuleDescriptor
	declarations []Annotation
}

// Program is a fully expanded WGSL program with the metadata a pipeline needs: the uniform
// buffer layout, the vertex inputs and the bindings.
//
// Every program binds its uniform buffer at group 0 binding 0. Textured programs also bind a
// texture_2d<f32> at binding 1 and a filtering sampler at binding 2.
type Program interface {
	// Key retrieves the unique identifier for this program, used for pipeline caching.
	//
	// Returns:
	//   - string: the program key
	Key() string

	// Source retrieves the expanded WGSL source.
	//
	// Returns:
	//   - string: the WGSL source code
	Source() string

	// Uniforms retrieves the Uniforms struct members, built-ins first.
	//
	// Returns:
	//   - []Uniform: a copy of the uniform declarations
	Uniforms() []Uniform

	// Attributes retrieves the vertex inputs in @location order.
	//
	// Returns:
	//   - []AttributeSpec: a copy of the attribute declarations
	Attributes() []AttributeSpec

	// Patches retrieves the applied patches sorted by name.
	//
	// Returns:
	//   - []Patch: a copy of the patches
	Patches() []Patch

	// Textured reports whether the program binds a texture and sampler.
	Textured() bool

	// Instanced reports whether attributes advance per instance. Instanced programs draw six
	// vertices per instance and expand a sprite quad from the vertex index.
	Instanced() bool

	// Layout retrieves the byte layout of the uniform buffer.
	//
	// Returns:
	//   - Layout: the uniform offsets and the buffer size
	Layout() Layout

	// Module returns the wgpu.ShaderModuleDescriptor for this program.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the annotations the pre-processor expanded, in source order.
	Declarations() []Annotation
}

var _ Program = &program{}

// NewPointsProgram composes a textured point sprite program. Each instance is one particle;
// the vertex stage expands a camera-facing quad sized in framebuffer pixels and the fragment
// stage samples the sprite, multiplies it by the vertex color and discards faint fragments.
//
// The base program declares the "position" attribute and the "point_size" and "tint"
// uniforms. Without patches a sprite is point_size world units wide at its depth.
// Patches see these locals:
//   - displacement: position (var, model space), attr, time
//   - point_size: size (var, pixels), mv (view-space position), depth
//   - color_mix: color (var, vec3), alpha (var), clip (clip-space position)
//
// Parameters:
//   - key: a unique identifier for the program
//   - options: variadic list of ComposerOption functions
//
// Returns:
//   - Program: the composed program
//   - error: when a declaration conflicts or the expanded source is malformed
func NewPointsProgram(key string, options ...ComposerOption) (Program, error) {
	c := newComposer(options...)
	base := append(BuiltinUniforms(),
		Uniform{Name: UniformPointSize, Type: UniformFloat},
		Uniform{Name: UniformTint, Type: UniformVec3},
	)
	attrs := []AttributeSpec{{Name: "position", Size: 3}}
	return c.build(key, pointsSource(c.alphaCutoff), base, attrs, true, true)
}

// NewCustomProgram wraps a complete WGSL source. The source must carry the
// //@oxy:uniforms annotation, the //@oxy:attributes annotation when it declares attributes,
// and the vs_main and fs_main entry points. Attributes advance per vertex.
//
// Parameters:
//   - key: a unique identifier for the program
//   - source: the raw WGSL source
//   - options: variadic list of ComposerOption functions
//
// Returns:
//   - Program: the composed program
//   - error: when an annotation or entry point is missing or a declaration conflicts
func NewCustomProgram(key, source string, options ...ComposerOption) (Program, error) {
	c := newComposer(options...)
	return c.build(key, source, BuiltinUniforms(), nil, c.textured, false)
}

// build validates the collected declarations against the base ones and expands the source.
func (c *composer) build(key, source string, base []Uniform, baseAttrs []AttributeSpec, textured, instanced bool) (Program, error) {
	if key == "" {
		return nil, errors.New("shader: program key must not be empty")
	}

	uniforms, err := mergeUniforms(base, c.uniforms)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	attrs, err := mergeAttributes(baseAttrs, c.attributes)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	patches, err := checkPatches(c.patches)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	pp := newPreProcessor(uniforms, attrs, textured, patches)
	expanded, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	var hasUniforms, hasAttributes bool
	for _, a := range pp.Declarations() {
		switch a.Type {
		case AnnotationTypeUniforms:
			hasUniforms = true
		case AnnotationTypeAttributes:
			hasAttributes = true
		}
	}
	switch {
	case !hasUniforms:
		return nil, fmt.Errorf("shader %s: missing //%s%s annotation", key, annotationPrefix, AnnotationTypeUniforms)
	case len(attrs) > 0 && !hasAttributes:
		return nil, fmt.Errorf("shader %s: declares attributes but lacks //%s%s", key, annotationPrefix, AnnotationTypeAttributes)
	case len(attrs) == 0 && hasAttributes:
		return nil, fmt.Errorf("shader %s: //%s%s annotation with no attributes declared", key, annotationPrefix, AnnotationTypeAttributes)
	}

	vertex, fragment := parseEntryPoints(expanded)
	if vertex != VertexEntryPoint {
		return nil, fmt.Errorf("shader %s: vertex entry point must be %s, found %q", key, VertexEntryPoint, vertex)
	}
	if fragment != FragmentEntryPoint {
		return nil, fmt.Errorf("shader %s: fragment entry point must be %s, found %q", key, FragmentEntryPoint, fragment)
	}

	return &program{
		key:        key,
		source:     expanded,
		uniforms:   uniforms,
		attributes: attrs,
		patches:    patches,
		textured:   textured,
		instanced:  instanced,
		layout:     computeLayout(uniforms),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: expanded,
			},
		},
		declarations: slices.Clone(pp.Declarations()),
	}, nil
}

// mergeUniforms appends extra uniforms to base. Redeclaring a base uniform or reusing a name
// with a different type fails; an exact repeat is ignored.
func mergeUniforms(base, extra []Uniform) ([]Uniform, error) {
	out := slices.Clone(base)
	for _, u := range extra {
		if !identifierRegex.MatchString(u.Name) {
			return nil, fmt.Errorf("invalid uniform name %q", u.Name)
		}
		if _, ok := wgslUniformLayoutMap[u.Type]; !ok {
			return nil, fmt.Errorf("uniform %q has unknown type %d", u.Name, int(u.Type))
		}
		if i := slices.IndexFunc(base, func(b Uniform) bool { return b.Name == u.Name }); i >= 0 {
			return nil, fmt.Errorf("uniform %q redeclares a built-in", u.Name)
		}
		if i := slices.IndexFunc(out, func(o Uniform) bool { return o.Name == u.Name }); i >= 0 {
			if out[i].Type != u.Type {
				return nil, fmt.Errorf("uniform %q declared as both %s and %s", u.Name, out[i].Type, u.Type)
			}
			out[i].PerFrame = out[i].PerFrame || u.PerFrame
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// mergeAttributes appends extra attributes to base with the same rules as mergeUniforms.
func mergeAttributes(base, extra []AttributeSpec) ([]AttributeSpec, error) {
	out := slices.Clone(base)
	for _, a := range extra {
		if !identifierRegex.MatchString(a.Name) {
			return nil, fmt.Errorf("invalid attribute name %q", a.Name)
		}
		if _, ok := attributeFormats[a.Size]; !ok {
			return nil, fmt.Errorf("attribute %q has unsupported size %d", a.Name, a.Size)
		}
		if slices.ContainsFunc(base, func(b AttributeSpec) bool { return b.Name == a.Name }) {
			return nil, fmt.Errorf("attribute %q redeclares a built-in", a.Name)
		}
		if i := slices.IndexFunc(out, func(o AttributeSpec) bool { return o.Name == a.Name }); i >= 0 {
			if out[i].Size != a.Size {
				return nil, fmt.Errorf("attribute %q declared with sizes %d and %d", a.Name, out[i].Size, a.Size)
			}
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// checkPatches rejects unknown hooks and duplicate patch names on the same hook, and returns
// the patches sorted by name.
func checkPatches(patches []Patch) ([]Patch, error) {
	seen := make(map[Patch]bool, len(patches))
	for _, p := range patches {
		if !slices.Contains(validHooks, p.Hook) {
			return nil, fmt.Errorf("patch %q targets unknown hook %q", p.Name, p.Hook)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("patch for hook %q has no name", p.Hook)
		}
		key := Patch{Hook: p.Hook, Name: p.Name}
		if seen[key] {
			return nil, fmt.Errorf("duplicate patch %q on hook %q", p.Name, p.Hook)
		}
		seen[key] = true
	}
	sorted := slices.Clone(patches)
	slices.SortStableFunc(sorted, func(a, b Patch) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return sorted, nil
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Source() string {
	return p.source
}

func (p *program) Uniforms() []Uniform {
	return slices.Clone(p.uniforms)
}

func (p *program) Attributes() []AttributeSpec {
	return slices.Clone(p.attributes)
}

func (p *program) Patches() []Patch {
	return slices.Clone(p.patches)
}

func (p *program) Textured() bool {
	return p.textured
}

func (p *program) Instanced() bool {
	return p.instanced
}

func (p *program) Layout() Layout {
	return Layout{Fields: slices.Clone(p.layout.Fields), Size: p.layout.Size}
}

func (p *program) Module() *wgpu.ShaderModuleDescriptor {
	return p.module
}

func (p *program) Declarations() []Annotation {
	return slices.Clone(p.declarations)
}
