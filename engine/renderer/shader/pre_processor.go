// pre_processor.go implements the Oxy WGSL pre-processor. It scans program source for
// @oxy: annotations and replaces each with generated WGSL: the Uniforms struct and its
// bindings, the Attributes vertex input struct, or the patches registered for a hook.
package shader

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Patch is a WGSL snippet spliced into a program at a hook. Each patch is emitted inside
// its own block, so local declarations do not leak into sibling patches.
type Patch struct {
	Hook Hook
	Name string
	Code string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	uniforms   []Uniform
	attributes []AttributeSpec
	textured   bool
	patches    []Patch

	// declarations accumulates every annotation seen during a Process call.
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces every annotation in source with its generated WGSL. Patches for a hook
	// are emitted sorted by name. The declarations list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL source containing annotations
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: when an annotation is malformed or a patch targets a hook the source lacks
	Process(source string) (string, error)

	// Declarations returns the annotations collected during the most recent call to Process,
	// in source order.
	//
	// Returns:
	//   - []Annotation: the annotations seen during the last Process call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// newPreProcessor creates a PreProcessor for one program's declarations.
//
// Parameters:
//   - uniforms: the full Uniforms struct, built-ins first
//   - attributes: the vertex inputs in location order
//   - textured: whether texture and sampler bindings are declared
//   - patches: the hook patches in any order
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func newPreProcessor(uniforms []Uniform, attributes []AttributeSpec, textured bool, patches []Patch) PreProcessor {
	sorted := slices.Clone(patches)
	slices.SortStableFunc(sorted, func(a, b Patch) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return &preProcessor{
		uniforms:   uniforms,
		attributes: attributes,
		textured:   textured,
		patches:    sorted,
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	seen := make(map[AnnotationType]bool)
	hooks := make(map[Hook]bool)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}
		if a.Type != AnnotationTypeHook && seen[a.Type] {
			return "", fmt.Errorf("line %d: duplicate @oxy %s annotation", a.Line, a.Type)
		}
		seen[a.Type] = true

		switch a.Type {
		case AnnotationTypeUniforms:
			out = append(out, p.uniformBlock()...)
		case AnnotationTypeAttributes:
			out = append(out, p.attributeBlock()...)
		case AnnotationTypeHook:
			hooks[a.Hook] = true
			for _, patch := range p.patches {
				if patch.Hook != a.Hook {
					continue
				}
				out = append(out, a.Indent+"{ // "+patch.Name)
				for _, code := range strings.Split(strings.TrimSpace(patch.Code), "\n") {
					out = append(out, a.Indent+"    "+strings.TrimSpace(code))
				}
				out = append(out, a.Indent+"}")
			}
		}
		p.declarations = append(p.declarations, *a)
	}

	for _, patch := range p.patches {
		if !hooks[patch.Hook] {
			return "", fmt.Errorf("patch %q targets hook %q which the source does not declare", patch.Name, patch.Hook)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// uniformBlock generates the Uniforms struct and the group 0 bindings.
func (p *preProcessor) uniformBlock() []string {
	out := make([]string, 0, len(p.uniforms)+6)
	out = append(out, "struct Uniforms {")
	for _, u := range p.uniforms {
		out = append(out, fmt.Sprintf("    %s: %s,", u.Name, u.Type.WGSL()))
	}
	out = append(out, "};", "@group(0) @binding(0) var<uniform> u: Uniforms;")
	if p.textured {
		out = append(out,
			"@group(0) @binding(1) var sprite_texture: texture_2d<f32>;",
			"@group(0) @binding(2) var sprite_sampler: sampler;",
		)
	}
	return out
}

// attributeBlock generates the Attributes vertex input struct.
func (p *preProcessor) attributeBlock() []string {
	out := make([]string, 0, len(p.attributes)+2)
	out = append(out, "struct Attributes {")
	for i, a := range p.attributes {
		out = append(out, fmt.Sprintf("    @location(%d) %s: %s,", i, a.Name, attributeFormats[a.Size].name))
	}
	return append(out, "};")
}
