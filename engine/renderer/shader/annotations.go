// annotations.go defines the annotation types and the line parser for the Oxy WGSL
// pre-processor. Annotations are single-line WGSL comments prefixed with @oxy: that mark
// where generated declarations go and where feature patches may be spliced in.
package shader

import (
	"fmt"
	"slices"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeUniforms is replaced with the Uniforms struct, the uniform buffer binding
	// and, for textured programs, the texture and sampler bindings.
	//
	// Syntax: //@oxy:uniforms
	AnnotationTypeUniforms AnnotationType = "uniforms"

	// AnnotationTypeAttributes is replaced with the Attributes vertex input struct, one
	// @location per declared attribute in declaration order.
	//
	// Syntax: //@oxy:attributes
	AnnotationTypeAttributes AnnotationType = "attributes"

	// AnnotationTypeHook marks an extension point. It is replaced with every patch
	// registered for the hook, sorted by patch name, and removed when there are none.
	//
	// Syntax: //@oxy:hook <name>
	//
	// Example: //@oxy:hook color_mix
	AnnotationTypeHook AnnotationType = "hook"
)

// Hook names an extension point inside a program's source.
type Hook string

const (
	// HookDisplacement runs before the model-view transform. Patches may rewrite `position`.
	HookDisplacement Hook = "displacement"

	// HookPointSize runs once the view-space depth is known. Patches may rewrite `size`,
	// the sprite diameter in framebuffer pixels.
	HookPointSize Hook = "point_size"

	// HookColorMix runs last in the vertex stage. Patches may rewrite `color` and `alpha`.
	HookColorMix Hook = "color_mix"
)

// validHooks lists every hook name accepted by @oxy:hook and WithPatch.
var validHooks = []Hook{
	HookDisplacement,
	HookPointSize,
	HookColorMix,
}

// Annotation represents a single parsed @oxy: annotation from a WGSL source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Hook is the extension point name for AnnotationTypeHook, empty otherwise.
	Hook Hook

	// Line is the 1-based line number in the source where the annotation was found.
	Line int

	// Indent is the leading whitespace of the annotation line, reused for generated code.
	Indent string
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	comment, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

	switch AnnotationType(args[0]) {
	case AnnotationTypeUniforms, AnnotationTypeAttributes:
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: @oxy %s annotation takes no arguments", lineNum, args[0])
		}
		return &Annotation{Type: AnnotationType(args[0]), Line: lineNum, Indent: indent}, nil
	case AnnotationTypeHook:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy hook annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validHooks, Hook(args[1])) {
			return nil, fmt.Errorf("line %d: unknown hook %q in @oxy hook annotation", lineNum, args[1])
		}
		return &Annotation{Type: AnnotationTypeHook, Hook: Hook(args[1]), Line: lineNum, Indent: indent}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
}
