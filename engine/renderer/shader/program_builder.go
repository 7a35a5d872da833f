package shader

// composer collects the declarations applied by ComposerOption functions before a program is
// validated and expanded.
type composer struct {
	uniforms    []Uniform
	attributes  []AttributeSpec
	patches     []Patch
	textured    bool
	alphaCutoff float64
}

// ComposerOption is a functional option for configuring a Program.
type ComposerOption func(*composer)

// newComposer creates a composer with defaults and applies options in order.
func newComposer(options ...ComposerOption) *composer {
	c := &composer{alphaCutoff: 0.02}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// WithUniform declares an additional uniform appended after the base ones.
//
// Parameters:
//   - name: the WGSL member name, read in shaders as u.<name>
//   - typ: the uniform type
//
// Returns:
//   - ComposerOption: a function that applies the uniform option to a composer
func WithUniform(name string, typ UniformType) ComposerOption {
	return func(c *composer) {
		c.uniforms = append(c.uniforms, Uniform{Name: name, Type: typ})
	}
}

// WithPerFrameUniform declares an additional uniform that is rewritten every frame.
//
// Parameters:
//   - name: the WGSL member name
//   - typ: the uniform type
//
// Returns:
//   - ComposerOption: a function that applies the uniform option to a composer
func WithPerFrameUniform(name string, typ UniformType) ComposerOption {
	return func(c *composer) {
		c.uniforms = append(c.uniforms, Uniform{Name: name, Type: typ, PerFrame: true})
	}
}

// WithAttribute declares an additional vertex input, read in shaders as attr.<name>.
//
// Parameters:
//   - name: the attribute name, matching the geometry attribute
//   - size: the number of float32 components, 1 to 4
//
// Returns:
//   - ComposerOption: a function that applies the attribute option to a composer
func WithAttribute(name string, size int) ComposerOption {
	return func(c *composer) {
		c.attributes = append(c.attributes, AttributeSpec{Name: name, Size: size})
	}
}

// WithPatch splices code into the program at a hook. Patches on one hook are applied in name
// order regardless of the order the options are given.
//
// Parameters:
//   - hook: the extension point
//   - name: a name unique per hook
//   - code: WGSL statements
//
// Returns:
//   - ComposerOption: a function that applies the patch option to a composer
func WithPatch(hook Hook, name, code string) ComposerOption {
	return func(c *composer) {
		c.patches = append(c.patches, Patch{Hook: hook, Name: name, Code: code})
	}
}

// WithTexture binds a texture and sampler to a custom program. Points programs are always
// textured.
func WithTexture() ComposerOption {
	return func(c *composer) {
		c.textured = true
	}
}

// WithAlphaCutoff sets the alpha below which a points program discards fragments.
//
// Parameters:
//   - cutoff: the alpha threshold, 0.02 by default
//
// Returns:
//   - ComposerOption: a function that applies the cutoff option to a composer
func WithAlphaCutoff(cutoff float64) ComposerOption {
	return func(c *composer) {
		c.alphaCutoff = min(max(cutoff, 0), 1)
	}
}
