package texture

// TextureBuilderOption is a functional option for configuring a generated texture.
type TextureBuilderOption func(*texture)

// WithLabel overrides the default label of the texture.
//
// Parameters:
//   - label: the label used in logs and GPU debug names
//
// Returns:
//   - TextureBuilderOption: a function that applies the label option to a texture
func WithLabel(label string) TextureBuilderOption {
	return func(t *texture) {
		if label != "" {
			t.label = label
		}
	}
}

// WithHighlight composites a small translucent white disc over the sprite after it is drawn.
// Position and radius are fractions of the sprite size.
//
// Parameters:
//   - x: horizontal center, 0 is the left edge and 1 the right edge
//   - y: vertical center, 0 is the top edge and 1 the bottom edge
//   - r: radius
//   - alpha: opacity in [0, 1]
//
// Returns:
//   - TextureBuilderOption: a function that applies the highlight option to a texture
func WithHighlight(x, y, r, alpha float64) TextureBuilderOption {
	return func(t *texture) {
		t.highlight = &highlight{x: x, y: y, r: r, alpha: alpha}
	}
}
