package geometry

import "slices"

// GeometryBuilderOption is a functional option for configuring a Geometry built with New.
type GeometryBuilderOption func(*geometry)

// WithLabel sets the label of the geometry.
//
// Parameters:
//   - label: the label used in logs and GPU debug names
//
// Returns:
//   - GeometryBuilderOption: a function that applies the label option to a geometry
func WithLabel(label string) GeometryBuilderOption {
	return func(g *geometry) {
		if label != "" {
			g.label = label
		}
	}
}

// WithIndices sets the triangle indices of a mesh geometry. The slice is copied.
//
// Parameters:
//   - indices: the triangle list indices
//
// Returns:
//   - GeometryBuilderOption: a function that applies the indices option to a geometry
func WithIndices(indices []uint32) GeometryBuilderOption {
	return func(g *geometry) {
		g.indices = slices.Clone(indices)
	}
}
