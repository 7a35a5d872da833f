package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithElementCount sets the number of vertices or instances the provider draws.
//
// Parameters:
//   - count: the element count
//
// Returns:
//   - BindGroupProviderOption: a function that sets the element count
func WithElementCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.elementCount = count
	}
}

// WithIndexCount sets the number of indices without an index buffer. Headless backends use
// it to describe a mesh they never upload.
//
// Parameters:
//   - count: the index count
//
// Returns:
//   - BindGroupProviderOption: a function that sets the index count
func WithIndexCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexCount = count
	}
}
