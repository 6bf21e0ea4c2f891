package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithCapacity presets the record capacity the provider reports before its buffers are allocated.
//
// Parameters:
//   - capacity: the record capacity
//
// Returns:
//   - BindGroupProviderOption: a function that sets the capacity
func WithCapacity(capacity int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.capacity = capacity
	}
}

// WithIndexCount presets the number of indices drawn per instance, for providers whose mesh
// buffers are shared or created later.
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
