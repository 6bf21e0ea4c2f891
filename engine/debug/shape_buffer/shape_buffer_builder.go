package shape_buffer

type containerOptions struct {
	capacity       int
	tracksDuration bool
}

// ContainerBuilderOption is a functional option for configuring a Container or TextList.
type ContainerBuilderOption func(*containerOptions)

// WithCapacity pre-allocates room for n records.
//
// Parameters:
//   - n: the number of records to reserve; non-positive values reserve nothing
//
// Returns:
//   - ContainerBuilderOption: a function that applies the capacity option
func WithCapacity(n int) ContainerBuilderOption {
	return func(o *containerOptions) {
		o.capacity = max(n, 0)
	}
}

// WithoutDurationTracking disables expiry. Records stay until Clear, which is how the capture group
// holds gizmo shapes from one capture to the next.
//
// Returns:
//   - ContainerBuilderOption: a function that disables duration tracking
func WithoutDurationTracking() ContainerBuilderOption {
	return func(o *containerOptions) {
		o.tracksDuration = false
	}
}
