package context_group

// GroupBuilderOption is a function that configures a group instance during construction.
type GroupBuilderOption func(*group)

// WithCapacity is an option builder that sets the initial record capacity of every instanced container.
//
// Parameters:
//   - n: records pre-allocated per kind
//
// Returns:
//   - GroupBuilderOption: a function that applies the capacity option to a group
func WithCapacity(n int) GroupBuilderOption {
	return func(g *group) {
		g.capacity = max(n, 0)
	}
}

// WithTextCapacity is an option builder that sets the initial capacity of the text list.
//
// Parameters:
//   - n: labels pre-allocated
//
// Returns:
//   - GroupBuilderOption: a function that applies the text capacity option to a group
func WithTextCapacity(n int) GroupBuilderOption {
	return func(g *group) {
		g.textCapacity = max(n, 0)
	}
}

// WithName is an option builder that overrides the group name used in logs and GPU labels.
//
// Parameters:
//   - name: the group name
//
// Returns:
//   - GroupBuilderOption: a function that applies the name option to a group
func WithName(name string) GroupBuilderOption {
	return func(g *group) {
		g.name = name
	}
}
