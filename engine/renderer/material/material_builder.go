package material

import "github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that overrides the material name and the base of its pipeline keys.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithCompiler is an option builder that replaces the WGSL compiler of both shaders.
//
// Parameters:
//   - compile: the compile function
//
// Returns:
//   - MaterialBuilderOption: a function that applies the compiler option to a material
func WithCompiler(compile shader.CompileFunc) MaterialBuilderOption {
	return func(m *material) {
		m.compiler = compile
	}
}
