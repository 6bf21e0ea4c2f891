package shader

import "strings"

// ShaderBuilderOption is a functional option for configuring a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithPrelude prepends WGSL snippets, typically canonical struct definitions shared with Go GPU types,
// to the shader source before it is reflected and compiled.
//
// Parameters:
//   - sources: the WGSL snippets in the order they should appear
//
// Returns:
//   - ShaderBuilderOption: a function that applies the prelude
func WithPrelude(sources ...string) ShaderBuilderOption {
	return func(s *shader) {
		parts := make([]string, 0, len(sources)+1)
		if s.source != "" {
			parts = append(parts, s.source)
		}
		for _, src := range sources {
			if strings.TrimSpace(src) != "" {
				parts = append(parts, strings.TrimSpace(src))
			}
		}
		s.source = strings.Join(parts, "\n\n")
	}
}

// WithCompiler replaces the WGSL compiler used by CompileAsync. The default compiles with naga.
//
// Parameters:
//   - compile: the compile function
//
// Returns:
//   - ShaderBuilderOption: a function that sets the compiler
func WithCompiler(compile CompileFunc) ShaderBuilderOption {
	return func(s *shader) {
		if compile != nil {
			s.compile = compile
		}
	}
}
