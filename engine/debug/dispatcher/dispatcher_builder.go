package dispatcher

import (
	"github.com/Carmen-Shannon/oxy-draw/engine/config"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/text_overlay"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"
)

// DispatcherBuilderOption is a function that configures a dispatcher instance during construction.
type DispatcherBuilderOption func(*dispatcher)

// WithDepth is an option builder that sets the depth policy.
//
// Parameters:
//   - settings: the depth policy
//
// Returns:
//   - DispatcherBuilderOption: a function that applies the depth option to a dispatcher
func WithDepth(settings config.DepthConfig) DispatcherBuilderOption {
	return func(d *dispatcher) {
		d.depth = settings
	}
}

// WithTextScale is an option builder that sets the pixel scale of debug labels.
//
// Parameters:
//   - scale: the scale, values <= 0 keep the default of 1
//
// Returns:
//   - DispatcherBuilderOption: a function that applies the text scale option to a dispatcher
func WithTextScale(scale float32) DispatcherBuilderOption {
	return func(d *dispatcher) {
		if scale > 0 {
			d.textScale = scale
		}
	}
}

// WithAtlas is an option builder that replaces the default glyph atlas.
//
// Parameters:
//   - atlas: the atlas
//
// Returns:
//   - DispatcherBuilderOption: a function that applies the atlas option to a dispatcher
func WithAtlas(atlas text_overlay.Atlas) DispatcherBuilderOption {
	return func(d *dispatcher) {
		d.atlas = atlas
	}
}

// WithCompiler is an option builder that replaces the WGSL compiler of every material.
//
// Parameters:
//   - compile: the compile function
//
// Returns:
//   - DispatcherBuilderOption: a function that applies the compiler option to a dispatcher
func WithCompiler(compile shader.CompileFunc) DispatcherBuilderOption {
	return func(d *dispatcher) {
		d.compiler = compile
	}
}
