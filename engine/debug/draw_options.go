package debug

import (
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
)

// DrawOption configures a single append.
type DrawOption func(*drawOptions)

type drawOptions struct {
	duration   float32
	persistent bool
	mods       shapes.Modifications
	camera     string
	background shapes.Color
}

func resolveOptions(opts []DrawOption) drawOptions {
	var o drawOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDuration keeps the shape for d seconds of simulation time. The default of 0 draws it for this frame only.
//
// Parameters:
//   - d: the lifetime in seconds, negative values are treated as 0
//
// Returns:
//   - DrawOption: the option
func WithDuration(d float32) DrawOption {
	return func(o *drawOptions) {
		o.duration = d
	}
}

// Persistent keeps the shape until its group is cleared by a mode transition. Any duration is ignored.
//
// Returns:
//   - DrawOption: the option
func Persistent() DrawOption {
	return func(o *drawOptions) {
		o.persistent = true
	}
}

// WithModifications sets the shading tweaks of the shape.
//
// Parameters:
//   - m: the modification flags
//
// Returns:
//   - DrawOption: the option
func WithModifications(m shapes.Modifications) DrawOption {
	return func(o *drawOptions) {
		o.mods |= m
	}
}

// WithCamera restricts a label to the pass of the named camera. Shapes ignore it.
//
// Parameters:
//   - name: the camera name
//
// Returns:
//   - DrawOption: the option
func WithCamera(name string) DrawOption {
	return func(o *drawOptions) {
		o.camera = name
	}
}

// WithBackground fills the cells behind a label. Shapes ignore it.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - DrawOption: the option
func WithBackground(c shapes.Color) DrawOption {
	return func(o *drawOptions) {
		o.background = c
	}
}
