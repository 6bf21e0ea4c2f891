package debug

import (
	"github.com/Carmen-Shannon/oxy-draw/engine/config"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/dispatcher"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/expiry"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"
	"go.opentelemetry.io/otel/metric"
)

// DrawerBuilderOption is a function that configures a drawer instance during construction.
type DrawerBuilderOption func(*drawer)

// WithConfig is an option builder that replaces the settings read from config.DebugDraw.
//
// Parameters:
//   - cfg: the debug draw settings
//
// Returns:
//   - DrawerBuilderOption: a function that applies the config option to a drawer
func WithConfig(cfg config.DebugDrawConfig) DrawerBuilderOption {
	return func(d *drawer) {
		d.cfg = cfg
	}
}

// WithScheduler is an option builder that replaces the expiry scheduler built from the config.
//
// Parameters:
//   - s: the scheduler, stopped by Dispose
//
// Returns:
//   - DrawerBuilderOption: a function that applies the scheduler option to a drawer
func WithScheduler(s expiry.Scheduler) DrawerBuilderOption {
	return func(d *drawer) {
		d.scheduler = s
	}
}

// WithDispatcher is an option builder that replaces the dispatcher built from the GPU passed to New.
//
// Parameters:
//   - disp: the dispatcher, released by Dispose
//
// Returns:
//   - DrawerBuilderOption: a function that applies the dispatcher option to a drawer
func WithDispatcher(disp dispatcher.Dispatcher) DrawerBuilderOption {
	return func(d *drawer) {
		d.dispatcher = disp
	}
}

// WithCompiler is an option builder that replaces the WGSL compiler of the default dispatcher.
//
// Parameters:
//   - compile: the compile function
//
// Returns:
//   - DrawerBuilderOption: a function that applies the compiler option to a drawer
func WithCompiler(compile shader.CompileFunc) DrawerBuilderOption {
	return func(d *drawer) {
		d.compiler = compile
	}
}

// WithMeterProvider is an option builder that records metrics through mp instead of the global provider.
//
// Parameters:
//   - mp: the meter provider
//
// Returns:
//   - DrawerBuilderOption: a function that applies the meter provider option to a drawer
func WithMeterProvider(mp metric.MeterProvider) DrawerBuilderOption {
	return func(d *drawer) {
		d.meterProvider = mp
	}
}
