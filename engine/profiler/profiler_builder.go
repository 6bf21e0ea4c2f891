package profiler

import "time"

// ProfilerBuilderOption is a function that configures a profiler instance during construction.
type ProfilerBuilderOption func(*profiler)

// WithInterval sets the time between two log events. Values <= 0 are ignored.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option to a profiler
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithReporter registers a reporter at construction.
//
// Parameters:
//   - name: the reporter name
//   - r: the reporter
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the reporter option to a profiler
func WithReporter(name string, r Reporter) ProfilerBuilderOption {
	return func(p *profiler) {
		if r == nil {
			return
		}
		if _, ok := p.reporters[name]; !ok {
			p.order = append(p.order, name)
		}
		p.reporters[name] = r
	}
}

func withClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *profiler) {
		p.now = now
	}
}
