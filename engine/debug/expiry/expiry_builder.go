package expiry

import "time"

// SchedulerBuilderOption is a functional option for configuring a Scheduler.
type SchedulerBuilderOption func(*scheduler)

// WithWorkers sets the maximum number of pool workers. Zero prunes every buffer inline on the calling goroutine.
//
// Parameters:
//   - n: the worker limit
//
// Returns:
//   - SchedulerBuilderOption: a function that applies the worker option
func WithWorkers(n int) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.workers = max(n, 0)
	}
}

// WithQueueSize sets the task queue length of the pool.
//
// Parameters:
//   - n: the queue length
//
// Returns:
//   - SchedulerBuilderOption: a function that applies the queue size option
func WithQueueSize(n int) SchedulerBuilderOption {
	return func(s *scheduler) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithIdleTimeout sets how long an idle pool worker waits before exiting.
//
// Parameters:
//   - d: the idle timeout
//
// Returns:
//   - SchedulerBuilderOption: a function that applies the idle timeout option
func WithIdleTimeout(d time.Duration) SchedulerBuilderOption {
	return func(s *scheduler) {
		if d > 0 {
			s.idleTimeout = d
		}
	}
}
