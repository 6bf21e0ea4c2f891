// Package expiry runs the per-frame lifetime pass over a context group's shape buffers.
package expiry

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shape_buffer"
	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
)

// Result summarises one Run.
type Result struct {
	// Removed holds the number of records pruned from each buffer, index-aligned with the buffers passed to Run.
	Removed []int
	// TextRemoved is the number of labels pruned from the text list.
	TextRemoved int
	// Scheduled is the number of buffer prunes that were submitted.
	Scheduled int
}

// Total returns the number of records and labels removed.
func (r Result) Total() int {
	n := r.TextRemoved
	for _, v := range r.Removed {
		n += v
	}
	return n
}

// Scheduler prunes every buffer of a group in parallel, one task per kind, and joins before returning.
// Buffers own disjoint storage so the tasks need no locking between them.
type Scheduler interface {
	// Run prunes buffers and text by dt. It returns immediately when dt is zero.
	// Only buffers reporting HasNonZeroDuration are scheduled. The text list is pruned in order on the
	// calling goroutine while the buffer tasks run.
	//
	// Parameters:
	//   - dt: the elapsed simulation time in seconds
	//   - buffers: the buffers to prune
	//   - text: the group's text list, may be nil
	//
	// Returns:
	//   - Result: per-buffer removal counts
	Run(dt float32, buffers []shape_buffer.Buffer, text shape_buffer.TextList) Result

	// Workers returns the maximum number of pool workers, 0 when pruning inline.
	//
	// Returns:
	//   - int: the worker limit
	Workers() int

	// Stop releases the worker pool. Run keeps working afterwards by pruning inline.
	Stop()
}

type scheduler struct {
	workers     int
	queueSize   int
	idleTimeout time.Duration

	pool    worker.DynamicWorkerPool
	stopped bool
	taskID  int
}

var _ Scheduler = &scheduler{}

// NewScheduler creates a Scheduler.
//
// Parameters:
//   - options: functional options such as WithWorkers
//
// Returns:
//   - Scheduler: the new scheduler
func NewScheduler(options ...SchedulerBuilderOption) Scheduler {
	s := &scheduler{
		workers:     4,
		queueSize:   64,
		idleTimeout: 1 * time.Second,
	}
	for _, option := range options {
		option(s)
	}

	if s.workers > 0 {
		s.pool = worker.NewDynamicWorkerPool(s.workers, s.queueSize, s.idleTimeout)
	}
	return s
}

func (s *scheduler) Workers() int {
	if s.pool == nil || s.stopped {
		return 0
	}
	return s.workers
}

func (s *scheduler) Run(dt float32, buffers []shape_buffer.Buffer, text shape_buffer.TextList) Result {
	res := Result{Removed: make([]int, len(buffers))}
	if dt == 0 {
		return res
	}

	inline := s.pool == nil || s.stopped

	// The pool's own Wait blocks until workers idle out, so each run joins on its own WaitGroup.
	var wg sync.WaitGroup
	for i, b := range buffers {
		if b == nil || !b.HasNonZeroDuration() {
			continue
		}
		res.Scheduled++
		if inline {
			res.Removed[i] = b.Prune(dt)
			continue
		}

		wg.Add(1)
		idx, buf := i, b
		s.taskID++
		s.pool.SubmitTask(worker.Task{
			ID: s.taskID,
			Do: func() (any, error) {
				defer wg.Done()
				res.Removed[idx] = buf.Prune(dt)
				return nil, nil
			},
		})
	}

	if text != nil && text.HasNonZeroDuration() {
		res.TextRemoved = text.Prune(dt)
	}

	wg.Wait()

	if total := res.Total(); total > 0 {
		logger.Logger().Trace().Int("removed", total).Int("scheduled", res.Scheduled).Float32("dt", dt).Msg("pruned debug shapes")
	}
	return res
}

func (s *scheduler) Stop() {
	if s.pool == nil || s.stopped {
		return
	}
	s.stopped = true
	s.pool.Stop()
}
