// Package profiler logs frame rate, memory and registered reporter fields at a fixed interval.
package profiler

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
	"github.com/rs/zerolog"
)

// Reporter appends fields to the profiler's periodic log event.
type Reporter func(e *zerolog.Event)

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the engine logger at a configurable interval.
type Profiler interface {
	// Tick should be called once per frame to track frame timing.
	// Logs performance statistics when the update interval has elapsed.
	//
	// Returns:
	//   - bool: true if stats were logged this tick, false otherwise
	Tick() bool

	// AddReporter registers a reporter whose fields are appended to every log event.
	//
	// Parameters:
	//   - name: the reporter name, replacing any reporter registered under the same name
	//   - r: the reporter
	AddReporter(name string, r Reporter)

	// RemoveReporter unregisters the named reporter.
	//
	// Parameters:
	//   - name: the reporter name
	RemoveReporter(name string)

	// Interval returns the time between two log events.
	//
	// Returns:
	//   - time.Duration: the interval
	Interval() time.Duration
}

type profiler struct {
	mu             sync.Mutex
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	now            func() time.Time
	reporters      map[string]Reporter
	order          []string
}

var _ Profiler = &profiler{}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options for profiler configuration
//
// Returns:
//   - Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) Profiler {
	p := &profiler{
		updateInterval: time.Second,
		now:            time.Now,
		reporters:      make(map[string]Reporter),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

func (p *profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses
	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	ev := logger.Logger().Info().
		Float64("fps", fps).
		Float64("heap_mb", allocMB).
		Float64("alloc_rate_mb_s", allocRateMB).
		Uint32("gc", gcCount).
		Uint64("gc_last_us", lastPauseUs).
		Uint64("gc_max_us", maxPauseUs).
		Float64("sys_mb", sysMB)
	for _, name := range p.order {
		p.reporters[name](ev)
	}
	ev.Msg("profiler")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

func (p *profiler) AddReporter(name string, r Reporter) {
	if r == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.reporters[name]; !ok {
		p.order = append(p.order, name)
	}
	p.reporters[name] = r
}

func (p *profiler) RemoveReporter(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.reporters[name]; !ok {
		return
	}
	delete(p.reporters, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

func (p *profiler) Interval() time.Duration {
	return p.updateInterval
}
