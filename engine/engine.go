// Package engine runs the frame loop that drives the debug drawer: simulation tick, fixed steps,
// per-camera render passes and presentation, all from one owner goroutine.
package engine

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-draw/common"
	"github.com/Carmen-Shannon/oxy-draw/engine/camera"
	"github.com/Carmen-Shannon/oxy-draw/engine/config"
	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
	"github.com/Carmen-Shannon/oxy-draw/engine/profiler"
	"github.com/Carmen-Shannon/oxy-draw/engine/window"
)

// maxFixedSteps bounds the fixed steps run in one frame after a stall.
const maxFixedSteps = 8

// Hooks receives the frame events of the engine. debug.Drawer satisfies it.
type Hooks interface {
	// OnFrameTick starts a frame with the simulation delta, 0 while paused.
	OnFrameTick(dt float32)

	// BeginFixedStep opens a fixed simulation step of fixedDelta seconds.
	BeginFixedStep(fixedDelta float32)

	// EndFixedStep closes the open fixed step.
	EndFixedStep()

	// Render draws into the pass of one camera.
	Render(cam camera.Camera) error

	// OnModeTransition reports an edit/play switch.
	OnModeTransition(mode common.Mode)

	// Dispose releases the hook's resources when the engine stops.
	Dispose()
}

// FrameRenderer is the part of renderer.Renderer the engine drives each frame.
type FrameRenderer interface {
	Resize(width, height int)
	BeginFrame() error
	SetViewport(x, y, width, height float32)
	EndFrame()
	Present()
}

// engine implements the Engine interface.
type engine struct {
	mu sync.Mutex

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	window   window.Window
	renderer FrameRenderer

	profiler         profiler.Profiler
	profilingEnabled bool

	tickCallback      func(deltaTime float32)
	fixedTickCallback func(fixedDelta float32)
	renderCallback    func(deltaTime float32)

	hooks   []Hooks
	cameras map[int]camera.Camera

	fixedDelta  float32
	accumulator float32
	paused      bool
	mode        common.Mode
	modeChanged bool

	renderFrameLimit time.Duration
}

// Engine is the main entry point for the engine.
// It owns the frame loop and the window message loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance, nil when running headless
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Profiler returns the engine profiler so callers can register reporters.
	//
	// Returns:
	//   - profiler.Profiler: the profiler
	Profiler() profiler.Profiler

	// SetFixedStepRate sets the number of fixed simulation steps per second.
	//
	// Parameters:
	//   - hz: steps per second, values <= 0 are ignored
	SetFixedStepRate(hz int)

	// FixedDelta returns the duration of one fixed step in seconds.
	//
	// Returns:
	//   - float32: the fixed delta
	FixedDelta() float32

	// SetTickCallback registers the update callback, called once per frame after the fixed steps.
	//
	// Parameters:
	//   - callback: function receiving the simulation delta in seconds, 0 while paused
	SetTickCallback(callback func(deltaTime float32))

	// SetFixedTickCallback registers the function called inside every fixed step.
	//
	// Parameters:
	//   - callback: function receiving the fixed delta in seconds
	SetFixedTickCallback(callback func(fixedDelta float32))

	// SetRenderCallback registers the function called after the camera passes, inside the frame.
	//
	// Parameters:
	//   - callback: function receiving the wall-clock delta in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the frame loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddHooks registers frame hooks. Hooks run in registration order.
	//
	// Parameters:
	//   - h: the hooks
	AddHooks(h Hooks)

	// AddCamera registers a camera. Cameras render in ascending Key order.
	//
	// Parameters:
	//   - cam: the camera, replacing any camera with the same key
	AddCamera(cam camera.Camera)

	// RemoveCamera removes the camera registered under key.
	//
	// Parameters:
	//   - key: the camera key
	RemoveCamera(key int)

	// Cameras returns the registered cameras in render order.
	//
	// Returns:
	//   - []camera.Camera: the cameras sorted by Key
	Cameras() []camera.Camera

	// SetPaused pauses or resumes simulation time. Frames keep rendering while paused.
	//
	// Parameters:
	//   - paused: true to pause
	SetPaused(paused bool)

	// Paused reports whether simulation time is paused.
	//
	// Returns:
	//   - bool: true while paused
	Paused() bool

	// SetMode switches between edit and play. Hooks see the transition at the start of the next frame.
	//
	// Parameters:
	//   - mode: the new mode
	SetMode(mode common.Mode)

	// Mode returns the current mode.
	//
	// Returns:
	//   - common.Mode: the mode
	Mode() common.Mode

	// Step runs one frame with the given wall-clock delta. Run calls it from the frame goroutine;
	// headless hosts and tests call it directly.
	//
	// Parameters:
	//   - dt: the wall-clock delta in seconds
	Step(dt float32)

	// Run starts the frame goroutine and the window message loop (blocks until the window closes).
	Run()

	// Quit signals the frame goroutine to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The fixed step rate defaults to the debugDraw.fixedStepRate setting.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		cameras:     make(map[int]camera.Camera),
		profiler:    profiler.NewProfiler(),
		mode:        common.ModeEdit,
	}
	e.setFixedStepRate(config.DebugDraw().FixedStepRate)

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.resize)
	}

	return e
}

func (e *engine) resize(width, height int) {
	e.mu.Lock()
	r := e.renderer
	cams := e.sortedCameras()
	e.mu.Unlock()

	if r != nil {
		r.Resize(width, height)
	}
	for _, c := range cams {
		c.SetViewport(width, height)
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) Profiler() profiler.Profiler {
	return e.profiler
}

func (e *engine) SetFixedStepRate(hz int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setFixedStepRate(hz)
}

func (e *engine) setFixedStepRate(hz int) {
	if hz <= 0 {
		return
	}
	e.fixedDelta = 1 / float32(hz)
}

func (e *engine) FixedDelta() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fixedDelta
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetFixedTickCallback(callback func(fixedDelta float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fixedTickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameLimit(fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddHooks(h Hooks) {
	if h == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, h)
}

func (e *engine) AddCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cameras[cam.Key()] = cam
}

func (e *engine) RemoveCamera(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cameras, key)
}

func (e *engine) Cameras() []camera.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortedCameras()
}

func (e *engine) sortedCameras() []camera.Camera {
	keys := make([]int, 0, len(e.cameras))
	for k := range e.cameras {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	cams := make([]camera.Camera, len(keys))
	for i, k := range keys {
		cams[i] = e.cameras[k]
	}
	return cams
}

func (e *engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
}

func (e *engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *engine) SetMode(mode common.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mode == e.mode {
		return
	}
	e.mode = mode
	e.modeChanged = true
}

func (e *engine) Mode() common.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// frameState is the snapshot of engine settings one frame runs with.
type frameState struct {
	hooks       []Hooks
	cameras     []camera.Camera
	renderer    FrameRenderer
	tick        func(float32)
	fixedTick   func(float32)
	render      func(float32)
	fixedDelta  float32
	steps       int
	paused      bool
	modeChanged bool
	mode        common.Mode
	profile     bool
}

func (e *engine) snapshot(dt float32) frameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	fs := frameState{
		hooks:       slices.Clone(e.hooks),
		cameras:     e.sortedCameras(),
		renderer:    e.renderer,
		tick:        e.tickCallback,
		fixedTick:   e.fixedTickCallback,
		render:      e.renderCallback,
		fixedDelta:  e.fixedDelta,
		paused:      e.paused,
		modeChanged: e.modeChanged,
		mode:        e.mode,
		profile:     e.profilingEnabled,
	}
	e.modeChanged = false

	if !fs.paused && dt > 0 {
		e.accumulator += dt
		for e.accumulator >= e.fixedDelta && fs.steps < maxFixedSteps {
			e.accumulator -= e.fixedDelta
			fs.steps++
		}
		if fs.steps == maxFixedSteps {
			e.accumulator = min(e.accumulator, e.fixedDelta)
		}
	}
	return fs
}

func (e *engine) Step(dt float32) {
	if dt < 0 || math.IsNaN(float64(dt)) {
		dt = 0
	}
	fs := e.snapshot(dt)

	simDt := dt
	if fs.paused {
		simDt = 0
	}

	for _, h := range fs.hooks {
		h.OnFrameTick(simDt)
	}
	if fs.modeChanged {
		for _, h := range fs.hooks {
			h.OnModeTransition(fs.mode)
		}
	}

	for range fs.steps {
		for _, h := range fs.hooks {
			h.BeginFixedStep(fs.fixedDelta)
		}
		if fs.fixedTick != nil {
			fs.fixedTick(fs.fixedDelta)
		}
		for _, h := range fs.hooks {
			h.EndFixedStep()
		}
	}

	if fs.tick != nil {
		fs.tick(simDt)
	}

	e.renderFrame(fs, dt)

	if fs.profile && e.profiler != nil {
		e.profiler.Tick()
	}
}

func (e *engine) renderFrame(fs frameState, dt float32) {
	r := fs.renderer
	if r != nil {
		if err := r.BeginFrame(); err != nil {
			logger.Logger().Warn().Err(err).Msg("frame skipped")
			return
		}
	}

	for _, cam := range fs.cameras {
		cam.Update()
		if r != nil {
			w, h := cam.Viewport()
			r.SetViewport(0, 0, float32(w), float32(h))
		}
		for _, h := range fs.hooks {
			if err := h.Render(cam); err != nil {
				logger.Logger().Warn().Err(err).Str("camera", cam.Name()).Msg("render hook failed")
			}
		}
	}

	if fs.render != nil {
		fs.render(dt)
	}

	if r != nil {
		r.EndFrame()
		r.Present()
	}
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the frame and quit goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleFrames()
	go e.handleQuit()
}

// handleFrames is the single owner of the frame. Hooks are disposed on exit, after the last frame.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	defer e.disposeHooks()
	defer func() {
		if r := recover(); r != nil {
			logger.Logger().Error().Str("panic", fmt.Sprint(r)).Msg("frame goroutine recovered from panic")
			e.signalQuit()
		}
	}()

	last := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		e.Step(dt)

		e.mu.Lock()
		limit := e.renderFrameLimit
		e.mu.Unlock()
		if limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

func (e *engine) disposeHooks() {
	e.mu.Lock()
	hooks := slices.Clone(e.hooks)
	e.mu.Unlock()
	for _, h := range hooks {
		h.Dispose()
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}
