package engine

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-draw/common"
	"github.com/Carmen-Shannon/oxy-draw/engine/camera"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Hooks = debug.Drawer(nil)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeHooks struct {
	rec       *recorder
	renderErr error
	disposed  int
}

func (h *fakeHooks) OnFrameTick(dt float32)            { h.rec.add("tick %.2f", dt) }
func (h *fakeHooks) BeginFixedStep(fixedDelta float32) { h.rec.add("begin_fixed %.2f", fixedDelta) }
func (h *fakeHooks) EndFixedStep()                     { h.rec.add("end_fixed") }
func (h *fakeHooks) OnModeTransition(mode common.Mode) { h.rec.add("mode %s", mode) }
func (h *fakeHooks) Dispose()                          { h.disposed++ }
func (h *fakeHooks) Render(cam camera.Camera) error {
	h.rec.add("render %s", cam.Name())
	return h.renderErr
}

type fakeRenderer struct {
	rec      *recorder
	beginErr error
}

func (r *fakeRenderer) Resize(width, height int) { r.rec.add("resize %dx%d", width, height) }
func (r *fakeRenderer) BeginFrame() error {
	r.rec.add("begin_frame")
	return r.beginErr
}
func (r *fakeRenderer) SetViewport(x, y, width, height float32) {
	r.rec.add("viewport %.0fx%.0f", width, height)
}
func (r *fakeRenderer) EndFrame() { r.rec.add("end_frame") }
func (r *fakeRenderer) Present()  { r.rec.add("present") }

func TestEngine_StepOrder(t *testing.T) {
	rec := &recorder{}
	hooks := &fakeHooks{rec: rec}
	e := NewEngine(
		WithFixedStepRate(10),
		WithRenderer(&fakeRenderer{rec: rec}),
		WithHooks(hooks),
		WithCamera(camera.NewCamera(camera.WithKey(2), camera.WithName("second"))),
		WithCamera(camera.NewCamera(camera.WithKey(1), camera.WithName("first"))),
	)
	e.SetFixedTickCallback(func(fixedDelta float32) { rec.add("fixed_cb %.2f", fixedDelta) })
	e.SetTickCallback(func(dt float32) { rec.add("update %.2f", dt) })
	e.SetRenderCallback(func(dt float32) { rec.add("render_cb") })

	e.Step(0.25)

	assert.Equal(t, []string{
		"tick 0.25",
		"begin_fixed 0.10", "fixed_cb 0.10", "end_fixed",
		"begin_fixed 0.10", "fixed_cb 0.10", "end_fixed",
		"update 0.25",
		"begin_frame",
		"viewport 1x1", "render first",
		"viewport 1x1", "render second",
		"render_cb",
		"end_frame", "present",
	}, rec.snapshot())

	rec.events = nil
	e.Step(0.06)
	assert.Contains(t, rec.snapshot(), "begin_fixed 0.10", "the leftover accumulates into the next step")
}

func TestEngine_PausedFramesStillRender(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(WithFixedStepRate(10), WithHooks(&fakeHooks{rec: rec}), WithCamera(camera.NewCamera()))
	e.SetPaused(true)
	require.True(t, e.Paused())

	e.Step(1)

	assert.Equal(t, []string{"tick 0.00", "render main"}, rec.snapshot())
}

func TestEngine_FixedStepsAreBounded(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(WithFixedStepRate(100), WithHooks(&fakeHooks{rec: rec}))

	e.Step(5)

	steps := 0
	for _, ev := range rec.snapshot() {
		if ev == "end_fixed" {
			steps++
		}
	}
	assert.Equal(t, maxFixedSteps, steps)

	rec.events = nil
	e.Step(0)
	steps = 0
	for _, ev := range rec.snapshot() {
		if ev == "end_fixed" {
			steps++
		}
	}
	assert.LessOrEqual(t, steps, 1, "the backlog is dropped after a stall")
}

func TestEngine_ModeTransition(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(WithHooks(&fakeHooks{rec: rec}))
	assert.Equal(t, common.ModeEdit, e.Mode())

	e.SetMode(common.ModeEdit)
	e.Step(0)
	assert.Equal(t, []string{"tick 0.00"}, rec.snapshot(), "setting the current mode is not a transition")

	rec.events = nil
	e.SetMode(common.ModePlay)
	e.Step(0)
	e.Step(0)
	assert.Equal(t, []string{"tick 0.00", "mode play", "tick 0.00"}, rec.snapshot())
	assert.Equal(t, common.ModePlay, e.Mode())
}

func TestEngine_RenderErrorsAndSkippedFrames(t *testing.T) {
	rec := &recorder{}
	r := &fakeRenderer{rec: rec, beginErr: errors.New("surface lost")}
	hooks := &fakeHooks{rec: rec, renderErr: errors.New("boom")}
	e := NewEngine(WithRenderer(r), WithHooks(hooks), WithCamera(camera.NewCamera()))

	e.Step(0)
	assert.Equal(t, []string{"tick 0.00", "begin_frame"}, rec.snapshot(), "a failed BeginFrame skips the passes")

	rec.events = nil
	r.beginErr = nil
	e.Step(0)
	assert.Equal(t, []string{"tick 0.00", "begin_frame", "viewport 1x1", "render main", "end_frame", "present"}, rec.snapshot(),
		"hook errors do not abort the frame")
}

func TestEngine_Cameras(t *testing.T) {
	e := NewEngine()
	e.AddCamera(camera.NewCamera(camera.WithKey(5), camera.WithName("b")))
	e.AddCamera(camera.NewCamera(camera.WithKey(-1), camera.WithName("a")))
	e.AddCamera(nil)

	cams := e.Cameras()
	require.Len(t, cams, 2)
	assert.Equal(t, "a", cams[0].Name())
	assert.Equal(t, "b", cams[1].Name())

	e.RemoveCamera(-1)
	require.Len(t, e.Cameras(), 1)
}

func TestEngine_ResizeUpdatesCamerasAndRenderer(t *testing.T) {
	rec := &recorder{}
	cam := camera.NewCamera()
	e := NewEngine(WithRenderer(&fakeRenderer{rec: rec}), WithCamera(cam)).(*engine)

	e.resize(640, 480)

	assert.Equal(t, []string{"resize 640x480"}, rec.snapshot())
	w, h := cam.Viewport()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestEngine_HeadlessRunDisposesHooks(t *testing.T) {
	rec := &recorder{}
	hooks := &fakeHooks{rec: rec}
	e := NewEngine(WithHooks(hooks), WithRenderFrameLimit(500))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 2 }, time.Second, time.Millisecond)
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.Equal(t, 1, hooks.disposed)
}

func TestEngine_PanicInFrameQuits(t *testing.T) {
	e := NewEngine()
	e.SetTickCallback(func(float32) { panic("bad frame") })

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("a panicking frame should stop the engine")
	}
}

func TestFixedStepRateIgnoresNonPositive(t *testing.T) {
	e := NewEngine(WithFixedStepRate(20))
	e.SetFixedStepRate(0)
	assert.InDelta(t, 0.05, e.FixedDelta(), 1e-6)
}
