package router

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/context_group"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() Router {
	return NewRouter(context_group.NewGroup(context_group.GroupStandard), context_group.NewGroup(context_group.GroupCapture))
}

// appendLine routes and stores one line the way the drawing API does.
func appendLine(r Router, duration float32) DropReason {
	route, reason := r.Route(duration, false)
	if reason != DropNone {
		return reason
	}
	line := shapes.NewLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})
	if route.Captured {
		line = line.Transformed(route.Transform)
	}
	if route.Persistent {
		route.Group.Lines().AppendPersistent(line, shapes.White, 0)
	} else {
		route.Group.Lines().Append(line, shapes.White, 0, route.Duration)
	}
	return DropNone
}

func TestNewRouter_Validation(t *testing.T) {
	std := context_group.NewGroup(context_group.GroupStandard)
	capture := context_group.NewGroup(context_group.GroupCapture)

	assert.PanicsWithValue(t, "router: NewRouter requires a standard and a capture group", func() {
		NewRouter(std, nil)
	})
	assert.PanicsWithValue(t, "router: got groups capture and standard, want standard and capture", func() {
		NewRouter(capture, std)
	})

	r := NewRouter(std, capture)
	assert.Equal(t, StateUpdate, r.State())
	assert.Same(t, std, r.Standard())
	assert.Same(t, capture, r.Capture())
}

func TestRouter_UpdateRoutesToStandard(t *testing.T) {
	r := newTestRouter()
	r.BeginFrame(0.016, 0.016)

	route, reason := r.Route(2, false)
	require.Equal(t, DropNone, reason)
	assert.Same(t, r.Standard(), route.Group)
	assert.False(t, route.Captured)
	assert.Equal(t, float32(2), route.Duration)
	assert.Equal(t, mgl32.Ident4(), route.Transform)

	route, _ = r.Route(-3, false)
	assert.Equal(t, float32(0), route.Duration, "negative durations clamp to this frame only")

	route, _ = r.Route(0, true)
	assert.True(t, route.Persistent)
}

func TestRouter_FrameTickResetsState(t *testing.T) {
	r := newTestRouter()
	r.BeginFrame(0.016, 0.016)
	r.SetIgnore()
	assert.Equal(t, StateIgnore, r.State())

	r.BeginFrame(0.016, 0.032)
	assert.Equal(t, StateUpdate, r.State())

	r.BeginCapture(mgl32.Ident4())
	r.BeginFrame(0.016, 0.048)
	assert.Equal(t, StateUpdate, r.State(), "an unfinished capture does not leak into the next frame")
	assert.Equal(t, uint64(3), r.Frame())
}

func TestRouter_IgnoreDrops(t *testing.T) {
	r := newTestRouter()
	r.BeginFrame(0.016, 0.016)
	r.SetIgnore()

	assert.Equal(t, DropIgnored, appendLine(r, 1))
	assert.Equal(t, 0, r.Standard().Lines().Count())
	assert.Equal(t, 0, r.Capture().Lines().Count())

	r.BeginCapture(mgl32.Translate3D(1, 2, 3))
	assert.Equal(t, StateIgnore, r.State(), "capturing while ignoring keeps ignoring")
	assert.Equal(t, DropIgnored, appendLine(r, 1))
	r.EndCapture()
	assert.Equal(t, StateIgnore, r.State())
}

func TestRouter_CaptureBakesTransform(t *testing.T) {
	r := newTestRouter()
	r.BeginFrame(0.016, 0.016)

	r.BeginCapture(mgl32.Translate3D(0, 10, 0))
	assert.Equal(t, StateCapturingGizmos, r.State())
	require.Equal(t, DropNone, appendLine(r, 0))
	r.EndCapture()
	assert.Equal(t, StateUpdate, r.State())

	require.Equal(t, 1, r.Capture().Lines().Count())
	assert.Equal(t, 0, r.Standard().Lines().Count())
	got := r.Capture().Lines().Records()[0]
	assert.InDelta(t, 10, got.A.Y(), 1e-6)
	assert.InDelta(t, 1, got.B.X(), 1e-6)
	assert.InDelta(t, 10, got.B.Y(), 1e-6)
}

func TestRouter_CaptureClearedOncePerFrame(t *testing.T) {
	r := newTestRouter()
	r.BeginFrame(0.016, 0.016)

	r.BeginCapture(mgl32.Ident4())
	appendLine(r, 0)
	r.EndCapture()
	r.BeginCapture(mgl32.Ident4())
	appendLine(r, 0)
	r.EndCapture()
	assert.Equal(t, 2, r.Capture().Lines().Count(), "captures of one frame accumulate")

	r.BeginFrame(0.016, 0.032)
	r.BeginCapture(mgl32.Ident4())
	assert.Equal(t, 0, r.Capture().Lines().Count(), "the first capture of a frame starts from an empty group")
	appendLine(r, 0)
	r.EndCapture()
	assert.Equal(t, 1, r.Capture().Lines().Count())
}

func TestRouter_NestedCapturePanics(t *testing.T) {
	r := newTestRouter()
	r.BeginFrame(0.016, 0.016)
	r.BeginCapture(mgl32.Ident4())
	assert.PanicsWithValue(t, "router: BeginCapture called while already capturing", func() {
		r.BeginCapture(mgl32.Ident4())
	})
}

func TestRouter_ContextIsolation(t *testing.T) {
	r := newTestRouter()
	r.BeginFrame(0.016, 0.016)

	appendLine(r, 1)
	r.BeginCapture(mgl32.Ident4())
	appendLine(r, 1)
	appendLine(r, 1)
	r.EndCapture()
	appendLine(r, 1)

	assert.Equal(t, 2, r.Standard().Lines().Count())
	assert.Equal(t, 2, r.Capture().Lines().Count())

	r.Standard().Clear()
	assert.Equal(t, 2, r.Capture().Lines().Count())
}

func TestRouter_FixedStepExtendsDuration(t *testing.T) {
	tests := []struct {
		name       string
		duration   float32
		persistent bool
		want       float32
	}{
		{name: "zero", duration: 0, want: 0.02},
		{name: "shorter than a step", duration: 0.005, want: 0.02},
		{name: "longer than a step", duration: 1, want: 1},
		{name: "persistent untouched", duration: 0, persistent: true, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			r.BeginFrame(0.016, 0.016)
			r.BeginFixedStep(0.02)
			assert.True(t, r.InFixedStep())

			route, reason := r.Route(tt.duration, tt.persistent)
			require.Equal(t, DropNone, reason)
			assert.Equal(t, tt.want, route.Duration)

			r.EndFixedStep()
			assert.False(t, r.InFixedStep())
			route, _ = r.Route(tt.duration, tt.persistent)
			assert.Equal(t, tt.duration, route.Duration, "outside the fixed step durations are unchanged")
		})
	}
}

func TestRouter_PausedDuplicateSuppression(t *testing.T) {
	r := newTestRouter()

	// running frame: the shape is appended and rendered
	r.BeginFrame(0.016, 1.0)
	require.Equal(t, DropNone, appendLine(r, 0))
	r.CommitRender()
	single := r.Standard().Lines().Count()

	// paused redraws at the same committed time must not accumulate copies
	for range 3 {
		r.BeginFrame(0, 1.0)
		assert.True(t, r.Paused())
		assert.Equal(t, DropPausedDuplicate, appendLine(r, 0))
		r.CommitRender()
	}
	assert.Equal(t, single, r.Standard().Lines().Count())

	// captures are rebuilt every frame and are not suppressed
	r.BeginCapture(mgl32.Ident4())
	assert.Equal(t, DropNone, appendLine(r, 0))
	r.EndCapture()

	// stepping time forgets the committed time
	r.BeginFrame(0.016, 1.016)
	assert.False(t, r.Paused())
	assert.Equal(t, DropNone, appendLine(r, 0))
}

func TestRouter_PausedFirstFrameWithoutCommit(t *testing.T) {
	r := newTestRouter()
	r.BeginFrame(0, 0)
	assert.Equal(t, DropNone, appendLine(r, 0), "nothing was rendered yet")
	r.CommitRender()

	r.BeginFrame(0, 0)
	assert.Equal(t, DropPausedDuplicate, appendLine(r, 0))
	assert.Equal(t, 1, r.Standard().Lines().Count())

	// a paused jump to another time, e.g. scrubbing, accepts new appends once
	r.BeginFrame(0, 5)
	assert.Equal(t, DropNone, appendLine(r, 0))
}

func TestRouter_UnknownStatePanics(t *testing.T) {
	r := newTestRouter().(*router)
	r.state = State(7)
	assert.PanicsWithValue(t, "router: unrecognized frame state 7", func() {
		r.Route(1, false)
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "update", StateUpdate.String())
	assert.Equal(t, "capturing_gizmos", StateCapturingGizmos.String())
	assert.Equal(t, "ignore", StateIgnore.String())
	assert.Equal(t, "state(9)", State(9).String())
}
