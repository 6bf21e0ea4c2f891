// Package router decides which context group receives each debug shape append and adjusts its duration
// to the frame phase the append was made in.
package router

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/context_group"
	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
	"github.com/go-gl/mathgl/mgl32"
)

// State is the routing state of the current frame.
type State int

const (
	// StateUpdate routes appends to the standard group. Every frame starts in this state.
	StateUpdate State = iota
	// StateCapturingGizmos routes appends to the capture group with the capture transform baked in.
	StateCapturingGizmos
	// StateIgnore drops every append until the next frame.
	StateIgnore
)

func (s State) String() string {
	switch s {
	case StateUpdate:
		return "update"
	case StateCapturingGizmos:
		return "capturing_gizmos"
	case StateIgnore:
		return "ignore"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DropReason explains why Route rejected an append.
type DropReason string

const (
	// DropNone means the append was routed.
	DropNone DropReason = ""
	// DropIgnored means the frame was in StateIgnore.
	DropIgnored DropReason = "ignore"
	// DropPausedDuplicate means the paused frame was already rendered with its appends.
	DropPausedDuplicate DropReason = "paused_duplicate"
)

// Route is where and for how long one append lives.
type Route struct {
	// Group receives the append.
	Group context_group.Group
	// Transform is baked into the record before it is stored. Identity outside captures.
	Transform mgl32.Mat4
	// Captured reports whether Transform came from a capture and must be applied.
	Captured bool
	// Duration is the adjusted lifetime in seconds. Ignored when Persistent is set.
	Duration float32
	// Persistent keeps the record until its group is cleared.
	Persistent bool
}

// Router is the per-frame state machine in front of the context groups. It is driven from the goroutine that
// owns the frame and is not safe for concurrent use.
type Router interface {
	// State returns the current routing state.
	//
	// Returns:
	//   - State: the state
	State() State

	// Standard returns the group ordinary appends are routed to.
	//
	// Returns:
	//   - context_group.Group: the standard group
	Standard() context_group.Group

	// Capture returns the group capture appends are routed to.
	//
	// Returns:
	//   - context_group.Group: the capture group
	Capture() context_group.Group

	// BeginFrame starts a frame tick. The state is force-reset to StateUpdate. A zero dt marks the frame as
	// paused; any other dt forgets the committed paused time.
	//
	// Parameters:
	//   - dt: the simulation time elapsed since the previous tick, 0 while paused
	//   - simTime: the simulation clock after this tick
	BeginFrame(dt float32, simTime float64)

	// Paused reports whether the current frame has a zero simulation delta.
	//
	// Returns:
	//   - bool: true while paused
	Paused() bool

	// BeginFixedStep marks the following appends as made from the fixed-step path. Finite durations
	// shorter than fixedDelta are extended to fixedDelta until EndFixedStep.
	//
	// Parameters:
	//   - fixedDelta: the fixed step length in seconds
	BeginFixedStep(fixedDelta float32)

	// EndFixedStep ends the fixed-step path started by BeginFixedStep.
	EndFixedStep()

	// InFixedStep reports whether appends are currently made from the fixed-step path.
	//
	// Returns:
	//   - bool: true between BeginFixedStep and EndFixedStep
	InFixedStep() bool

	// BeginCapture routes the following appends to the capture group with transform baked into each record.
	// The capture group is cleared by the first capture of every frame and only then, so gizmos from the last
	// capture stay drawn through frames without one. Captures do not nest; a capture started while ignoring
	// keeps ignoring.
	//
	// Parameters:
	//   - transform: the coordinate space of the capture callback
	BeginCapture(transform mgl32.Mat4)

	// EndCapture restores the state active before BeginCapture.
	EndCapture()

	// SetIgnore drops every append until the next BeginFrame.
	SetIgnore()

	// Route returns the target of one append.
	// It panics when the router is in an unrecognized state.
	//
	// Parameters:
	//   - duration: the requested lifetime in seconds, 0 for this frame only
	//   - persistent: keep the record until its group is cleared
	//
	// Returns:
	//   - Route: the target group, transform and adjusted duration
	//   - DropReason: DropNone when routed, otherwise why the append must be dropped
	Route(duration float32, persistent bool) (Route, DropReason)

	// CommitRender records that the appends of the current simulation time were rendered. While the simulation
	// stays paused at that time, later appends are dropped as duplicates of the ones already on screen.
	CommitRender()

	// Frame returns the number of BeginFrame calls.
	//
	// Returns:
	//   - uint64: the frame counter
	Frame() uint64
}

type router struct {
	standard context_group.Group
	capture  context_group.Group

	state              State
	stateBeforeCapture State
	frame              uint64

	paused      bool
	simTime     float64
	committed   bool
	committedAt float64

	inFixedStep bool
	fixedDelta  float32

	captureTransform mgl32.Mat4
	captureCleared   bool
}

var _ Router = &router{}

// NewRouter creates a Router over two explicitly owned groups.
// It panics when either group is nil or when the groups are not a standard and a capture group.
//
// Parameters:
//   - standard: the group receiving ordinary appends
//   - capture: the group receiving capture appends
//
// Returns:
//   - Router: the new router in StateUpdate
func NewRouter(standard, capture context_group.Group) Router {
	if standard == nil || capture == nil {
		panic("router: NewRouter requires a standard and a capture group")
	}
	if standard.Kind() != context_group.GroupStandard || capture.Kind() != context_group.GroupCapture {
		panic(fmt.Sprintf("router: got groups %s and %s, want standard and capture", standard.Kind(), capture.Kind()))
	}
	return &router{
		standard:         standard,
		capture:          capture,
		state:            StateUpdate,
		captureTransform: mgl32.Ident4(),
	}
}

func (r *router) State() State {
	return r.state
}

func (r *router) Standard() context_group.Group {
	return r.standard
}

func (r *router) Capture() context_group.Group {
	return r.capture
}

func (r *router) BeginFrame(dt float32, simTime float64) {
	r.frame++
	r.state = StateUpdate
	r.inFixedStep = false
	r.captureCleared = false
	r.captureTransform = mgl32.Ident4()

	r.paused = dt == 0
	if !r.paused || simTime != r.simTime {
		r.committed = false
	}
	r.simTime = simTime
}

func (r *router) Paused() bool {
	return r.paused
}

func (r *router) BeginFixedStep(fixedDelta float32) {
	r.inFixedStep = true
	r.fixedDelta = max(fixedDelta, 0)
}

func (r *router) EndFixedStep() {
	r.inFixedStep = false
}

func (r *router) InFixedStep() bool {
	return r.inFixedStep
}

func (r *router) BeginCapture(transform mgl32.Mat4) {
	switch r.state {
	case StateCapturingGizmos:
		panic("router: BeginCapture called while already capturing")
	case StateIgnore:
		r.stateBeforeCapture = StateIgnore
		return
	}

	r.stateBeforeCapture = r.state
	r.state = StateCapturingGizmos
	r.captureTransform = transform
	if !r.captureCleared {
		r.capture.Clear()
		r.captureCleared = true
	}
}

func (r *router) EndCapture() {
	if r.state != StateCapturingGizmos {
		return
	}
	r.state = r.stateBeforeCapture
	r.captureTransform = mgl32.Ident4()
}

func (r *router) SetIgnore() {
	r.state = StateIgnore
}

func (r *router) Route(duration float32, persistent bool) (Route, DropReason) {
	if duration < 0 || math.IsNaN(float64(duration)) {
		duration = 0
	}

	switch r.state {
	case StateIgnore:
		return Route{}, DropIgnored

	case StateCapturingGizmos:
		// capture records live until the next capture clears the group
		return Route{
			Group:      r.capture,
			Transform:  r.captureTransform,
			Captured:   true,
			Persistent: true,
		}, DropNone

	case StateUpdate:
		if r.paused && r.committed && r.simTime == r.committedAt {
			return Route{}, DropPausedDuplicate
		}
		if r.inFixedStep && !persistent && duration < r.fixedDelta {
			duration = r.fixedDelta
		}
		return Route{
			Group:      r.standard,
			Transform:  mgl32.Ident4(),
			Duration:   duration,
			Persistent: persistent,
		}, DropNone
	}

	panic(fmt.Sprintf("router: unrecognized frame state %d", int(r.state)))
}

func (r *router) CommitRender() {
	if r.committed && r.committedAt == r.simTime {
		return
	}
	r.committed = true
	r.committedAt = r.simTime
	if r.paused {
		logger.Logger().Trace().Float64("sim_time", r.simTime).Uint64("frame", r.frame).Msg("committed paused frame")
	}
}

func (r *router) Frame() uint64 {
	return r.frame
}
