// Package debug is the immediate-mode debug drawing API. Shapes appended during a frame are routed into one of two
// context groups, expire with simulation time and are drawn by the dispatcher once per camera.
package debug

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-draw/common"
	"github.com/Carmen-Shannon/oxy-draw/engine/camera"
	"github.com/Carmen-Shannon/oxy-draw/engine/config"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/context_group"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/dispatcher"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/expiry"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/router"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shape_buffer"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"go.opentelemetry.io/otel/metric"
)

// DropUnsupported is the drop reason of appends the current frame state cannot hold, such as text while capturing.
const DropUnsupported = "unsupported"

// Stats is a snapshot of the drawer state.
type Stats struct {
	// Frame is the number of frame ticks.
	Frame uint64
	// State is the routing state at the time of the snapshot.
	State router.State
	// SimTime is the accumulated simulation time in seconds.
	SimTime float64
	// Live holds the live count per group and kind, including text.
	Live map[context_group.GroupKind]map[shapes.Kind]int
	// Dropped counts dropped appends by reason since New.
	Dropped map[string]int
	// LastDispatch holds the most recent Render result per group.
	LastDispatch map[context_group.GroupKind]dispatcher.DispatchStats
}

// Drawer is the debug drawing API and the set of hooks the host frame loop drives it with.
//
// Every method is safe to call from any goroutine, but shapes are only consistent with the frame when appends and
// hooks come from the goroutine that owns the frame.
type Drawer interface {
	// Line draws a segment from a to b.
	Line(a, b mgl32.Vec3, color shapes.Color, opts ...DrawOption)

	// DashedLine draws a segment from a to b as alternating dashes and gaps.
	//
	// Parameters:
	//   - a: the start point
	//   - b: the end point
	//   - dash: the world length of one dash
	//   - gap: the world length of one gap
	//   - color: the color
	//   - opts: per-append options
	DashedLine(a, b mgl32.Vec3, dash, gap float32, color shapes.Color, opts ...DrawOption)

	// Arc draws a circular arc of the given radius starting on the local X axis and sweeping angle radians
	// counterclockwise in the local XY plane.
	//
	// Parameters:
	//   - center: the arc center
	//   - rotation: orientation of the local XY plane
	//   - radius: the radius
	//   - angle: the swept angle in radians, 2*pi for a full circle
	//   - color: the color
	//   - opts: per-append options
	Arc(center mgl32.Vec3, rotation mgl32.Quat, radius, angle float32, color shapes.Color, opts ...DrawOption)

	// Box draws the edges of an oriented box.
	Box(center, size mgl32.Vec3, rotation mgl32.Quat, color shapes.Color, opts ...DrawOption)

	// Outline draws the view-facing silhouette of a capsule between a and b.
	Outline(a, b mgl32.Vec3, radius float32, color shapes.Color, opts ...DrawOption)

	// Cast draws an oriented box swept along direction: both end boxes and the edges joining them.
	Cast(center, size mgl32.Vec3, rotation mgl32.Quat, direction mgl32.Vec3, color shapes.Color, opts ...DrawOption)

	// Text draws a screen-aligned label anchored at position. Labels cannot be drawn while capturing gizmos;
	// such calls are dropped with a one-time warning.
	//
	// Parameters:
	//   - position: the world anchor of the label's top-left corner
	//   - value: the text, lines separated by '\n'
	//   - color: the text color
	//   - opts: per-append options, WithCamera and WithBackground apply to labels only
	Text(position mgl32.Vec3, value string, color shapes.Color, opts ...DrawOption)

	// OnFrameTick starts a frame: resets the routing state and expires shapes by dt.
	//
	// Parameters:
	//   - dt: the elapsed simulation time, 0 while paused
	OnFrameTick(dt float32)

	// BeginFixedStep marks the following appends as made from a fixed-step callback.
	//
	// Parameters:
	//   - fixedDelta: the fixed step length in seconds
	BeginFixedStep(fixedDelta float32)

	// EndFixedStep ends the fixed-step callback started by BeginFixedStep.
	EndFixedStep()

	// BeginCapture redirects appends into the capture group, transformed by transform, until EndCapture.
	// The first capture of a frame replaces the previous gizmos. Frames without a capture keep drawing the
	// last captured gizmos until the next capture or a mode transition.
	//
	// Parameters:
	//   - transform: the coordinate space of the capture callback
	BeginCapture(transform mgl32.Mat4)

	// EndCapture ends the capture started by BeginCapture.
	EndCapture()

	// Capture runs fn between BeginCapture and EndCapture. The gizmos fn draws replace those of the previous
	// capture and stay drawn until the next one.
	//
	// Parameters:
	//   - transform: the coordinate space of the capture callback
	//   - fn: the callback drawing gizmos
	Capture(transform mgl32.Mat4, fn func())

	// Render draws both groups for cam. Kinds that are not ready are skipped and retried on the next call.
	//
	// Parameters:
	//   - cam: the camera of the pass
	//
	// Returns:
	//   - error: per-kind failures joined, context_group.ErrDisposed after Dispose
	Render(cam camera.Camera) error

	// OnModeTransition clears both groups and drops appends for the rest of the frame.
	//
	// Parameters:
	//   - mode: the mode being entered
	OnModeTransition(mode common.Mode)

	// Group returns the group of the given kind.
	//
	// Parameters:
	//   - kind: standard or capture
	//
	// Returns:
	//   - context_group.Group: the group, nil for an unknown kind
	Group(kind context_group.GroupKind) context_group.Group

	// Stats returns a snapshot of counts and the last dispatch results.
	//
	// Returns:
	//   - Stats: the snapshot
	Stats() Stats

	// Dispose releases every GPU resource and stops the expiry workers. It must run before the GPU device is
	// released. Later appends are dropped and Render returns context_group.ErrDisposed.
	Dispose()
}

type drawer struct {
	mu *sync.Mutex

	cfg           config.DebugDrawConfig
	compiler      shader.CompileFunc
	meterProvider metric.MeterProvider

	standard   context_group.Group
	capture    context_group.Group
	router     router.Router
	scheduler  expiry.Scheduler
	dispatcher dispatcher.Dispatcher
	metrics    *metrics

	simTime      float64
	dropped      map[string]int
	lastDispatch map[context_group.GroupKind]dispatcher.DispatchStats
	disposed     bool
}

var _ Drawer = &drawer{}

// New creates a Drawer with its own standard and capture groups. Settings default to config.DebugDraw.
// It panics when gpu is nil and no dispatcher is supplied.
//
// Parameters:
//   - gpu: the renderer debug shapes are drawn with, usually a renderer.Renderer
//   - options: functional options such as WithConfig
//
// Returns:
//   - Drawer: the new drawer
//   - error: an error when the metric instruments cannot be created
func New(gpu dispatcher.GPU, options ...DrawerBuilderOption) (Drawer, error) {
	d := &drawer{
		mu:           &sync.Mutex{},
		cfg:          config.DebugDraw(),
		dropped:      make(map[string]int),
		lastDispatch: make(map[context_group.GroupKind]dispatcher.DispatchStats),
	}
	for _, opt := range options {
		opt(d)
	}

	if d.dispatcher == nil {
		if gpu == nil {
			panic("debug: New requires a non-nil GPU or WithDispatcher")
		}
		dispatcherOptions := []dispatcher.DispatcherBuilderOption{
			dispatcher.WithDepth(d.cfg.Depth),
			dispatcher.WithTextScale(float32(d.cfg.Text.Scale)),
		}
		if d.compiler != nil {
			dispatcherOptions = append(dispatcherOptions, dispatcher.WithCompiler(d.compiler))
		}
		d.dispatcher = dispatcher.NewDispatcher(gpu, dispatcherOptions...)
	}
	if d.scheduler == nil {
		d.scheduler = expiry.NewScheduler(expiry.WithWorkers(d.cfg.PruneWorkers))
	}

	m, err := newMetrics(d.meterProvider)
	if err != nil {
		d.dispatcher.Release()
		d.scheduler.Stop()
		return nil, fmt.Errorf("debug metrics: %w", err)
	}
	d.metrics = m

	groupOptions := []context_group.GroupBuilderOption{
		context_group.WithCapacity(d.cfg.InitialCapacity),
		context_group.WithTextCapacity(d.cfg.TextCapacity),
	}
	d.standard = context_group.NewGroup(context_group.GroupStandard, groupOptions...)
	d.capture = context_group.NewGroup(context_group.GroupCapture, groupOptions...)
	d.router = router.NewRouter(d.standard, d.capture)

	logger.Logger().Debug().
		Int("capacity", d.cfg.InitialCapacity).
		Int("prune_workers", d.scheduler.Workers()).
		Msg("debug drawer created")
	return d, nil
}

func (d *drawer) Line(a, b mgl32.Vec3, color shapes.Color, opts ...DrawOption) {
	appendShape(d, shapes.NewLine(a, b), shapes.Line.Transformed, context_group.Group.Lines, color, opts)
}

func (d *drawer) DashedLine(a, b mgl32.Vec3, dash, gap float32, color shapes.Color, opts ...DrawOption) {
	appendShape(d, shapes.NewDashedLine(a, b, dash, gap), shapes.DashedLine.Transformed, context_group.Group.DashedLines, color, opts)
}

func (d *drawer) Arc(center mgl32.Vec3, rotation mgl32.Quat, radius, angle float32, color shapes.Color, opts ...DrawOption) {
	appendShape(d, shapes.NewArc(center, rotation, radius, angle), shapes.Arc.Transformed, context_group.Group.Arcs, color, opts)
}

func (d *drawer) Box(center, size mgl32.Vec3, rotation mgl32.Quat, color shapes.Color, opts ...DrawOption) {
	appendShape(d, shapes.NewBox(center, size, rotation), shapes.Box.Transformed, context_group.Group.Boxes, color, opts)
}

func (d *drawer) Outline(a, b mgl32.Vec3, radius float32, color shapes.Color, opts ...DrawOption) {
	appendShape(d, shapes.NewOutline(a, b, radius), shapes.Outline.Transformed, context_group.Group.Outlines, color, opts)
}

func (d *drawer) Cast(center, size mgl32.Vec3, rotation mgl32.Quat, direction mgl32.Vec3, color shapes.Color, opts ...DrawOption) {
	appendShape(d, shapes.NewCast(center, size, rotation, direction), shapes.Cast.Transformed, context_group.Group.Casts, color, opts)
}

// appendShape routes one record and stores it in the container container picks from the routed group.
func appendShape[T shapes.Record](
	d *drawer,
	record T,
	transform func(T, mgl32.Mat4) T,
	container func(context_group.Group) shape_buffer.Container[T],
	color shapes.Color,
	opts []DrawOption,
) {
	o := resolveOptions(opts)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}

	route, reason := d.router.Route(o.duration, o.persistent)
	if reason != router.DropNone {
		d.drop(string(reason))
		return
	}
	if route.Captured {
		record = transform(record, route.Transform)
	}

	c := container(route.Group)
	if route.Persistent {
		c.AppendPersistent(record, color, o.mods)
	} else {
		c.Append(record, color, o.mods, route.Duration)
	}
	d.metrics.recordAppend(route.Group.Kind(), shapes.KindOf[T]())
}

func (d *drawer) Text(position mgl32.Vec3, value string, color shapes.Color, opts ...DrawOption) {
	o := resolveOptions(opts)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}

	if d.router.State() == router.StateCapturingGizmos {
		logger.WarnOnce("debug_text_capture", "debug text cannot be drawn while capturing gizmos, dropping")
		d.drop(DropUnsupported)
		return
	}

	route, reason := d.router.Route(o.duration, o.persistent)
	if reason != router.DropNone {
		d.drop(string(reason))
		return
	}

	record := shape_buffer.TextRecord{
		Position:   position,
		Value:      value,
		Color:      color,
		Background: o.background,
		Camera:     o.camera,
	}
	if route.Persistent {
		route.Group.Text().AppendPersistent(record)
	} else {
		route.Group.Text().Append(record, route.Duration)
	}
	d.metrics.recordAppend(route.Group.Kind(), shapes.KindText)
}

func (d *drawer) drop(reason string) {
	d.dropped[reason]++
	d.metrics.recordDrop(reason)
}

func (d *drawer) OnFrameTick(dt float32) {
	if !(dt > 0) {
		dt = 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}

	d.simTime += float64(dt)
	d.router.BeginFrame(dt, d.simTime)

	res := d.scheduler.Run(dt, d.standard.Buffers(), d.standard.Text())
	for k, n := range res.Removed {
		d.metrics.recordPrune(shapes.Kind(k), n)
	}
	d.metrics.recordPrune(shapes.KindText, res.TextRemoved)
	d.metrics.publish(d.standard)
}

func (d *drawer) BeginFixedStep(fixedDelta float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.router.BeginFixedStep(fixedDelta)
}

func (d *drawer) EndFixedStep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.router.EndFixedStep()
}

func (d *drawer) BeginCapture(transform mgl32.Mat4) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.router.BeginCapture(transform)
}

func (d *drawer) EndCapture() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.router.EndCapture()
}

func (d *drawer) Capture(transform mgl32.Mat4, fn func()) {
	d.BeginCapture(transform)
	defer d.EndCapture()
	fn()
}

func (d *drawer) Render(cam camera.Camera) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return context_group.ErrDisposed
	}

	var errs []error
	for _, g := range []context_group.Group{d.standard, d.capture} {
		stats, err := d.dispatcher.Render(g, cam)
		if err != nil {
			errs = append(errs, fmt.Errorf("render %s group for camera %q: %w", g.Name(), cam.Name(), err))
		}
		for _, s := range stats.Skipped {
			d.metrics.recordSkip(s.Kind, string(s.Reason))
		}
		d.lastDispatch[g.Kind()] = stats
		d.metrics.publish(g)
	}
	d.router.CommitRender()

	return errors.Join(errs...)
}

func (d *drawer) OnModeTransition(mode common.Mode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}

	d.standard.Clear()
	d.capture.Clear()
	d.router.SetIgnore()
	d.metrics.publish(d.standard)
	d.metrics.publish(d.capture)
	logger.Logger().Info().Str("mode", mode.String()).Msg("cleared debug shapes on mode transition")
}

func (d *drawer) Group(kind context_group.GroupKind) context_group.Group {
	switch kind {
	case context_group.GroupStandard:
		return d.standard
	case context_group.GroupCapture:
		return d.capture
	}
	return nil
}

func (d *drawer) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Stats{
		Frame:        d.router.Frame(),
		State:        d.router.State(),
		SimTime:      d.simTime,
		Live:         make(map[context_group.GroupKind]map[shapes.Kind]int, 2),
		Dropped:      make(map[string]int, len(d.dropped)),
		LastDispatch: make(map[context_group.GroupKind]dispatcher.DispatchStats, len(d.lastDispatch)),
	}
	s.Live[context_group.GroupStandard] = d.standard.Counts()
	s.Live[context_group.GroupCapture] = d.capture.Counts()
	for reason, n := range d.dropped {
		s.Dropped[reason] = n
	}
	for kind, ds := range d.lastDispatch {
		s.LastDispatch[kind] = ds
	}
	return s
}

func (d *drawer) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}
	d.disposed = true

	d.standard.Dispose()
	d.capture.Dispose()
	d.dispatcher.Release()
	d.scheduler.Stop()
	logger.Logger().Debug().Uint64("frames", d.router.Frame()).Msg("debug drawer disposed")
}
