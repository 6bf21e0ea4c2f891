// Package context_group bundles one full set of debug shape containers, the text list and their GPU resources.
package context_group

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shape_buffer"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/Carmen-Shannon/oxy-draw/engine/logger"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/bind_group_provider"
)

// ErrDisposed is returned when a disposed group is asked for GPU resources.
var ErrDisposed = errors.New("context_group: group disposed")

// GroupKind identifies which call context a group serves.
type GroupKind int

const (
	// GroupStandard receives ordinary appends made during the update phase.
	GroupStandard GroupKind = iota
	// GroupCapture receives appends made inside a gizmo capture callback.
	GroupCapture
)

func (k GroupKind) String() string {
	switch k {
	case GroupStandard:
		return "standard"
	case GroupCapture:
		return "capture"
	}
	return fmt.Sprintf("group(%d)", int(k))
}

// KindResources holds the GPU side of one kind in one group.
type KindResources struct {
	// Provider owns the bind group and the storage and params buffers. Its Capacity is the record
	// capacity the storage buffers were allocated for, 0 before the first allocation.
	Provider bind_group_provider.BindGroupProvider
	// Uploads counts record uploads.
	Uploads int
	// Grows counts storage buffer reallocations.
	Grows int
	// TextVersion is the text list version whose glyphs the buffers hold. Text resources only.
	TextVersion uint64
	// Glyphs is the glyph count uploaded at TextVersion. Text resources only.
	Glyphs int
}

// Group owns one container per instanced kind, the ordered text list and the lazily created GPU resources
// that mirror them. Groups are cleared on mode transitions and disposed once at teardown.
type Group interface {
	// Kind returns the call context the group serves.
	//
	// Returns:
	//   - GroupKind: the group kind
	Kind() GroupKind

	// Name returns the label used in logs and GPU resource labels.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Lines returns the container of line segments.
	//
	// Returns:
	//   - shape_buffer.Container[shapes.Line]: the line container
	Lines() shape_buffer.Container[shapes.Line]

	// DashedLines returns the container of dashed line segments.
	//
	// Returns:
	//   - shape_buffer.Container[shapes.DashedLine]: the dashedLine container
	DashedLines() shape_buffer.Container[shapes.DashedLine]

	// Arcs returns the container of arcs.
	//
	// Returns:
	//   - shape_buffer.Container[shapes.Arc]: the arc container
	Arcs() shape_buffer.Container[shapes.Arc]

	// Boxes returns the container of oriented boxes.
	//
	// Returns:
	//   - shape_buffer.Container[shapes.Box]: the box container
	Boxes() shape_buffer.Container[shapes.Box]

	// Outlines returns the container of capsule outlines.
	//
	// Returns:
	//   - shape_buffer.Container[shapes.Outline]: the outline container
	Outlines() shape_buffer.Container[shapes.Outline]

	// Casts returns the container of box casts.
	//
	// Returns:
	//   - shape_buffer.Container[shapes.Cast]: the cast container
	Casts() shape_buffer.Container[shapes.Cast]

	// Text returns the ordered list of labels.
	//
	// Returns:
	//   - shape_buffer.TextList: the label list
	Text() shape_buffer.TextList

	// Buffer returns the container of an instanced kind through its kind-agnostic view.
	// It panics when k is not an instanced kind.
	//
	// Parameters:
	//   - k: the kind
	//
	// Returns:
	//   - shape_buffer.Buffer: the container
	Buffer(k shapes.Kind) shape_buffer.Buffer

	// Buffers returns every instanced container, indexed by kind.
	//
	// Returns:
	//   - []shape_buffer.Buffer: the containers
	Buffers() []shape_buffer.Buffer

	// Resources returns the GPU resources of an instanced kind, nil before the first ReadyResources.
	//
	// Parameters:
	//   - k: the kind
	//
	// Returns:
	//   - *KindResources: the resources
	Resources(k shapes.Kind) *KindResources

	// TextResources returns the glyph resources used when drawing the text list for one camera,
	// creating them on first use. Labels are filtered per camera, so each camera lays out its own glyphs.
	//
	// Parameters:
	//   - camera: the camera name
	//
	// Returns:
	//   - *KindResources: the resources
	TextResources(camera string) *KindResources

	// Clear removes every shape and label. GPU resources are kept.
	Clear()

	// ReadyResources prepares the group for one render pass. It creates the per-kind resources on first use
	// and returns cl reset, or a pooled command list when cl is nil.
	//
	// Parameters:
	//   - cl: the command list of the previous pass, may be nil
	//
	// Returns:
	//   - *CommandList: the empty command list to batch this pass's draws into
	//   - error: ErrDisposed after Dispose
	ReadyResources(cl *CommandList) (*CommandList, error)

	// Dispose releases every GPU resource and empties the containers. The group is unusable afterwards.
	Dispose()

	// Disposed reports whether Dispose was called.
	Disposed() bool

	// Counts returns the live count per kind, including KindText.
	//
	// Returns:
	//   - map[shapes.Kind]int: live counts
	Counts() map[shapes.Kind]int
}

type group struct {
	mu *sync.Mutex

	kind GroupKind
	name string

	capacity     int
	textCapacity int

	lines       shape_buffer.Container[shapes.Line]
	dashedLines shape_buffer.Container[shapes.DashedLine]
	arcs        shape_buffer.Container[shapes.Arc]
	boxes       shape_buffer.Container[shapes.Box]
	outlines    shape_buffer.Container[shapes.Outline]
	casts       shape_buffer.Container[shapes.Cast]
	text        shape_buffer.TextList
	buffers     []shape_buffer.Buffer

	resources     []*KindResources
	textResources map[string]*KindResources

	disposed bool
}

var _ Group = &group{}

// NewGroup creates an empty group. Capture groups hold no lifetimes: they are cleared wholesale at the start of
// every capture instead of pruned.
//
// Parameters:
//   - kind: the call context the group serves
//   - options: functional options such as WithCapacity
//
// Returns:
//   - Group: the new group
func NewGroup(kind GroupKind, options ...GroupBuilderOption) Group {
	g := &group{
		mu:            &sync.Mutex{},
		kind:          kind,
		name:          kind.String(),
		capacity:      64,
		textCapacity:  16,
		textResources: make(map[string]*KindResources),
	}
	for _, opt := range options {
		opt(g)
	}

	containerOpts := []shape_buffer.ContainerBuilderOption{shape_buffer.WithCapacity(g.capacity)}
	textOpts := []shape_buffer.ContainerBuilderOption{shape_buffer.WithCapacity(g.textCapacity)}
	if kind == GroupCapture {
		containerOpts = append(containerOpts, shape_buffer.WithoutDurationTracking())
		textOpts = append(textOpts, shape_buffer.WithoutDurationTracking())
	}

	g.lines = shape_buffer.New[shapes.Line](containerOpts...)
	g.dashedLines = shape_buffer.New[shapes.DashedLine](containerOpts...)
	g.arcs = shape_buffer.New[shapes.Arc](containerOpts...)
	g.boxes = shape_buffer.New[shapes.Box](containerOpts...)
	g.outlines = shape_buffer.New[shapes.Outline](containerOpts...)
	g.casts = shape_buffer.New[shapes.Cast](containerOpts...)
	g.text = shape_buffer.NewTextList(textOpts...)

	g.buffers = make([]shape_buffer.Buffer, shapes.InstancedKindCount)
	g.buffers[shapes.KindLine] = g.lines
	g.buffers[shapes.KindDashedLine] = g.dashedLines
	g.buffers[shapes.KindArc] = g.arcs
	g.buffers[shapes.KindBox] = g.boxes
	g.buffers[shapes.KindOutline] = g.outlines
	g.buffers[shapes.KindCast] = g.casts

	g.resources = make([]*KindResources, shapes.InstancedKindCount)
	return g
}

func (g *group) Kind() GroupKind {
	return g.kind
}

func (g *group) Name() string {
	return g.name
}

func (g *group) Lines() shape_buffer.Container[shapes.Line] {
	return g.lines
}

func (g *group) DashedLines() shape_buffer.Container[shapes.DashedLine] {
	return g.dashedLines
}

func (g *group) Arcs() shape_buffer.Container[shapes.Arc] {
	return g.arcs
}

func (g *group) Boxes() shape_buffer.Container[shapes.Box] {
	return g.boxes
}

func (g *group) Outlines() shape_buffer.Container[shapes.Outline] {
	return g.outlines
}

func (g *group) Casts() shape_buffer.Container[shapes.Cast] {
	return g.casts
}

func (g *group) Text() shape_buffer.TextList {
	return g.text
}

func (g *group) Buffer(k shapes.Kind) shape_buffer.Buffer {
	if !k.Instanced() {
		panic(fmt.Sprintf("context_group: kind %s has no container", k))
	}
	return g.buffers[k]
}

func (g *group) Buffers() []shape_buffer.Buffer {
	return g.buffers
}

func (g *group) Resources(k shapes.Kind) *KindResources {
	if !k.Instanced() {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resources[k]
}

func (g *group) TextResources(camera string) *KindResources {
	g.mu.Lock()
	defer g.mu.Unlock()

	res, ok := g.textResources[camera]
	if !ok {
		res = &KindResources{
			Provider: bind_group_provider.NewBindGroupProvider(fmt.Sprintf("debug_%s_text_%s", g.name, camera)),
		}
		g.textResources[camera] = res
	}
	return res
}

func (g *group) Clear() {
	for _, b := range g.buffers {
		b.Clear()
	}
	g.text.Clear()
}

func (g *group) ReadyResources(cl *CommandList) (*CommandList, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		return cl, ErrDisposed
	}

	for _, k := range shapes.InstancedKinds() {
		if g.resources[k] != nil {
			continue
		}
		g.resources[k] = &KindResources{
			Provider: bind_group_provider.NewBindGroupProvider(fmt.Sprintf("debug_%s_%s", g.name, k)),
		}
	}

	if cl == nil {
		cl = AcquireCommandList()
	} else {
		cl.Reset()
	}
	cl.group = g.kind
	return cl, nil
}

func (g *group) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.disposed {
		return
	}
	g.disposed = true

	released := 0
	for i, res := range g.resources {
		if res == nil {
			continue
		}
		res.Provider.Release()
		g.resources[i] = nil
		released++
	}
	for camera, res := range g.textResources {
		res.Provider.Release()
		delete(g.textResources, camera)
		released++
	}

	for _, b := range g.buffers {
		b.Clear()
	}
	g.text.Clear()

	logger.Logger().Debug().Str("group", g.name).Int("providers", released).Msg("disposed debug draw group")
}

func (g *group) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}

func (g *group) Counts() map[shapes.Kind]int {
	counts := make(map[shapes.Kind]int, len(g.buffers)+1)
	for k, b := range g.buffers {
		counts[shapes.Kind(k)] = b.Count()
	}
	counts[shapes.KindText] = g.text.Count()
	return counts
}
