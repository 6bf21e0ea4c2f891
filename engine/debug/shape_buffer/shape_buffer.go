// Package shape_buffer provides the CPU-side stores debug shapes live in between their append and their expiry.
package shape_buffer

import (
	"math"

	"github.com/Carmen-Shannon/oxy-draw/common"
	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
)

// expiryEpsilon absorbs float32 rounding so a record whose summed prune steps reach its duration is removed.
const expiryEpsilon = 1e-6

// Buffer is the kind-agnostic view of a Container used by the expiry scheduler, the context groups and the dispatcher.
type Buffer interface {
	// Kind returns the shape kind stored in the buffer.
	//
	// Returns:
	//   - shapes.Kind: the stored kind
	Kind() shapes.Kind

	// Count returns the number of live records. Records [0, Count) are live.
	//
	// Returns:
	//   - int: the live record count
	Count() int

	// Capacity returns the number of records the buffer can hold without growing.
	//
	// Returns:
	//   - int: the allocated capacity
	Capacity() int

	// Dirty reports whether records changed since the last MarkClean.
	//
	// Returns:
	//   - bool: true if the GPU copy is stale
	Dirty() bool

	// MarkClean clears the dirty flag after an upload.
	MarkClean()

	// HasNonZeroDuration reports whether any live record can still expire.
	// Prune is only scheduled for buffers where this is true.
	//
	// Returns:
	//   - bool: true if at least one live record has a finite lifetime
	HasNonZeroDuration() bool

	// TracksDuration reports whether the buffer expires records at all.
	// Buffers built WithoutDurationTracking keep every record until Clear.
	//
	// Returns:
	//   - bool: true if Prune can remove records
	TracksDuration() bool

	// Clear removes every record without releasing capacity.
	Clear()

	// Prune subtracts dt from every remaining lifetime and removes records whose lifetime reached zero,
	// filling each freed slot with the last live record. Prune with dt <= 0 changes nothing.
	//
	// Parameters:
	//   - dt: the elapsed time in seconds
	//
	// Returns:
	//   - int: the number of removed records
	Prune(dt float32) int

	// RecordSize returns the size of one record in bytes.
	//
	// Returns:
	//   - int: the record size
	RecordSize() int

	// RecordBytes returns a view of the live records for GPU upload.
	// The view shares memory with the buffer and is only valid until the next mutation.
	//
	// Returns:
	//   - []byte: the bytes of records [0, Count)
	RecordBytes() []byte

	// ColorBytes returns a view of the live colors for GPU upload.
	//
	// Returns:
	//   - []byte: the bytes of colors [0, Count)
	ColorBytes() []byte

	// ModificationBytes returns a view of the live modification flags for GPU upload.
	//
	// Returns:
	//   - []byte: the bytes of flags [0, Count)
	ModificationBytes() []byte
}

// Container stores the records of one instanced kind as parallel arrays: payloads, colors, modification flags
// and remaining lifetimes. Removal is swap-with-last, so indices are only stable until the next Prune.
type Container[T shapes.Record] interface {
	Buffer

	// Append adds a record that expires after lifetime seconds. A lifetime of 0 lasts until the next
	// Prune with a positive dt; negative lifetimes are treated as 0.
	//
	// Parameters:
	//   - record: the shape payload
	//   - color: the shape color
	//   - mods: the shape's modification flags
	//   - lifetime: the remaining lifetime in seconds
	Append(record T, color shapes.Color, mods shapes.Modifications, lifetime float32)

	// AppendPersistent adds a record that never expires and is only removed by Clear.
	//
	// Parameters:
	//   - record: the shape payload
	//   - color: the shape color
	//   - mods: the shape's modification flags
	AppendPersistent(record T, color shapes.Color, mods shapes.Modifications)

	// Records returns the live payloads. The slice aliases the container.
	//
	// Returns:
	//   - []T: records [0, Count)
	Records() []T

	// Colors returns the live colors. The slice aliases the container.
	//
	// Returns:
	//   - []shapes.Color: colors [0, Count)
	Colors() []shapes.Color

	// Modifications returns the live modification flags. The slice aliases the container.
	//
	// Returns:
	//   - []shapes.Modifications: flags [0, Count)
	Modifications() []shapes.Modifications

	// Lifetimes returns the remaining lifetimes. Persistent records report +Inf.
	//
	// Returns:
	//   - []float32: lifetimes [0, Count)
	Lifetimes() []float32
}

type container[T shapes.Record] struct {
	kind shapes.Kind

	records       []T
	colors        []shapes.Color
	modifications []shapes.Modifications
	lifetimes     []float32
	count         int

	dirty              bool
	hasNonZeroDuration bool
	tracksDuration     bool
}

var _ Container[shapes.Line] = &container[shapes.Line]{}

// New creates a Container for the record type T.
//
// Parameters:
//   - options: functional options such as WithCapacity and WithoutDurationTracking
//
// Returns:
//   - Container[T]: the new, empty container
func New[T shapes.Record](options ...ContainerBuilderOption) Container[T] {
	opts := &containerOptions{tracksDuration: true}
	for _, option := range options {
		option(opts)
	}

	c := &container[T]{
		kind:           shapes.KindOf[T](),
		tracksDuration: opts.tracksDuration,
	}
	if opts.capacity > 0 {
		c.grow(opts.capacity)
	}
	return c
}

func (c *container[T]) Kind() shapes.Kind {
	return c.kind
}

func (c *container[T]) Count() int {
	return c.count
}

func (c *container[T]) Capacity() int {
	return len(c.records)
}

func (c *container[T]) Dirty() bool {
	return c.dirty
}

func (c *container[T]) MarkClean() {
	c.dirty = false
}

func (c *container[T]) HasNonZeroDuration() bool {
	return c.hasNonZeroDuration
}

func (c *container[T]) TracksDuration() bool {
	return c.tracksDuration
}

func (c *container[T]) RecordSize() int {
	return c.kind.Info().RecordSize
}

func (c *container[T]) Append(record T, color shapes.Color, mods shapes.Modifications, lifetime float32) {
	if lifetime < 0 || math.IsNaN(float64(lifetime)) {
		lifetime = 0
	}
	c.push(record, color, mods, lifetime)
}

func (c *container[T]) AppendPersistent(record T, color shapes.Color, mods shapes.Modifications) {
	c.push(record, color, mods, float32(math.Inf(1)))
}

func (c *container[T]) push(record T, color shapes.Color, mods shapes.Modifications, lifetime float32) {
	if c.count == len(c.records) {
		c.grow(c.count + 1)
	}
	i := c.count
	c.records[i] = record
	c.colors[i] = color
	c.modifications[i] = mods
	c.lifetimes[i] = lifetime
	c.count++

	c.dirty = true
	if c.tracksDuration && !math.IsInf(float64(lifetime), 1) {
		c.hasNonZeroDuration = true
	}
}

// grow reallocates every array to hold at least needed records, preserving live data.
func (c *container[T]) grow(needed int) {
	newCap := common.GrowCapacity(len(c.records), needed)
	if newCap == len(c.records) {
		return
	}
	c.records = growSlice(c.records, c.count, newCap)
	c.colors = growSlice(c.colors, c.count, newCap)
	c.modifications = growSlice(c.modifications, c.count, newCap)
	c.lifetimes = growSlice(c.lifetimes, c.count, newCap)
}

func growSlice[E any](s []E, live, newCap int) []E {
	next := make([]E, newCap)
	copy(next, s[:live])
	return next
}

func (c *container[T]) Clear() {
	if c.count > 0 {
		c.dirty = true
	}
	c.count = 0
	c.hasNonZeroDuration = false
}

func (c *container[T]) Prune(dt float32) int {
	if dt <= 0 || !c.tracksDuration || c.count == 0 {
		return 0
	}

	removed := 0
	finite := false
	// Walking back to front means the element swapped into slot i has already been visited.
	for i := c.count - 1; i >= 0; i-- {
		c.lifetimes[i] -= dt
		if c.lifetimes[i] > expiryEpsilon {
			if !math.IsInf(float64(c.lifetimes[i]), 1) {
				finite = true
			}
			continue
		}
		last := c.count - 1
		if i != last {
			c.records[i] = c.records[last]
			c.colors[i] = c.colors[last]
			c.modifications[i] = c.modifications[last]
			c.lifetimes[i] = c.lifetimes[last]
		}
		var zero T
		c.records[last] = zero
		c.count--
		removed++
	}

	c.hasNonZeroDuration = finite
	if removed > 0 {
		c.dirty = true
	}
	return removed
}

func (c *container[T]) Records() []T {
	return c.records[:c.count]
}

func (c *container[T]) Colors() []shapes.Color {
	return c.colors[:c.count]
}

func (c *container[T]) Modifications() []shapes.Modifications {
	return c.modifications[:c.count]
}

func (c *container[T]) Lifetimes() []float32 {
	return c.lifetimes[:c.count]
}

func (c *container[T]) RecordBytes() []byte {
	return common.SliceToBytes(c.records[:c.count])
}

func (c *container[T]) ColorBytes() []byte {
	return common.SliceToBytes(c.colors[:c.count])
}

func (c *container[T]) ModificationBytes() []byte {
	return common.SliceToBytes(c.modifications[:c.count])
}
