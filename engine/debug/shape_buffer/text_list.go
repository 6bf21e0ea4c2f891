package shape_buffer

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/go-gl/mathgl/mgl32"
)

// TextRecord is one debug label anchored at a world position.
type TextRecord struct {
	Position   mgl32.Vec3
	Value      string
	Color      shapes.Color
	Background shapes.Color
	// Camera restricts the label to one camera's pass. Empty shows it in every pass.
	Camera     string
	Lifetime   float32
	Persistent bool
}

func (r *TextRecord) reset() {
	*r = TextRecord{}
}

var textRecordPool = sync.Pool{
	New: func() any { return &TextRecord{} },
}

// TextList keeps debug labels in append order. Unlike Container, removal shifts later records down,
// so on-screen draw order always matches the order the labels were added.
type TextList interface {
	// Append adds a label that expires after lifetime seconds. Negative lifetimes are treated as 0.
	//
	// Parameters:
	//   - record: the label to copy into the list; Lifetime and Persistent are ignored
	//   - lifetime: the remaining lifetime in seconds
	Append(record TextRecord, lifetime float32)

	// AppendPersistent adds a label that stays until Clear.
	//
	// Parameters:
	//   - record: the label to copy into the list
	AppendPersistent(record TextRecord)

	// Prune subtracts dt from every non-persistent lifetime and removes expired labels in place, keeping order.
	// Prune with dt <= 0 changes nothing.
	//
	// Parameters:
	//   - dt: the elapsed time in seconds
	//
	// Returns:
	//   - int: the number of removed labels
	Prune(dt float32) int

	// Clear removes every label and returns them to the pool.
	Clear()

	// Records returns the live labels in draw order. The slice aliases the list.
	//
	// Returns:
	//   - []*TextRecord: the live labels
	Records() []*TextRecord

	// Count returns the number of live labels.
	//
	// Returns:
	//   - int: the live label count
	Count() int

	// Version returns a counter that changes whenever a label is added or removed. Glyphs laid out at one
	// version stay valid until it changes; lifetime updates alone do not change it.
	//
	// Returns:
	//   - uint64: the current version, 0 for a list that never held a label
	Version() uint64

	// HasNonZeroDuration reports whether any live label can still expire.
	//
	// Returns:
	//   - bool: true if Prune can remove labels
	HasNonZeroDuration() bool
}

type textList struct {
	records            []*TextRecord
	version            uint64
	hasNonZeroDuration bool
	tracksDuration     bool
}

var _ TextList = &textList{}

// NewTextList creates an empty TextList.
//
// Parameters:
//   - options: functional options such as WithCapacity and WithoutDurationTracking
//
// Returns:
//   - TextList: the new list
func NewTextList(options ...ContainerBuilderOption) TextList {
	opts := &containerOptions{tracksDuration: true}
	for _, option := range options {
		option(opts)
	}
	return &textList{
		records:        make([]*TextRecord, 0, opts.capacity),
		tracksDuration: opts.tracksDuration,
	}
}

func (l *textList) Append(record TextRecord, lifetime float32) {
	if lifetime < 0 || math.IsNaN(float64(lifetime)) {
		lifetime = 0
	}
	record.Lifetime = lifetime
	record.Persistent = false
	l.push(record)
	if l.tracksDuration {
		l.hasNonZeroDuration = true
	}
}

func (l *textList) AppendPersistent(record TextRecord) {
	record.Lifetime = 0
	record.Persistent = true
	l.push(record)
}

func (l *textList) push(record TextRecord) {
	r := textRecordPool.Get().(*TextRecord)
	*r = record
	l.records = append(l.records, r)
	l.version++
}

func (l *textList) Prune(dt float32) int {
	if dt <= 0 || !l.tracksDuration || len(l.records) == 0 {
		return 0
	}

	finite := false
	w := 0
	for _, r := range l.records {
		if !r.Persistent {
			r.Lifetime -= dt
			if r.Lifetime <= expiryEpsilon {
				r.reset()
				textRecordPool.Put(r)
				continue
			}
			finite = true
		}
		l.records[w] = r
		w++
	}

	removed := len(l.records) - w
	clear(l.records[w:])
	l.records = l.records[:w]
	l.hasNonZeroDuration = finite
	if removed > 0 {
		l.version++
	}
	return removed
}

func (l *textList) Clear() {
	if len(l.records) > 0 {
		l.version++
	}
	for _, r := range l.records {
		r.reset()
		textRecordPool.Put(r)
	}
	clear(l.records)
	l.records = l.records[:0]
	l.hasNonZeroDuration = false
}

func (l *textList) Records() []*TextRecord {
	return l.records
}

func (l *textList) Count() int {
	return len(l.records)
}

func (l *textList) Version() uint64 {
	return l.version
}

func (l *textList) HasNonZeroDuration() bool {
	return l.hasNonZeroDuration
}
