// Package shapes defines the debug shape kinds, their fixed-layout GPU records and the per-kind instance-group meshes.
package shapes

import "fmt"

// Kind identifies one category of debug primitive.
type Kind uint8

const (
	KindLine Kind = iota
	KindDashedLine
	KindArc
	KindBox
	KindOutline
	KindCast
	// KindText is kept out of the instanced range; text is laid out on the CPU and drawn as glyph quads.
	KindText
)

// InstancedKindCount is the number of kinds stored in swap-compacted containers.
const InstancedKindCount = int(KindText)

// KindInfo describes how a kind is stored and drawn.
type KindInfo struct {
	// Name is the lower-case name used in logs, metrics and pipeline keys.
	Name string
	// VerticesPerShape is the number of mesh vertices one shape occupies.
	VerticesPerShape int
	// ShapesPerGroup is the number of shapes one GPU instance draws.
	ShapesPerGroup int
	// RecordSize is the size in bytes of one GPU record.
	RecordSize int
}

var kindInfos = [...]KindInfo{
	KindLine:       {Name: "line", VerticesPerShape: 2, ShapesPerGroup: 128, RecordSize: 32},
	KindDashedLine: {Name: "dashed_line", VerticesPerShape: 2, ShapesPerGroup: 128, RecordSize: 32},
	KindArc:        {Name: "arc", VerticesPerShape: 2 * ArcSegments, ShapesPerGroup: 4, RecordSize: 80},
	KindBox:        {Name: "box", VerticesPerShape: 24, ShapesPerGroup: 8, RecordSize: 64},
	KindOutline:    {Name: "outline", VerticesPerShape: 4, ShapesPerGroup: 64, RecordSize: 32},
	KindCast:       {Name: "cast", VerticesPerShape: 40, ShapesPerGroup: 4, RecordSize: 80},
	KindText:       {Name: "text", VerticesPerShape: 6, ShapesPerGroup: 64, RecordSize: 80},
}

// ArcSegments is the number of line segments an arc is tessellated into.
const ArcSegments = 32

// InstancedKinds returns every kind drawn from a swap-compacted container, in draw order.
//
// Returns:
//   - []Kind: the instanced kinds
func InstancedKinds() []Kind {
	return []Kind{KindLine, KindDashedLine, KindArc, KindBox, KindOutline, KindCast}
}

// Valid reports whether k names a known kind.
func (k Kind) Valid() bool {
	return k <= KindText
}

// Instanced reports whether k is stored in a swap-compacted container.
func (k Kind) Instanced() bool {
	return k < KindText
}

// Info returns the storage and draw layout of k.
// It panics when k is not a valid kind.
//
// Returns:
//   - KindInfo: the layout of the kind
func (k Kind) Info() KindInfo {
	if !k.Valid() {
		panic(fmt.Sprintf("shapes: invalid kind %d", k))
	}
	return kindInfos[k]
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", k)
	}
	return kindInfos[k].Name
}
