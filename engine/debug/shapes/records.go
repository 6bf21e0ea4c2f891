package shapes

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Record is the set of fixed-layout payloads stored in swap-compacted containers, one type per instanced kind.
type Record interface {
	Line | DashedLine | Arc | Box | Outline | Cast
}

// KindOf returns the kind whose payload type is T.
//
// Returns:
//   - Kind: the kind of T
func KindOf[T Record]() Kind {
	var zero T
	switch any(zero).(type) {
	case Line:
		return KindLine
	case DashedLine:
		return KindDashedLine
	case Arc:
		return KindArc
	case Box:
		return KindBox
	case Outline:
		return KindOutline
	default:
		return KindCast
	}
}

// Line is a single world-space segment from A to B.
type Line struct {
	A     mgl32.Vec3 // offset  0
	_pad0 float32    // offset 12
	B     mgl32.Vec3 // offset 16
	_pad1 float32    // offset 28
}

// NewLine builds a Line from a to b.
func NewLine(a, b mgl32.Vec3) Line {
	return Line{A: a, B: b}
}

// Transformed returns the line with both endpoints moved by m.
func (l Line) Transformed(m mgl32.Mat4) Line {
	return Line{A: transformPoint(m, l.A), B: transformPoint(m, l.B)}
}

// DashedLine is a segment from A to B drawn as alternating dashes and gaps measured in world units.
type DashedLine struct {
	A          mgl32.Vec3 // offset  0
	DashLength float32    // offset 12
	B          mgl32.Vec3 // offset 16
	GapLength  float32    // offset 28
}

// NewDashedLine builds a DashedLine from a to b.
func NewDashedLine(a, b mgl32.Vec3, dash, gap float32) DashedLine {
	return DashedLine{A: a, DashLength: dash, B: b, GapLength: gap}
}

// Transformed returns the dashed line with both endpoints moved by m. Dash and gap lengths follow the uniform scale of m.
func (d DashedLine) Transformed(m mgl32.Mat4) DashedLine {
	s := maxScale(m)
	return DashedLine{
		A:          transformPoint(m, d.A),
		DashLength: d.DashLength * s,
		B:          transformPoint(m, d.B),
		GapLength:  d.GapLength * s,
	}
}

// Arc is a unit-radius arc in the local XY plane of Matrix, sweeping from the local +X axis by Angle radians.
type Arc struct {
	Matrix mgl32.Mat4 // offset  0
	Angle  float32    // offset 64
	_pad   [3]float32 // offset 68
}

// NewArc builds an arc of the given radius centred at center, oriented by rotation.
func NewArc(center mgl32.Vec3, rotation mgl32.Quat, radius, angle float32) Arc {
	m := mgl32.Translate3D(center.X(), center.Y(), center.Z()).
		Mul4(rotation.Mat4()).
		Mul4(mgl32.Scale3D(radius, radius, radius))
	return Arc{Matrix: m, Angle: angle}
}

// Transformed returns the arc with its matrix pre-multiplied by m.
func (a Arc) Transformed(m mgl32.Mat4) Arc {
	return Arc{Matrix: m.Mul4(a.Matrix), Angle: a.Angle}
}

// Box is the unit cube centred at the origin of Matrix, drawn as its 12 edges.
type Box struct {
	Matrix mgl32.Mat4 // offset 0
}

// NewBox builds a box from its centre, full size and rotation.
func NewBox(center, size mgl32.Vec3, rotation mgl32.Quat) Box {
	return Box{Matrix: trs(center, rotation, size)}
}

// Transformed returns the box with its matrix pre-multiplied by m.
func (b Box) Transformed(m mgl32.Mat4) Box {
	return Box{Matrix: m.Mul4(b.Matrix)}
}

// Outline is the view-facing silhouette of a capsule between A and B with the given radius.
type Outline struct {
	A      mgl32.Vec3 // offset  0
	Radius float32    // offset 12
	B      mgl32.Vec3 // offset 16
	_pad   float32    // offset 28
}

// NewOutline builds an outline between a and b.
func NewOutline(a, b mgl32.Vec3, radius float32) Outline {
	return Outline{A: a, Radius: radius, B: b}
}

// Transformed returns the outline moved by m with its radius scaled by the largest axis scale of m.
func (o Outline) Transformed(m mgl32.Mat4) Outline {
	return Outline{A: transformPoint(m, o.A), Radius: o.Radius * maxScale(m), B: transformPoint(m, o.B)}
}

// Cast is a box at Matrix swept along Direction: the end box plus the edges joining each start corner to its end corner.
type Cast struct {
	Matrix    mgl32.Mat4 // offset  0
	Direction mgl32.Vec3 // offset 64
	_pad      float32    // offset 76
}

// NewCast builds a cast of a box with the given centre, size and rotation swept along direction.
func NewCast(center, size mgl32.Vec3, rotation mgl32.Quat, direction mgl32.Vec3) Cast {
	return Cast{Matrix: trs(center, rotation, size), Direction: direction}
}

// Transformed returns the cast with its matrix pre-multiplied by m and its direction rotated and scaled by m.
func (c Cast) Transformed(m mgl32.Mat4) Cast {
	return Cast{Matrix: m.Mul4(c.Matrix), Direction: m.Mul4x1(c.Direction.Vec4(0)).Vec3()}
}

func trs(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t.X(), t.Y(), t.Z()).
		Mul4(r.Mat4()).
		Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
}

func transformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// maxScale returns the length of the longest basis vector of m.
func maxScale(m mgl32.Mat4) float32 {
	s := max(m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len())
	if math.IsNaN(float64(s)) {
		return 1
	}
	return s
}
