package shapes

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPULineRecordSource is the canonical WGSL definition of the LineRecord struct.
// Matches Line layout exactly (32 bytes, std430 aligned).
//
//go:embed assets/line_record.wgsl
var GPULineRecordSource string

// GPUDashedLineRecordSource is the canonical WGSL definition of the DashedLineRecord struct.
// Matches DashedLine layout exactly (32 bytes, std430 aligned).
//
//go:embed assets/dashed_line_record.wgsl
var GPUDashedLineRecordSource string

// GPUArcRecordSource is the canonical WGSL definition of the ArcRecord struct.
// Matches Arc layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/arc_record.wgsl
var GPUArcRecordSource string

// GPUBoxRecordSource is the canonical WGSL definition of the BoxRecord struct.
// Matches Box layout exactly (64 bytes, std430 aligned).
//
//go:embed assets/box_record.wgsl
var GPUBoxRecordSource string

// GPUOutlineRecordSource is the canonical WGSL definition of the OutlineRecord struct.
// Matches Outline layout exactly (32 bytes, std430 aligned).
//
//go:embed assets/outline_record.wgsl
var GPUOutlineRecordSource string

// GPUCastRecordSource is the canonical WGSL definition of the CastRecord struct.
// Matches Cast layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/cast_record.wgsl
var GPUCastRecordSource string

// GPUGlyphSource is the canonical WGSL definition of the Glyph struct.
// Matches Glyph layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/glyph.wgsl
var GPUGlyphSource string

// RecordSource returns the canonical WGSL struct definition for the records of kind k.
//
// Returns:
//   - string: the WGSL source
func RecordSource(k Kind) string {
	switch k {
	case KindLine:
		return GPULineRecordSource
	case KindDashedLine:
		return GPUDashedLineRecordSource
	case KindArc:
		return GPUArcRecordSource
	case KindBox:
		return GPUBoxRecordSource
	case KindOutline:
		return GPUOutlineRecordSource
	case KindCast:
		return GPUCastRecordSource
	case KindText:
		return GPUGlyphSource
	}
	panic("shapes: invalid kind " + k.String())
}

// Size returns the size of the Line struct in bytes.
func (l *Line) Size() int {
	return int(unsafe.Sizeof(*l))
}

// Marshal serializes the Line struct into a byte buffer suitable for GPU upload.
func (l *Line) Marshal() []byte {
	buf := make([]byte, l.Size())
	putVec3(buf, 0, l.A)
	putVec3(buf, 16, l.B)
	return buf
}

// Size returns the size of the DashedLine struct in bytes.
func (d *DashedLine) Size() int {
	return int(unsafe.Sizeof(*d))
}

// Marshal serializes the DashedLine struct into a byte buffer suitable for GPU upload.
func (d *DashedLine) Marshal() []byte {
	buf := make([]byte, d.Size())
	putVec3(buf, 0, d.A)
	putFloat(buf, 12, d.DashLength)
	putVec3(buf, 16, d.B)
	putFloat(buf, 28, d.GapLength)
	return buf
}

// Size returns the size of the Arc struct in bytes.
func (a *Arc) Size() int {
	return int(unsafe.Sizeof(*a))
}

// Marshal serializes the Arc struct into a byte buffer suitable for GPU upload.
func (a *Arc) Marshal() []byte {
	buf := make([]byte, a.Size())
	putMat4(buf, 0, a.Matrix)
	putFloat(buf, 64, a.Angle)
	return buf
}

// Size returns the size of the Box struct in bytes.
func (b *Box) Size() int {
	return int(unsafe.Sizeof(*b))
}

// Marshal serializes the Box struct into a byte buffer suitable for GPU upload.
func (b *Box) Marshal() []byte {
	buf := make([]byte, b.Size())
	putMat4(buf, 0, b.Matrix)
	return buf
}

// Size returns the size of the Outline struct in bytes.
func (o *Outline) Size() int {
	return int(unsafe.Sizeof(*o))
}

// Marshal serializes the Outline struct into a byte buffer suitable for GPU upload.
func (o *Outline) Marshal() []byte {
	buf := make([]byte, o.Size())
	putVec3(buf, 0, o.A)
	putFloat(buf, 12, o.Radius)
	putVec3(buf, 16, o.B)
	return buf
}

// Size returns the size of the Cast struct in bytes.
func (c *Cast) Size() int {
	return int(unsafe.Sizeof(*c))
}

// Marshal serializes the Cast struct into a byte buffer suitable for GPU upload.
func (c *Cast) Marshal() []byte {
	buf := make([]byte, c.Size())
	putMat4(buf, 0, c.Matrix)
	putVec3(buf, 64, c.Direction)
	return buf
}

// Glyph is one laid-out text character, drawn as a screen-aligned quad anchored at a world position.
// Matches the WGSL Glyph struct layout exactly (see GPUGlyphSource).
// Size: 80 bytes (std430 aligned).
type Glyph struct {
	Anchor     mgl32.Vec3 // offset  0: world-space anchor of the text block
	Scale      float32    // offset 12: pixel scale applied to Offset and Extent
	Offset     [2]float32 // offset 16: top-left of the glyph cell relative to the anchor, in pixels
	Extent     [2]float32 // offset 24: glyph cell size in pixels
	UVMin      [2]float32 // offset 32: atlas coordinates of the cell's top-left
	UVMax      [2]float32 // offset 40: atlas coordinates of the cell's bottom-right
	Color      Color      // offset 48: foreground color
	Background Color      // offset 64: cell background color, transparent for none
}

// Size returns the size of the Glyph struct in bytes.
func (g *Glyph) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the Glyph struct into a byte buffer suitable for GPU upload.
func (g *Glyph) Marshal() []byte {
	buf := make([]byte, g.Size())
	putVec3(buf, 0, g.Anchor)
	putFloat(buf, 12, g.Scale)
	putFloats(buf, 16, g.Offset[:]...)
	putFloats(buf, 24, g.Extent[:]...)
	putFloats(buf, 32, g.UVMin[:]...)
	putFloats(buf, 40, g.UVMax[:]...)
	putFloats(buf, 48, g.Color[:]...)
	putFloats(buf, 64, g.Background[:]...)
	return buf
}

func putFloat(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func putFloats(buf []byte, off int, vs ...float32) {
	for i, v := range vs {
		putFloat(buf, off+i*4, v)
	}
}

func putVec3(buf []byte, off int, v mgl32.Vec3) {
	putFloats(buf, off, v[:]...)
}

func putMat4(buf []byte, off int, m mgl32.Mat4) {
	putFloats(buf, off, m[:]...)
}
