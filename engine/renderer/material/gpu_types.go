package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// ShapeFlagCapture marks params of a capture group draw. Capture records skip distance fading.
const ShapeFlagCapture uint32 = 1 << 0

// GPUShapeParamsSource is the canonical WGSL definition of the ShapeParams struct.
// Matches GPUShapeParams layout exactly (16 bytes, std430 aligned).
//
//go:embed assets/shape_params.wgsl
var GPUShapeParamsSource string

// GPUShapeParams is the per-kind uniform read by the instanced debug shape vertex shaders.
// Slots at or past Count are culled. It carries no per-view data, so one write serves every camera.
// Size: 16 bytes.
type GPUShapeParams struct {
	Count            uint32 // offset  0: live records in the storage buffers
	ShapesPerGroup   uint32 // offset  4: shapes drawn per instance
	VerticesPerShape uint32 // offset  8: mesh vertices per shape
	Flags            uint32 // offset 12: ShapeFlag bits
}

// Size returns the size of the GPUShapeParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUShapeParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUShapeParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUShapeParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], g.Count)
	binary.LittleEndian.PutUint32(buf[4:8], g.ShapesPerGroup)
	binary.LittleEndian.PutUint32(buf[8:12], g.VerticesPerShape)
	binary.LittleEndian.PutUint32(buf[12:16], g.Flags)
	return buf
}

// GPUTextParamsSource is the canonical WGSL definition of the TextParams struct.
// Matches GPUTextParams layout exactly (16 bytes, std430 aligned).
//
//go:embed assets/text_params.wgsl
var GPUTextParamsSource string

// GPUTextParams is the uniform read by the glyph vertex shader.
// Size: 16 bytes.
type GPUTextParams struct {
	Count          uint32     // offset 0: live glyphs
	GlyphsPerGroup uint32     // offset 4: glyph quads drawn per instance
	Viewport       [2]float32 // offset 8: surface size in pixels
}

// Size returns the size of the GPUTextParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUTextParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTextParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUTextParams) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], g.Count)
	binary.LittleEndian.PutUint32(buf[4:8], g.GlyphsPerGroup)
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Viewport[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Viewport[1]))
	return buf
}
