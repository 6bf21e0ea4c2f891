package shapes

import (
	"encoding/binary"
)

// MeshVertexSize is the size of one instance-group mesh vertex: vec2<u32>(slot, vertex).
const MeshVertexSize = 8

// BuildMesh builds the instance-group mesh for kind k.
// Each vertex carries the slot of the shape inside its instance group and the vertex index inside the shape,
// so the vertex shader can pull geometry from the record storage buffer. Indices are sequential.
//
// Parameters:
//   - k: the kind to build the mesh for
//
// Returns:
//   - []byte: the vertex data
//   - []byte: the uint32 index data
//   - int: the number of indices
func BuildMesh(k Kind) ([]byte, []byte, int) {
	info := k.Info()
	n := info.ShapesPerGroup * info.VerticesPerShape

	vertices := make([]byte, n*MeshVertexSize)
	indices := make([]byte, n*4)
	i := 0
	for slot := range info.ShapesPerGroup {
		for v := range info.VerticesPerShape {
			binary.LittleEndian.PutUint32(vertices[i*MeshVertexSize:], uint32(slot))
			binary.LittleEndian.PutUint32(vertices[i*MeshVertexSize+4:], uint32(v))
			binary.LittleEndian.PutUint32(indices[i*4:], uint32(i))
			i++
		}
	}
	return vertices, indices, n
}
