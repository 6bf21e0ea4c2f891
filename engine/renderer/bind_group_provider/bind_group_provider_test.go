package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("debug_line_standard", WithCapacity(64), WithIndexCount(256))
	assert.Equal(t, "debug_line_standard", p.Label())
	assert.Equal(t, 64, p.Capacity())
	assert.Equal(t, 256, p.IndexCount())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(2))
	assert.Nil(t, p.Sampler(3))
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())
}

func TestBindGroupProvider_ReleaseEmpty(t *testing.T) {
	p := NewBindGroupProvider("empty", WithCapacity(8), WithIndexCount(6))
	p.SetCapacity(16)
	assert.Equal(t, 16, p.Capacity())

	p.ReleaseBuffers()
	assert.Equal(t, 0, p.Capacity())
	assert.Equal(t, 6, p.IndexCount())

	p.Release()
	assert.Equal(t, 0, p.IndexCount())
	assert.Nil(t, p.BindGroup())
}

func TestBufferWrite_Size(t *testing.T) {
	w := BufferWrite{Binding: 1, Data: make([]byte, 48)}
	assert.Equal(t, 48, w.Size())
}
