package bind_group_provider

// BufferWrite describes a single GPU buffer write targeting a binding on a BindGroupProvider at a byte offset.
// Writes are staged by callers and submitted together through Renderer.WriteBuffers.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Size returns the number of bytes the write covers.
func (w BufferWrite) Size() int {
	return len(w.Data)
}
