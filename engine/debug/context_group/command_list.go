package context_group

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-draw/engine/debug/shapes"
	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/bind_group_provider"
)

// DrawItem is one instanced draw batched for a render pass.
type DrawItem struct {
	Kind          shapes.Kind
	PipelineKey   string
	Mesh          bind_group_provider.BindGroupProvider
	Resources     bind_group_provider.BindGroupProvider
	InstanceCount uint32
}

// CommandList batches the draws of one group for one render pass. Lists are pooled so their item slices
// are reused across frames.
type CommandList struct {
	group GroupKind
	items []DrawItem
}

var commandListPool = sync.Pool{New: func() any { return &CommandList{} }}

// AcquireCommandList returns an empty command list from the pool.
func AcquireCommandList() *CommandList {
	cl := commandListPool.Get().(*CommandList)
	cl.Reset()
	return cl
}

// Group returns the kind of the group the list was readied for.
func (cl *CommandList) Group() GroupKind {
	return cl.group
}

// Reset empties the list, keeping its storage.
func (cl *CommandList) Reset() {
	clear(cl.items)
	cl.items = cl.items[:0]
}

// Add appends a draw. Items with zero instances are ignored.
func (cl *CommandList) Add(item DrawItem) {
	if item.InstanceCount == 0 {
		return
	}
	cl.items = append(cl.items, item)
}

// Items returns the batched draws in insertion order. The slice aliases the list.
func (cl *CommandList) Items() []DrawItem {
	return cl.items
}

// Len returns the number of batched draws.
func (cl *CommandList) Len() int {
	return len(cl.items)
}

// InstanceTotal returns the sum of instance counts over every batched draw.
func (cl *CommandList) InstanceTotal() int {
	n := 0
	for _, item := range cl.items {
		n += int(item.InstanceCount)
	}
	return n
}

// Release resets the list and returns it to the pool. The list must not be used afterwards.
func (cl *CommandList) Release() {
	cl.Reset()
	commandListPool.Put(cl)
}
