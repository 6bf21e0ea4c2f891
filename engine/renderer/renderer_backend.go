package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend the Renderer drives.
type RendererBackendType int

const (
	// BackendTypeWGPU draws through cogentcore/webgpu.
	BackendTypeWGPU RendererBackendType = iota
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return fmt.Sprintf("backend(%d)", int(t))
	}
}

// PresentMode controls how finished debug frames reach the surface.
type PresentMode int

const (
	// PresentModeVSync presents on the next vertical blank, so the frame loop runs at the display rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. Tearing is possible.
	PresentModeUncapped
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return fmt.Sprintf("present_mode(%d)", int(m))
	}
}

// surfaceMode maps m onto the wgpu present mode. Unknown modes present immediately.
func (m PresentMode) surfaceMode() wgpu.PresentMode {
	if m == PresentModeVSync {
		return wgpu.PresentModeFifo
	}
	return wgpu.PresentModeImmediate
}

// MSAASampleCount is the sample count of the main pass and of every debug pipeline drawn into it.
// WebGPU guarantees 1 and 4; 8 and 16 depend on the adapter.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisampling. Lines stay one pixel wide and aliased.
	MSAAOff MSAASampleCount = 1

	// MSAA4x samples every pixel four times. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x is adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x is adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// Valid reports whether c is one of the declared sample counts.
//
// Returns:
//   - bool: true for MSAAOff, MSAA4x, MSAA8x and MSAA16x
func (c MSAASampleCount) Valid() bool {
	switch c {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return true
	}
	return false
}

// orDefault returns c, or MSAA4x when c is not a valid count.
func (c MSAASampleCount) orDefault() MSAASampleCount {
	if c.Valid() {
		return c
	}
	return MSAA4x
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
