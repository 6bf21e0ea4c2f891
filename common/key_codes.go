package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyG     = 71  // G key (ASCII), toggles gizmo capture in the examples
	KeyP     = 80  // P key (ASCII), pauses simulation time
	KeyEnter = 257 // Enter key (GLFW), toggles play mode
	KeyEsc   = 256 // Escape key (GLFW), closes the window
)
