package camera

import "github.com/go-gl/mathgl/mgl32"

// ControllerBuilderOption is a functional option for configuring an orbit Controller.
type ControllerBuilderOption func(*orbitController)

// WithOrbitTarget sets the pivot point.
//
// Parameters:
//   - target: world-space pivot
//
// Returns:
//   - ControllerBuilderOption: a function that sets the pivot
func WithOrbitTarget(target mgl32.Vec3) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.target = target
	}
}

// WithRadius sets the initial distance from the pivot.
//
// Parameters:
//   - radius: distance from the pivot
//
// Returns:
//   - ControllerBuilderOption: a function that sets the radius
func WithRadius(radius float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.radius = radius
	}
}

// WithRadiusLimits bounds the zoom distance.
//
// Parameters:
//   - minRadius: closest allowed distance
//   - maxRadius: farthest allowed distance
//
// Returns:
//   - ControllerBuilderOption: a function that sets the limits
func WithRadiusLimits(minRadius, maxRadius float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithAzimuth sets the initial horizontal angle in radians (0 = +Z axis).
func WithAzimuth(azimuth float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle in radians (0 = horizontal).
func WithElevation(elevation float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.elevation = elevation
	}
}

// WithZoomSpeed scales Zoom deltas.
func WithZoomSpeed(speed float32) ControllerBuilderOption {
	return func(cc *orbitController) {
		cc.zoomSpeed = speed
	}
}
