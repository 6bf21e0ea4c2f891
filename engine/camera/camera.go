package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-draw/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewKind identifies which view a camera renders. Depth policy for debug shapes is configured per view kind.
type ViewKind int

const (
	// ViewScene is an editor or tooling view.
	ViewScene ViewKind = iota
	// ViewGame is the in-game view.
	ViewGame
)

func (v ViewKind) String() string {
	switch v {
	case ViewScene:
		return "scene"
	case ViewGame:
		return "game"
	}
	return fmt.Sprintf("view(%d)", int(v))
}

type cameraImpl struct {
	mu *sync.Mutex

	key  int
	name string
	view ViewKind

	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	width, height int

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	controller        Controller
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera holds perspective settings and the view it renders, and computes view/projection matrices.
// When a Controller is attached, Update pulls position and target from it.
type Camera interface {
	// Key returns the camera's ordering key. Cameras render in ascending key order.
	//
	// Returns:
	//   - int: the ordering key
	Key() int

	// Name returns the camera name. Text bound to a camera name only shows in that camera's pass.
	//
	// Returns:
	//   - string: the camera name
	Name() string

	// View returns the kind of view this camera renders.
	//
	// Returns:
	//   - ViewKind: the view kind
	View() ViewKind

	// Position returns the world-space eye position.
	Position() mgl32.Vec3

	// Target returns the world-space look-at point.
	Target() mgl32.Vec3

	// Up returns the up vector.
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Viewport returns the pixel size of the surface the camera renders to.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Viewport() (int, int)

	// ViewMatrix returns the current view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the combined view-projection matrix.
	ViewProjectionMatrix() mgl32.Mat4

	// Uniform returns the GPU camera uniform for the current matrices.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform ready to marshal
	Uniform() GPUCameraUniform

	// Controller returns the attached Controller, or nil.
	Controller() Controller

	// BindGroupProvider returns the provider holding this camera's uniform buffer and bind group.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Update pulls position and target from the attached controller, if any, and recomputes matrices.
	Update()

	// SetPosition sets the eye position and recomputes matrices.
	SetPosition(eye mgl32.Vec3)

	// SetTarget sets the look-at point and recomputes matrices.
	SetTarget(target mgl32.Vec3)

	// SetViewport sets the surface size and the aspect ratio derived from it.
	//
	// Parameters:
	//   - width: width in pixels
	//   - height: height in pixels
	SetViewport(width, height int)

	// SetController attaches a Controller.
	SetController(ctrl Controller)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera looking from (0, 5, 10) at the origin with a 45 degree field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		name:   "main",
		view:   ViewGame,
		eye:    mgl32.Vec3{0, 5, 10},
		up:     mgl32.Vec3{0, 1, 0},
		fov:    mgl32.DegToRad(45),
		aspect: 1,
		near:   0.1,
		far:    1000,
		width:  1,
		height: 1,
	}
	for _, option := range options {
		option(c)
	}
	if c.bindGroupProvider == nil {
		c.bindGroupProvider = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("camera_%s_%d", c.name, c.key))
	}
	c.pullController()
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Key() int {
	return c.key
}

func (c *cameraImpl) Name() string {
	return c.name
}

func (c *cameraImpl) View() ViewKind {
	return c.view
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Viewport() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		CameraPosition: c.eye,
	}
}

func (c *cameraImpl) Controller() Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pullController()
	c.updateMatrices()
}

func (c *cameraImpl) SetPosition(eye mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = eye
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
	c.updateMatrices()
}

func (c *cameraImpl) SetViewport(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = max(width, 1)
	c.height = max(height, 1)
	c.aspect = float32(c.width) / float32(c.height)
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

// pullController copies position and target from the controller. Caller must hold the mutex.
func (c *cameraImpl) pullController() {
	if c.controller == nil {
		return
	}
	c.eye = c.controller.Position()
	c.target = c.controller.Target()
}

// updateMatrices recalculates the view, projection and view-projection matrices. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.LookAtV(c.eye, c.target, c.up)
	c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
