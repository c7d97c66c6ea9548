// package camera computes the view and projection matrices consumed by the
// vertex transform stage. A camera's view side comes from either an eye/target
// look-at pair or an OpenCV-convention pose matrix, and its projection side
// from either a symmetric perspective frustum or calibrated pinhole intrinsics.
package camera

import (
	"math"
	"sync"

	"github.com/lumen-engine/lumen-go/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	eye    [3]float32
	target [3]float32
	up     [3]float32

	// pose, when set, overrides the look-at pair: it is a camera-to-world
	// transform in OpenCV conventions (x right, y down, z into the scene).
	pose *[16]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	// intrinsics, when set, overrides the symmetric perspective frustum.
	intrinsics *Intrinsics

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera defines the interface for the camera system. The camera holds view
// and projection settings and recomputes its matrices whenever one changes.
type Camera interface {
	// Eye returns the camera position in world space.
	//
	// Returns:
	//   - x, y, z: eye position components
	Eye() (x, y, z float32)

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: up vector components
	Up() (x, y, z float32)

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Intrinsics returns the calibrated pinhole intrinsics, or nil when the
	// camera projects through a symmetric frustum.
	//
	// Returns:
	//   - *Intrinsics: the intrinsics or nil
	Intrinsics() *Intrinsics

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix
	// as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// SetLookAt points the camera from eye towards target and clears any pose
	// override.
	//
	// Parameters:
	//   - eyeX, eyeY, eyeZ: eye position components
	//   - targetX, targetY, targetZ: look target components
	SetLookAt(eyeX, eyeY, eyeZ, targetX, targetY, targetZ float32)

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// SetPose sets a camera-to-world pose in OpenCV conventions (x right, y
	// down, z into the scene) and derives the view matrix from it. The pose
	// overrides the look-at pair until SetLookAt is called.
	//
	// Parameters:
	//   - pose: the camera-to-world transform (16 elements, column-major)
	SetPose(pose [16]float32)

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes matrices.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetIntrinsics sets calibrated pinhole intrinsics, overriding the
	// symmetric frustum until cleared with a nil receiver value.
	//
	// Parameters:
	//   - in: the intrinsics, or nil to return to the symmetric frustum
	SetIntrinsics(in *Intrinsics)

	// Resize adapts the camera to a new viewport: aspect is updated, and when
	// intrinsics are set they are rescaled for the new size.
	//
	// Parameters:
	//   - width: the new viewport width, in pixels
	//   - height: the new viewport height, in pixels
	Resize(width, height uint32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera looking down -Z from the origin with default
// perspective settings. Options are applied in order.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		eye:    [3]float32{0, 0, 0},
		target: [3]float32{0, 0, -1},
		up:     [3]float32{0, 1, 0},
		fov:    45.0 * (math.Pi / 180.0), // radians
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Eye() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye[0], c.eye[1], c.eye[2]
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
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

func (c *cameraImpl) Intrinsics() *Intrinsics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intrinsics
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) SetLookAt(eyeX, eyeY, eyeZ, targetX, targetY, targetZ float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye = [3]float32{eyeX, eyeY, eyeZ}
	c.target = [3]float32{targetX, targetY, targetZ}
	c.pose = nil
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetPose(pose [16]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pose = &pose
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetIntrinsics(in *Intrinsics) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intrinsics = in
	c.updateMatrices()
}

func (c *cameraImpl) Resize(width, height uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if height == 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	if c.intrinsics != nil {
		scaled := c.intrinsics.Resize(float32(width), float32(height))
		c.intrinsics = &scaled
	}
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection, and view-projection
// matrices from the current settings. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.pose != nil {
		// The pose is camera-to-world in OpenCV axes. Negating the Y and Z
		// basis columns converts it to GL axes (y up, z towards the eye);
		// the view matrix is its inverse.
		glPose := *c.pose
		for i := 4; i < 12; i++ {
			glPose[i] = -glPose[i]
		}
		if !common.Invert4(c.viewMatrix[:], glPose[:]) {
			common.Identity(c.viewMatrix[:])
		}
	} else {
		common.LookAt(c.viewMatrix[:],
			c.eye[0], c.eye[1], c.eye[2],
			c.target[0], c.target[1], c.target[2],
			c.up[0], c.up[1], c.up[2],
		)
	}

	if c.intrinsics != nil {
		c.intrinsics.ProjectionMatrix(c.projectionMatrix[:], c.near, c.far)
	} else {
		common.Perspective(c.projectionMatrix[:],
			c.fov, c.aspect, c.near, c.far,
		)
	}

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
