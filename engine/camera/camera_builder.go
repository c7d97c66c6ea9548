package camera

// CameraBuilderOption is a function that configures a cameraImpl instance.
type CameraBuilderOption func(*cameraImpl)

// WithLookAt sets the initial eye position and look target.
//
// Parameters:
//   - eyeX, eyeY, eyeZ: eye position components
//   - targetX, targetY, targetZ: look target components
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithLookAt(eyeX, eyeY, eyeZ, targetX, targetY, targetZ float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = [3]float32{eyeX, eyeY, eyeZ}
		c.target = [3]float32{targetX, targetY, targetZ}
		c.pose = nil
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = [3]float32{x, y, z}
	}
}

// WithPose sets an initial camera-to-world pose in OpenCV conventions,
// overriding the look-at pair.
//
// Parameters:
//   - pose: the camera-to-world transform (16 elements, column-major)
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithPose(pose [16]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pose = &pose
	}
}

// WithFov sets the vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithIntrinsics sets calibrated pinhole intrinsics, overriding the symmetric
// frustum.
//
// Parameters:
//   - in: the intrinsics
//
// Returns:
//   - CameraBuilderOption: the option to apply
func WithIntrinsics(in Intrinsics) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.intrinsics = &in
	}
}
