package camera

// Intrinsics holds a pinhole camera model in pixel units: focal lengths,
// principal point, and the image size they were calibrated against.
type Intrinsics struct {
	Fx     float32
	Fy     float32
	Cx     float32
	Cy     float32
	Width  float32
	Height float32
}

// ProjectionMatrix writes the projection matrix for the pinhole model into
// out (16 elements, column-major). The principal point offset shears the
// frustum so calibrated pixels land where the physical camera would put them.
// Depth maps to the [0, 1] clip range.
//
// Parameters:
//   - out: destination slice, 16 elements, column-major
//   - near: near plane distance
//   - far: far plane distance
func (in Intrinsics) ProjectionMatrix(out []float32, near, far float32) {
	for i := range out {
		out[i] = 0
	}
	out[0] = 2 * in.Fx / in.Width
	out[5] = 2 * in.Fy / in.Height
	out[8] = 1 - 2*in.Cx/in.Width
	out[9] = 2*in.Cy/in.Height - 1
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = near * far / (near - far)
}

// Resize returns intrinsics rescaled for a new viewport size. Focal lengths
// scale with their own axis, and the principal point keeps its offset from the
// image center, scaled per axis.
//
// Parameters:
//   - width: the new viewport width, in pixels
//   - height: the new viewport height, in pixels
//
// Returns:
//   - Intrinsics: the rescaled intrinsics
func (in Intrinsics) Resize(width, height float32) Intrinsics {
	xScale := width / in.Width
	yScale := height / in.Height

	centerX := (in.Width - 1) / 2
	centerY := (in.Height - 1) / 2
	scaledCenterX := (width - 1) / 2
	scaledCenterY := (height - 1) / 2

	return Intrinsics{
		Fx:     in.Fx * xScale,
		Fy:     in.Fy * yScale,
		Cx:     scaledCenterX + xScale*(in.Cx-centerX),
		Cy:     scaledCenterY + yScale*(in.Cy-centerY),
		Width:  width,
		Height: height,
	}
}
