package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lumen-engine/lumen-go/common"
)

const tolerance = 1e-5

func matClose(t *testing.T, name string, got, want []float32) {
	t.Helper()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > tolerance {
			t.Fatalf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	if c.Aspect() != 1 {
		t.Fatalf("aspect = %v, want 1", c.Aspect())
	}
	if c.Near() != 0.1 || c.Far() != 100 {
		t.Fatalf("clip planes = %v, %v", c.Near(), c.Far())
	}
	if c.Intrinsics() != nil {
		t.Fatal("expected no intrinsics by default")
	}

	// Default eye at origin looking down -Z gives an identity view.
	var ident [16]float32
	common.Identity(ident[:])
	v := c.ViewMatrix()
	matClose(t, "view", v[:], ident[:])
}

func TestLookAtViewMatchesMathgl(t *testing.T) {
	c := NewCamera(WithLookAt(3, 4, 5, 0, 1, 0))

	want := mgl32.LookAt(3, 4, 5, 0, 1, 0, 0, 1, 0)
	v := c.ViewMatrix()
	matClose(t, "view", v[:], want[:])
}

func TestViewProjectionComposition(t *testing.T) {
	c := NewCamera(
		WithLookAt(0, 2, 6, 0, 0, 0),
		WithFov(mgl32.DegToRad(60)),
		WithAspect(16.0/9.0),
		WithClipPlanes(0.5, 200),
	)

	v := c.ViewMatrix()
	p := c.ProjectionMatrix()
	var want [16]float32
	common.Mul4(want[:], p[:], v[:])

	vp := c.ViewProjectionMatrix()
	matClose(t, "viewProjection", vp[:], want[:])
}

func TestPoseViewInvertsGLPose(t *testing.T) {
	// An OpenCV pose with identity rotation looks along +Z with y down; the
	// GL-converted pose looks along -Z with y up from the same position.
	var pose [16]float32
	common.Identity(pose[:])
	pose[12], pose[13], pose[14] = 1, 2, 3

	c := NewCamera(WithPose(pose))

	// Expected view: inverse of translate(1,2,3) * diag(1,-1,-1).
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(1, -1, -1)).Inv()
	v := c.ViewMatrix()
	matClose(t, "view", v[:], want[:])
}

func TestPoseRoundTripsWorldPoint(t *testing.T) {
	// A point on the camera's +Z axis in OpenCV space sits in front of the
	// camera, so its view-space z must be negative in GL conventions.
	var pose [16]float32
	common.Identity(pose[:])
	pose[12] = 5

	c := NewCamera(WithPose(pose))
	v := c.ViewMatrix()

	var out [4]float32
	common.MulVec4(out[:], v[:], []float32{5, 0, 2, 1})
	matClose(t, "viewPoint", out[:], []float32{0, 0, -2, 1})
}

func TestSetLookAtClearsPose(t *testing.T) {
	var pose [16]float32
	common.Identity(pose[:])
	c := NewCamera(WithPose(pose))

	c.SetLookAt(3, 4, 5, 0, 1, 0)

	want := mgl32.LookAt(3, 4, 5, 0, 1, 0, 0, 1, 0)
	v := c.ViewMatrix()
	matClose(t, "view", v[:], want[:])
}

func TestIntrinsicsProjectionCenteredMatchesPerspective(t *testing.T) {
	// A centered principal point with matched focal lengths degenerates to a
	// symmetric frustum.
	in := Intrinsics{Fx: 600, Fy: 600, Cx: 320, Cy: 240, Width: 640, Height: 480}
	c := NewCamera(WithIntrinsics(in), WithClipPlanes(0.1, 100))

	fov := 2 * float32(math.Atan(float64(in.Height/(2*in.Fy))))
	var want [16]float32
	common.Perspective(want[:], fov, in.Width/in.Height, 0.1, 100)

	p := c.ProjectionMatrix()
	matClose(t, "projection", p[:], want[:])
}

func TestIntrinsicsProjectionOffCenterShear(t *testing.T) {
	in := Intrinsics{Fx: 500, Fy: 500, Cx: 400, Cy: 200, Width: 640, Height: 480}
	var p [16]float32
	in.ProjectionMatrix(p[:], 0.1, 100)

	if math.Abs(float64(p[8]-(1-2*400.0/640))) > tolerance {
		t.Fatalf("p[8] = %v", p[8])
	}
	if math.Abs(float64(p[9]-(2*200.0/480-1))) > tolerance {
		t.Fatalf("p[9] = %v", p[9])
	}
	if p[11] != -1 || p[15] != 0 {
		t.Fatalf("homogeneous terms p[11]=%v p[15]=%v", p[11], p[15])
	}
}

func TestIntrinsicsProjectionDepthRange(t *testing.T) {
	in := Intrinsics{Fx: 600, Fy: 600, Cx: 320, Cy: 240, Width: 640, Height: 480}
	var p [16]float32
	in.ProjectionMatrix(p[:], 0.5, 50)

	// Points on the near plane map to depth 0, far plane to depth 1.
	var nearPt, farPt [4]float32
	common.MulVec4(nearPt[:], p[:], []float32{0, 0, -0.5, 1})
	common.MulVec4(farPt[:], p[:], []float32{0, 0, -50, 1})

	if math.Abs(float64(nearPt[2]/nearPt[3])) > tolerance {
		t.Fatalf("near depth = %v, want 0", nearPt[2]/nearPt[3])
	}
	if math.Abs(float64(farPt[2]/farPt[3]-1)) > tolerance {
		t.Fatalf("far depth = %v, want 1", farPt[2]/farPt[3])
	}
}

func TestIntrinsicsResize(t *testing.T) {
	in := Intrinsics{Fx: 600, Fy: 500, Cx: 330, Cy: 230, Width: 640, Height: 480}
	scaled := in.Resize(1280, 960)

	if scaled.Fx != 1200 {
		t.Fatalf("fx = %v, want 1200", scaled.Fx)
	}
	if scaled.Fy != 1000 {
		t.Fatalf("fy = %v, want 1000", scaled.Fy)
	}
	// Principal point offsets from center scale with the image.
	wantCx := (1280.0-1)/2 + 2*(330-(640.0-1)/2)
	if math.Abs(float64(scaled.Cx)-wantCx) > tolerance {
		t.Fatalf("cx = %v, want %v", scaled.Cx, wantCx)
	}
	if scaled.Width != 1280 || scaled.Height != 960 {
		t.Fatalf("size = %vx%v", scaled.Width, scaled.Height)
	}
}

func TestResizeUpdatesAspectAndIntrinsics(t *testing.T) {
	in := Intrinsics{Fx: 600, Fy: 600, Cx: 320, Cy: 240, Width: 640, Height: 480}
	c := NewCamera(WithIntrinsics(in))

	c.Resize(1280, 720)

	if math.Abs(float64(c.Aspect()-1280.0/720.0)) > tolerance {
		t.Fatalf("aspect = %v", c.Aspect())
	}
	got := c.Intrinsics()
	if got == nil || got.Width != 1280 || got.Height != 720 {
		t.Fatalf("intrinsics not rescaled: %+v", got)
	}
}

func TestResizeZeroHeightIgnored(t *testing.T) {
	c := NewCamera(WithAspect(2))
	c.Resize(100, 0)
	if c.Aspect() != 2 {
		t.Fatalf("aspect = %v, want unchanged 2", c.Aspect())
	}
}
