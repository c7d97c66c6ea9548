package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-5

func matClose(t *testing.T, got []float32, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > tolerance {
			t.Fatalf("element %d: got %v, want %v\ngot:  %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
}

// sampleModelMatrix returns an invertible transform combining rotation,
// non-uniform scale and translation. Used across tests so results can be
// cross-checked against mathgl.
func sampleModelMatrix() [16]float32 {
	var m [16]float32
	BuildModelMatrix(m[:], 1.5, -2.0, 3.25, 0.3, -0.7, 1.1, 2.0, 0.5, 1.25)
	return m
}

func TestIdentity(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	Identity(m[:])
	ident := mgl32.Ident4()
	matClose(t, m[:], ident[:])
}

func TestMul4MatchesMathgl(t *testing.T) {
	a := sampleModelMatrix()
	var b [16]float32
	BuildModelMatrix(b[:], -4, 0.5, 2, 1.9, 0.2, -0.4, 1, 3, 0.5)

	var got [16]float32
	Mul4(got[:], a[:], b[:])

	want := mgl32.Mat4(a).Mul4(mgl32.Mat4(b))
	matClose(t, got[:], want[:])
}

func TestMul4AliasesOutput(t *testing.T) {
	a := sampleModelMatrix()
	b := sampleModelMatrix()
	want := mgl32.Mat4(a).Mul4(mgl32.Mat4(b))

	Mul4(a[:], a[:], b[:])
	matClose(t, a[:], want[:])
}

func TestMulVec4MatchesMathgl(t *testing.T) {
	m := sampleModelMatrix()
	v := [4]float32{0.5, -1.5, 2, 1}

	var got [4]float32
	MulVec4(got[:], m[:], v[:])

	want := mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v))
	matClose(t, got[:], want[:])
}

func TestInvert4MatchesMathgl(t *testing.T) {
	m := sampleModelMatrix()
	var got [16]float32
	if !Invert4(got[:], m[:]) {
		t.Fatal("Invert4 reported a regular matrix as singular")
	}

	want := mgl32.Mat4(m).Inv()
	matClose(t, got[:], want[:])

	// Round trip: m * m^-1 == identity.
	var id [16]float32
	Mul4(id[:], m[:], got[:])
	ident := mgl32.Ident4()
	matClose(t, id[:], ident[:])
}

func TestInvert4Singular(t *testing.T) {
	var m [16]float32 // all zeros, det == 0
	out := [16]float32{42}
	if Invert4(out[:], m[:]) {
		t.Fatal("Invert4 inverted a singular matrix")
	}
	if out[0] != 42 {
		t.Fatal("Invert4 modified the output for a singular input")
	}
}

func TestLookAtMatchesMathgl(t *testing.T) {
	var got [16]float32
	LookAt(got[:], 3, 4, 5, 0, 1, -2, 0, 1, 0)

	want := mgl32.LookAt(3, 4, 5, 0, 1, -2, 0, 1, 0)
	matClose(t, got[:], want[:])
}

func TestNormalMatrixMatchesMathgl(t *testing.T) {
	m := sampleModelMatrix()
	var got [9]float32
	NormalMatrix(got[:], m[:])

	want := mgl32.Mat4(m).Mat3().Inv().Transpose()
	matClose(t, got[:], want[:])
}

func TestNormalMatrixPureRotation(t *testing.T) {
	// For a pure rotation the normal matrix is the rotation itself: a +90°
	// turn around Z carries the x-normal onto +y, not -y.
	var m [16]float32
	BuildModelMatrix(m[:], 0, 0, 0, 0, 0, float32(math.Pi/2), 1, 1, 1)

	var n [9]float32
	NormalMatrix(n[:], m[:])

	var out [3]float32
	MulNormal(out[:], n[:], []float32{1, 0, 0})
	matClose(t, out[:], []float32{0, 1, 0})
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	// Scaling x by 2 must scale x-normals by 1/2, not 2: the inverse-transpose
	// of diag(2,1,1) is diag(0.5,1,1).
	var m [16]float32
	Identity(m[:])
	m[0] = 2

	var n [9]float32
	NormalMatrix(n[:], m[:])

	var out [3]float32
	MulNormal(out[:], n[:], []float32{1, 0, 0})
	matClose(t, out[:], []float32{0.5, 0, 0})
}

func TestNormalMatrixPureTranslation(t *testing.T) {
	var m [16]float32
	Identity(m[:])
	m[12], m[13], m[14] = 10, -7, 2.5

	var n [9]float32
	NormalMatrix(n[:], m[:])
	ident := mgl32.Ident3()
	matClose(t, n[:], ident[:])
}

func TestPerspectiveDepthRange(t *testing.T) {
	const near, far = 0.1, 100.0
	var p [16]float32
	Perspective(p[:], float32(60.0*math.Pi/180.0), 16.0/9.0, near, far)

	// A point on the near plane maps to depth 0 after the perspective divide,
	// a point on the far plane to depth 1 ([0, 1] clip convention).
	var clip [4]float32
	MulVec4(clip[:], p[:], []float32{0, 0, -near, 1})
	if math.Abs(float64(clip[2]/clip[3])) > tolerance {
		t.Fatalf("near plane depth: got %v, want 0", clip[2]/clip[3])
	}
	MulVec4(clip[:], p[:], []float32{0, 0, -far, 1})
	if math.Abs(float64(clip[2]/clip[3]-1)) > tolerance {
		t.Fatalf("far plane depth: got %v, want 1", clip[2]/clip[3])
	}
}

func TestSliceToBytesRoundTrip(t *testing.T) {
	data := []float32{1, 2.5, -3}
	raw := SliceToBytes(data)
	if len(raw) != 12 {
		t.Fatalf("byte length: got %d, want 12", len(raw))
	}
	back := unsafeFloats(raw)
	matClose(t, back, data)
}

func unsafeFloats(raw []byte) []float32 {
	out := make([]float32, len(raw)/4)
	for i := range out {
		bits := uint32(raw[i*4]) | uint32(raw[i*4+1])<<8 | uint32(raw[i*4+2])<<16 | uint32(raw[i*4+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}
