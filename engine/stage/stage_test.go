package stage

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lumen-engine/lumen-go/common"
)

const tolerance = 1e-5

func vecClose(t *testing.T, name string, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length mismatch %d vs %d", name, len(got), len(want))
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > tolerance {
			t.Fatalf("%s[%d] = %v, want %v", name, i, got[i], want[i])
		}
	}
}

func translation(x, y, z float32) [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	m[12], m[13], m[14] = x, y, z
	return m
}

func scale(x, y, z float32) [16]float32 {
	var m [16]float32
	m[0], m[5], m[10], m[15] = x, y, z, 1
	return m
}

func testVertex() VertexAttributes {
	return VertexAttributes{
		Position: [3]float32{1.5, -2, 0.25},
		Normal:   [3]float32{0, 0, 1},
		Color:    [4]float32{0.2, 0.4, 0.6, 1},
	}
}

func TestTransformIdentity(t *testing.T) {
	s := NewVertexStage(WithWorkers(1))
	v := testVertex()

	out := s.Transform(v, IdentityInstance())

	vecClose(t, "clip", out.ClipPosition[:], []float32{1.5, -2, 0.25, 1})
	vecClose(t, "worldPos", out.WorldPosition[:], v.Position[:])
	vecClose(t, "worldNormal", out.WorldNormal[:], v.Normal[:])
	if out.Color != v.Color {
		t.Fatalf("color = %v, want %v", out.Color, v.Color)
	}
}

func TestTransformModelTranslationMovesPositionsNotNormals(t *testing.T) {
	tr := IdentityTransforms()
	tr.Model = translation(10, -3, 7)
	s := NewVertexStage(WithTransforms(tr), WithWorkers(1))
	v := testVertex()

	out := s.Transform(v, IdentityInstance())

	vecClose(t, "worldPos", out.WorldPosition[:], []float32{11.5, -5, 7.25})
	vecClose(t, "worldNormal", out.WorldNormal[:], v.Normal[:])
}

func TestTransformUniformScalePreservesNormalDirection(t *testing.T) {
	tr := IdentityTransforms()
	tr.Model = scale(3, 3, 3)
	s := NewVertexStage(WithTransforms(tr), WithWorkers(1))

	v := testVertex()
	v.Normal = [3]float32{1, 2, 2}
	out := s.Transform(v, IdentityInstance())

	// Uniform scale s maps normals through 1/s; the direction must survive.
	got := mgl32.Vec3(out.WorldNormal).Normalize()
	want := mgl32.Vec3(v.Normal).Normalize()
	vecClose(t, "normal direction", got[:], want[:])
	vecClose(t, "normal magnitude", out.WorldNormal[:], []float32{1.0 / 3, 2.0 / 3, 2.0 / 3})
}

func TestTransformNonUniformScaleBendsNormals(t *testing.T) {
	tr := IdentityTransforms()
	tr.Model = scale(2, 1, 1)
	s := NewVertexStage(WithTransforms(tr), WithWorkers(1))

	v := testVertex()
	v.Normal = [3]float32{1, 0, 0}
	out := s.Transform(v, IdentityInstance())

	// Inverse-transpose of diag(2,1,1) maps (1,0,0) to (0.5,0,0); a naive
	// model-matrix multiply would give (2,0,0).
	vecClose(t, "worldNormal", out.WorldNormal[:], []float32{0.5, 0, 0})
}

func TestTransformModelRotationTurnsNormals(t *testing.T) {
	tr := IdentityTransforms()
	common.BuildModelMatrix(tr.Model[:], 0, 0, 0, 0, 0, math.Pi/2, 1, 1, 1)
	s := NewVertexStage(WithTransforms(tr), WithWorkers(1))

	v := testVertex()
	v.Normal = [3]float32{1, 0, 0}
	out := s.Transform(v, IdentityInstance())

	// A +90 degree Z rotation carries the x-normal onto +y. The transposed
	// normal matrix would turn it the opposite way, onto -y.
	vecClose(t, "worldNormal", out.WorldNormal[:], []float32{0, 1, 0})
}

func TestTransformColorPassthroughBitForBit(t *testing.T) {
	s := NewVertexStage(WithWorkers(1))
	v := testVertex()
	// Out-of-range and NaN payloads must survive untouched.
	v.Color = [4]float32{-2.5, 7, math.Float32frombits(0x7fc00123), 0}

	out := s.Transform(v, IdentityInstance())

	for i := range v.Color {
		if math.Float32bits(out.Color[i]) != math.Float32bits(v.Color[i]) {
			t.Fatalf("color[%d] bits = %#x, want %#x", i, math.Float32bits(out.Color[i]), math.Float32bits(v.Color[i]))
		}
	}
}

func TestTransformMatchesPrecomposedMatrix(t *testing.T) {
	tr := TransformSet{}
	common.BuildModelMatrix(tr.Model[:], 1, 2, 3, 0.3, -0.7, 0.1, 1.5, 1.5, 1.5)
	common.LookAt(tr.View[:], 4, 3, 8, 0, 0, 0, 0, 1, 0)
	common.Perspective(tr.Projection[:], mgl32.DegToRad(60), 16.0/9.0, 0.1, 100)

	var instance [16]float32
	common.BuildModelMatrix(instance[:], -2, 0, 1, 0, 1.2, 0, 1, 1, 1)

	s := NewVertexStage(WithTransforms(tr), WithWorkers(1))
	v := testVertex()
	out := s.Transform(v, instance)

	// clip must equal (P*V*M*I) * [p, 1] composed up front.
	var mi, vmi, pvmi [16]float32
	common.Mul4(mi[:], tr.Model[:], instance[:])
	common.Mul4(vmi[:], tr.View[:], mi[:])
	common.Mul4(pvmi[:], tr.Projection[:], vmi[:])

	var want [4]float32
	common.MulVec4(want[:], pvmi[:], []float32{v.Position[0], v.Position[1], v.Position[2], 1})
	vecClose(t, "clip", out.ClipPosition[:], want[:])

	var wantWorld [4]float32
	common.MulVec4(wantWorld[:], mi[:], []float32{v.Position[0], v.Position[1], v.Position[2], 1})
	vecClose(t, "worldPos", out.WorldPosition[:], wantWorld[:3])
}

func TestTransformInstancePoseSkipsNormals(t *testing.T) {
	s := NewVertexStage(WithWorkers(1))

	// A 90 degree instance rotation about Y moves positions but, because the
	// normal matrix comes from the model matrix alone, leaves normals fixed.
	var instance [16]float32
	common.BuildModelMatrix(instance[:], 0, 0, 0, 0, math.Pi/2, 0, 1, 1, 1)

	v := testVertex()
	v.Position = [3]float32{1, 0, 0}
	v.Normal = [3]float32{1, 0, 0}
	out := s.Transform(v, instance)

	vecClose(t, "worldPos", out.WorldPosition[:], []float32{0, 0, -1})
	vecClose(t, "worldNormal", out.WorldNormal[:], []float32{1, 0, 0})
}

func TestTransformSingularModelProducesNaN(t *testing.T) {
	tr := IdentityTransforms()
	tr.Model = scale(0, 0, 0)
	s := NewVertexStage(WithTransforms(tr), WithWorkers(1))

	out := s.Transform(testVertex(), IdentityInstance())
	for i, f := range out.WorldNormal {
		if !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0) {
			t.Fatalf("worldNormal[%d] = %v, want NaN or Inf for singular model", i, f)
		}
	}
}

func TestNormalMatrixTracksSetTransforms(t *testing.T) {
	s := NewVertexStage(WithWorkers(1))

	tr := IdentityTransforms()
	tr.Model = scale(2, 1, 1)
	s.SetTransforms(tr)

	n := s.NormalMatrix()
	want := mgl32.Mat4(tr.Model).Mat3().Inv().Transpose()
	vecClose(t, "normalMatrix", n[:], want[:])
}

func TestTransformBatchMatchesSequential(t *testing.T) {
	tr := TransformSet{}
	common.BuildModelMatrix(tr.Model[:], 0.5, 0, -1, 0.2, 0.4, 0, 2, 1, 1)
	common.LookAt(tr.View[:], 0, 2, 5, 0, 0, 0, 0, 1, 0)
	common.Perspective(tr.Projection[:], mgl32.DegToRad(45), 1, 0.1, 50)

	s := NewVertexStage(WithTransforms(tr), WithWorkers(4))

	vertices := make([]VertexAttributes, 97)
	for i := range vertices {
		f := float32(i)
		vertices[i] = VertexAttributes{
			Position: [3]float32{f * 0.1, -f * 0.05, f * 0.02},
			Normal:   [3]float32{0, 1, f * 0.01},
			Color:    [4]float32{f / 97, 0.5, 1 - f/97, 1},
		}
	}
	instances := make([][16]float32, 5)
	for i := range instances {
		common.BuildModelMatrix(instances[i][:], float32(i), 0, 0, 0, float32(i)*0.3, 0, 1, 1, 1)
	}

	got := s.TransformBatch(vertices, instances)
	if len(got) != len(vertices)*len(instances) {
		t.Fatalf("batch length = %d, want %d", len(got), len(vertices)*len(instances))
	}

	for i := range instances {
		for j := range vertices {
			want := s.Transform(vertices[j], instances[i])
			out := got[i*len(vertices)+j]
			vecClose(t, "clip", out.ClipPosition[:], want.ClipPosition[:])
			vecClose(t, "worldPos", out.WorldPosition[:], want.WorldPosition[:])
			vecClose(t, "worldNormal", out.WorldNormal[:], want.WorldNormal[:])
			if out.Color != want.Color {
				t.Fatalf("color mismatch at instance %d vertex %d", i, j)
			}
		}
	}
}

func TestTransformBatchEmpty(t *testing.T) {
	s := NewVertexStage(WithWorkers(2))
	if out := s.TransformBatch(nil, [][16]float32{IdentityInstance()}); out != nil {
		t.Fatalf("expected nil output for empty vertex stream, got %d elements", len(out))
	}
	if out := s.TransformBatch([]VertexAttributes{testVertex()}, nil); out != nil {
		t.Fatalf("expected nil output for empty instance list, got %d elements", len(out))
	}
}

func TestGPUTransformUniformLayout(t *testing.T) {
	tr := IdentityTransforms()
	var n [9]float32
	common.NormalMatrix(n[:], tr.Model[:])

	u := NewGPUTransformUniform(tr, n)
	if u.Size() != 240 {
		t.Fatalf("uniform size = %d, want 240", u.Size())
	}
	buf := u.Marshal()
	if len(buf) != 240 {
		t.Fatalf("marshaled size = %d, want 240", len(buf))
	}
	// Identity normal matrix: column c has a 1 at lane c, pad lane stays 0.
	for c := range 3 {
		if u.Normal[c][c] != 1 || u.Normal[c][3] != 0 {
			t.Fatalf("normal column %d = %v", c, u.Normal[c])
		}
	}
}

func TestVertexBufferLayouts(t *testing.T) {
	layouts := VertexBufferLayouts()
	if len(layouts) != 2 {
		t.Fatalf("layout count = %d, want 2", len(layouts))
	}

	var g GPUVertex
	if layouts[0].ArrayStride != uint64(g.Size()) {
		t.Fatalf("vertex stride = %d, want %d", layouts[0].ArrayStride, g.Size())
	}
	var inst GPUInstanceData
	if layouts[1].ArrayStride != uint64(inst.Size()) {
		t.Fatalf("instance stride = %d, want %d", layouts[1].ArrayStride, inst.Size())
	}

	next := uint32(0)
	for _, l := range layouts {
		for _, a := range l.Attributes {
			if a.ShaderLocation != next {
				t.Fatalf("shader location = %d, want %d", a.ShaderLocation, next)
			}
			next++
		}
	}
}
