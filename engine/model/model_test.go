package model

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/lumen-engine/lumen-go/engine/stage"
)

func TestNewMeshDefaults(t *testing.T) {
	m := NewMesh()

	if m.Name() != "mesh" {
		t.Fatalf("name = %q", m.Name())
	}
	if m.InstanceCount() != 1 {
		t.Fatalf("instance count = %d, want 1 identity instance", m.InstanceCount())
	}
	if m.Instances()[0] != stage.IdentityInstance() {
		t.Fatal("default instance is not identity")
	}
}

func TestSetInstancesEmptyResetsToIdentity(t *testing.T) {
	m := NewMesh(WithInstances([][16]float32{{}, {}}))
	m.SetInstances(nil)

	if m.InstanceCount() != 1 || m.Instances()[0] != stage.IdentityInstance() {
		t.Fatalf("instances after empty set = %v", m.Instances())
	}
}

func TestBoundingRadius(t *testing.T) {
	m := NewMesh(WithVertices([]stage.VertexAttributes{
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, -3, 4}}, // distance 5
		{Position: [3]float32{2, 2, 2}},
	}))

	if math.Abs(float64(m.BoundingRadius()-5)) > 1e-6 {
		t.Fatalf("bounding radius = %v, want 5", m.BoundingRadius())
	}
}

func TestCubeGeometry(t *testing.T) {
	m := NewCube(2, [4]float32{1, 0, 0, 1})

	if len(m.Vertices()) != 24 {
		t.Fatalf("vertex count = %d, want 24", len(m.Vertices()))
	}
	if m.IndexCount() != 36 {
		t.Fatalf("index count = %d, want 36", m.IndexCount())
	}

	// All corners of an edge-2 cube sit at distance sqrt(3) from the origin.
	want := float32(math.Sqrt(3))
	if math.Abs(float64(m.BoundingRadius()-want)) > 1e-6 {
		t.Fatalf("bounding radius = %v, want %v", m.BoundingRadius(), want)
	}

	// Flat shading: each vertex normal is axis-aligned and unit length.
	for i, v := range m.Vertices() {
		sum := math.Abs(float64(v.Normal[0])) + math.Abs(float64(v.Normal[1])) + math.Abs(float64(v.Normal[2]))
		if sum != 1 {
			t.Fatalf("vertex %d normal = %v, want axis-aligned unit", i, v.Normal)
		}
		if v.Color != [4]float32{1, 0, 0, 1} {
			t.Fatalf("vertex %d color = %v", i, v.Color)
		}
	}

	for _, idx := range m.Indices() {
		if idx >= uint32(len(m.Vertices())) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestCubeWindingFacesOutward(t *testing.T) {
	m := NewCube(2, [4]float32{1, 1, 1, 1})
	verts := m.Vertices()
	indices := m.Indices()

	// For every triangle, the geometric face normal from the CCW winding must
	// agree with the stored vertex normal.
	for tri := 0; tri < len(indices); tri += 3 {
		a := verts[indices[tri]].Position
		b := verts[indices[tri+1]].Position
		c := verts[indices[tri+2]].Position

		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		cross := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}

		n := verts[indices[tri]].Normal
		dot := cross[0]*n[0] + cross[1]*n[1] + cross[2]*n[2]
		if dot <= 0 {
			t.Fatalf("triangle %d winds against its normal %v", tri/3, n)
		}
	}
}

func TestGridPlaneGeometry(t *testing.T) {
	m := NewGridPlane(10, 4, [4]float32{0, 1, 0, 1})

	if len(m.Vertices()) != 25 {
		t.Fatalf("vertex count = %d, want 25", len(m.Vertices()))
	}
	if m.IndexCount() != 4*4*6 {
		t.Fatalf("index count = %d, want %d", m.IndexCount(), 4*4*6)
	}

	for i, v := range m.Vertices() {
		if v.Position[1] != 0 {
			t.Fatalf("vertex %d off the plane: %v", i, v.Position)
		}
		if v.Normal != [3]float32{0, 1, 0} {
			t.Fatalf("vertex %d normal = %v", i, v.Normal)
		}
	}
}

func TestGridPlaneClampsCells(t *testing.T) {
	m := NewGridPlane(1, 0, [4]float32{1, 1, 1, 1})
	if len(m.Vertices()) != 4 || m.IndexCount() != 6 {
		t.Fatalf("clamped plane: %d vertices, %d indices", len(m.Vertices()), m.IndexCount())
	}
}

func TestVertexDataLayout(t *testing.T) {
	v := stage.VertexAttributes{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
		Color:    [4]float32{0.1, 0.2, 0.3, 0.4},
	}
	m := NewMesh(WithVertices([]stage.VertexAttributes{v}))

	data := m.VertexData()
	if len(data) != 40 {
		t.Fatalf("vertex data length = %d, want 40", len(data))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[0:4])); got != 1 {
		t.Fatalf("position.x = %v", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[16:20])); got != 1 {
		t.Fatalf("normal.y = %v", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[36:40])); got != 0.4 {
		t.Fatalf("color.a = %v", got)
	}
}

func TestIndexAndInstanceDataLayout(t *testing.T) {
	m := NewMesh(
		WithIndices([]uint32{0, 1, 0x01020304}),
		WithInstances([][16]float32{stage.IdentityInstance()}),
	)

	idx := m.IndexData()
	if len(idx) != 12 {
		t.Fatalf("index data length = %d, want 12", len(idx))
	}
	if got := binary.LittleEndian.Uint32(idx[8:12]); got != 0x01020304 {
		t.Fatalf("index[2] = %#x", got)
	}

	inst := m.InstanceData()
	if len(inst) != 64 {
		t.Fatalf("instance data length = %d, want 64", len(inst))
	}
	// Diagonal lanes of the identity pose.
	for _, off := range []int{0, 20, 40, 60} {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(inst[off : off+4])); got != 1 {
			t.Fatalf("instance data at offset %d = %v, want 1", off, got)
		}
	}

	// In-place staging must produce the same bytes as the marshaler.
	g := stage.GPUInstanceData{Model: m.Instances()[0]}
	if !bytes.Equal(inst, g.Marshal()) {
		t.Fatal("instance data diverges from the GPUInstanceData layout")
	}
}
