// package model holds CPU-side mesh data in the attribute layout the vertex
// transform stage consumes, plus constructors for a few procedural meshes.
package model

import (
	"math"

	"github.com/lumen-engine/lumen-go/common"
	"github.com/lumen-engine/lumen-go/engine/stage"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name           string
	vertices       []stage.VertexAttributes
	indices        []uint32
	instances      [][16]float32
	boundingRadius float32
}

// Mesh defines the interface for a renderable mesh. A Mesh is a CPU-side
// container holding the vertex attribute stream, triangle indices, and the
// per-instance pose list, with marshaling helpers for GPU upload.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Vertices retrieves the vertex attribute stream.
	//
	// Returns:
	//   - []stage.VertexAttributes: the vertices
	Vertices() []stage.VertexAttributes

	// Indices retrieves the triangle index list.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Instances retrieves the per-instance pose matrices. A mesh always has at
	// least one instance; a single identity pose is the non-instanced case.
	//
	// Returns:
	//   - [][16]float32: the instance poses, column-major
	Instances() [][16]float32

	// InstanceCount returns the number of instances.
	//
	// Returns:
	//   - int: the instance count
	InstanceCount() int

	// SetInstances replaces the per-instance pose list. An empty list resets
	// to a single identity pose.
	//
	// Parameters:
	//   - instances: the instance poses, column-major
	SetInstances(instances [][16]float32)

	// BoundingRadius returns the bounding sphere radius for this mesh,
	// measured as the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexData marshals the vertex stream into the GPU vertex buffer layout.
	//
	// Returns:
	//   - []byte: the vertex data, 40 bytes per vertex
	VertexData() []byte

	// IndexData marshals the index list into the GPU index buffer layout.
	//
	// Returns:
	//   - []byte: the index data, 4 bytes per index, little-endian
	IndexData() []byte

	// InstanceData marshals the instance poses into the GPU instance buffer layout.
	//
	// Returns:
	//   - []byte: the instance data, 64 bytes per instance
	InstanceData() []byte
}

var _ Mesh = &mesh{}

// NewMesh creates a Mesh from explicit geometry. Options are applied in
// order; a mesh with no instances gets a single identity pose.
//
// Parameters:
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the newly created mesh
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{
		name: "mesh",
	}
	for _, option := range options {
		option(m)
	}
	if len(m.instances) == 0 {
		m.instances = [][16]float32{stage.IdentityInstance()}
	}
	m.boundingRadius = computeBoundingRadius(m.vertices)
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Vertices() []stage.VertexAttributes {
	return m.vertices
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) IndexCount() int {
	return len(m.indices)
}

func (m *mesh) Instances() [][16]float32 {
	return m.instances
}

func (m *mesh) InstanceCount() int {
	return len(m.instances)
}

func (m *mesh) SetInstances(instances [][16]float32) {
	if len(instances) == 0 {
		instances = [][16]float32{stage.IdentityInstance()}
	}
	m.instances = instances
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *mesh) VertexData() []byte {
	buf := make([]byte, 0, len(m.vertices)*40)
	for i := range m.vertices {
		v := stage.GPUVertex{
			Position: m.vertices[i].Position,
			Normal:   m.vertices[i].Normal,
			Color:    m.vertices[i].Color,
		}
		buf = append(buf, v.Marshal()...)
	}
	return buf
}

func (m *mesh) IndexData() []byte {
	return common.SliceToBytes(m.indices)
}

func (m *mesh) InstanceData() []byte {
	// The instance buffer layout is the raw column-major matrix, so the pose
	// slice can be staged in place.
	return common.SliceToBytes(m.instances)
}

// computeBoundingRadius returns the maximum vertex distance from the origin.
func computeBoundingRadius(vertices []stage.VertexAttributes) float32 {
	maxSq := float32(0)
	for i := range vertices {
		p := vertices[i].Position
		d := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if d > maxSq {
			maxSq = d
		}
	}
	return float32(math.Sqrt(float64(maxSq)))
}

// NewCube creates a unit cube centered at the origin with per-face normals
// and a single color. Each face contributes four vertices so normals stay
// flat across the face.
//
// Parameters:
//   - size: the edge length
//   - color: the RGBA color applied to every vertex
//   - options: additional mesh options, applied after the geometry is set
//
// Returns:
//   - Mesh: the cube mesh
func NewCube(size float32, color [4]float32, options ...MeshBuilderOption) Mesh {
	h := size / 2

	faces := [6]struct {
		normal [3]float32
		// corners wind counter-clockwise viewed from outside
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	vertices := make([]stage.VertexAttributes, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range f.corners {
			vertices = append(vertices, stage.VertexAttributes{
				Position: c,
				Normal:   f.normal,
				Color:    color,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	opts := append([]MeshBuilderOption{
		WithName("cube"),
		WithVertices(vertices),
		WithIndices(indices),
	}, options...)
	return NewMesh(opts...)
}

// NewGridPlane creates a flat plane on the XZ axes centered at the origin,
// subdivided into cells x cells quads with the normal pointing up.
//
// Parameters:
//   - size: the plane edge length
//   - cells: the subdivision count per axis, clamped to at least 1
//   - color: the RGBA color applied to every vertex
//   - options: additional mesh options, applied after the geometry is set
//
// Returns:
//   - Mesh: the plane mesh
func NewGridPlane(size float32, cells int, color [4]float32, options ...MeshBuilderOption) Mesh {
	cells = max(cells, 1)
	step := size / float32(cells)
	half := size / 2

	vertices := make([]stage.VertexAttributes, 0, (cells+1)*(cells+1))
	for z := 0; z <= cells; z++ {
		for x := 0; x <= cells; x++ {
			vertices = append(vertices, stage.VertexAttributes{
				Position: [3]float32{-half + float32(x)*step, 0, -half + float32(z)*step},
				Normal:   [3]float32{0, 1, 0},
				Color:    color,
			})
		}
	}

	indices := make([]uint32, 0, cells*cells*6)
	stride := uint32(cells + 1)
	for z := 0; z < cells; z++ {
		for x := 0; x < cells; x++ {
			tl := uint32(z)*stride + uint32(x)
			tr := tl + 1
			bl := tl + stride
			br := bl + 1
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}

	opts := append([]MeshBuilderOption{
		WithName("grid_plane"),
		WithVertices(vertices),
		WithIndices(indices),
	}, options...)
	return NewMesh(opts...)
}
