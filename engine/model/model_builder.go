package model

import "github.com/lumen-engine/lumen-go/engine/stage"

// MeshBuilderOption is a function that configures a mesh instance.
type MeshBuilderOption func(*mesh)

// WithName sets the mesh identifier.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: the option to apply
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithVertices sets the vertex attribute stream.
//
// Parameters:
//   - vertices: the vertices
//
// Returns:
//   - MeshBuilderOption: the option to apply
func WithVertices(vertices []stage.VertexAttributes) MeshBuilderOption {
	return func(m *mesh) {
		m.vertices = vertices
	}
}

// WithIndices sets the triangle index list.
//
// Parameters:
//   - indices: the indices
//
// Returns:
//   - MeshBuilderOption: the option to apply
func WithIndices(indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.indices = indices
	}
}

// WithInstances sets the per-instance pose list.
//
// Parameters:
//   - instances: the instance poses, column-major
//
// Returns:
//   - MeshBuilderOption: the option to apply
func WithInstances(instances [][16]float32) MeshBuilderOption {
	return func(m *mesh) {
		m.instances = instances
	}
}
