// package shader wraps WGSL source with the explicit layout metadata a render
// pipeline needs. Layouts are declared by the caller rather than reflected
// from the source, so the buffer contract a shader compiles against is the
// same one the Go code is written against.
package shader

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which pipeline stage a shader occupies.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation and resource binding.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	vertexLayouts              []wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors []wgpu.BindGroupLayoutDescriptor
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a WGSL shader with declared layouts. It
// exposes the shader's unique key, source code, entry point, vertex buffer
// layouts, and bind group layout descriptors needed for pipeline creation.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// ShaderType returns the type of the shader (vertex or fragment).
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// VertexLayouts retrieves the declared vertex buffer layouts, in buffer
	// slot order. Nil for fragment shaders.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors retrieves the declared bind group layout
	// descriptors, indexed by group. These are CPU-side descriptors the
	// renderer uses to create the actual wgpu.BindGroupLayout GPU objects.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: descriptors in group index order
	BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a new Shader from WGSL source with all specified options
// applied. The default entry point is "vs_main" for vertex shaders and
// "fs_main" for fragment shaders.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the type of shader (vertex or fragment)
//   - source: the WGSL source code
//   - options: functional options declaring layouts and overriding defaults
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) Shader {
	s := &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
	}
	switch shaderType {
	case ShaderTypeVertex:
		s.entryPoint = "vs_main"
	case ShaderTypeFragment:
		s.entryPoint = "fs_main"
	}
	for _, option := range options {
		option(s)
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
