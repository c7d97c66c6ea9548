package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a function that configures a shader instance.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the default entry point name.
//
// Parameters:
//   - entryPoint: the entry point function name in the WGSL source
//
// Returns:
//   - ShaderBuilderOption: the option to apply
func WithEntryPoint(entryPoint string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = entryPoint
	}
}

// WithVertexLayouts declares the vertex buffer layouts the shader consumes,
// in buffer slot order.
//
// Parameters:
//   - layouts: the vertex buffer layouts
//
// Returns:
//   - ShaderBuilderOption: the option to apply
func WithVertexLayouts(layouts []wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}

// WithBindGroupLayoutDescriptors declares the bind group layouts the shader
// expects, in group index order.
//
// Parameters:
//   - descriptors: the bind group layout descriptors
//
// Returns:
//   - ShaderBuilderOption: the option to apply
func WithBindGroupLayoutDescriptors(descriptors []wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors = descriptors
	}
}
