package stage

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// VertexStageSource is the canonical WGSL vertex stage. It consumes the
// GPUVertex and GPUInstanceData buffer layouts below plus one
// GPUTransformUniform at group 0, binding 0, and produces the same outputs as
// VertexStage.Transform.
//
//go:embed assets/vertex_stage.wgsl
var VertexStageSource string

// SurfaceFragmentSource is the companion WGSL fragment stage: it renormalizes
// the interpolated world normal and shades the forwarded vertex color with a
// fixed directional light.
//
//go:embed assets/surface_fragment.wgsl
var SurfaceFragmentSource string

// GPUVertex is the GPU-aligned representation of one vertex in the attribute
// stream. Matches the WGSL VertexInput struct layout exactly (see
// VertexStageSource). Size: 40 bytes, tightly packed.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal, not required to be unit length (12 bytes)
	Color    [4]float32 // offset 24: per-vertex RGBA color (16 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 40-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 40)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[36:40], math.Float32bits(g.Color[3]))
	return buf
}

// GPUInstanceData is the per-instance pose matrix as consumed by the instance
// buffer: a 4x4 column-major matrix split across four vec4 attribute slots.
// Size: 64 bytes.
type GPUInstanceData struct {
	Model [16]float32 // offset 0: per-instance model matrix, column-major (64 bytes)
}

// Size returns the size of the GPUInstanceData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstanceData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstanceData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUInstanceData) Marshal() []byte {
	buf := make([]byte, 64)
	for i, f := range g.Model {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	return buf
}

// GPUTransformUniform is the GPU-aligned representation of a TransformSet plus
// its derived normal matrix. Matches the WGSL TransformUniform struct layout
// exactly (see VertexStageSource). Size: 240 bytes; the mat3x3 occupies three
// 16-byte columns per WGSL uniform alignment rules.
type GPUTransformUniform struct {
	Model      [16]float32   // offset   0: model matrix, column-major (64 bytes)
	View       [16]float32   // offset  64: view matrix, column-major (64 bytes)
	Projection [16]float32   // offset 128: projection matrix, column-major (64 bytes)
	Normal     [3][4]float32 // offset 192: normal matrix columns, each padded to vec4 (48 bytes)
}

// Size returns the size of the GPUTransformUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUTransformUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTransformUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 240-byte buffer ready for GPU upload.
func (g *GPUTransformUniform) Marshal() []byte {
	buf := make([]byte, 240)
	off := 0
	for _, m := range [3][16]float32{g.Model, g.View, g.Projection} {
		for _, f := range m {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
			off += 4
		}
	}
	for _, col := range g.Normal {
		for _, f := range col {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
			off += 4
		}
	}
	return buf
}

// NewGPUTransformUniform packs a TransformSet and its normal matrix into the
// uniform layout, spreading the 3x3 normal matrix across padded vec4 columns.
//
// Parameters:
//   - t: the transform set
//   - normal: the 3x3 normal matrix, column-major
//
// Returns:
//   - GPUTransformUniform: the packed uniform
func NewGPUTransformUniform(t TransformSet, normal [9]float32) GPUTransformUniform {
	u := GPUTransformUniform{
		Model:      t.Model,
		View:       t.View,
		Projection: t.Projection,
	}
	for c := range 3 {
		u.Normal[c] = [4]float32{normal[c*3], normal[c*3+1], normal[c*3+2], 0}
	}
	return u
}

// VertexBufferLayouts returns the two vertex buffer layouts the stage
// consumes: buffer 0 steps per vertex with attribute locations 0 through 2,
// buffer 1 steps per instance with the pose matrix columns at locations 3
// through 6.
//
// Returns:
//   - []wgpu.VertexBufferLayout: the vertex and instance buffer layouts, in slot order
func VertexBufferLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: 40,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
			},
		},
		{
			ArrayStride: 64,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 4},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 6},
			},
		},
	}
}

// BindGroupLayoutDescriptors returns the bind group layouts the stage's WGSL
// declares: a single uniform buffer at group 0, binding 0 holding one
// GPUTransformUniform, visible to both stages so the fragment shader may share
// the group.
//
// Returns:
//   - []wgpu.BindGroupLayoutDescriptor: one descriptor per bind group index
func BindGroupLayoutDescriptors() []wgpu.BindGroupLayoutDescriptor {
	return []wgpu.BindGroupLayoutDescriptor{
		{
			Label: "transform_uniform_layout",
			Entries: []wgpu.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
					Buffer: wgpu.BufferBindingLayout{
						Type:           wgpu.BufferBindingTypeUniform,
						MinBindingSize: 240,
					},
				},
			},
		},
	}
}
