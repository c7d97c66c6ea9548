// package stage implements the vertex transform stage: the mapping from
// per-vertex model-space attributes plus a per-instance pose to a clip-space
// position and the world-space interpolants handed to the fragment stage.
//
// The stage is the CPU reference implementation of the WGSL vertex shader
// shipped in this package's assets; both consume the same TransformUniform
// contents and the same vertex/instance buffer layout (see gpu_types.go).
package stage

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/lumen-engine/lumen-go/common"
)

// VertexAttributes is one vertex of the input attribute stream, in model space.
// The normal carries no normalization precondition; the stage never renormalizes.
// Color is RGBA, conventionally in [0, 1] but not clamped or validated here.
type VertexAttributes struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
}

// TransformSet is the uniform transform set for one draw call: the three 4x4
// column-major matrices supplied by the host. It is passed by value and never
// mutated by the stage, keeping every Transform invocation pure.
type TransformSet struct {
	// Model maps model space to world space.
	Model [16]float32
	// View maps world space to view space.
	View [16]float32
	// Projection maps view space to clip space.
	Projection [16]float32
}

// IdentityTransforms returns a TransformSet with all three matrices set to identity.
//
// Returns:
//   - TransformSet: identity model, view, and projection matrices
func IdentityTransforms() TransformSet {
	var t TransformSet
	common.Identity(t.Model[:])
	common.Identity(t.View[:])
	common.Identity(t.Projection[:])
	return t
}

// IdentityInstance returns a 4x4 identity instance pose matrix.
//
// Returns:
//   - [16]float32: the identity matrix, column-major
func IdentityInstance() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

// StageOutput is the result of one stage invocation. ClipPosition feeds the
// rasterizer's clipping step; WorldPosition, WorldNormal, and Color are the
// interpolants forwarded to the fragment stage. WorldNormal is unnormalized —
// renormalization is the consumer's responsibility.
type StageOutput struct {
	ClipPosition  [4]float32
	WorldPosition [3]float32
	WorldNormal   [3]float32
	Color         [4]float32
}

// vertexStageImpl is the implementation of the VertexStage interface.
type vertexStageImpl struct {
	mu *sync.RWMutex

	transforms TransformSet

	// normalMatrix caches the inverse-transpose of the model matrix's linear
	// part, recomputed whenever the transform set changes. It derives from the
	// model matrix only; the per-instance pose is never folded into the normal
	// path, so instance rotation does not bend normals.
	normalMatrix [9]float32

	// workers is the bounded goroutine count for TransformBatch fan-out.
	workers int
	// pool manages a reusable set of goroutines for batch transforms. Workers
	// persist across batches, avoiding per-batch goroutine spawn/teardown overhead.
	pool worker.DynamicWorkerPool
}

// VertexStage maps vertex attribute streams through the current transform set.
// A single invocation is pure: it reads the immutable transform snapshot and
// writes nothing but its returned StageOutput. Batch application is a data-
// parallel map with no shared mutable state between elements, matching the
// hardware-parallel semantics of a GPU vertex stage.
type VertexStage interface {
	// Transforms returns the current uniform transform set.
	//
	// Returns:
	//   - TransformSet: the model, view, and projection matrices
	Transforms() TransformSet

	// SetTransforms replaces the uniform transform set for subsequent
	// invocations and recomputes the cached normal matrix.
	//
	// Parameters:
	//   - t: the new transform set
	SetTransforms(t TransformSet)

	// NormalMatrix returns the cached 3x3 normal matrix (column-major) derived
	// from the model matrix: the inverse-transpose of its upper-left 3x3.
	//
	// Returns:
	//   - [9]float32: the normal matrix
	NormalMatrix() [9]float32

	// Transform runs the stage for a single vertex and instance pose:
	//
	//	world    = Model * instance * [position, 1]
	//	clip     = Projection * View * world
	//	worldPos = world.xyz
	//	worldN   = normalMatrix(Model) * normal
	//	color    = color (bit-for-bit passthrough)
	//
	// No input validation is performed; non-finite or singular inputs
	// propagate as NaN/Inf outputs rather than raising an error.
	//
	// Parameters:
	//   - v: the vertex attribute tuple
	//   - instance: the per-instance pose matrix (16 elements, column-major)
	//
	// Returns:
	//   - StageOutput: clip position and forwarded interpolants
	Transform(v VertexAttributes, instance [16]float32) StageOutput

	// TransformBatch runs the stage for every (instance, vertex) pair, fanned
	// out across the stage's worker pool. The output is ordered instance-major:
	// out[i*len(vertices)+j] is vertex j under instance i, so results are
	// deterministic regardless of scheduling.
	//
	// Parameters:
	//   - vertices: the vertex attribute stream
	//   - instances: the per-instance pose matrices
	//
	// Returns:
	//   - []StageOutput: len(vertices)*len(instances) outputs, instance-major
	TransformBatch(vertices []VertexAttributes, instances [][16]float32) []StageOutput

	// Workers returns the configured worker count for batch transforms.
	//
	// Returns:
	//   - int: the worker count
	Workers() int
}

var _ VertexStage = &vertexStageImpl{}

// NewVertexStage creates a VertexStage with identity transforms and a worker
// pool sized to the machine by default. Options are applied in order.
//
// Parameters:
//   - options: functional options to configure the stage
//
// Returns:
//   - VertexStage: the configured stage
func NewVertexStage(options ...StageBuilderOption) VertexStage {
	s := &vertexStageImpl{
		mu:         &sync.RWMutex{},
		transforms: IdentityTransforms(),
		workers:    max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(s)
	}
	s.refreshNormalMatrix()

	// Queue size of 256 accommodates typical batch chunk counts with headroom.
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	return s
}

func (s *vertexStageImpl) Transforms() TransformSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transforms
}

func (s *vertexStageImpl) SetTransforms(t TransformSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transforms = t
	s.refreshNormalMatrix()
}

func (s *vertexStageImpl) NormalMatrix() [9]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.normalMatrix
}

func (s *vertexStageImpl) Workers() int {
	return s.workers
}

// refreshNormalMatrix recomputes the cached normal matrix from the model
// matrix. Caller must hold the mutex (or have exclusive access during construction).
func (s *vertexStageImpl) refreshNormalMatrix() {
	common.NormalMatrix(s.normalMatrix[:], s.transforms.Model[:])
}

func (s *vertexStageImpl) Transform(v VertexAttributes, instance [16]float32) StageOutput {
	s.mu.RLock()
	t := s.transforms
	n := s.normalMatrix
	s.mu.RUnlock()

	return transformOne(&t, &n, v, &instance)
}

// transformOne is the pure stage kernel shared by Transform and TransformBatch.
// Evaluation order matters and mirrors the shader: the instance pose composes
// inside the model matrix for positions, while the normal path uses the model
// matrix alone.
func transformOne(t *TransformSet, n *[9]float32, v VertexAttributes, instance *[16]float32) StageOutput {
	var out StageOutput

	pos4 := [4]float32{v.Position[0], v.Position[1], v.Position[2], 1}

	// world = Model * instance * [position, 1]
	var world [4]float32
	common.MulVec4(world[:], instance[:], pos4[:])
	common.MulVec4(world[:], t.Model[:], world[:])

	// clip = Projection * (View * world)
	var clip [4]float32
	common.MulVec4(clip[:], t.View[:], world[:])
	common.MulVec4(clip[:], t.Projection[:], clip[:])
	out.ClipPosition = clip

	// Forward world.xyz without a perspective divide; after affine model and
	// instance transforms the homogeneous component is 1.
	out.WorldPosition = [3]float32{world[0], world[1], world[2]}

	common.MulNormal(out.WorldNormal[:], n[:], v.Normal[:])
	out.Color = v.Color

	return out
}

func (s *vertexStageImpl) TransformBatch(vertices []VertexAttributes, instances [][16]float32) []StageOutput {
	s.mu.RLock()
	t := s.transforms
	n := s.normalMatrix
	s.mu.RUnlock()

	total := len(vertices) * len(instances)
	if total == 0 {
		return nil
	}
	out := make([]StageOutput, total)

	// Split the flattened (instance, vertex) index space into contiguous
	// chunks, a few per worker so uneven chunks still balance. Every chunk
	// writes a disjoint range of out — no synchronization beyond the barrier.
	chunk := total / (s.workers * 4)
	if chunk < 1 {
		chunk = 1
	}

	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < total; start += chunk {
		end := start + chunk
		if end > total {
			end = total
		}

		wg.Add(1)
		lo, hi := start, end
		id := taskID
		taskID++
		s.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for idx := lo; idx < hi; idx++ {
					i := idx / len(vertices)
					j := idx % len(vertices)
					out[idx] = transformOne(&t, &n, vertices[j], &instances[i])
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return out
}
