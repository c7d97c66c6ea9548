package stage

// StageBuilderOption is a function that configures a vertexStageImpl instance.
type StageBuilderOption func(*vertexStageImpl)

// WithTransforms sets the initial uniform transform set.
//
// Parameters:
//   - t: the transform set to start from
//
// Returns:
//   - StageBuilderOption: the option to apply
func WithTransforms(t TransformSet) StageBuilderOption {
	return func(s *vertexStageImpl) {
		s.transforms = t
	}
}

// WithModel sets the initial model matrix, leaving view and projection as configured.
//
// Parameters:
//   - m: the model matrix (16 elements, column-major)
//
// Returns:
//   - StageBuilderOption: the option to apply
func WithModel(m [16]float32) StageBuilderOption {
	return func(s *vertexStageImpl) {
		s.transforms.Model = m
	}
}

// WithView sets the initial view matrix.
//
// Parameters:
//   - m: the view matrix (16 elements, column-major)
//
// Returns:
//   - StageBuilderOption: the option to apply
func WithView(m [16]float32) StageBuilderOption {
	return func(s *vertexStageImpl) {
		s.transforms.View = m
	}
}

// WithProjection sets the initial projection matrix.
//
// Parameters:
//   - m: the projection matrix (16 elements, column-major)
//
// Returns:
//   - StageBuilderOption: the option to apply
func WithProjection(m [16]float32) StageBuilderOption {
	return func(s *vertexStageImpl) {
		s.transforms.Projection = m
	}
}

// WithWorkers sets the number of workers used by TransformBatch. Values below
// one are clamped to one.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - StageBuilderOption: the option to apply
func WithWorkers(n int) StageBuilderOption {
	return func(s *vertexStageImpl) {
		s.workers = max(n, 1)
	}
}
