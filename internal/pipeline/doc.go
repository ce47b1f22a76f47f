// Package pipeline orchestrates the vectorization stages: binarize,
// morphology, region isolation, skeletonization, tracing, and polyline
// refinement. Stages implement a common Step interface and pass their
// intermediate results through a shared State, so individual stages can be
// reordered, skipped, or replaced in tests.
package pipeline
