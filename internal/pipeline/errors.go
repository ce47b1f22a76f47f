package pipeline

import "errors"

var (
	// ErrNoSource means the state has no decoded image to work on.
	ErrNoSource = errors.New("pipeline: state has no source image")

	// ErrNoMask means a mask stage ran before the binarize step.
	ErrNoMask = errors.New("pipeline: state has no ink mask")
)
