package pipeline

import "errors"

var (
	// ErrShapeMismatch is returned when the channel count or vector length
	// of the input disagrees with a block's established state.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidInput is returned for inputs of the wrong rank or type, or
	// chunks that exceed a block's capacity.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfig is returned for inconsistent construction parameters,
	// including duplicate block names within one pipeline.
	ErrConfig = errors.New("invalid configuration")

	// ErrCapabilityMissing is returned at construction when a wrapped model
	// lacks a method the block was asked to call.
	ErrCapabilityMissing = errors.New("capability missing")
)
