package config

import "errors"

// Configuration validation errors returned by Config.Validate. Sentinel
// errors let callers branch with errors.Is while keeping human-readable
// messages.
var (
	// ErrNoInput is returned when no input image path is specified.
	ErrNoInput = errors.New("no input specified: provide an image path")

	// ErrInvalidThreshold is returned when the explicit threshold is
	// outside [0, 255] and not the -1 auto sentinel.
	ErrInvalidThreshold = errors.New("invalid threshold: must be -1 (auto) or in [0, 255]")

	// ErrInvalidRotation is returned for rotations other than right angles.
	ErrInvalidRotation = errors.New("invalid rotation: must be one of 0, 90, -90, 180")

	// ErrInvalidMaxDimension is returned when the downscale limit is negative.
	ErrInvalidMaxDimension = errors.New("invalid max dimension: must be non-negative")

	// ErrInvalidMinComponentSize is returned when the component-size floor
	// is negative. Use 0 to derive it from the ink count.
	ErrInvalidMinComponentSize = errors.New("invalid min component size: must be non-negative")

	// ErrInvalidCloseRadius is returned when the closing radius is negative.
	ErrInvalidCloseRadius = errors.New("invalid close radius: must be non-negative")

	// ErrInvalidSkeletonIterations is returned when the thinning cap is
	// negative. Use 0 to iterate until stable.
	ErrInvalidSkeletonIterations = errors.New("invalid skeleton iterations: must be non-negative")

	// ErrInvalidEpsilon is returned when the RDP tolerance is not positive.
	ErrInvalidEpsilon = errors.New("invalid rdp epsilon: must be positive")

	// ErrInvalidSpacing is returned when the resample spacing is not positive.
	ErrInvalidSpacing = errors.New("invalid resample spacing: must be positive")

	// ErrInvalidSmoothIterations is returned when the Chaikin iteration
	// count is negative.
	ErrInvalidSmoothIterations = errors.New("invalid smooth iterations: must be non-negative")

	// ErrInvalidStrokeWidth is returned when the SVG stroke width is not
	// positive.
	ErrInvalidStrokeWidth = errors.New("invalid stroke width: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownProfile is returned when the requested profile name does
	// not exist in the profile file.
	ErrUnknownProfile = errors.New("unknown profile: not defined in the profile file")
)
