package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values. The tuning defaults match the pipeline's
// built-in heuristics; CLI flags and profile files override them per run.
const (
	// DefaultThreshold of -1 selects the intensity threshold automatically
	// with Otsu's method. Explicit values must be in [0, 255].
	DefaultThreshold = -1

	// DefaultMaxDimension caps the working image size. Signatures carry no
	// useful detail beyond this scale, and thinning cost grows with area.
	DefaultMaxDimension = 1024

	// DefaultCloseRadius of 1 bridges single-pixel pen gaps without visibly
	// fattening strokes.
	DefaultCloseRadius = 1

	// DefaultRDPEpsilon is the simplification tolerance in pixels.
	DefaultRDPEpsilon = 1.5

	// DefaultResampleSpacing is the arc-length distance between output
	// points in pixels.
	DefaultResampleSpacing = 2.0

	// DefaultSmoothIterations of 0 leaves Chaikin smoothing off; thinned
	// signature strokes are usually smooth enough after resampling.
	DefaultSmoothIterations = 0

	// DefaultBatchSize is the number of images vectorized concurrently in
	// batch mode. Thinning is CPU-bound, so a small fixed pool is enough.
	DefaultBatchSize = 4

	// DefaultStrokeWidth and DefaultStrokeColor style the SVG output.
	DefaultStrokeWidth = 2.0
	DefaultStrokeColor = "#000000"

	// AppName is the application name used for XDG directory paths.
	AppName = "sigvec"
)

// Config holds all options for a vectorization run. It is populated from
// CLI flags and an optional profile file, then passed through the
// application by value reference rather than global state.
type Config struct {
	// Threshold is the explicit binarization threshold in [0, 255], or -1
	// to choose one automatically via Otsu's method.
	Threshold int

	// Invert flips the ink polarity chosen by the binarizer.
	Invert bool

	// MaxDimension downscales inputs so that neither side exceeds it.
	// Zero disables downscaling.
	MaxDimension int

	// Rotation applies a right-angle pre-rotation in degrees. Must be one
	// of 0, 90, -90, or 180. Setting it disables EXIF auto-orientation.
	Rotation int

	// Despeckle enables the isolated-pixel cleanup pass.
	Despeckle bool

	// MinComponentSize drops ink components smaller than this many pixels
	// before region analysis. Zero derives the limit from the ink count.
	MinComponentSize int

	// CloseRadius is the disk radius for morphological closing. Zero
	// disables closing.
	CloseRadius int

	// SkeletonMaxIterations caps the thinning loop. Zero means iterate
	// until the skeleton is stable.
	SkeletonMaxIterations int

	// RDPEpsilon is the polyline simplification tolerance in pixels.
	RDPEpsilon float64

	// ResampleSpacing is the arc-length spacing of output points in pixels.
	ResampleSpacing float64

	// SmoothIterations is the Chaikin corner-cutting iteration count.
	SmoothIterations int

	// StrokeWidth and StrokeColor style the rendered SVG paths.
	StrokeWidth float64
	StrokeColor string

	// OutputFile is the SVG output path. Empty derives a .svg path next to
	// the source; it is only valid with a single input image.
	OutputFile string

	// PreviewFile, when set, writes a grayscale PNG of the cleaned mask
	// for visual inspection.
	PreviewFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// BatchSize is the number of concurrent vectorizations in batch mode.
	BatchSize int

	// KeepGoing continues with the remaining images when one fails. The
	// default stops at the first failure. Failure of one image never
	// affects the results of another either way.
	KeepGoing bool

	// ConfigFilePath is the path to the profile file. If empty, the tool
	// searches for .sigvec in the current directory and then in the user's
	// home directory.
	ConfigFilePath string

	// Profiles holds tuning presets loaded from the profile file.
	Profiles *File

	// ProfileName selects a preset from Profiles to apply before flags.
	ProfileName string

	// JSONReport enables JSON report output instead of the human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When set, the
	// report is written to this file instead of stdout.
	ReportFile string

	// Targets is the list of image paths to vectorize.
	Targets []string

	// DBDir is the directory for the SQLite results database. When set,
	// vectorization results are saved for later listing and retrieval.
	DBDir string

	// SaveToDB indicates whether to save results to the database. This is
	// automatically set to true when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so relying on zero values would silently disable stages.
func NewConfig() *Config {
	return &Config{
		Threshold:        DefaultThreshold,
		MaxDimension:     DefaultMaxDimension,
		Despeckle:        true,
		CloseRadius:      DefaultCloseRadius,
		RDPEpsilon:       DefaultRDPEpsilon,
		ResampleSpacing:  DefaultResampleSpacing,
		SmoothIterations: DefaultSmoothIterations,
		StrokeWidth:      DefaultStrokeWidth,
		StrokeColor:      DefaultStrokeColor,
		BatchSize:        DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for sigvec.
// On Linux: ~/.local/share/sigvec
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sigvec.
// On Linux: ~/.config/sigvec
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for sigvec.
// On Linux: ~/.cache/sigvec
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It runs once after CLI parsing, before any image is decoded, so bad
// tuning values fail fast with a clear message.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoInput
	}

	if c.Threshold < -1 || c.Threshold > 255 {
		return ErrInvalidThreshold
	}

	switch c.Rotation {
	case 0, 90, -90, 180:
	default:
		return ErrInvalidRotation
	}

	if c.MaxDimension < 0 {
		return ErrInvalidMaxDimension
	}
	if c.MinComponentSize < 0 {
		return ErrInvalidMinComponentSize
	}
	if c.CloseRadius < 0 {
		return ErrInvalidCloseRadius
	}
	if c.SkeletonMaxIterations < 0 {
		return ErrInvalidSkeletonIterations
	}

	if c.RDPEpsilon <= 0 {
		return ErrInvalidEpsilon
	}
	if c.ResampleSpacing <= 0 {
		return ErrInvalidSpacing
	}
	if c.SmoothIterations < 0 {
		return ErrInvalidSmoothIterations
	}

	if c.StrokeWidth <= 0 {
		return ErrInvalidStrokeWidth
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
