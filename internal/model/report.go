package model

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	// Stage is the pipeline step name, e.g. "binarize".
	Stage string `json:"stage"`

	// Duration is the wall-clock time the stage took.
	Duration time.Duration `json:"duration"`
}

// VectorizeReport accumulates everything the pipeline learned about one
// input image. Steps fill in their own fields as they run; the report is
// what gets printed, serialized, and stored.
type VectorizeReport struct {
	// Source is the input image path or label.
	Source string `json:"source"`

	// DateScanned records when the run started.
	DateScanned time.Time `json:"date_scanned"`

	// Width and Height are the working canvas dimensions after any
	// downscaling and rotation.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Threshold is the intensity threshold the binarizer settled on.
	Threshold int `json:"threshold"`

	// DarkInk reports the chosen polarity: true when pixels darker than
	// the threshold were treated as ink.
	DarkInk bool `json:"dark_ink"`

	// InkPixels is the ink count right after binarization.
	InkPixels int `json:"ink_pixels"`

	// ComponentsFound is the number of 8-connected components before
	// signature selection; ComponentsKept is the number merged into the
	// selected signature region.
	ComponentsFound int `json:"components_found"`
	ComponentsKept  int `json:"components_kept"`

	// SkeletonPixels is the ink count after thinning.
	SkeletonPixels int `json:"skeleton_pixels"`

	// StrokeCount and PointCount describe the final path.
	StrokeCount int `json:"stroke_count"`
	PointCount  int `json:"point_count"`

	// MeanStrokeLength and StdDevStrokeLength summarize the final strokes.
	MeanStrokeLength   float64 `json:"mean_stroke_length"`
	StdDevStrokeLength float64 `json:"stddev_stroke_length"`

	// Timings holds per-stage durations in execution order.
	Timings []StageTiming `json:"timings"`

	// PerformedStages lists the steps that ran, in order.
	PerformedStages []string `json:"performed_stages"`

	// Path is the final vector output.
	Path *SignaturePath `json:"path,omitempty"`

	// Error holds the first fatal error, if any. Not serialized; the
	// message is carried in ErrorMessage instead.
	Error error `json:"-"`

	// ErrorMessage mirrors Error for serialized reports.
	ErrorMessage string `json:"error,omitempty"`
}

// NewVectorizeReport creates a report for the given input label.
func NewVectorizeReport(source string) *VectorizeReport {
	return &VectorizeReport{
		Source:      source,
		DateScanned: time.Now(),
	}
}

// AddTiming appends a stage timing record.
func (r *VectorizeReport) AddTiming(stage string, d time.Duration) {
	r.Timings = append(r.Timings, StageTiming{Stage: stage, Duration: d})
}

// Finalize fills in the summary fields derived from the final path.
// Safe to call with a nil or empty path.
func (r *VectorizeReport) Finalize() {
	if r.Path == nil {
		return
	}
	r.StrokeCount = len(r.Path.Strokes)
	r.PointCount = r.Path.PointCount()

	if r.StrokeCount == 0 {
		r.MeanStrokeLength = 0
		r.StdDevStrokeLength = 0
		return
	}

	lengths := make([]float64, 0, r.StrokeCount)
	for _, s := range r.Path.Strokes {
		lengths = append(lengths, s.Length())
	}
	r.MeanStrokeLength = stat.Mean(lengths, nil)
	if len(lengths) > 1 {
		r.StdDevStrokeLength = stat.StdDev(lengths, nil)
	}
}
