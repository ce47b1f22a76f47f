package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/sigvec/internal/binarize"
	"github.com/nao1215/sigvec/internal/config"
	"github.com/nao1215/sigvec/internal/model"
	"github.com/nao1215/sigvec/internal/morph"
	"github.com/nao1215/sigvec/internal/raster"
	"github.com/nao1215/sigvec/internal/refine"
	"github.com/nao1215/sigvec/internal/region"
	"github.com/nao1215/sigvec/internal/skeleton"
	"github.com/nao1215/sigvec/internal/trace"
)

// BinarizeStep turns the source buffer into the initial ink mask and
// records the threshold decision in the report.
type BinarizeStep struct {
	// threshold is the explicit threshold, or -1 for automatic selection.
	threshold int

	// invert flips the ink polarity.
	invert bool

	// logger for structured logging.
	logger *slog.Logger
}

// BinarizeStepOption configures a BinarizeStep.
type BinarizeStepOption func(*BinarizeStep)

// WithBinarizeThreshold sets an explicit threshold in [0, 255].
func WithBinarizeThreshold(t int) BinarizeStepOption {
	return func(s *BinarizeStep) {
		s.threshold = t
	}
}

// WithBinarizeInvert flips the ink polarity.
func WithBinarizeInvert(invert bool) BinarizeStepOption {
	return func(s *BinarizeStep) {
		s.invert = invert
	}
}

// WithBinarizeLogger sets a custom logger for the binarize step.
func WithBinarizeLogger(logger *slog.Logger) BinarizeStepOption {
	return func(s *BinarizeStep) {
		s.logger = logger
	}
}

// NewBinarizeStep creates a binarize step. Without options the threshold
// and polarity are chosen automatically.
func NewBinarizeStep(opts ...BinarizeStepOption) *BinarizeStep {
	s := &BinarizeStep{
		threshold: -1,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *BinarizeStep) Name() string {
	return "binarize"
}

// Do executes the binarize step.
func (s *BinarizeStep) Do(_ context.Context, state *State) error {
	if state.Source == nil {
		return ErrNoSource
	}

	opts := []binarize.Option{binarize.WithInvert(s.invert)}
	if s.threshold >= 0 {
		opts = append(opts, binarize.WithThreshold(s.threshold))
	}

	mask, dec := binarize.New(opts...).Binarize(state.Source)
	state.Mask = mask

	state.Report.Threshold = dec.Threshold
	state.Report.DarkInk = dec.DarkInk
	state.Report.InkPixels = mask.Count()

	s.logger.Debug("binarized",
		"threshold", dec.Threshold,
		"dark_ink", dec.DarkInk,
		"auto", dec.Auto,
		"ink_pixels", state.Report.InkPixels,
	)
	return nil
}

// MorphStep cleans the ink mask: despeckling, gap closing, and removal of
// components too small to be part of the signature.
type MorphStep struct {
	// despeckle enables the isolated-pixel pass.
	despeckle bool

	// closeRadius is the disk radius for closing; 0 disables it.
	closeRadius int

	// minComponentSize drops smaller components; 0 derives the limit
	// from the ink count.
	minComponentSize int

	// previewPath, when set, writes the cleaned mask as a grayscale PNG.
	previewPath string

	// logger for structured logging.
	logger *slog.Logger
}

// MorphStepOption configures a MorphStep.
type MorphStepOption func(*MorphStep)

// WithDespeckle toggles the isolated-pixel cleanup pass.
func WithDespeckle(enabled bool) MorphStepOption {
	return func(s *MorphStep) {
		s.despeckle = enabled
	}
}

// WithCloseRadius sets the morphological closing radius.
func WithCloseRadius(radius int) MorphStepOption {
	return func(s *MorphStep) {
		s.closeRadius = radius
	}
}

// WithMinComponentSize sets the small-component cutoff in pixels.
func WithMinComponentSize(size int) MorphStepOption {
	return func(s *MorphStep) {
		s.minComponentSize = size
	}
}

// WithMorphPreview writes the cleaned mask to path for inspection.
func WithMorphPreview(path string) MorphStepOption {
	return func(s *MorphStep) {
		s.previewPath = path
	}
}

// WithMorphLogger sets a custom logger for the morphology step.
func WithMorphLogger(logger *slog.Logger) MorphStepOption {
	return func(s *MorphStep) {
		s.logger = logger
	}
}

// NewMorphStep creates a morphology step.
func NewMorphStep(opts ...MorphStepOption) *MorphStep {
	s := &MorphStep{
		despeckle:   true,
		closeRadius: 1,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *MorphStep) Name() string {
	return "morphology"
}

// Do executes the morphology step.
func (s *MorphStep) Do(_ context.Context, state *State) error {
	if state.Mask == nil {
		return ErrNoMask
	}

	mask := state.Mask
	if s.despeckle {
		mask = morph.Despeckle(mask)
	}
	if s.closeRadius > 0 {
		mask = morph.Close(mask, s.closeRadius)
	}
	mask = morph.RemoveSmallComponents(mask, s.minComponentSize)
	state.Mask = mask

	if s.previewPath != "" {
		if err := raster.WritePreview(s.previewPath, mask); err != nil {
			// The preview is a side channel; losing it is not fatal.
			s.logger.Warn("failed to write preview", "path", s.previewPath, "error", err)
		}
	}

	s.logger.Debug("cleaned mask", "ink_pixels", mask.Count())
	return nil
}

// RegionStep selects the signature region from the cleaned mask and crops
// to its padded bounding box.
type RegionStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// RegionStepOption configures a RegionStep.
type RegionStepOption func(*RegionStep)

// WithRegionLogger sets a custom logger for the region step.
func WithRegionLogger(logger *slog.Logger) RegionStepOption {
	return func(s *RegionStep) {
		s.logger = logger
	}
}

// NewRegionStep creates a region analysis step.
func NewRegionStep(opts ...RegionStepOption) *RegionStep {
	s := &RegionStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RegionStep) Name() string {
	return "region"
}

// Do executes the region analysis step.
func (s *RegionStep) Do(_ context.Context, state *State) error {
	if state.Mask == nil {
		return ErrNoMask
	}

	cropped, sel := region.Isolate(state.Mask)
	state.Mask = cropped
	state.Selection = sel

	state.Report.ComponentsFound = sel.ComponentsFound
	state.Report.ComponentsKept = sel.ComponentsKept

	s.logger.Debug("selected region",
		"components_found", sel.ComponentsFound,
		"components_kept", sel.ComponentsKept,
		"offset_x", sel.OffsetX,
		"offset_y", sel.OffsetY,
	)
	return nil
}

// SkeletonStep thins the cropped mask to a 1-pixel-wide skeleton.
type SkeletonStep struct {
	// maxIterations caps the thinning loop; 0 iterates until stable.
	maxIterations int

	// previewPath, when set, writes the skeleton as a grayscale PNG.
	previewPath string

	// logger for structured logging.
	logger *slog.Logger
}

// SkeletonStepOption configures a SkeletonStep.
type SkeletonStepOption func(*SkeletonStep)

// WithSkeletonMaxIterations caps the thinning iteration count.
func WithSkeletonMaxIterations(n int) SkeletonStepOption {
	return func(s *SkeletonStep) {
		s.maxIterations = n
	}
}

// WithSkeletonPreview writes the skeleton mask to path for inspection.
func WithSkeletonPreview(path string) SkeletonStepOption {
	return func(s *SkeletonStep) {
		s.previewPath = path
	}
}

// WithSkeletonLogger sets a custom logger for the skeleton step.
func WithSkeletonLogger(logger *slog.Logger) SkeletonStepOption {
	return func(s *SkeletonStep) {
		s.logger = logger
	}
}

// NewSkeletonStep creates a skeletonization step.
func NewSkeletonStep(opts ...SkeletonStepOption) *SkeletonStep {
	s := &SkeletonStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SkeletonStep) Name() string {
	return "skeleton"
}

// Do executes the skeletonization step.
func (s *SkeletonStep) Do(_ context.Context, state *State) error {
	if state.Mask == nil {
		return ErrNoMask
	}

	state.Mask = skeleton.New(skeleton.WithMaxIterations(s.maxIterations)).Thin(state.Mask)
	state.Report.SkeletonPixels = state.Mask.Count()

	if s.previewPath != "" {
		if err := raster.WritePreview(s.previewPath, state.Mask); err != nil {
			s.logger.Warn("failed to write preview", "path", s.previewPath, "error", err)
		}
	}

	s.logger.Debug("thinned mask", "skeleton_pixels", state.Report.SkeletonPixels)
	return nil
}

// TraceStep walks the skeleton into raw polylines and translates them back
// into source-image coordinates.
type TraceStep struct {
	// logger for structured logging.
	logger *slog.Logger
}

// TraceStepOption configures a TraceStep.
type TraceStepOption func(*TraceStep)

// WithTraceLogger sets a custom logger for the trace step.
func WithTraceLogger(logger *slog.Logger) TraceStepOption {
	return func(s *TraceStep) {
		s.logger = logger
	}
}

// NewTraceStep creates a tracing step.
func NewTraceStep(opts ...TraceStepOption) *TraceStep {
	s := &TraceStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *TraceStep) Name() string {
	return "trace"
}

// Do executes the trace step.
func (s *TraceStep) Do(_ context.Context, state *State) error {
	if state.Mask == nil {
		return ErrNoMask
	}

	raw := trace.New().Trace(state.Mask)

	// The mask was cropped by the region step; shift the points back so
	// the output lives on the original canvas.
	dx := float64(state.Selection.OffsetX)
	dy := float64(state.Selection.OffsetY)
	for _, stroke := range raw {
		for i := range stroke {
			stroke[i].X += dx
			stroke[i].Y += dy
		}
	}
	state.Raw = raw

	s.logger.Debug("traced skeleton", "strokes", len(raw))
	return nil
}

// RefineStep simplifies, resamples, optionally smooths, and orders the raw
// polylines into the final SignaturePath.
type RefineStep struct {
	// epsilon is the RDP tolerance; 0 skips simplification.
	epsilon float64

	// spacing is the resample spacing; 0 skips resampling.
	spacing float64

	// smoothIterations is the Chaikin iteration count.
	smoothIterations int

	// logger for structured logging.
	logger *slog.Logger
}

// RefineStepOption configures a RefineStep.
type RefineStepOption func(*RefineStep)

// WithRefineEpsilon sets the RDP tolerance.
func WithRefineEpsilon(epsilon float64) RefineStepOption {
	return func(s *RefineStep) {
		s.epsilon = epsilon
	}
}

// WithRefineSpacing sets the resample spacing.
func WithRefineSpacing(spacing float64) RefineStepOption {
	return func(s *RefineStep) {
		s.spacing = spacing
	}
}

// WithRefineSmoothIterations sets the Chaikin iteration count.
func WithRefineSmoothIterations(n int) RefineStepOption {
	return func(s *RefineStep) {
		s.smoothIterations = n
	}
}

// WithRefineLogger sets a custom logger for the refine step.
func WithRefineLogger(logger *slog.Logger) RefineStepOption {
	return func(s *RefineStep) {
		s.logger = logger
	}
}

// NewRefineStep creates a refinement step.
func NewRefineStep(opts ...RefineStepOption) *RefineStep {
	s := &RefineStep{
		epsilon: refine.DefaultEpsilon,
		spacing: refine.DefaultSpacing,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RefineStep) Name() string {
	return "refine"
}

// Do executes the refine step.
func (s *RefineStep) Do(_ context.Context, state *State) error {
	if state.Source == nil {
		return ErrNoSource
	}

	refined := refine.New(
		refine.WithEpsilon(s.epsilon),
		refine.WithSpacing(s.spacing),
		refine.WithSmoothIterations(s.smoothIterations),
	).Refine(state.Raw)

	path := model.NewSignaturePath(state.Source.Width, state.Source.Height)
	for _, stroke := range refined {
		path.AddStroke(stroke)
	}
	state.Path = path
	state.Report.Path = path
	state.Report.Finalize()

	s.logger.Debug("refined path",
		"strokes", state.Report.StrokeCount,
		"points", state.Report.PointCount,
	)
	return nil
}

// DefaultPipeline creates a pipeline with all six stages wired from the
// configuration. This is the standard pipeline the CLI runs.
//
// Design decision: We provide a default pipeline because most callers want
// the full stage sequence, it reduces boilerplate in the CLI, and it keeps
// the stage ordering in one place.
func DefaultPipeline(cfg *config.Config, opts ...Option) *Pipeline {
	p := New(opts...)

	binarizeOpts := []BinarizeStepOption{
		WithBinarizeInvert(cfg.Invert),
		WithBinarizeLogger(p.logger),
	}
	if cfg.Threshold >= 0 {
		binarizeOpts = append(binarizeOpts, WithBinarizeThreshold(cfg.Threshold))
	}

	morphOpts := []MorphStepOption{
		WithDespeckle(cfg.Despeckle),
		WithCloseRadius(cfg.CloseRadius),
		WithMinComponentSize(cfg.MinComponentSize),
		WithMorphLogger(p.logger),
	}
	if cfg.PreviewFile != "" {
		morphOpts = append(morphOpts, WithMorphPreview(cfg.PreviewFile))
	}

	p.AddSteps(
		NewBinarizeStep(binarizeOpts...),
		NewMorphStep(morphOpts...),
		NewRegionStep(WithRegionLogger(p.logger)),
		NewSkeletonStep(
			WithSkeletonMaxIterations(cfg.SkeletonMaxIterations),
			WithSkeletonLogger(p.logger),
		),
		NewTraceStep(WithTraceLogger(p.logger)),
		NewRefineStep(
			WithRefineEpsilon(cfg.RDPEpsilon),
			WithRefineSpacing(cfg.ResampleSpacing),
			WithRefineSmoothIterations(cfg.SmoothIterations),
			WithRefineLogger(p.logger),
		),
	)

	return p
}

// NewLoader builds an image loader from the configuration.
func NewLoader(cfg *config.Config) *raster.Loader {
	opts := []raster.LoaderOption{}
	if cfg.MaxDimension > 0 {
		opts = append(opts, raster.WithMaxDimension(cfg.MaxDimension))
	}
	if cfg.Rotation != 0 {
		opts = append(opts, raster.WithRotation(cfg.Rotation))
	}
	return raster.NewLoader(opts...)
}

// Vectorize runs the default pipeline over one decoded image and returns
// its report. The report carries the final path; a failed stage leaves its
// error both in the report and in the returned error.
func Vectorize(ctx context.Context, source string, buf *raster.Buffer, cfg *config.Config, opts ...Option) (*model.VectorizeReport, error) {
	report := model.NewVectorizeReport(source)
	state := NewState(buf, report)

	if err := DefaultPipeline(cfg, opts...).Execute(ctx, state); err != nil {
		return report, fmt.Errorf("vectorize %s: %w", source, err)
	}
	return report, nil
}
