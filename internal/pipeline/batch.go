package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sigvec/internal/config"
	"github.com/nao1215/sigvec/internal/model"
	"github.com/nao1215/sigvec/internal/raster"
)

// BatchProcessor vectorizes multiple images concurrently. It uses errgroup
// to manage goroutines and respect the concurrency limit.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Pipeline because it keeps the Pipeline focused on
// single-image execution and gives batch-specific behavior (per-image
// decoding, result collection) its own home.
type BatchProcessor struct {
	// cfg supplies decoding and stage tuning for every image.
	cfg *config.Config

	// pipelineFactory creates a fresh pipeline per image so no state
	// leaks between runs.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent vectorizations.
	concurrency int

	// failFast aborts the batch on the first per-image failure instead of
	// recording it and moving on.
	failFast bool

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports. Access is synchronized via mutex.
	results []*model.VectorizeReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent vectorizations.
// Defaults to the configured batch size.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithFailFast aborts the batch when any image fails to decode or
// vectorize. The default records the failure in that image's report and
// keeps processing the rest.
func WithFailFast(failFast bool) BatchOption {
	return func(b *BatchProcessor) {
		b.failFast = failFast
	}
}

// WithPipelineFactory replaces the default pipeline construction. Tests
// use this to inject instrumented pipelines.
func WithPipelineFactory(factory func() *Pipeline) BatchOption {
	return func(b *BatchProcessor) {
		b.pipelineFactory = factory
	}
}

// NewBatchProcessor creates a BatchProcessor for the given configuration.
func NewBatchProcessor(cfg *config.Config, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		cfg:         cfg,
		concurrency: cfg.BatchSize,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.concurrency <= 0 {
		bp.concurrency = config.DefaultBatchSize
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	if bp.pipelineFactory == nil {
		bp.pipelineFactory = func() *Pipeline {
			return DefaultPipeline(bp.cfg, WithLogger(bp.logger))
		}
	}

	return bp
}

// ProcessBatch vectorizes multiple images concurrently, preserving input
// order in the result slice. Decoding failures are recorded in the
// per-image report rather than aborting the batch; the error return
// reflects cancellation, or the first per-image failure in fail-fast mode.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.VectorizeReport, error) {
	bp.logger.Info("starting batch vectorization",
		"total_images", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate to maintain input order.
	bp.results = make([]*model.VectorizeReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	loader := NewLoader(bp.cfg)
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := bp.process(ctx, loader, path)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if bp.failFast && report.Error != nil {
				return report.Error
			}
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch vectorization complete",
		"total_images", len(paths),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback vectorizes multiple images and calls the
// callback for each completed one. The callback runs on the goroutine that
// finished the image, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	paths []string,
	callback func(report *model.VectorizeReport, index int),
) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	loader := NewLoader(bp.cfg)
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := bp.process(ctx, loader, path)
			callback(report, i)
			if bp.failFast && report.Error != nil {
				return report.Error
			}
			return nil
		})
	}

	return g.Wait()
}

// process decodes and vectorizes one image, always returning a report.
func (bp *BatchProcessor) process(ctx context.Context, loader *raster.Loader, path string) *model.VectorizeReport {
	report := model.NewVectorizeReport(path)

	buf, err := loader.Load(path)
	if err != nil {
		bp.logger.Warn("failed to load image", "path", path, "error", err)
		report.Error = err
		report.ErrorMessage = err.Error()
		return report
	}

	state := NewState(buf, report)
	if err := bp.pipelineFactory().Execute(ctx, state); err != nil {
		bp.logger.Warn("vectorization failed", "path", path, "error", err)
		return report
	}

	bp.logger.Info("vectorized image",
		"path", path,
		"strokes", report.StrokeCount,
		"points", report.PointCount,
	)
	return report
}
