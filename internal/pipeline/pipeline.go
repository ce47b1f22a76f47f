package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/sigvec/internal/log"
	"github.com/nao1215/sigvec/internal/model"
	"github.com/nao1215/sigvec/internal/raster"
	"github.com/nao1215/sigvec/internal/region"
)

// State carries the intermediate results between pipeline steps. Each step
// reads the fields earlier stages produced and fills in its own.
type State struct {
	// Source is the decoded input image. Set before execution; steps
	// treat it as read-only.
	Source *raster.Buffer

	// Mask is the current working ink mask. The binarize step creates it;
	// later mask stages replace it with their cleaned or cropped version.
	Mask *raster.Mask

	// Selection describes the signature region chosen from the mask,
	// including the crop offset back into Source coordinates.
	Selection region.Selection

	// Raw holds the traced polylines in Source coordinates.
	Raw []model.Stroke

	// Path is the final refined output.
	Path *model.SignaturePath

	// Report accumulates statistics and timings for the run.
	Report *model.VectorizeReport
}

// NewState creates a State for one decoded image.
func NewState(src *raster.Buffer, report *model.VectorizeReport) *State {
	report.Width = src.Width
	report.Height = src.Height
	return &State{Source: src, Report: report}
}

// Step is one vectorization stage.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and timing records
// 3. It's more extensible for future features (e.g., per-step previews)
type Step interface {
	// Do executes the stage. It receives the context for cancellation and
	// the state to read from and write to. Returns an error only for
	// failures that make the remaining stages meaningless.
	Do(ctx context.Context, state *State) error

	// Name returns the stage's name for logging and timing purposes.
	Name() string
}

// Pipeline executes an ordered list of steps over a State.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, the default logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution even
// when a step fails. Failed steps are logged and their errors recorded in
// the report, but subsequent steps still execute. The default is to stop,
// because the stages feed each other and a broken mask rarely produces a
// meaningful path.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence, recording per-step timings
// in the report. Cancellation is checked between steps; steps themselves
// are pure CPU work over in-memory buffers, so they finish promptly once
// started.
//
// Returns the first error encountered if continueOnError is false, or nil
// if all steps complete (errors are still recorded in the report).
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			state.Report.Error = ctx.Err()
			state.Report.ErrorMessage = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		stepCtx := log.WithStage(ctx, step.Name())
		p.logger.DebugContext(stepCtx, "executing step",
			"step", step.Name(),
			"source", state.Report.Source,
		)

		start := time.Now()
		err := step.Do(stepCtx, state)
		state.Report.AddTiming(step.Name(), time.Since(start))

		if err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"source", state.Report.Source,
				"error", err,
			)

			state.Report.Error = err
			state.Report.ErrorMessage = err.Error()

			if !p.continueOnError {
				return err
			}
		}

		state.Report.PerformedStages = append(state.Report.PerformedStages, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
