package log

import (
	"context"
	"io"
	"log/slog"
)

// stageContextKey is the context key type for the active pipeline stage.
// An unexported struct type avoids collisions with keys from other packages.
type stageContextKey struct{}

// StageKey is the attribute key the handler stamps records with.
const StageKey = "stage"

// WithStage returns a context marked with the given pipeline stage name.
// Records logged with this context gain a "stage" attribute.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageContextKey{}, stage)
}

// StageFromContext returns the stage name stored in the context, if any.
func StageFromContext(ctx context.Context) (string, bool) {
	stage, ok := ctx.Value(stageContextKey{}).(string)
	return stage, ok
}

// StageHandler wraps an slog.Handler to stamp records with the pipeline
// stage stored in the context.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Library code can log through a plain *slog.Logger without knowing
//     which stage invoked it
type StageHandler struct {
	// handler is the underlying slog handler that receives stamped records.
	handler slog.Handler
}

// NewStageHandler creates a new StageHandler wrapping the given handler.
// If handler is nil, the returned StageHandler uses slog.Default().Handler().
func NewStageHandler(handler slog.Handler) *StageHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &StageHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *StageHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle stamps the record with the context's stage, if one is set, and
// passes it to the underlying handler.
func (h *StageHandler) Handle(ctx context.Context, r slog.Record) error {
	if stage, ok := StageFromContext(ctx); ok {
		stamped := r.Clone()
		stamped.AddAttrs(slog.String(StageKey, stage))
		return h.handler.Handle(ctx, stamped)
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *StageHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &StageHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *StageHandler) WithGroup(name string) slog.Handler {
	return &StageHandler{handler: h.handler.WithGroup(name)}
}

// NewLogger creates a new slog.Logger with stage stamping.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	stageHandler := NewStageHandler(textHandler)

	return slog.New(stageHandler)
}

// NewJSONLogger creates a new slog.Logger with stage stamping that outputs
// JSON format. Useful for structured log aggregation.
//
// Parameters:
//   - w: The io.Writer to write log output to
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger configured for JSON output.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	stageHandler := NewStageHandler(jsonHandler)

	return slog.New(stageHandler)
}
