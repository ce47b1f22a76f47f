// Package log provides logging for sigvec, built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - A stage-aware handler that stamps every record with the pipeline
//     stage currently executing
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Stage stamping
//
// Pipeline stages run deep inside library code that should not need to
// thread a logger field through every call. Instead, the pipeline marks
// the context with the active stage and the StageHandler picks it up:
//
//	ctx = log.WithStage(ctx, "skeleton")
//	logger.InfoContext(ctx, "thinning converged", "iterations", 12)
//	// => ... stage=skeleton msg="thinning converged" iterations=12
//
// # Usage
//
//	// Create a logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
