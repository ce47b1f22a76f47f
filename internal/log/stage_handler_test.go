package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// TestStageHandler_StampsStage tests that records logged with a stage
// context carry the stage attribute.
func TestStageHandler_StampsStage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	ctx := WithStage(context.Background(), "binarize")
	logger.InfoContext(ctx, "threshold chosen", "threshold", 142)

	output := buf.String()
	if !strings.Contains(output, "stage=binarize") {
		t.Errorf("expected stage attribute in output, but not found: %s", output)
	}
	if !strings.Contains(output, "threshold=142") {
		t.Errorf("expected original attributes to survive, but not found: %s", output)
	}
}

// TestStageHandler_NoStage tests that records without a stage context pass
// through unchanged.
func TestStageHandler_NoStage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	logger.Info("plain message", "source", "sig.png")

	output := buf.String()
	if strings.Contains(output, "stage=") {
		t.Errorf("expected no stage attribute, but found one: %s", output)
	}
	if !strings.Contains(output, "source=sig.png") {
		t.Errorf("expected attributes to survive, but not found: %s", output)
	}
}

// TestStageHandler_NestedStages tests that the innermost stage wins.
func TestStageHandler_NestedStages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	ctx := WithStage(context.Background(), "morphology")
	ctx = WithStage(ctx, "skeleton")
	logger.InfoContext(ctx, "test message")

	output := buf.String()
	if !strings.Contains(output, "stage=skeleton") {
		t.Errorf("expected innermost stage in output, but not found: %s", output)
	}
	if strings.Contains(output, "stage=morphology") {
		t.Errorf("expected outer stage to be replaced, but found: %s", output)
	}
}

// TestStageFromContext tests the context accessor.
func TestStageFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored stage", func(t *testing.T) {
		t.Parallel()

		ctx := WithStage(context.Background(), "trace")
		stage, ok := StageFromContext(ctx)
		if !ok || stage != "trace" {
			t.Errorf("StageFromContext() = %q, %v, want %q, true", stage, ok, "trace")
		}
	})

	t.Run("reports absence", func(t *testing.T) {
		t.Parallel()

		if _, ok := StageFromContext(context.Background()); ok {
			t.Error("expected no stage in a fresh context")
		}
	})
}

// TestNewLogger_LogLevels tests that log levels are respected.
func TestNewLogger_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		logLevel   slog.Level
		shouldShow bool
	}{
		{
			name:       "debug message shown in verbose mode",
			verbose:    true,
			logLevel:   slog.LevelDebug,
			shouldShow: true,
		},
		{
			name:       "debug message hidden in non-verbose mode",
			verbose:    false,
			logLevel:   slog.LevelDebug,
			shouldShow: false,
		},
		{
			name:       "info message hidden in non-verbose mode",
			verbose:    false,
			logLevel:   slog.LevelInfo,
			shouldShow: false,
		},
		{
			name:       "warn message shown in non-verbose mode",
			verbose:    false,
			logLevel:   slog.LevelWarn,
			shouldShow: true,
		},
		{
			name:       "error message shown in non-verbose mode",
			verbose:    false,
			logLevel:   slog.LevelError,
			shouldShow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.verbose)

			testMsg := "test_unique_message_12345"

			switch tt.logLevel {
			case slog.LevelDebug:
				logger.Debug(testMsg)
			case slog.LevelInfo:
				logger.Info(testMsg)
			case slog.LevelWarn:
				logger.Warn(testMsg)
			case slog.LevelError:
				logger.Error(testMsg)
			}

			hasMessage := strings.Contains(buf.String(), testMsg)
			if tt.shouldShow && !hasMessage {
				t.Errorf("expected message to be shown, but not found in output: %s", buf.String())
			}
			if !tt.shouldShow && hasMessage {
				t.Errorf("expected message to be hidden, but found in output: %s", buf.String())
			}
		})
	}
}

// TestStageHandler_WithAttrsAndGroup tests attribute and group delegation.
func TestStageHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, true)

	child := logger.With("source", "sig.png").WithGroup("mask")
	ctx := WithStage(context.Background(), "morphology")
	child.InfoContext(ctx, "test message", "pixels", 99)

	output := buf.String()
	if !strings.Contains(output, "source=sig.png") {
		t.Errorf("expected WithAttrs attribute, but not found: %s", output)
	}
	if !strings.Contains(output, "mask.pixels=99") {
		t.Errorf("expected grouped attribute, but not found: %s", output)
	}
}

// TestNewJSONLogger tests JSON logger creation.
func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, true)

	ctx := WithStage(context.Background(), "refine")
	logger.InfoContext(ctx, "test message", "strokes", 3)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record[StageKey] != "refine" {
		t.Errorf("expected stage %q, got %v", "refine", record[StageKey])
	}
}

// TestNewStageHandler_NilHandler tests that nil handler is handled gracefully.
func TestNewStageHandler_NilHandler(t *testing.T) {
	t.Parallel()

	handler := NewStageHandler(nil)
	if handler == nil {
		t.Error("expected non-nil handler")
	}

	logger := slog.New(handler)
	logger.Info("test message") // Should not panic
}
