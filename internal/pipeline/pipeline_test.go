package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/sigvec/internal/model"
	"github.com/nao1215/sigvec/internal/raster"
)

// mockStep is a controllable step for pipeline tests.
type mockStep struct {
	name     string
	err      error
	executed bool
}

func (m *mockStep) Do(_ context.Context, _ *State) error {
	m.executed = true
	return m.err
}

func (m *mockStep) Name() string {
	return m.name
}

func newTestState() *State {
	return NewState(raster.NewBuffer(10, 10), model.NewVectorizeReport("test.png"))
}

// TestPipelineExecute tests step sequencing and error handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes steps in order", func(t *testing.T) {
		t.Parallel()

		a := &mockStep{name: "a"}
		b := &mockStep{name: "b"}

		p := New()
		p.AddSteps(a, b)

		state := newTestState()
		if err := p.Execute(context.Background(), state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !a.executed || !b.executed {
			t.Error("all steps must execute")
		}
		if len(state.Report.PerformedStages) != 2 || state.Report.PerformedStages[0] != "a" {
			t.Errorf("unexpected performed stages: %v", state.Report.PerformedStages)
		}
		if len(state.Report.Timings) != 2 {
			t.Errorf("expected 2 timing records, got %d", len(state.Report.Timings))
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		a := &mockStep{name: "a", err: wantErr}
		b := &mockStep{name: "b"}

		p := New()
		p.AddSteps(a, b)

		state := newTestState()
		if err := p.Execute(context.Background(), state); !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
		if b.executed {
			t.Error("second step must not run after a failure")
		}
		if state.Report.ErrorMessage != "boom" {
			t.Errorf("error not recorded in report: %q", state.Report.ErrorMessage)
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		a := &mockStep{name: "a", err: errors.New("boom")}
		b := &mockStep{name: "b"}

		p := New(WithContinueOnError(true))
		p.AddSteps(a, b)

		if err := p.Execute(context.Background(), newTestState()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !b.executed {
			t.Error("second step must run when continuing on error")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		a := &mockStep{name: "a"}

		p := New()
		p.AddStep(a)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := p.Execute(ctx, newTestState()); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if a.executed {
			t.Error("step must not run after cancellation")
		}
	})
}

// TestPipelineStepNames tests introspection helpers.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddSteps(&mockStep{name: "x"}, &mockStep{name: "y"})

	if p.StepCount() != 2 {
		t.Errorf("StepCount = %d, want 2", p.StepCount())
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "x" || names[1] != "y" {
		t.Errorf("unexpected names: %v", names)
	}
}

// TestDefaultPipeline verifies the standard stage ordering.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	cfg := newPipelineTestConfig()
	p := DefaultPipeline(cfg)

	want := []string{"binarize", "morphology", "region", "skeleton", "trace", "refine"}
	got := p.StepNames()
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, got[i], want[i])
		}
	}
}
