package svg

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/sigvec/internal/model"
)

// TestEncoderEncode tests SVG document generation.
func TestEncoderEncode(t *testing.T) {
	t.Parallel()

	t.Run("renders one path element per stroke", func(t *testing.T) {
		t.Parallel()

		p := model.NewSignaturePath(100, 80)
		p.AddStroke(model.Stroke{{X: 10, Y: 10}, {X: 90, Y: 70}})
		p.AddStroke(model.Stroke{{X: 20, Y: 5}, {X: 20, Y: 40}, {X: 35, Y: 40}})

		var b strings.Builder
		if err := NewEncoder().Encode(&b, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := b.String()

		if !strings.Contains(got, `viewBox="0 0 100 80"`) {
			t.Errorf("missing viewBox: %s", got)
		}
		if n := strings.Count(got, "<path "); n != 2 {
			t.Errorf("expected 2 path elements, got %d", n)
		}
		if !strings.Contains(got, `d="M 10.00 10.00 L 90.00 70.00"`) {
			t.Errorf("missing first stroke path data: %s", got)
		}
		if !strings.Contains(got, `d="M 20.00 5.00 L 20.00 40.00 L 35.00 40.00"`) {
			t.Errorf("missing second stroke path data: %s", got)
		}
	})

	t.Run("empty signature still yields a valid document", func(t *testing.T) {
		t.Parallel()

		got := NewEncoder().EncodeString(model.NewSignaturePath(50, 50))
		if !strings.Contains(got, "<svg ") || !strings.Contains(got, "</svg>") {
			t.Errorf("not a document: %s", got)
		}
		if strings.Contains(got, "<path ") {
			t.Errorf("unexpected path element: %s", got)
		}
	})

	t.Run("options override stroke attributes", func(t *testing.T) {
		t.Parallel()

		p := model.NewSignaturePath(10, 10)
		p.AddStroke(model.Stroke{{X: 1, Y: 1}, {X: 2, Y: 2}})

		got := NewEncoder(WithStrokeWidth(3.5), WithStrokeColor("#112233")).EncodeString(p)
		if !strings.Contains(got, `stroke="#112233"`) || !strings.Contains(got, `stroke-width="3.50"`) {
			t.Errorf("options not applied: %s", got)
		}
	})
}

// TestPathData tests stroke-to-path-data rendering.
func TestPathData(t *testing.T) {
	t.Parallel()

	t.Run("single point renders as a zero-length segment", func(t *testing.T) {
		t.Parallel()

		got := PathData(model.Stroke{{X: 4.5, Y: 7}})
		if got != "M 4.50 7.00 L 4.50 7.00" {
			t.Errorf("unexpected path data: %s", got)
		}
	})

	t.Run("empty stroke renders nothing", func(t *testing.T) {
		t.Parallel()

		if got := PathData(nil); got != "" {
			t.Errorf("unexpected path data: %s", got)
		}
	})
}

// TestParsePathData tests the moveto/lineto parser.
func TestParsePathData(t *testing.T) {
	t.Parallel()

	t.Run("absolute commands round-trip the encoder output", func(t *testing.T) {
		t.Parallel()

		s := model.Stroke{{X: 10, Y: 10}, {X: 90, Y: 70}, {X: 95, Y: 60}}
		got, err := ParsePathData(PathData(s))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]model.Stroke{s}, got); diff != "" {
			t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("relative commands accumulate from the pen position", func(t *testing.T) {
		t.Parallel()

		got, err := ParsePathData("m 5,5 l 10,0 5,5")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []model.Stroke{{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 20, Y: 10}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("relative path mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("each moveto starts a new stroke", func(t *testing.T) {
		t.Parallel()

		got, err := ParsePathData("M 0 0 L 1 1 M 10 10 L 11 11")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 strokes, got %d", len(got))
		}
	})

	t.Run("implicit linetos follow a moveto", func(t *testing.T) {
		t.Parallel()

		got, err := ParsePathData("M 0 0 1 1 2 0")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []model.Stroke{{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("implicit lineto mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects commands outside the subset", func(t *testing.T) {
		t.Parallel()

		if _, err := ParsePathData("M 0 0 C 1 1 2 2 3 3"); !errors.Is(err, ErrParsePathData) {
			t.Errorf("expected ErrParsePathData, got %v", err)
		}
	})

	t.Run("rejects leading coordinates without a command", func(t *testing.T) {
		t.Parallel()

		if _, err := ParsePathData("10 10 L 20 20"); !errors.Is(err, ErrParsePathData) {
			t.Errorf("expected ErrParsePathData, got %v", err)
		}
	})

	t.Run("rejects dangling coordinates", func(t *testing.T) {
		t.Parallel()

		if _, err := ParsePathData("M 10"); !errors.Is(err, ErrParsePathData) {
			t.Errorf("expected ErrParsePathData, got %v", err)
		}
	})
}

// TestParse tests reloading whole SVG documents.
func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the encoder output", func(t *testing.T) {
		t.Parallel()

		want := model.NewSignaturePath(120, 90)
		want.AddStroke(model.Stroke{{X: 10, Y: 10}, {X: 90, Y: 70}})
		want.AddStroke(model.Stroke{{X: 20, Y: 5}, {X: 20, Y: 40}, {X: 35, Y: 40}})

		got, err := ParseString(NewEncoder().EncodeString(want))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty document yields an empty path", func(t *testing.T) {
		t.Parallel()

		got, err := ParseString(NewEncoder().EncodeString(model.NewSignaturePath(50, 40)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Width != 50 || got.Height != 40 || !got.IsEmpty() {
			t.Errorf("unexpected path: %+v", got)
		}
	})

	t.Run("accepts px-suffixed dimensions", func(t *testing.T) {
		t.Parallel()

		got, err := ParseString(`<svg xmlns="http://www.w3.org/2000/svg" width="30px" height="20px"></svg>`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Width != 30 || got.Height != 20 {
			t.Errorf("unexpected dimensions: %dx%d", got.Width, got.Height)
		}
	})

	t.Run("rejects non-SVG input", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseString("not an svg"); !errors.Is(err, ErrParseSVG) {
			t.Errorf("expected ErrParseSVG, got %v", err)
		}
	})

	t.Run("rejects missing dimensions", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseString(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`); !errors.Is(err, ErrParseSVG) {
			t.Errorf("expected ErrParseSVG, got %v", err)
		}
	})

	t.Run("rejects path data outside the subset", func(t *testing.T) {
		t.Parallel()

		doc := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><path d="M 0 0 Q 1 1 2 2"/></svg>`
		if _, err := ParseString(doc); !errors.Is(err, ErrParsePathData) {
			t.Errorf("expected ErrParsePathData, got %v", err)
		}
	})
}
