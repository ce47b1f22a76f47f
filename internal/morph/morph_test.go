package morph

import (
	"testing"

	"github.com/nao1215/sigvec/internal/raster"
)

// TestDespeckle tests the single-pass speckle filter.
func TestDespeckle(t *testing.T) {
	t.Parallel()

	t.Run("drops isolated interior pixel", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(10, 10)
		m.Set(5, 5, true)

		out := Despeckle(m)
		if out.At(5, 5) {
			t.Error("isolated pixel must be dropped")
		}
	})

	t.Run("keeps pixel with two neighbors", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(10, 10)
		m.Set(4, 5, true)
		m.Set(5, 5, true)
		m.Set(6, 5, true)

		out := Despeckle(m)
		if !out.At(5, 5) {
			t.Error("pixel with two neighbors must survive")
		}
	})

	t.Run("fills surrounded hole", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(10, 10)
		for _, d := range raster.Neighbors8 {
			m.Set(5+d[0], 5+d[1], true)
		}
		// (5,5) itself stays background: 8 ink neighbors.

		out := Despeckle(m)
		if !out.At(5, 5) {
			t.Error("fully surrounded hole must be filled")
		}
	})

	t.Run("border pixels pass through", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(10, 10)
		m.Set(0, 0, true) // isolated, but on the border

		out := Despeckle(m)
		if !out.At(0, 0) {
			t.Error("border pixel must pass through unchanged")
		}
	})

	t.Run("input mask is not mutated", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(10, 10)
		m.Set(5, 5, true)
		Despeckle(m)
		if !m.At(5, 5) {
			t.Error("Despeckle mutated its input")
		}
	})
}

// TestRemoveSmallComponents tests size-based component filtering.
func TestRemoveSmallComponents(t *testing.T) {
	t.Parallel()

	t.Run("removes components below explicit threshold", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(20, 20)
		for x := 2; x < 12; x++ {
			m.Set(x, 2, true) // 10 px line
		}
		m.Set(15, 15, true) // lone pixel

		out := RemoveSmallComponents(m, 5)
		if out.At(15, 15) {
			t.Error("small component must be removed")
		}
		if !out.At(2, 2) {
			t.Error("large component must survive")
		}
	})

	t.Run("largest component survives even below threshold", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(20, 20)
		m.Set(10, 10, true)
		m.Set(11, 10, true) // the sole, tiny signature

		out := RemoveSmallComponents(m, 100)
		if out.Count() != 2 {
			t.Errorf("largest component must be retained, got %d pixels", out.Count())
		}
	})

	t.Run("automatic threshold keeps the floor", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(50, 50)
		for x := 5; x < 45; x++ {
			m.Set(x, 10, true) // 40 px, the largest
		}
		for x := 5; x < 10; x++ {
			m.Set(x, 30, true) // 5 px < floor of 10
		}

		out := RemoveSmallComponents(m, 0)
		if out.At(5, 30) {
			t.Error("component below automatic floor must be removed")
		}
		if !out.At(5, 10) {
			t.Error("largest component must survive")
		}
	})

	t.Run("empty mask stays empty", func(t *testing.T) {
		t.Parallel()

		out := RemoveSmallComponents(raster.NewMask(10, 10), 0)
		if out.Count() != 0 {
			t.Errorf("expected empty mask, got %d", out.Count())
		}
	})
}

// TestClose tests morphological closing.
func TestClose(t *testing.T) {
	t.Parallel()

	t.Run("radius zero is a copy", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(10, 10)
		m.Set(5, 5, true)

		out := Close(m, 0)
		if out == m {
			t.Fatal("expected a copy, got the same mask")
		}
		if !out.At(5, 5) || out.Count() != 1 {
			t.Error("radius 0 must not change the mask")
		}
	})

	t.Run("bridges a one-pixel gap in a thick stroke", func(t *testing.T) {
		t.Parallel()

		// 3-wide horizontal stroke with a 1-wide cut at x=10.
		m := raster.NewMask(20, 20)
		for y := 9; y <= 11; y++ {
			for x := 4; x <= 16; x++ {
				if x != 10 {
					m.Set(x, y, true)
				}
			}
		}

		out := Close(m, 1)
		if !out.At(10, 10) {
			t.Error("closing must bridge the gap")
		}
	})

	t.Run("does not grow an isolated blob", func(t *testing.T) {
		t.Parallel()

		m := raster.NewMask(20, 20)
		for y := 8; y <= 12; y++ {
			for x := 8; x <= 12; x++ {
				m.Set(x, y, true)
			}
		}

		out := Close(m, 1)
		if out.At(7, 7) || out.At(13, 13) {
			t.Error("closing must not grow the overall shape")
		}
	})
}
