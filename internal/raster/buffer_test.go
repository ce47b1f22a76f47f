package raster

import (
	"image"
	"image/color"
	"testing"
)

// TestLuma tests Rec. 709 luma conversion.
func TestLuma(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{name: "black", r: 0, g: 0, b: 0, want: 0},
		{name: "white", r: 255, g: 255, b: 255, want: 255},
		{name: "pure green dominates", r: 0, g: 255, b: 0, want: 182},
		{name: "pure blue is dark", r: 0, g: 0, b: 255, want: 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Luma(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Luma(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

// TestFromImage tests conversion of a decoded image into a Buffer.
func TestFromImage(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{R: 100, G: 100, B: 100, A: 0}) // transparent
	img.SetNRGBA(1, 1, color.NRGBA{R: 0, G: 0, B: 0, A: 128})

	buf := FromImage(img)

	if buf.Width != 2 || buf.Height != 2 {
		t.Fatalf("expected 2x2 buffer, got %dx%d", buf.Width, buf.Height)
	}
	if buf.GrayAt(0, 0) != 255 {
		t.Errorf("white pixel: got gray %d", buf.GrayAt(0, 0))
	}
	if buf.GrayAt(1, 0) != 0 {
		t.Errorf("black pixel: got gray %d", buf.GrayAt(1, 0))
	}
	if buf.AlphaAt(0, 1) != 0 {
		t.Errorf("transparent pixel: got alpha %d", buf.AlphaAt(0, 1))
	}
	if buf.AlphaAt(1, 1) == 0 {
		t.Error("half-transparent pixel lost its alpha")
	}
}

// TestMaskAt tests bounds behavior of Mask accessors.
func TestMaskAt(t *testing.T) {
	t.Parallel()

	m := NewMask(3, 3)
	m.Set(1, 1, true)

	if !m.At(1, 1) {
		t.Error("expected ink at (1,1)")
	}
	// Out-of-bounds reads are non-ink, not a panic.
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if m.At(p[0], p[1]) {
			t.Errorf("out-of-bounds (%d,%d) must be non-ink", p[0], p[1])
		}
	}
}

// TestMaskCrop tests inclusive-rectangle cropping with clipping.
func TestMaskCrop(t *testing.T) {
	t.Parallel()

	m := NewMask(10, 10)
	m.Set(3, 3, true)
	m.Set(5, 5, true)

	t.Run("inclusive bounds", func(t *testing.T) {
		t.Parallel()

		c := m.Crop(3, 3, 5, 5)
		if c.Width != 3 || c.Height != 3 {
			t.Fatalf("expected 3x3 crop, got %dx%d", c.Width, c.Height)
		}
		if !c.At(0, 0) || !c.At(2, 2) {
			t.Error("crop lost ink pixels")
		}
	})

	t.Run("clips to mask bounds", func(t *testing.T) {
		t.Parallel()

		c := m.Crop(-5, -5, 100, 100)
		if c.Width != 10 || c.Height != 10 {
			t.Errorf("expected full 10x10 crop, got %dx%d", c.Width, c.Height)
		}
		if c.Count() != 2 {
			t.Errorf("expected 2 ink pixels, got %d", c.Count())
		}
	})
}

// TestBufferRotate tests axis-aligned rotations.
func TestBufferRotate(t *testing.T) {
	t.Parallel()

	// 2x1 buffer: left pixel dark, right pixel light.
	b := NewBuffer(2, 1)
	b.Set(0, 0, 10, 255)
	b.Set(1, 0, 200, 255)

	t.Run("90 clockwise", func(t *testing.T) {
		t.Parallel()

		r := b.Rotate90()
		if r.Width != 1 || r.Height != 2 {
			t.Fatalf("expected 1x2, got %dx%d", r.Width, r.Height)
		}
		if r.GrayAt(0, 0) != 10 || r.GrayAt(0, 1) != 200 {
			t.Errorf("unexpected pixel order after rotation: %d, %d", r.GrayAt(0, 0), r.GrayAt(0, 1))
		}
	})

	t.Run("180", func(t *testing.T) {
		t.Parallel()

		r := b.Rotate180()
		if r.GrayAt(0, 0) != 200 || r.GrayAt(1, 0) != 10 {
			t.Errorf("unexpected pixel order after rotation: %d, %d", r.GrayAt(0, 0), r.GrayAt(1, 0))
		}
	})

	t.Run("270 is inverse of 90", func(t *testing.T) {
		t.Parallel()

		r := b.Rotate90().Rotate270()
		if r.Width != 2 || r.Height != 1 {
			t.Fatalf("expected 2x1, got %dx%d", r.Width, r.Height)
		}
		if r.GrayAt(0, 0) != 10 || r.GrayAt(1, 0) != 200 {
			t.Errorf("rotation roundtrip changed pixels: %d, %d", r.GrayAt(0, 0), r.GrayAt(1, 0))
		}
	})
}
