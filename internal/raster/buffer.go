package raster

import (
	"image"
	"math"
)

// Buffer is a width×height grid of grayscale intensity and alpha, both in
// the 0–255 range. It is the read-only input to binarization; stages never
// mutate it.
type Buffer struct {
	// Width and Height are the pixel dimensions.
	Width  int
	Height int

	// Gray holds row-major luma values.
	Gray []uint8

	// Alpha holds row-major alpha values.
	Alpha []uint8
}

// NewBuffer allocates a zeroed buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Gray:   make([]uint8, width*height),
		Alpha:  make([]uint8, width*height),
	}
}

// GrayAt returns the luma value at (x, y).
func (b *Buffer) GrayAt(x, y int) uint8 {
	return b.Gray[y*b.Width+x]
}

// AlphaAt returns the alpha value at (x, y).
func (b *Buffer) AlphaAt(x, y int) uint8 {
	return b.Alpha[y*b.Width+x]
}

// Set writes luma and alpha at (x, y).
func (b *Buffer) Set(x, y int, gray, alpha uint8) {
	i := y*b.Width + x
	b.Gray[i] = gray
	b.Alpha[i] = alpha
}

// Luma converts an 8-bit RGB triple to Rec. 709 luma, clamped to [0, 255].
func Luma(r, g, bl uint8) uint8 {
	v := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bl)
	return uint8(math.Min(255, math.Max(0, math.Round(v))))
}

// FromImage converts a decoded image into a Buffer, computing luma per pixel.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := NewBuffer(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns alpha-premultiplied 16-bit channels.
			a8 := uint8(a >> 8)
			var gray uint8
			if a8 > 0 {
				// Un-premultiply before computing luma so translucent
				// pixels keep their own intensity.
				gray = Luma(
					uint8((r*0xffff/a)>>8),
					uint8((g*0xffff/a)>>8),
					uint8((bl*0xffff/a)>>8),
				)
			}
			buf.Set(x, y, gray, a8)
		}
	}
	return buf
}

// Mask is a width×height grid of booleans marking ink pixels. Each pipeline
// stage produces a fresh mask rather than mutating its input, except where a
// stage documents in-place cleanup on its own copy.
type Mask struct {
	// Width and Height are the pixel dimensions.
	Width  int
	Height int

	// Bits holds row-major ink flags.
	Bits []bool
}

// NewMask allocates an all-false mask of the given size.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}
}

// At returns whether (x, y) is ink. Out-of-bounds coordinates are non-ink,
// which keeps neighbor loops free of explicit border checks.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set marks (x, y) as ink or background.
func (m *Mask) Set(x, y int, ink bool) {
	m.Bits[y*m.Width+x] = ink
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.Width, m.Height)
	copy(out.Bits, m.Bits)
	return out
}

// Count returns the number of ink pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Crop returns a new mask containing the rectangle [x0, x1]×[y0, y1]
// (inclusive), clipped to the mask bounds.
func (m *Mask) Crop(x0, y0, x1, y1 int) *Mask {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= m.Width {
		x1 = m.Width - 1
	}
	if y1 >= m.Height {
		y1 = m.Height - 1
	}
	out := NewMask(x1-x0+1, y1-y0+1)
	for y := y0; y <= y1; y++ {
		copy(out.Bits[(y-y0)*out.Width:(y-y0+1)*out.Width], m.Bits[y*m.Width+x0:y*m.Width+x1+1])
	}
	return out
}

// Neighbors8 holds the 8-connected neighbor offsets in clockwise order
// starting at north. Zhang–Suen transition counting depends on this exact
// ring order; labeling and tracing reuse it for consistency.
var Neighbors8 = [8][2]int{
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
}
