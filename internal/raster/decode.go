package raster

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
	_ "golang.org/x/image/bmp"  // BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // TIFF decoder
)

// Loader decodes an image file into a Buffer, applying optional downscaling
// and axis-aligned rotation. Only 0, ±90, and 180 degree rotations are
// supported; rotation validity is checked by config.Validate before a Loader
// is ever constructed.
type Loader struct {
	// maxDimension caps the longer image side; larger images are scaled
	// down proportionally. Zero disables downscaling.
	maxDimension int

	// rotation is the requested pre-rotation in degrees (0, ±90, 180).
	rotation int

	// autoOrient reads the EXIF Orientation tag and derives the rotation
	// from it when no explicit rotation was requested.
	autoOrient bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMaxDimension caps the longer side of the decoded image.
func WithMaxDimension(maxDim int) LoaderOption {
	return func(l *Loader) {
		l.maxDimension = maxDim
	}
}

// WithRotation sets an explicit pre-rotation in degrees.
// Setting a rotation disables EXIF auto-orientation.
func WithRotation(degrees int) LoaderOption {
	return func(l *Loader) {
		l.rotation = degrees
		l.autoOrient = false
	}
}

// WithAutoOrient enables or disables EXIF-based orientation.
func WithAutoOrient(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.autoOrient = enabled
	}
}

// NewLoader creates a Loader. Auto-orientation is on by default.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{autoOrient: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the image at path into a Buffer.
// Decode failures surface before any pipeline stage runs.
func (l *Loader) Load(path string) (*Buffer, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided image path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return l.Decode(data)
}

// Decode decodes raw image bytes into a Buffer.
func (l *Loader) Decode(data []byte) (*Buffer, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	rotation := l.rotation
	if l.autoOrient && rotation == 0 && (format == "jpeg" || format == "tiff") {
		rotation = orientationRotation(data)
	}

	if l.maxDimension > 0 {
		img = downscale(img, l.maxDimension)
	}

	buf := FromImage(img)
	switch rotation {
	case 90:
		buf = buf.Rotate90()
	case -90, 270:
		buf = buf.Rotate270()
	case 180:
		buf = buf.Rotate180()
	}
	return buf, nil
}

// orientationRotation maps the EXIF Orientation tag to a rotation in
// degrees. Only the pure-rotation orientations (3, 6, 8) are honored;
// mirrored orientations and missing/corrupt EXIF blocks map to 0.
func orientationRotation(data []byte) int {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return 0
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		if entry.TagName != "Orientation" {
			continue
		}
		v, err := strconv.Atoi(strings.Fields(entry.Formatted)[0])
		if err != nil {
			return 0
		}
		switch v {
		case 3:
			return 180
		case 6:
			return 90
		case 8:
			return -90
		}
		return 0
	}
	return 0
}

// downscale shrinks img so its longer side is at most maxDim, preserving
// aspect ratio. Images already within the limit are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if longer <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(longer)
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Rotate90 returns a new buffer rotated 90 degrees clockwise.
func (b *Buffer) Rotate90() *Buffer {
	out := NewBuffer(b.Height, b.Width)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			out.Set(b.Height-1-y, x, b.GrayAt(x, y), b.AlphaAt(x, y))
		}
	}
	return out
}

// Rotate180 returns a new buffer rotated 180 degrees.
func (b *Buffer) Rotate180() *Buffer {
	out := NewBuffer(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			out.Set(b.Width-1-x, b.Height-1-y, b.GrayAt(x, y), b.AlphaAt(x, y))
		}
	}
	return out
}

// Rotate270 returns a new buffer rotated 90 degrees counter-clockwise.
func (b *Buffer) Rotate270() *Buffer {
	out := NewBuffer(b.Height, b.Width)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			out.Set(y, b.Width-1-x, b.GrayAt(x, y), b.AlphaAt(x, y))
		}
	}
	return out
}
