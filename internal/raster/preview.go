package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// EncodePreview writes the mask as a grayscale PNG: ink pixels are black (0)
// and background is white (255). This is a debugging side channel, not part
// of the pipeline output.
func EncodePreview(w io.Writer, m *Mask) error {
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			v := uint8(255)
			if m.At(x, y) {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return png.Encode(w, img)
}

// WritePreview writes the mask preview PNG to the given path.
func WritePreview(path string, m *Mask) error {
	f, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create preview file: %w", err)
	}
	defer f.Close()

	if err := EncodePreview(f, m); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}
