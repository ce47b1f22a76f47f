package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// encodePNG encodes an image into PNG bytes for decode tests.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

// TestLoaderDecode tests decoding image bytes into a Buffer.
func TestLoaderDecode(t *testing.T) {
	t.Parallel()

	t.Run("decodes PNG dimensions and pixels", func(t *testing.T) {
		t.Parallel()

		img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
		img.SetNRGBA(2, 1, color.NRGBA{A: 255}) // one black pixel

		buf, err := NewLoader().Decode(encodePNG(t, img))
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if buf.Width != 4 || buf.Height != 3 {
			t.Fatalf("expected 4x3, got %dx%d", buf.Width, buf.Height)
		}
		if buf.GrayAt(2, 1) != 0 {
			t.Errorf("expected black pixel at (2,1), got %d", buf.GrayAt(2, 1))
		}
		if buf.GrayAt(0, 0) != 255 {
			t.Errorf("expected white pixel at (0,0), got %d", buf.GrayAt(0, 0))
		}
	})

	t.Run("rejects garbage input", func(t *testing.T) {
		t.Parallel()

		if _, err := NewLoader().Decode([]byte("not an image")); err == nil {
			t.Error("expected error for non-image bytes")
		}
	})

	t.Run("downscales to max dimension", func(t *testing.T) {
		t.Parallel()

		img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
		buf, err := NewLoader(WithMaxDimension(50)).Decode(encodePNG(t, img))
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if buf.Width != 50 || buf.Height != 25 {
			t.Errorf("expected 50x25, got %dx%d", buf.Width, buf.Height)
		}
	})

	t.Run("applies explicit rotation", func(t *testing.T) {
		t.Parallel()

		img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
		buf, err := NewLoader(WithRotation(90)).Decode(encodePNG(t, img))
		if err != nil {
			t.Fatalf("unexpected decode error: %v", err)
		}
		if buf.Width != 2 || buf.Height != 3 {
			t.Errorf("expected 2x3 after rotation, got %dx%d", buf.Width, buf.Height)
		}
	})
}

// TestLoaderLoad tests reading an image from disk.
func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads file from disk", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "sig.png")
		img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
		if err := os.WriteFile(path, encodePNG(t, img), 0600); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}

		buf, err := NewLoader().Load(path)
		if err != nil {
			t.Fatalf("unexpected load error: %v", err)
		}
		if buf.Width != 5 || buf.Height != 5 {
			t.Errorf("expected 5x5, got %dx%d", buf.Width, buf.Height)
		}
	})

	t.Run("missing file surfaces an error", func(t *testing.T) {
		t.Parallel()

		if _, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

// TestWritePreview tests the mask preview side channel.
func TestWritePreview(t *testing.T) {
	t.Parallel()

	m := NewMask(3, 3)
	m.Set(1, 1, true)

	path := filepath.Join(t.TempDir(), "preview.png")
	if err := WritePreview(path, m); err != nil {
		t.Fatalf("unexpected preview error: %v", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Test-owned temp path
	if err != nil {
		t.Fatalf("failed to read preview: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not a valid PNG: %v", err)
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected grayscale preview, got %T", img)
	}
	if gray.GrayAt(1, 1).Y != 0 {
		t.Errorf("ink pixel must be black, got %d", gray.GrayAt(1, 1).Y)
	}
	if gray.GrayAt(0, 0).Y != 255 {
		t.Errorf("background must be white, got %d", gray.GrayAt(0, 0).Y)
	}
}
