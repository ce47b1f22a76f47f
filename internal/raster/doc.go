// Package raster provides the in-memory pixel types the pipeline operates
// on: a grayscale+alpha Buffer decoded from an image file and a boolean ink
// Mask passed between stages. Both are flat row-major slices with small
// accessor methods; there is no per-pixel allocation.
//
// The package also owns image decoding (PNG/JPEG/GIF/BMP/TIFF), EXIF
// orientation handling, axis-aligned rotation, max-dimension downscaling,
// and the grayscale debug preview writer.
package raster
