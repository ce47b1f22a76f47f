// Package main provides the entry point for the sigvec CLI.
//
// Sigvec converts raster images of handwritten signatures into clean
// vector stroke paths and renders them as SVG.
//
// Usage:
//
//	sigvec vectorize <image>
//	sigvec vectorize --batch 8 scans/*.png
//
// See --help for all available options.
package main

// main is the entry point for sigvec.
func main() {
	Execute()
}
