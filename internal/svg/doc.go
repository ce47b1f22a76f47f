// Package svg serializes a SignaturePath as a standalone SVG document with
// one <path> element per stroke, and parses the moveto/lineto subset of path
// data back into strokes.
package svg
