package svg

import "errors"

var (
	// ErrEncodeSVG means writing the SVG document failed.
	ErrEncodeSVG = errors.New("svg: failed to encode document")
	// ErrParsePathData means the path data is malformed or uses commands
	// outside the moveto/lineto subset.
	ErrParsePathData = errors.New("svg: failed to parse path data")
	// ErrParseSVG means the SVG document is malformed or missing the
	// width/height attributes.
	ErrParseSVG = errors.New("svg: failed to parse document")
)
