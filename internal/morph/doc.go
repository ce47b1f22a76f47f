// Package morph cleans up a freshly binarized ink mask: a single despeckle
// pass drops isolated pixels and fills pinholes, small 8-connected components
// are removed, and an optional morphological closing (dilate then erode with
// a disk element) bridges hairline gaps in the strokes.
package morph
