package model

import "math"

// Point is a single vertex in image coordinates. X grows right, Y grows down,
// matching raster pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Stroke is one continuous pen-down path. Point order is drawing order and
// is significant end-to-end.
type Stroke []Point

// Start returns the first point of the stroke.
// The stroke must not be empty.
func (s Stroke) Start() Point {
	return s[0]
}

// End returns the last point of the stroke.
// The stroke must not be empty.
func (s Stroke) End() Point {
	return s[len(s)-1]
}

// Length returns the total arc length of the stroke.
func (s Stroke) Length() float64 {
	total := 0.0
	for i := 1; i < len(s); i++ {
		total += s[i-1].Dist(s[i])
	}
	return total
}

// Reversed returns a new stroke with the point order flipped.
func (s Stroke) Reversed() Stroke {
	out := make(Stroke, len(s))
	for i, p := range s {
		out[len(s)-1-i] = p
	}
	return out
}

// MinX returns the smallest x coordinate in the stroke.
// The stroke must not be empty.
func (s Stroke) MinX() float64 {
	minX := s[0].X
	for _, p := range s[1:] {
		if p.X < minX {
			minX = p.X
		}
	}
	return minX
}

// SignaturePath is the pipeline output: the canvas size plus an ordered list
// of strokes. No stroke is ever empty; a signature-free input is represented
// by a path with zero strokes rather than an error.
type SignaturePath struct {
	// Width is the canvas width in pixels.
	Width int `json:"width"`

	// Height is the canvas height in pixels.
	Height int `json:"height"`

	// Strokes holds the strokes in drawing order.
	Strokes []Stroke `json:"strokes"`
}

// NewSignaturePath creates an empty path for the given canvas size.
func NewSignaturePath(width, height int) *SignaturePath {
	return &SignaturePath{
		Width:  width,
		Height: height,
	}
}

// AddStroke appends a stroke, silently dropping empty ones so the
// no-empty-stroke invariant holds for every construction path.
func (sp *SignaturePath) AddStroke(s Stroke) {
	if len(s) == 0 {
		return
	}
	sp.Strokes = append(sp.Strokes, s)
}

// PointCount returns the total number of points across all strokes.
func (sp *SignaturePath) PointCount() int {
	n := 0
	for _, s := range sp.Strokes {
		n += len(s)
	}
	return n
}

// IsEmpty reports whether the path contains no strokes.
func (sp *SignaturePath) IsEmpty() bool {
	return len(sp.Strokes) == 0
}
