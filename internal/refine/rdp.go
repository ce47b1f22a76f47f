package refine

import (
	"math"

	"github.com/nao1215/sigvec/internal/model"
)

// degenerateChordLength is the squared chord length below which the
// perpendicular-distance computation falls back to plain point-to-endpoint
// distance.
const degenerateChordLength = 1e-12

// Simplify runs Ramer–Douglas–Peucker on the stroke: only points farther
// than epsilon from the chord between a segment's endpoints survive. The
// recursion is expressed with an explicit range stack so arbitrarily long
// strokes cannot overflow the call stack. The max-distance point uses a
// strict > comparison, so the earliest farthest point wins ties.
func Simplify(s model.Stroke, epsilon float64) model.Stroke {
	if len(s) < 3 {
		out := make(model.Stroke, len(s))
		copy(out, s)
		return out
	}

	keep := make([]bool, len(s))
	keep[0] = true
	keep[len(s)-1] = true

	type span struct{ a, b int }
	stack := []span{{0, len(s) - 1}}
	for len(stack) > 0 {
		sp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if sp.b-sp.a < 2 {
			continue
		}

		maxDist := -1.0
		maxIdx := -1
		for i := sp.a + 1; i < sp.b; i++ {
			if d := perpDistance(s[i], s[sp.a], s[sp.b]); d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}
		if maxDist > epsilon {
			keep[maxIdx] = true
			stack = append(stack, span{sp.a, maxIdx}, span{maxIdx, sp.b})
		}
	}

	out := make(model.Stroke, 0, len(s))
	for i, p := range s {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// perpDistance returns the perpendicular distance of p from the chord a–b,
// falling back to the distance to a for near-zero-length chords.
func perpDistance(p, a, b model.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	len2 := dx*dx + dy*dy
	if len2 < degenerateChordLength {
		return p.Dist(a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / math.Sqrt(len2)
}
