package refine

import "github.com/nao1215/sigvec/internal/model"

// Smooth applies Chaikin's corner-cutting scheme: each iteration replaces
// every segment with two points at 25% and 75% of the way along it. The
// original first and last points are pinned, so stroke endpoints never drift.
func Smooth(s model.Stroke, iterations int) model.Stroke {
	out := make(model.Stroke, len(s))
	copy(out, s)
	if len(s) < 3 {
		return out
	}

	for it := 0; it < iterations; it++ {
		next := make(model.Stroke, 0, 2*len(out))
		next = append(next, out[0])
		for i := 1; i < len(out); i++ {
			a, b := out[i-1], out[i]
			next = append(next,
				model.Point{X: a.X + (b.X-a.X)*0.25, Y: a.Y + (b.Y-a.Y)*0.25},
				model.Point{X: a.X + (b.X-a.X)*0.75, Y: a.Y + (b.Y-a.Y)*0.75},
			)
		}
		next = append(next, out[len(out)-1])
		out = next
	}
	return out
}
