package refine

import "github.com/nao1215/sigvec/internal/model"

// Order arranges strokes into a plausible pen sequence. The stroke whose
// leftmost point is smallest goes first; each following stroke is the one
// whose nearer endpoint minimizes the pen travel from the previous stroke's
// end, reversed when its end is the closer endpoint.
func Order(strokes []model.Stroke) []model.Stroke {
	if len(strokes) < 2 {
		return strokes
	}

	remaining := make([]model.Stroke, len(strokes))
	copy(remaining, strokes)

	first := 0
	for i, s := range remaining {
		if s.MinX() < remaining[first].MinX() {
			first = i
		}
	}
	ordered := make([]model.Stroke, 0, len(remaining))
	ordered = append(ordered, remaining[first])
	remaining = append(remaining[:first], remaining[first+1:]...)

	for len(remaining) > 0 {
		pen := ordered[len(ordered)-1].End()

		best := 0
		bestDist := 0.0
		bestReverse := false
		for i, s := range remaining {
			ds, de := pen.Dist(s.Start()), pen.Dist(s.End())
			d, rev := ds, false
			if de < ds {
				d, rev = de, true
			}
			if i == 0 || d < bestDist {
				best, bestDist, bestReverse = i, d, rev
			}
		}

		next := remaining[best]
		if bestReverse {
			next = next.Reversed()
		}
		ordered = append(ordered, next)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return ordered
}
