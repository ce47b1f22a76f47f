package refine

import "github.com/nao1215/sigvec/internal/model"

// resampleEndTolerance is how far the last emitted sample may sit from the
// original final point before the final point is appended explicitly.
const resampleEndTolerance = 1e-6

// Resample redistributes the stroke's points at a fixed arc-length spacing
// along the original polyline. The first point is kept as-is and the original
// final point is always part of the result, so endpoints survive even when
// the total length is not a multiple of the spacing.
func Resample(s model.Stroke, spacing float64) model.Stroke {
	if len(s) < 2 || spacing <= 0 {
		out := make(model.Stroke, len(s))
		copy(out, s)
		return out
	}

	out := model.Stroke{s[0]}
	prev := s[0]
	remaining := spacing
	for i := 1; i < len(s); i++ {
		segLen := prev.Dist(s[i])
		for segLen >= remaining && segLen > 0 {
			t := remaining / segLen
			prev = model.Point{
				X: prev.X + (s[i].X-prev.X)*t,
				Y: prev.Y + (s[i].Y-prev.Y)*t,
			}
			out = append(out, prev)
			segLen = prev.Dist(s[i])
			remaining = spacing
		}
		remaining -= segLen
		prev = s[i]
	}

	last := s[len(s)-1]
	if out[len(out)-1].Dist(last) > resampleEndTolerance {
		out = append(out, last)
	} else {
		out[len(out)-1] = last
	}
	return out
}
