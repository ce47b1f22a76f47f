package binarize

import (
	"math"

	"github.com/nao1215/sigvec/internal/raster"
)

// Auto-threshold heuristic constants. The plausibility window and fallback
// target were tuned on scanned signatures: real ink rarely covers more than
// half the page and almost never less than 0.05% of it.
const (
	// MinInkFraction is the lower bound of the plausible ink ratio window.
	MinInkFraction = 0.0005

	// MaxInkFraction is the upper bound of the plausible ink ratio window.
	MaxInkFraction = 0.5

	// BackgroundPercentile estimates the background level on fallback.
	BackgroundPercentile = 0.95

	// BackgroundOffset is subtracted from the estimated background level
	// to form the fallback threshold.
	BackgroundOffset = 25

	// TargetInkFraction is the ink ratio the fallback polarity choice
	// steers toward.
	TargetInkFraction = 0.02
)

// Decision records what the binarizer settled on for one image.
type Decision struct {
	// Threshold is the intensity threshold that was applied.
	Threshold int

	// DarkInk is true when pixels at or below the threshold are ink.
	DarkInk bool

	// Auto is true when the threshold came from Otsu's method rather
	// than an explicit override.
	Auto bool
}

// Binarizer converts a Buffer into an ink Mask.
type Binarizer struct {
	// threshold is the explicit threshold override; -1 selects Otsu.
	threshold int

	// invert flips polarity when an explicit threshold is used:
	// false means dark ink, true means light ink.
	invert bool
}

// Option configures a Binarizer.
type Option func(*Binarizer)

// WithThreshold sets an explicit intensity threshold (0–255) and disables
// automatic threshold selection.
func WithThreshold(t int) Option {
	return func(b *Binarizer) {
		b.threshold = t
	}
}

// WithInvert treats light pixels as ink when an explicit threshold is set.
func WithInvert(invert bool) Option {
	return func(b *Binarizer) {
		b.invert = invert
	}
}

// New creates a Binarizer. Without options it runs fully automatically.
func New(opts ...Option) *Binarizer {
	b := &Binarizer{threshold: -1}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Binarize produces the ink mask for buf along with the decision taken.
// Pixels with alpha 0 are never ink, whatever the polarity. A fully
// transparent or uniform image yields an all-false or all-true mask without
// error; downstream stages degrade it to an empty result.
func (b *Binarizer) Binarize(buf *raster.Buffer) (*raster.Mask, Decision) {
	var dec Decision
	if b.threshold >= 0 {
		dec = Decision{Threshold: b.threshold, DarkInk: !b.invert}
	} else {
		hist := Histogram(buf)
		dec = b.autoDecision(hist)
	}

	mask := raster.NewMask(buf.Width, buf.Height)
	for i, g := range buf.Gray {
		if buf.Alpha[i] == 0 {
			continue
		}
		if dec.DarkInk {
			mask.Bits[i] = int(g) <= dec.Threshold
		} else {
			mask.Bits[i] = int(g) > dec.Threshold
		}
	}
	return mask, dec
}

// autoDecision picks threshold and polarity from the histogram.
//
// The Otsu threshold is trusted when the fraction of pixels on one side of
// it looks like a plausible amount of ink. When neither side qualifies
// (typically very light, high-key scans where Otsu splits background noise),
// the threshold is re-derived from the 95th-percentile background estimate
// and polarity is chosen by whichever side lands closest to the 2% target.
func (b *Binarizer) autoDecision(hist [256]int) Decision {
	total := 0
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return Decision{Threshold: 0, DarkInk: true, Auto: true}
	}

	t := OtsuThreshold(hist)
	darkFrac := float64(cumulativeAtOrBelow(hist, t)) / float64(total)
	if darkFrac >= MinInkFraction && darkFrac <= MaxInkFraction {
		return Decision{Threshold: t, DarkInk: true, Auto: true}
	}
	lightFrac := 1 - darkFrac
	if lightFrac >= MinInkFraction && lightFrac <= MaxInkFraction {
		return Decision{Threshold: t, DarkInk: false, Auto: true}
	}

	// Fallback: estimate the background level and aim for the target ratio.
	background := percentile(hist, BackgroundPercentile)
	ft := background - BackgroundOffset
	if ft < 0 {
		ft = 0
	}
	if ft > 255 {
		ft = 255
	}
	darkRatio := float64(cumulativeAtOrBelow(hist, ft)) / float64(total)
	lightRatio := 1 - darkRatio
	dark := math.Abs(darkRatio-TargetInkFraction) <= math.Abs(lightRatio-TargetInkFraction)
	return Decision{Threshold: ft, DarkInk: dark, Auto: true}
}
