package binarize

import "github.com/nao1215/sigvec/internal/raster"

// Histogram counts opaque pixels per intensity. Pixels with alpha 0 are not
// part of the image content and never contribute.
func Histogram(buf *raster.Buffer) [256]int {
	var hist [256]int
	for i, g := range buf.Gray {
		if buf.Alpha[i] > 0 {
			hist[g]++
		}
	}
	return hist
}

// OtsuThreshold returns the intensity t maximizing the between-class
// variance wB*wF*(mB-mF)^2, scanned once with running cumulative sums.
// Pixels with intensity <= t fall in the lower class. An empty histogram
// returns 0. The strict > comparison keeps the result invariant under
// uniform scaling of the bin counts.
func OtsuThreshold(hist [256]int) int {
	total := 0
	sumAll := 0.0
	for i, c := range hist {
		total += c
		sumAll += float64(i) * float64(c)
	}
	if total == 0 {
		return 0
	}

	var wB, sumB float64
	best := 0
	bestVar := -1.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		v := wB * wF * (mB - mF) * (mB - mF)
		if v > bestVar {
			bestVar = v
			best = t
		}
	}
	return best
}

// percentile returns the smallest intensity whose cumulative count reaches
// the given fraction of the total. An empty histogram returns 0.
func percentile(hist [256]int, frac float64) int {
	total := 0
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return 0
	}
	target := frac * float64(total)
	cum := 0
	for i, c := range hist {
		cum += c
		if float64(cum) >= target {
			return i
		}
	}
	return 255
}

// cumulativeAtOrBelow returns the number of pixels with intensity <= t.
func cumulativeAtOrBelow(hist [256]int, t int) int {
	if t < 0 {
		return 0
	}
	if t > 255 {
		t = 255
	}
	n := 0
	for i := 0; i <= t; i++ {
		n += hist[i]
	}
	return n
}
