package morph

import (
	"github.com/nao1215/sigvec/internal/raster"
	"github.com/nao1215/sigvec/internal/region"
)

// Despeckle thresholds: an interior ink pixel with fewer than
// DespeckleDropBelow ink neighbors is dropped, an interior background pixel
// with at least DespeckleFillAbove ink neighbors is promoted.
const (
	DespeckleDropBelow = 2
	DespeckleFillAbove = 6

	// MinComponentFloor is the lower bound of the automatic
	// small-component threshold; MinComponentInkFraction scales it with
	// the total ink pixel count.
	MinComponentFloor       = 10
	MinComponentInkFraction = 0.002
)

// Despeckle returns a new mask with isolated interior ink pixels removed and
// near-surrounded interior background pixels promoted to ink. Border pixels
// pass through unchanged. One pass only.
func Despeckle(m *raster.Mask) *raster.Mask {
	out := m.Clone()
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			n := 0
			for _, d := range raster.Neighbors8 {
				if m.At(x+d[0], y+d[1]) {
					n++
				}
			}
			if m.At(x, y) {
				if n < DespeckleDropBelow {
					out.Set(x, y, false)
				}
			} else if n >= DespeckleFillAbove {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// RemoveSmallComponents returns a new mask with every 8-connected component
// below minSize erased. minSize <= 0 selects the automatic threshold
// max(MinComponentFloor, MinComponentInkFraction * total ink). The largest
// component always survives, even below the threshold, so a small but sole
// signature is never deleted.
func RemoveSmallComponents(m *raster.Mask, minSize int) *raster.Mask {
	labels, comps := region.LabelMap(m)
	if len(comps) == 0 {
		return m.Clone()
	}

	if minSize <= 0 {
		total := 0
		for _, c := range comps {
			total += c.Pixels
		}
		minSize = int(MinComponentInkFraction * float64(total))
		if minSize < MinComponentFloor {
			minSize = MinComponentFloor
		}
	}

	largest := 0
	for i, c := range comps {
		if c.Pixels > comps[largest].Pixels {
			largest = i
		}
	}

	keep := make([]bool, len(comps))
	for i, c := range comps {
		keep[i] = i == largest || c.Pixels >= minSize
	}

	out := raster.NewMask(m.Width, m.Height)
	for i, l := range labels {
		if l >= 0 && keep[l] {
			out.Bits[i] = true
		}
	}
	return out
}

// Close performs morphological closing: dilation followed by erosion with a
// disk-shaped structuring element of the given radius. Radius <= 0 returns a
// plain copy. Erosion at the image border is conservative: a pixel whose
// element reaches out of bounds does not survive.
func Close(m *raster.Mask, radius int) *raster.Mask {
	if radius <= 0 {
		return m.Clone()
	}
	disk := diskOffsets(radius)
	return erode(dilate(m, disk), disk)
}

// diskOffsets returns all integer offsets with squared distance <= radius².
func diskOffsets(radius int) [][2]int {
	var offsets [][2]int
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				offsets = append(offsets, [2]int{dx, dy})
			}
		}
	}
	return offsets
}

// dilate marks every pixel covered by the element centered on any ink pixel.
func dilate(m *raster.Mask, disk [][2]int) *raster.Mask {
	out := raster.NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			for _, d := range disk {
				nx, ny := x+d[0], y+d[1]
				if nx >= 0 && ny >= 0 && nx < m.Width && ny < m.Height {
					out.Set(nx, ny, true)
				}
			}
		}
	}
	return out
}

// erode keeps only pixels whose whole element lies on ink. Mask.At treats
// out-of-bounds as non-ink, which yields the conservative border behavior.
func erode(m *raster.Mask, disk [][2]int) *raster.Mask {
	out := raster.NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			survives := true
			for _, d := range disk {
				if !m.At(x+d[0], y+d[1]) {
					survives = false
					break
				}
			}
			out.Set(x, y, survives)
		}
	}
	return out
}
