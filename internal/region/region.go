package region

import (
	"math"

	"github.com/nao1215/sigvec/internal/raster"
)

// Selection scoring and merge constants. Scores favor large, dense blobs
// near the middle of the scan and penalize anything touching the border
// (page edges, scanner shadows, hole punches).
const (
	// ScoreBase and ScoreCentralityWeight shape the centrality factor:
	// score scales with base + weight*centrality.
	ScoreBase             = 0.4
	ScoreCentralityWeight = 0.6

	// MiddleBonus applies when the component center lies in the central
	// MiddleFraction×MiddleFraction window; MiddleMalus applies otherwise.
	MiddleBonus    = 1.2
	MiddleMalus    = 0.7
	MiddleFraction = 0.6

	// BorderPenalty applies to components touching the image border.
	BorderPenalty = 0.7

	// DensityScale converts bbox density into the density bonus before
	// clamping to [DensityBonusMin, DensityBonusMax].
	DensityScale    = 8.0
	DensityBonusMin = 0.5
	DensityBonusMax = 1.2

	// MinMergeGap is the floor of the fragment merge distance.
	MinMergeGap = 10

	// MergeGapImageFraction scales the merge gap with the smaller image
	// dimension; MergeGapSeedFraction with the seed's longer bbox side.
	MergeGapImageFraction = 0.12
	MergeGapSeedFraction  = 0.20

	// MinCropMargin is the floor of the crop margin; CropMarginFraction
	// scales it with the smaller image dimension.
	MinCropMargin      = 5
	CropMarginFraction = 0.02
)

// Selection describes what the analyzer kept from the mask.
type Selection struct {
	// ComponentsFound is the total number of 8-connected components.
	ComponentsFound int

	// ComponentsKept is the number of components merged into the
	// signature region (including the seed).
	ComponentsKept int

	// OffsetX, OffsetY locate the cropped mask inside the original image.
	OffsetX, OffsetY int

	// Cropped is false when the mask had no ink and was passed through.
	Cropped bool
}

// Isolate selects the signature region of the mask and returns it cropped to
// the merged bounding box plus margin. A mask without ink is returned as-is,
// uncropped, with Cropped=false.
func Isolate(m *raster.Mask) (*raster.Mask, Selection) {
	_, comps := LabelMap(m)
	sel := Selection{ComponentsFound: len(comps)}
	if len(comps) == 0 {
		return m, sel
	}

	seedIdx := 0
	bestScore := math.Inf(-1)
	for i, c := range comps {
		if s := score(c, m.Width, m.Height); s > bestScore {
			bestScore = s
			seedIdx = i
		}
	}
	seed := comps[seedIdx]

	minDim := m.Width
	if m.Height < minDim {
		minDim = m.Height
	}
	longerSide := seed.BBoxWidth()
	if seed.BBoxHeight() > longerSide {
		longerSide = seed.BBoxHeight()
	}
	gap := math.Max(MinMergeGap, math.Max(
		MergeGapImageFraction*float64(minDim),
		MergeGapSeedFraction*float64(longerSide),
	))

	// Grow the bounding group to a fixed point, absorbing any component
	// within the gap. Border-touching fragments are only absorbed when the
	// seed itself touches the border.
	minX, minY, maxX, maxY := seed.MinX, seed.MinY, seed.MaxX, seed.MaxY
	absorbed := make([]bool, len(comps))
	absorbed[seedIdx] = true
	sel.ComponentsKept = 1

	for changed := true; changed; {
		changed = false
		for i, c := range comps {
			if absorbed[i] {
				continue
			}
			if c.TouchesBorder && !seed.TouchesBorder {
				continue
			}
			if chebyshevGap(minX, minY, maxX, maxY, c) > gap {
				continue
			}
			if c.MinX < minX {
				minX = c.MinX
			}
			if c.MinY < minY {
				minY = c.MinY
			}
			if c.MaxX > maxX {
				maxX = c.MaxX
			}
			if c.MaxY > maxY {
				maxY = c.MaxY
			}
			absorbed[i] = true
			sel.ComponentsKept++
			changed = true
		}
	}

	margin := int(math.Max(MinCropMargin, CropMarginFraction*float64(minDim)))
	x0, y0 := minX-margin, minY-margin
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}

	cropped := m.Crop(x0, y0, maxX+margin, maxY+margin)
	sel.OffsetX = x0
	sel.OffsetY = y0
	sel.Cropped = true
	return cropped, sel
}

// score rates a component as signature candidate.
func score(c Component, width, height int) float64 {
	density := float64(c.Pixels) / float64(c.BBoxArea())

	cx, cy := c.CenterX(), c.CenterY()
	imgCX, imgCY := float64(width)/2, float64(height)/2
	maxDist := math.Hypot(imgCX, imgCY)
	centrality := 0.0
	if maxDist > 0 {
		centrality = 1 - math.Hypot(cx-imgCX, cy-imgCY)/maxDist
	}

	middle := MiddleMalus
	if math.Abs(cx-imgCX) <= MiddleFraction*imgCX && math.Abs(cy-imgCY) <= MiddleFraction*imgCY {
		middle = MiddleBonus
	}

	border := 1.0
	if c.TouchesBorder {
		border = BorderPenalty
	}

	densityBonus := density * DensityScale
	if densityBonus < DensityBonusMin {
		densityBonus = DensityBonusMin
	}
	if densityBonus > DensityBonusMax {
		densityBonus = DensityBonusMax
	}

	return float64(c.Pixels) * (ScoreBase + ScoreCentralityWeight*centrality) * middle * border * densityBonus
}

// chebyshevGap returns the max-axis distance between the group bounding box
// and the component's bounding box; overlapping boxes have distance 0.
func chebyshevGap(minX, minY, maxX, maxY int, c Component) float64 {
	dx := 0
	if c.MinX > maxX {
		dx = c.MinX - maxX
	} else if minX > c.MaxX {
		dx = minX - c.MaxX
	}
	dy := 0
	if c.MinY > maxY {
		dy = c.MinY - maxY
	} else if minY > c.MaxY {
		dy = minY - c.MaxY
	}
	if dx > dy {
		return float64(dx)
	}
	return float64(dy)
}
