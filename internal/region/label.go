package region

import "github.com/nao1215/sigvec/internal/raster"

// Component is one 8-connected blob of ink pixels. It is derived data with
// the lifetime of a single analyzer call.
type Component struct {
	// Pixels is the number of ink pixels in the component.
	Pixels int

	// MinX, MinY, MaxX, MaxY is the inclusive bounding box.
	MinX, MinY, MaxX, MaxY int

	// TouchesBorder is true when any pixel lies on the image border.
	TouchesBorder bool
}

// BBoxWidth returns the bounding box width in pixels.
func (c Component) BBoxWidth() int { return c.MaxX - c.MinX + 1 }

// BBoxHeight returns the bounding box height in pixels.
func (c Component) BBoxHeight() int { return c.MaxY - c.MinY + 1 }

// BBoxArea returns the bounding box area in pixels.
func (c Component) BBoxArea() int { return c.BBoxWidth() * c.BBoxHeight() }

// CenterX returns the bounding box center x coordinate.
func (c Component) CenterX() float64 { return float64(c.MinX+c.MaxX) / 2 }

// CenterY returns the bounding box center y coordinate.
func (c Component) CenterY() float64 { return float64(c.MinY+c.MaxY) / 2 }

// LabelMap labels all 8-connected components via breadth-first flood fill.
// It returns a per-pixel label slice (component index, or -1 for background)
// and the component records in discovery order.
func LabelMap(m *raster.Mask) ([]int32, []Component) {
	labels := make([]int32, len(m.Bits))
	for i := range labels {
		labels[i] = -1
	}

	var comps []Component
	queue := make([][2]int, 0, 64)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			idx := y*m.Width + x
			if !m.Bits[idx] || labels[idx] >= 0 {
				continue
			}

			id := int32(len(comps))
			comp := Component{MinX: x, MinY: y, MaxX: x, MaxY: y}
			labels[idx] = id
			queue = append(queue[:0], [2]int{x, y})

			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				px, py := p[0], p[1]

				comp.Pixels++
				if px < comp.MinX {
					comp.MinX = px
				}
				if px > comp.MaxX {
					comp.MaxX = px
				}
				if py < comp.MinY {
					comp.MinY = py
				}
				if py > comp.MaxY {
					comp.MaxY = py
				}
				if px == 0 || py == 0 || px == m.Width-1 || py == m.Height-1 {
					comp.TouchesBorder = true
				}

				for _, d := range raster.Neighbors8 {
					nx, ny := px+d[0], py+d[1]
					if !m.At(nx, ny) {
						continue
					}
					nidx := ny*m.Width + nx
					if labels[nidx] >= 0 {
						continue
					}
					labels[nidx] = id
					queue = append(queue, [2]int{nx, ny})
				}
			}

			comps = append(comps, comp)
		}
	}
	return labels, comps
}

// Label returns only the component records of LabelMap.
func Label(m *raster.Mask) []Component {
	_, comps := LabelMap(m)
	return comps
}
