package trace

import (
	"math"

	"github.com/nao1215/sigvec/internal/model"
	"github.com/nao1215/sigvec/internal/raster"
	"github.com/nao1215/sigvec/internal/region"
)

// Tracer converts a skeleton mask into raw polylines.
type Tracer struct{}

// New creates a Tracer.
func New() *Tracer {
	return &Tracer{}
}

// Trace walks every connected skeleton component into one polyline. Points
// are pixel centers in mask coordinates; backtracking may revisit pixel
// coordinates but never an edge, so each undirected skeleton edge appears in
// the output exactly once.
func (t *Tracer) Trace(m *raster.Mask) []model.Stroke {
	labels, comps := region.LabelMap(m)

	// Group pixel indices per component in scan order.
	pixels := make([][]int, len(comps))
	for i, l := range labels {
		if l >= 0 {
			pixels[l] = append(pixels[l], i)
		}
	}

	degree := make(map[int]int, m.Width)
	strokes := make([]model.Stroke, 0, len(comps))
	for ci := range comps {
		for k := range degree {
			delete(degree, k)
		}
		for _, idx := range pixels[ci] {
			x, y := idx%m.Width, idx/m.Width
			d := 0
			for _, off := range raster.Neighbors8 {
				if m.At(x+off[0], y+off[1]) {
					d++
				}
			}
			degree[idx] = d
		}

		start := startPixel(m, pixels[ci], degree)
		strokes = append(strokes, walk(m, start, degree))
	}
	return strokes
}

// startPixel prefers the lexicographically smallest (x, y) pixel with degree
// exactly 1. A closed loop has no endpoints, so the smallest pixel overall
// is used instead.
func startPixel(m *raster.Mask, pixels []int, degree map[int]int) int {
	bestEnd, bestAny := -1, -1
	for _, idx := range pixels {
		if lessXY(m, idx, bestAny) {
			bestAny = idx
		}
		if degree[idx] == 1 && lessXY(m, idx, bestEnd) {
			bestEnd = idx
		}
	}
	if bestEnd >= 0 {
		return bestEnd
	}
	return bestAny
}

// lessXY reports whether pixel a precedes pixel b in (x, y) lexicographic
// order. Any pixel precedes the sentinel -1.
func lessXY(m *raster.Mask, a, b int) bool {
	if b < 0 {
		return true
	}
	ax, ay := a%m.Width, a/m.Width
	bx, by := b%m.Width, b/m.Width
	if ax != bx {
		return ax < bx
	}
	return ay < by
}

// edgeKey identifies an undirected edge by its ordered pixel-index pair.
type edgeKey struct{ lo, hi int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// walk performs the depth-first edge traversal of one component from start.
// Each forward move consumes an unvisited edge; dead ends pop the explicit
// stack, emitting a path point per backtrack step. Backtrack points are held
// in a pending buffer and flushed only when they precede another forward
// move, so the trailing unwind at the end of the component leaves no tail.
func walk(m *raster.Mask, start int, degree map[int]int) model.Stroke {
	visited := make(map[edgeKey]bool)
	stack := []int{start}
	path := model.Stroke{pointOf(m, start)}
	var pending model.Stroke

	current := start
	var inX, inY float64 // incoming direction, zero before the first move

	for len(stack) > 0 {
		next, ok := pickNext(m, current, inX, inY, degree, visited)
		if ok {
			path = append(path, pending...)
			pending = pending[:0]

			visited[newEdgeKey(current, next)] = true
			inX, inY = stepDirection(m, current, next)
			current = next
			stack = append(stack, current)
			path = append(path, pointOf(m, current))
			continue
		}

		// Dead end: back up one pixel, recording the position.
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			prev := current
			current = stack[len(stack)-1]
			inX, inY = stepDirection(m, prev, current)
			pending = append(pending, pointOf(m, current))
		}
	}
	return path
}

// pickNext selects the unvisited outgoing edge whose direction lines up best
// with the incoming direction (largest dot product). Ties go to the neighbor
// with the lower branching degree, then to ring order.
func pickNext(m *raster.Mask, current int, inX, inY float64, degree map[int]int, visited map[edgeKey]bool) (int, bool) {
	x, y := current%m.Width, current/m.Width

	best := -1
	bestDot := math.Inf(-1)
	bestDegree := 0
	for _, off := range raster.Neighbors8 {
		nx, ny := x+off[0], y+off[1]
		if !m.At(nx, ny) {
			continue
		}
		n := ny*m.Width + nx
		if visited[newEdgeKey(current, n)] {
			continue
		}

		norm := math.Hypot(float64(off[0]), float64(off[1]))
		dot := (inX*float64(off[0]) + inY*float64(off[1])) / norm
		switch {
		case best < 0 || dot > bestDot:
			best, bestDot, bestDegree = n, dot, degree[n]
		case dot == bestDot && degree[n] < bestDegree:
			best, bestDegree = n, degree[n]
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// stepDirection returns the normalized direction of the move from a to b.
func stepDirection(m *raster.Mask, a, b int) (float64, float64) {
	ax, ay := a%m.Width, a/m.Width
	bx, by := b%m.Width, b/m.Width
	dx, dy := float64(bx-ax), float64(by-ay)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return 0, 0
	}
	return dx / norm, dy / norm
}

// pointOf converts a pixel index into a model.Point at the pixel center.
func pointOf(m *raster.Mask, idx int) model.Point {
	return model.Point{X: float64(idx % m.Width), Y: float64(idx / m.Width)}
}
