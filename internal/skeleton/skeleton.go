package skeleton

import "github.com/nao1215/sigvec/internal/raster"

// Neighbor-count bounds for a removable boundary pixel.
const (
	minNeighbors = 2
	maxNeighbors = 8
)

// Thinner runs Zhang–Suen thinning.
type Thinner struct {
	// maxIterations caps the number of full passes; 0 means unbounded.
	maxIterations int
}

// Option configures a Thinner.
type Option func(*Thinner)

// WithMaxIterations caps the number of thinning passes.
func WithMaxIterations(n int) Option {
	return func(t *Thinner) {
		t.maxIterations = n
	}
}

// New creates a Thinner.
func New(opts ...Option) *Thinner {
	t := &Thinner{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Thin returns a new mask reduced to its topological skeleton. Each full
// pass runs the two Zhang–Suen sub-iterations; passes repeat until one
// removes nothing or the iteration cap is reached.
func (t *Thinner) Thin(m *raster.Mask) *raster.Mask {
	out := m.Clone()
	for iter := 0; t.maxIterations == 0 || iter < t.maxIterations; iter++ {
		removed := subPass(out, 0)
		removed += subPass(out, 1)
		if removed == 0 {
			break
		}
	}
	return out
}

// subPass marks and removes pixels satisfying the Zhang–Suen conditions for
// the given sub-iteration (0 or 1). Removal is deferred to the end of the
// sub-pass so all conditions are evaluated against the same mask state.
func subPass(m *raster.Mask, pass int) int {
	var doomed [][2]int
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			if removable(m, x, y, pass) {
				doomed = append(doomed, [2]int{x, y})
			}
		}
	}
	for _, p := range doomed {
		m.Set(p[0], p[1], false)
	}
	return len(doomed)
}

// removable evaluates the neighbor-count, single-transition, and
// corner-emptiness conditions. The ring n[0..7] is the clockwise 8-neighbor
// sequence starting at north (P2..P9 in the original paper's numbering).
func removable(m *raster.Mask, x, y, pass int) bool {
	var n [8]bool
	count := 0
	for i, d := range raster.Neighbors8 {
		n[i] = m.At(x+d[0], y+d[1])
		if n[i] {
			count++
		}
	}
	if count < minNeighbors || count > maxNeighbors {
		return false
	}

	// Exactly one 0→1 transition walking the ring.
	transitions := 0
	for i := 0; i < 8; i++ {
		if !n[i] && n[(i+1)%8] {
			transitions++
		}
	}
	if transitions != 1 {
		return false
	}

	// Ring indices: 0=N(P2), 2=E(P4), 4=S(P6), 6=W(P8).
	if pass == 0 {
		// P2·P4·P6 = 0 and P4·P6·P8 = 0
		return !(n[0] && n[2] && n[4]) && !(n[2] && n[4] && n[6])
	}
	// P2·P4·P8 = 0 and P2·P6·P8 = 0
	return !(n[0] && n[2] && n[6]) && !(n[0] && n[4] && n[6])
}
