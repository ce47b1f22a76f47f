package refine

import "github.com/nao1215/sigvec/internal/model"

// Default refinement parameters, tuned for pixel-unit signature strokes.
const (
	// DefaultEpsilon is the RDP simplification tolerance in pixels.
	DefaultEpsilon = 1.5
	// DefaultSpacing is the resampling arc-length spacing in pixels.
	DefaultSpacing = 2.0
	// DefaultSmoothIterations disables Chaikin smoothing.
	DefaultSmoothIterations = 0
)

// Refiner turns raw traced polylines into clean, evenly spaced, ordered
// strokes.
type Refiner struct {
	epsilon          float64
	spacing          float64
	smoothIterations int
}

// Option configures a Refiner.
type Option func(*Refiner)

// WithEpsilon sets the RDP tolerance. Zero or negative skips simplification.
func WithEpsilon(epsilon float64) Option {
	return func(r *Refiner) {
		r.epsilon = epsilon
	}
}

// WithSpacing sets the resampling spacing. Zero or negative skips resampling.
func WithSpacing(spacing float64) Option {
	return func(r *Refiner) {
		r.spacing = spacing
	}
}

// WithSmoothIterations sets the Chaikin iteration count. Zero skips smoothing.
func WithSmoothIterations(n int) Option {
	return func(r *Refiner) {
		r.smoothIterations = n
	}
}

// New creates a Refiner with the given options.
func New(opts ...Option) *Refiner {
	r := &Refiner{
		epsilon:          DefaultEpsilon,
		spacing:          DefaultSpacing,
		smoothIterations: DefaultSmoothIterations,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refine simplifies, resamples, optionally smooths, and reorders the strokes.
// Strokes that refine down to nothing are dropped; single-point strokes (pen
// taps such as i-dots) are kept.
func (r *Refiner) Refine(strokes []model.Stroke) []model.Stroke {
	out := make([]model.Stroke, 0, len(strokes))
	for _, s := range strokes {
		if r.epsilon > 0 {
			s = Simplify(s, r.epsilon)
		}
		if r.spacing > 0 {
			s = Resample(s, r.spacing)
		}
		if r.smoothIterations > 0 {
			s = Smooth(s, r.smoothIterations)
			if r.spacing > 0 {
				s = Resample(s, r.spacing)
			}
		}
		if len(s) > 0 {
			out = append(out, s)
		}
	}
	return Order(out)
}
