package svg

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sigvec/internal/model"
)

// Default rendering attributes for encoded documents.
const (
	// DefaultStrokeWidth is the path stroke width in pixels.
	DefaultStrokeWidth = 2.0
	// DefaultStrokeColor is the path stroke color.
	DefaultStrokeColor = "#000000"
)

// Encoder writes SignaturePath values as SVG documents.
type Encoder struct {
	strokeWidth float64
	strokeColor string
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithStrokeWidth sets the rendered stroke width.
func WithStrokeWidth(w float64) Option {
	return func(e *Encoder) {
		e.strokeWidth = w
	}
}

// WithStrokeColor sets the rendered stroke color.
func WithStrokeColor(c string) Option {
	return func(e *Encoder) {
		e.strokeColor = c
	}
}

// NewEncoder creates an Encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		strokeWidth: DefaultStrokeWidth,
		strokeColor: DefaultStrokeColor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes the path as a complete SVG document. An empty path produces
// a valid document with no path elements.
func (e *Encoder) Encode(w io.Writer, p *model.SignaturePath) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		p.Width, p.Height, p.Width, p.Height)
	for _, s := range p.Strokes {
		if len(s) == 0 {
			continue
		}
		fmt.Fprintf(&b, `  <path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
			PathData(s), e.strokeColor, formatCoord(e.strokeWidth))
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeSVG, err)
	}
	return nil
}

// EncodeString renders the path to a string.
func (e *Encoder) EncodeString(p *model.SignaturePath) string {
	var b strings.Builder
	_ = e.Encode(&b, p) // strings.Builder writes cannot fail
	return b.String()
}

// PathData renders one stroke as SVG path data: an absolute moveto followed
// by absolute linetos, coordinates fixed to two decimals. A single-point
// stroke emits a zero-length lineto so round line caps render it as a dot.
func PathData(s model.Stroke) string {
	if len(s) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", formatCoord(s[0].X), formatCoord(s[0].Y))
	if len(s) == 1 {
		fmt.Fprintf(&b, " L %s %s", formatCoord(s[0].X), formatCoord(s[0].Y))
		return b.String()
	}
	for _, p := range s[1:] {
		fmt.Fprintf(&b, " L %s %s", formatCoord(p.X), formatCoord(p.Y))
	}
	return b.String()
}

// formatCoord fixes a coordinate to two decimals.
func formatCoord(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
