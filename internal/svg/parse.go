package svg

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/sigvec/internal/model"
)

// svgDoc mirrors the subset of an SVG document that Encode produces.
type svgDoc struct {
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
	Paths  []struct {
		D string `xml:"d,attr"`
	} `xml:"path"`
}

// Parse reads an SVG document produced by Encode (or any document restricted
// to the same moveto/lineto path subset) back into a SignaturePath.
func Parse(r io.Reader) (*model.SignaturePath, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseSVG, err)
	}

	width, err := strconv.Atoi(strings.TrimSuffix(doc.Width, "px"))
	if err != nil {
		return nil, fmt.Errorf("%w: bad width %q", ErrParseSVG, doc.Width)
	}
	height, err := strconv.Atoi(strings.TrimSuffix(doc.Height, "px"))
	if err != nil {
		return nil, fmt.Errorf("%w: bad height %q", ErrParseSVG, doc.Height)
	}

	sp := model.NewSignaturePath(width, height)
	for _, p := range doc.Paths {
		strokes, err := ParsePathData(p.D)
		if err != nil {
			return nil, err
		}
		for _, s := range strokes {
			sp.AddStroke(s)
		}
	}
	return sp, nil
}

// ParseString parses an SVG document held in a string.
func ParseString(s string) (*model.SignaturePath, error) {
	return Parse(strings.NewReader(s))
}

// token is one lexical unit of SVG path data: a command letter or a number.
type token struct {
	cmd   byte
	num   float64
	isCmd bool
}

// ParsePathData parses the moveto/lineto subset of SVG path data (commands
// M, m, L, l with space or comma separated coordinates). Each moveto starts
// a new stroke; extra coordinate pairs after a moveto are implicit linetos,
// matching the SVG path grammar.
func ParsePathData(d string) ([]model.Stroke, error) {
	toks, err := tokenize(d)
	if err != nil {
		return nil, err
	}

	var strokes []model.Stroke
	var cur model.Stroke
	var pen model.Point
	var cmd byte

	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.isCmd {
			switch t.cmd {
			case 'M', 'm', 'L', 'l':
				cmd = t.cmd
				i++
			default:
				return nil, fmt.Errorf("%w: unsupported command %q", ErrParsePathData, string(t.cmd))
			}
			continue
		}
		if cmd == 0 {
			return nil, fmt.Errorf("%w: path data must start with a moveto", ErrParsePathData)
		}
		if i+1 >= len(toks) || toks[i+1].isCmd {
			return nil, fmt.Errorf("%w: dangling coordinate", ErrParsePathData)
		}

		x, y := toks[i].num, toks[i+1].num
		if cmd == 'm' || cmd == 'l' {
			x += pen.X
			y += pen.Y
		}
		if cmd == 'M' || cmd == 'm' {
			if len(cur) > 0 {
				strokes = append(strokes, cur)
			}
			cur = model.Stroke{{X: x, Y: y}}
			if cmd == 'M' {
				cmd = 'L'
			} else {
				cmd = 'l'
			}
		} else {
			cur = append(cur, model.Point{X: x, Y: y})
		}
		pen = model.Point{X: x, Y: y}
		i += 2
	}
	if len(cur) > 0 {
		strokes = append(strokes, cur)
	}
	return strokes, nil
}

// tokenize splits path data into command letters and numbers.
func tokenize(d string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(d) {
		c := d[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			i++
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			toks = append(toks, token{cmd: c, isCmd: true})
			i++
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(d) && strings.ContainsRune("0123456789.eE+-", rune(d[j])) {
				// A sign is part of the number only after an exponent.
				if (d[j] == '+' || d[j] == '-') && d[j-1] != 'e' && d[j-1] != 'E' {
					break
				}
				j++
			}
			v, err := strconv.ParseFloat(d[i:j], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrParsePathData, d[i:j])
			}
			toks = append(toks, token{num: v})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected character %q", ErrParsePathData, string(c))
		}
	}
	return toks, nil
}
