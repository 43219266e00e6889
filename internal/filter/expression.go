package filter

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strconv"
	"strings"
)

// Expression is a parsed chain of image-processing terms, applied left
// to right to every pixel of a frame.
type Expression struct {
	terms []term
}

type term struct {
	name  string
	value float64
}

// Parse reads a filter expression such as
// "brightness(1.1) contrast(1.2) hue-rotate(25deg)". An empty string
// parses to the identity expression.
func Parse(s string) (Expression, error) {
	var e Expression
	for _, tok := range strings.Fields(s) {
		open := strings.IndexByte(tok, '(')
		if open < 0 || !strings.HasSuffix(tok, ")") {
			return Expression{}, fmt.Errorf("malformed filter term %q", tok)
		}
		name := tok[:open]
		arg := tok[open+1 : len(tok)-1]
		arg = strings.TrimSuffix(arg, "deg")
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return Expression{}, fmt.Errorf("invalid value in filter term %q: %w", tok, err)
		}
		switch name {
		case "brightness", "contrast", "saturate", "sepia", "hue-rotate", "grayscale":
		default:
			return Expression{}, fmt.Errorf("unknown filter term %q", name)
		}
		e.terms = append(e.terms, term{name: name, value: v})
	}
	return e, nil
}

// MustParse parses a catalog expression that is known to be valid.
func MustParse(s string) Expression {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// IsIdentity reports whether applying the expression changes nothing.
func (e Expression) IsIdentity() bool {
	return len(e.terms) == 0
}

// Apply burns the expression into a copy of src. The source image is
// never modified.
func (e Expression) Apply(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	if e.IsIdentity() {
		return dst
	}

	pix := dst.Pix
	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i]) / 255
		g := float64(pix[i+1]) / 255
		b := float64(pix[i+2]) / 255
		for _, t := range e.terms {
			r, g, b = t.apply(r, g, b)
		}
		pix[i] = clamp8(r)
		pix[i+1] = clamp8(g)
		pix[i+2] = clamp8(b)
	}
	return dst
}

// Luma weights per the CSS filter-effects matrices.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

func (t term) apply(r, g, b float64) (float64, float64, float64) {
	switch t.name {
	case "brightness":
		return r * t.value, g * t.value, b * t.value
	case "contrast":
		return (r-0.5)*t.value + 0.5, (g-0.5)*t.value + 0.5, (b-0.5)*t.value + 0.5
	case "saturate":
		l := lumR*r + lumG*g + lumB*b
		return l + (r-l)*t.value, l + (g-l)*t.value, l + (b-l)*t.value
	case "grayscale":
		l := lumR*r + lumG*g + lumB*b
		a := t.value
		return r + (l-r)*a, g + (l-g)*a, b + (l-b)*a
	case "sepia":
		a := t.value
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		return r + (sr-r)*a, g + (sg-g)*a, b + (sb-b)*a
	case "hue-rotate":
		rad := t.value * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		nr := (lumR+cos*(1-lumR)-sin*lumR)*r + (lumG-cos*lumG-sin*lumG)*g + (lumB-cos*lumB+sin*(1-lumB))*b
		ng := (lumR-cos*lumR+sin*0.143)*r + (lumG+cos*(1-lumG)+sin*0.140)*g + (lumB-cos*lumB-sin*0.283)*b
		nb := (lumR-cos*lumR-sin*(1-lumR))*r + (lumG-cos*lumG+sin*lumG)*g + (lumB+cos*(1-lumB)+sin*lumB)*b
		return nr, ng, nb
	}
	return r, g, b
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
