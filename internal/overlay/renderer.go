package overlay

import (
	"image"
	"image/color"

	"vibe-capture/internal/vibe"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wb-go/wbf/zlog"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const brandLabel = "VIBE"

// Renderer bakes the branded overlay into frame pixels: the venue-name
// pill, the vibe badge and the brand logo. The three draw steps are
// independent: a badge or logo asset that fails to load falls back to a
// drawn placeholder and never blocks the other steps.
type Renderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	cache   *ImageCache
	logger  *zlog.Zerolog
}

func NewRenderer(cache *ImageCache, logger *zlog.Zerolog) *Renderer {
	r := &Renderer{cache: cache, logger: logger}
	if f, err := truetype.Parse(goregular.TTF); err == nil {
		r.regular = f
	}
	if f, err := truetype.Parse(gobold.TTF); err == nil {
		r.bold = f
	} else {
		r.bold = r.regular
	}
	return r
}

// Compose draws the full overlay onto dst using the given layout. The
// frame in dst must already carry the (filtered) camera pixels.
func (r *Renderer) Compose(dst *image.RGBA, l Layout, venueName string, cfg vibe.Config) {
	r.drawVenuePill(dst, l, venueName, cfg)
	r.drawBadge(dst, l, cfg)
	r.drawLogo(dst, l, cfg)
}

func (r *Renderer) drawVenuePill(dst *image.RGBA, l Layout, venueName string, cfg vibe.Config) {
	if venueName == "" || r.bold == nil {
		return
	}

	size := l.VenueFont
	if size < 12 {
		size = 12
	}

	// Shrink until the name fits inside the venue box.
	padX := size / 2
	textW := r.measure(r.bold, float64(size), venueName)
	for size > 10 && textW+2*padX > l.Venue.W {
		size--
		padX = size / 2
		textW = r.measure(r.bold, float64(size), venueName)
	}

	pillW := textW + 2*padX
	pillH := l.Venue.H
	pill := Box{
		X: l.Venue.X + (l.Venue.W-pillW)/2,
		Y: l.Venue.Y,
		W: pillW,
		H: pillH,
	}
	radius := pillH / 2

	// Border ring in the vibe color, dark translucent interior.
	fillRoundedRect(dst, pill, radius, cfg.OverlayColor)
	inner := Box{X: pill.X + 3, Y: pill.Y + 3, W: pill.W - 6, H: pill.H - 6}
	fillRoundedRect(dst, inner, radius-3, color.RGBA{R: 18, G: 18, B: 26, A: 235})

	textX := pill.X + padX
	textY := pill.Y + (pillH+int(float64(size)*0.72))/2

	// Glow, white outline, then the colored fill on top.
	glow := cfg.OverlayColor
	glow.A = 90
	r.drawString(dst, r.bold, float64(size), venueName, textX+2, textY+2, glow)
	for _, off := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		r.drawString(dst, r.bold, float64(size), venueName, textX+off[0], textY+off[1], color.RGBA{255, 255, 255, 255})
	}
	r.drawString(dst, r.bold, float64(size), venueName, textX, textY, cfg.OverlayColor)
}

func (r *Renderer) drawBadge(dst *image.RGBA, l Layout, cfg vibe.Config) {
	box := l.Badge
	drawShadow(dst, box, box.H/5)

	img, err := r.cache.Load(cfg.BadgeAssetPath)
	if err != nil {
		r.logger.Debug().Err(err).Str("asset", cfg.BadgeAssetPath).Msg("Badge asset unavailable, drawing fallback")
		r.drawLabelBox(dst, box, box.H/5, cfg.OverlayColor, cfg.BadgeLabel)
		return
	}
	scaleInto(dst, box, img)
}

func (r *Renderer) drawLogo(dst *image.RGBA, l Layout, cfg vibe.Config) {
	box := l.Logo
	drawShadow(dst, box, box.H/3)

	img, err := r.cache.Load(cfg.LogoAssetPath)
	if err != nil {
		r.logger.Debug().Err(err).Str("asset", cfg.LogoAssetPath).Msg("Logo asset unavailable, drawing fallback")
		r.drawLabelBox(dst, box, box.H/3, color.RGBA{R: 18, G: 18, B: 26, A: 235}, brandLabel)
		return
	}
	scaleInto(dst, box, img)
}

// drawLabelBox is the shared image-load fallback: a solid rounded rect
// with a centered bold label.
func (r *Renderer) drawLabelBox(dst *image.RGBA, box Box, radius int, bg color.RGBA, label string) {
	fillRoundedRect(dst, box, radius, bg)
	if r.bold == nil || label == "" {
		return
	}
	size := box.H / 3
	if size < 10 {
		size = 10
	}
	textW := r.measure(r.bold, float64(size), label)
	for size > 8 && textW > box.W-8 {
		size--
		textW = r.measure(r.bold, float64(size), label)
	}
	x := box.X + (box.W-textW)/2
	y := box.Y + (box.H+int(float64(size)*0.72))/2
	r.drawString(dst, r.bold, float64(size), label, x, y, color.RGBA{255, 255, 255, 255})
}

func (r *Renderer) measure(f *truetype.Font, size float64, s string) int {
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	defer face.Close()
	return font.MeasureString(face, s).Ceil()
}

func (r *Renderer) drawString(dst *image.RGBA, f *truetype.Font, size float64, s string, x, y int, col color.RGBA) {
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(f)
	c.SetFontSize(size)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.NewUniform(col))
	c.SetHinting(font.HintingFull)
	if _, err := c.DrawString(s, freetype.Pt(x, y)); err != nil {
		r.logger.Debug().Err(err).Str("text", s).Msg("Failed to draw overlay text")
	}
}

// drawShadow approximates a drop shadow with an offset translucent
// rounded rect behind the box.
func drawShadow(dst *image.RGBA, box Box, radius int) {
	shadow := Box{X: box.X + 3, Y: box.Y + 3, W: box.W, H: box.H}
	fillRoundedRect(dst, shadow, radius, color.RGBA{A: 80})
}

func scaleInto(dst *image.RGBA, box Box, src image.Image) {
	rect := image.Rect(box.X, box.Y, box.X+box.W, box.Y+box.H)
	xdraw.BiLinear.Scale(dst, rect, src, src.Bounds(), xdraw.Over, nil)
}

func fillRoundedRect(dst *image.RGBA, box Box, radius int, col color.RGBA) {
	if radius < 0 {
		radius = 0
	}
	bounds := dst.Bounds()
	for y := box.Y; y < box.Y+box.H; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := box.X; x < box.X+box.W; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			if !inRoundedRect(box, radius, x, y) {
				continue
			}
			blend(dst, x, y, col)
		}
	}
}

func inRoundedRect(box Box, radius int, x, y int) bool {
	rx := x - box.X
	ry := y - box.Y
	var cx, cy int
	switch {
	case rx < radius && ry < radius:
		cx, cy = radius, radius
	case rx >= box.W-radius && ry < radius:
		cx, cy = box.W-radius-1, radius
	case rx < radius && ry >= box.H-radius:
		cx, cy = radius, box.H-radius-1
	case rx >= box.W-radius && ry >= box.H-radius:
		cx, cy = box.W-radius-1, box.H-radius-1
	default:
		return true
	}
	dx := rx - cx
	dy := ry - cy
	return dx*dx+dy*dy <= radius*radius
}

// blend does a src-over composite of col onto one pixel.
func blend(dst *image.RGBA, x, y int, col color.RGBA) {
	if col.A == 0xff {
		dst.SetRGBA(x, y, col)
		return
	}
	i := dst.PixOffset(x, y)
	a := uint32(col.A)
	inv := 255 - a
	dst.Pix[i] = uint8((uint32(col.R)*a + uint32(dst.Pix[i])*inv) / 255)
	dst.Pix[i+1] = uint8((uint32(col.G)*a + uint32(dst.Pix[i+1])*inv) / 255)
	dst.Pix[i+2] = uint8((uint32(col.B)*a + uint32(dst.Pix[i+2])*inv) / 255)
	dst.Pix[i+3] = uint8(a + uint32(dst.Pix[i+3])*inv/255)
}
