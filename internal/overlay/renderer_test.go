package overlay

import (
	"image"
	"image/color"
	"testing"

	"vibe-capture/internal/domain"
	"vibe-capture/internal/vibe"

	"github.com/wb-go/wbf/zlog"
)

func testConfig(t *testing.T) vibe.Config {
	t.Helper()
	cfg, err := vibe.ConfigFor(domain.VibeTurnt, "The Underground")
	if err != nil {
		t.Fatalf("ConfigFor: %v", err)
	}
	return cfg
}

func blankFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func TestComposeWithMissingAssets(t *testing.T) {
	r := NewRenderer(NewImageCache(), &zlog.Logger)
	frame := blankFrame(390, 844)
	cfg := testConfig(t)
	// Asset paths do not exist in the test environment; every step must
	// still complete with its drawn fallback.
	cfg.BadgeAssetPath = "does/not/exist.png"
	cfg.LogoAssetPath = "also/missing.png"

	r.Compose(frame, Compute(390, 844), "The Underground", cfg)

	if !anyPixelSet(frame) {
		t.Fatal("Compose drew nothing onto the frame")
	}
}

func TestComposeEmptyVenueSkipsPill(t *testing.T) {
	r := NewRenderer(NewImageCache(), &zlog.Logger)
	frame := blankFrame(390, 844)
	cfg := testConfig(t)
	cfg.BadgeAssetPath = "missing.png"
	cfg.LogoAssetPath = "missing.png"

	r.Compose(frame, Compute(390, 844), "", cfg)

	// Badge and logo placeholders still land in the bottom corners.
	l := Compute(390, 844)
	if !regionTouched(frame, l.Badge) {
		t.Error("badge region untouched")
	}
	if !regionTouched(frame, l.Logo) {
		t.Error("logo region untouched")
	}
}

func TestComposeTinySurface(t *testing.T) {
	r := NewRenderer(NewImageCache(), &zlog.Logger)
	frame := blankFrame(60, 80)
	cfg := testConfig(t)
	cfg.BadgeAssetPath = "missing.png"
	cfg.LogoAssetPath = "missing.png"

	// Must not panic on a surface far below the reference size.
	r.Compose(frame, Compute(60, 80), "A Very Long Venue Name Indeed", cfg)
}

func anyPixelSet(img *image.RGBA) bool {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			return true
		}
	}
	return false
}

func regionTouched(img *image.RGBA, b Box) bool {
	for y := b.Y; y < b.Y+b.H && y < img.Bounds().Dy(); y++ {
		for x := b.X; x < b.X+b.W && x < img.Bounds().Dx(); x++ {
			c := img.RGBAAt(x, y)
			if (c != color.RGBA{A: 255}) {
				return true
			}
		}
	}
	return false
}
