package filter

import (
	"image"
	"image/color"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		terms   int
		wantErr bool
	}{
		{"empty_is_identity", "", 0, false},
		{"single", "brightness(1.1)", 1, false},
		{"chain", "grayscale(1) contrast(1.3)", 2, false},
		{"degrees", "hue-rotate(180deg)", 1, false},
		{"unknown_term", "blur(4px)", 0, true},
		{"missing_paren", "brightness 1.1", 0, true},
		{"bad_value", "contrast(abc)", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if len(e.terms) != tt.terms {
				t.Fatalf("Parse(%q) got %d terms, want %d", tt.input, len(e.terms), tt.terms)
			}
		})
	}
}

func TestApplyIdentityCopies(t *testing.T) {
	src := solidImage(10, 10, color.RGBA{R: 120, G: 80, B: 200, A: 255})

	dst := MustParse("").Apply(src)
	if dst == nil {
		t.Fatal("nil result")
	}
	r, g, b, _ := dst.At(5, 5).RGBA()
	if uint8(r>>8) != 120 || uint8(g>>8) != 80 || uint8(b>>8) != 200 {
		t.Fatalf("identity changed pixel: %d %d %d", r>>8, g>>8, b>>8)
	}

	// The source must stay untouched.
	dst.Set(5, 5, color.RGBA{A: 255})
	if r, _, _, _ := src.At(5, 5).RGBA(); uint8(r>>8) != 120 {
		t.Fatal("Apply mutated the source image")
	}
}

func TestApplyGrayscaleFull(t *testing.T) {
	src := solidImage(4, 4, color.RGBA{R: 255, G: 0, B: 0, A: 255})

	dst := MustParse("grayscale(1)").Apply(src)
	r, g, b, _ := dst.At(0, 0).RGBA()
	if r != g || g != b {
		t.Fatalf("grayscale(1) produced a colored pixel: %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestApplyBrightnessDarkens(t *testing.T) {
	src := solidImage(4, 4, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	dst := MustParse("brightness(0.5)").Apply(src)
	r, _, _, _ := dst.At(0, 0).RGBA()
	if got := uint8(r >> 8); got != 100 {
		t.Fatalf("brightness(0.5) on 200 = %d, want 100", got)
	}
}

func TestApplyClamps(t *testing.T) {
	src := solidImage(2, 2, color.RGBA{R: 250, G: 250, B: 250, A: 255})

	dst := MustParse("brightness(3)").Apply(src)
	r, g, b, _ := dst.At(0, 0).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 255 || uint8(b>>8) != 255 {
		t.Fatal("overdriven channels must clamp to 255")
	}
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
