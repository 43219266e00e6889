package capture

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// zoomCrop applies digital zoom: a centered crop of size native/zoom
// scaled back up to the full frame. zoom <= 1 is a straight copy.
func zoomCrop(src image.Image, zoom float64) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if zoom <= 1 {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
		return dst
	}

	cropW := int(float64(w) / zoom)
	cropH := int(float64(h) / zoom)
	x0 := bounds.Min.X + (w-cropW)/2
	y0 := bounds.Min.Y + (h-cropH)/2

	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, image.Rect(x0, y0, x0+cropW, y0+cropH), xdraw.Src, nil)
	return dst
}

// rotatePortrait maps a landscape sensor frame into a portrait canvas
// with a 90 degree clockwise rotation. The result swaps width and
// height relative to the source.
func rotatePortrait(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, srcH, srcW))

	for sy := 0; sy < srcH; sy++ {
		for sx := 0; sx < srcW; sx++ {
			si := src.PixOffset(bounds.Min.X+sx, bounds.Min.Y+sy)
			di := dst.PixOffset(srcH-1-sy, sx)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
