package capture

import (
	"bytes"
	"image"
	"image/jpeg"

	"vibe-capture/internal/filter"
	"vibe-capture/internal/overlay"
	"vibe-capture/internal/vibe"
)

// PreviewFrame applies zoom and the active filter to a live frame,
// without the baked overlay. A filter that fails to parse previews as
// unfiltered.
func PreviewFrame(frame image.Image, def filter.Definition, zoom float64) image.Image {
	canvas := zoomCrop(frame, zoom)
	expr, err := filter.Parse(def.Expression)
	if err != nil {
		return canvas
	}
	return expr.Apply(canvas)
}

// RenderStill produces the final still-image bytes for one frame:
// digital zoom, filter expression, baked overlay, JPEG encode. Shared
// by the live photo pipeline and server-side renders.
func RenderStill(frame image.Image, req Request, renderer *overlay.Renderer, quality int) ([]byte, error) {
	cfg, err := vibe.ConfigFor(req.Vibe, req.VenueName)
	if err != nil {
		return nil, err
	}
	expr, err := filter.Parse(req.Filter.Expression)
	if err != nil {
		return nil, err
	}

	canvas := zoomCrop(frame, req.Zoom)
	canvas = expr.Apply(canvas)

	layout := overlay.Compute(canvas.Bounds().Dx(), canvas.Bounds().Dy())
	renderer.Compose(canvas, layout, req.VenueName, cfg)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
