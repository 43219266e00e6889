// Package overlay computes branding geometry for a render surface and
// bakes the overlay graphics into frame pixels.
package overlay

import "math"

// Box is a pixel-space rectangle inside the render surface.
type Box struct {
	X, Y, W, H int
}

// Layout is the derived overlay geometry for one surface size. It is
// recomputed on every resize; a stale layout misplaces overlays.
type Layout struct {
	Width  int
	Height int

	Venue     Box
	VenueFont int
	Badge     Box
	Logo      Box

	SmallScreen bool
	Scale       float64
}

// Reference viewport the proportions were designed against (a common
// phone screen in portrait).
const (
	baseWidth  = 390.0
	baseHeight = 844.0

	minScale = 0.5
	maxScale = 2.0
)

// Compute derives the overlay layout for a surface of the given size.
// Pure and deterministic: identical inputs always produce identical
// layouts.
func Compute(width, height int) Layout {
	w := float64(width)
	h := float64(height)

	scale := math.Min(w/baseWidth, h/baseHeight)
	scale = math.Min(math.Max(scale, minScale), maxScale)

	short := math.Min(w, h)
	margin := int(0.04 * short * scale)

	badgeSize := int(0.20 * short * scale)
	logoW := int(0.24 * short * scale)
	logoH := int(0.10 * short * scale)

	return Layout{
		Width:  width,
		Height: height,
		Venue: Box{
			X: int(0.05 * w),
			Y: int(0.08 * h),
			W: int(0.90 * w),
			H: int(0.08 * h),
		},
		VenueFont: int(math.Floor(0.06 * w * scale)),
		Badge: Box{
			X: margin,
			Y: height - badgeSize - margin,
			W: badgeSize,
			H: badgeSize,
		},
		Logo: Box{
			X: width - logoW - margin,
			Y: height - logoH - margin,
			W: logoW,
			H: logoH,
		},
		SmallScreen: width < 400,
		Scale:       scale,
	}
}
