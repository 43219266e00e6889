package capture

import (
	"math"
	"time"

	"vibe-capture/internal/domain"
)

// Action is the resolved intent of one completed gesture on the
// capture surface.
type Action int

const (
	ActionNone Action = iota
	ActionPhoto
	ActionVideoStart
	ActionFilterNext
	ActionFilterPrev
)

// Press describes one pointer interaction from down to up.
type Press struct {
	Duration time.Duration
	DX       float64
	DY       float64
	// InZoomZone marks presses that started on the zoom control, which
	// is a non-gesture region: it never arms capture or filter swipes.
	InZoomZone bool
}

// ResolvePress maps a finished press to an action. A sustained press
// arms video; a short tap with no real movement arms photo; a mostly
// horizontal drag past the swipe threshold switches filters. Vertical
// drags (the zoom slider) and drags inside the zoom zone resolve to
// nothing.
func ResolvePress(p Press) Action {
	if p.InZoomZone {
		return ActionNone
	}

	absX := math.Abs(p.DX)
	absY := math.Abs(p.DY)

	if absX >= domain.SwipeThresholdPx && absX > absY {
		if p.DX < 0 {
			return ActionFilterNext
		}
		return ActionFilterPrev
	}

	if absY >= domain.SwipeThresholdPx {
		return ActionNone
	}

	if p.Duration >= domain.LongPressThreshold {
		return ActionVideoStart
	}
	if absX < domain.SwipeThresholdPx && absY < domain.SwipeThresholdPx {
		return ActionPhoto
	}
	return ActionNone
}
