package domain

import "fmt"

// Vibe is the mood classification picked before capture. It drives
// overlay styling and caption hashtags.
type Vibe string

const (
	VibeTurnt Vibe = "turnt"
	VibeChill Vibe = "chill"
	VibeQuiet Vibe = "quiet"
)

// Vibes lists every valid vibe in display order.
func Vibes() []Vibe {
	return []Vibe{VibeTurnt, VibeChill, VibeQuiet}
}

// ParseVibe validates a raw vibe string. Unknown values are a caller
// contract violation and fail fast rather than defaulting.
func ParseVibe(s string) (Vibe, error) {
	switch Vibe(s) {
	case VibeTurnt, VibeChill, VibeQuiet:
		return Vibe(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVibe, s)
}
