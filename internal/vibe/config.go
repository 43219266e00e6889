// Package vibe maps a vibe selection to the branding applied at capture
// time: badge, pose prompt, overlay color, filter and caption hashtags.
package vibe

import (
	"fmt"
	"image/color"
	"strings"

	"vibe-capture/internal/domain"
)

type Config struct {
	Vibe             domain.Vibe
	FilterExpression string
	OverlayColor     color.RGBA
	BadgeLabel       string
	BadgeAssetPath   string
	LogoAssetPath    string
	PosePrompt       string
	Hashtags         []string
}

const logoAssetPath = "assets/logo.png"

// ConfigFor builds the capture branding for a vibe at a venue. The
// hashtag list is regenerated on every call and is deterministic for
// identical inputs. Unknown vibes fail fast.
func ConfigFor(v domain.Vibe, venueName string) (Config, error) {
	slug := Slug(venueName)
	switch v {
	case domain.VibeTurnt:
		return Config{
			Vibe:             v,
			FilterExpression: "brightness(1.1) saturate(1.5) contrast(1.15)",
			OverlayColor:     color.RGBA{R: 255, G: 64, B: 129, A: 255},
			BadgeLabel:       "TURNT",
			BadgeAssetPath:   "assets/badges/turnt.png",
			LogoAssetPath:    logoAssetPath,
			PosePrompt:       "Throw your hands up!",
			Hashtags:         []string{"#VibeCheck", "#" + slug, "#Turnt", "#NightOut"},
		}, nil
	case domain.VibeChill:
		return Config{
			Vibe:             v,
			FilterExpression: "brightness(1.05) saturate(1.1) sepia(0.15)",
			OverlayColor:     color.RGBA{R: 64, G: 196, B: 255, A: 255},
			BadgeLabel:       "CHILL",
			BadgeAssetPath:   "assets/badges/chill.png",
			LogoAssetPath:    logoAssetPath,
			PosePrompt:       "Keep it cool and casual",
			Hashtags:         []string{"#VibeCheck", "#" + slug, "#ChillVibes", "#GoodCompany"},
		}, nil
	case domain.VibeQuiet:
		return Config{
			Vibe:             v,
			FilterExpression: "brightness(0.95) saturate(0.85) contrast(1.05)",
			OverlayColor:     color.RGBA{R: 178, G: 148, B: 255, A: 255},
			BadgeLabel:       "QUIET",
			BadgeAssetPath:   "assets/badges/quiet.png",
			LogoAssetPath:    logoAssetPath,
			PosePrompt:       "Soft smile, low light",
			Hashtags:         []string{"#VibeCheck", "#" + slug, "#QuietHours", "#LowKey"},
		}, nil
	}
	return Config{}, fmt.Errorf("%w: %q", domain.ErrInvalidVibe, v)
}

// Caption joins the pose-free share caption: venue name plus hashtags.
func (c Config) Caption(venueName string) string {
	return venueName + " " + strings.Join(c.Hashtags, " ")
}

// Slug strips all whitespace from a venue name so it can embed in a
// hashtag token.
func Slug(venueName string) string {
	return strings.Join(strings.Fields(venueName), "")
}
