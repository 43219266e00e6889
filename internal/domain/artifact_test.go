package domain

import "testing"

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		artifact Artifact
		want     string
	}{
		{
			"photo_with_spaces",
			Artifact{Kind: KindPhoto, VenueName: "The Underground", Vibe: VibeTurnt},
			"vibe-selfie-The-Underground-turnt.jpg",
		},
		{
			"video",
			Artifact{Kind: KindVideo, VenueName: "Neon Lounge", Vibe: VibeChill},
			"vibe-video-Neon-Lounge-chill.mjpeg",
		},
		{
			"padded_venue",
			Artifact{Kind: KindPhoto, VenueName: "  Velvet Room  ", Vibe: VibeQuiet},
			"vibe-selfie-Velvet-Room-quiet.jpg",
		},
		{
			"single_word",
			Artifact{Kind: KindPhoto, VenueName: "Basement", Vibe: VibeTurnt},
			"vibe-selfie-Basement-turnt.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.artifact.Filename(); got != tt.want {
				t.Fatalf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}
