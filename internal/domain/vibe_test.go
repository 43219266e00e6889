package domain

import (
	"errors"
	"testing"
)

func TestParseVibe(t *testing.T) {
	tests := []struct {
		in      string
		want    Vibe
		wantErr bool
	}{
		{"turnt", VibeTurnt, false},
		{"chill", VibeChill, false},
		{"quiet", VibeQuiet, false},
		{"", "", true},
		{"TURNT", "", true},
		{"party", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVibe(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVibe) {
					t.Fatalf("ParseVibe(%q) err = %v, want ErrInvalidVibe", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVibe(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseVibe(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVibesOrder(t *testing.T) {
	want := []Vibe{VibeTurnt, VibeChill, VibeQuiet}
	got := Vibes()
	if len(got) != len(want) {
		t.Fatalf("Vibes() has %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Vibes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unavailable", ErrCameraUnavailable, "Camera is not supported on this device"},
		{"denied", ErrPermissionDenied, "Camera access was denied. Check permissions and try again"},
		{"constraints", ErrConstraintsUnsatisfiable, "Camera could not match the requested settings"},
		{"other", errors.New("boom"), "Could not start the camera. Try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Fatalf("UserMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
