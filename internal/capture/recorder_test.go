package capture

import (
	"image"
	"testing"
)

func TestMJPEGRecorderLifecycle(t *testing.T) {
	r := NewMJPEGRecorder(80)

	if err := r.WriteFrame(image.NewRGBA(image.Rect(0, 0, 4, 4))); err == nil {
		t.Fatal("WriteFrame before Start must fail")
	}

	if err := r.Start(4, 4, 30); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := r.WriteFrame(image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}

	data, mime, frames, err := r.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if mime != "video/x-motion-jpeg" {
		t.Fatalf("mime = %q", mime)
	}
	if frames != 3 {
		t.Fatalf("frames = %d, want 3", frames)
	}
	if len(data) == 0 {
		t.Fatal("empty data")
	}

	// JPEG SOI marker opens the stream.
	if data[0] != 0xFF || data[1] != 0xD8 {
		t.Fatalf("stream does not start with a JPEG SOI marker: % x", data[:2])
	}

	if _, _, _, err := r.Finalize(); err == nil {
		t.Fatal("second Finalize must fail")
	}
}

func TestMJPEGRecorderRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		fps  int
	}{
		{"zero_width", 0, 10, 30},
		{"zero_height", 10, 0, 30},
		{"zero_fps", 10, 10, 0},
		{"negative", -1, 10, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewMJPEGRecorder(80).Start(tt.w, tt.h, tt.fps); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
