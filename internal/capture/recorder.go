// Package capture holds the photo and video pipelines and the capture
// surface state machine that orchestrates them.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync"
)

// Recorder consumes composed frames during a video capture and
// assembles them into a playable artifact on Finalize.
type Recorder interface {
	Start(width, height, fps int) error
	WriteFrame(frame *image.RGBA) error
	// Finalize returns the assembled data, its MIME type and the number
	// of frames written. Safe to call once after recording stops.
	Finalize() (data []byte, mimeType string, frames int, err error)
}

// MJPEGRecorder buffers frames as a concatenated JPEG stream. It is the
// container every camera source in this codebase already speaks, and
// needs no native encoder.
type MJPEGRecorder struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	quality int
	frames  int
	started bool
}

func NewMJPEGRecorder(quality int) *MJPEGRecorder {
	return &MJPEGRecorder{quality: quality}
}

func (r *MJPEGRecorder) Start(width, height, fps int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width <= 0 || height <= 0 || fps <= 0 {
		return fmt.Errorf("invalid recorder dimensions %dx%d@%d", width, height, fps)
	}
	r.buf.Reset()
	r.frames = 0
	r.started = true
	return nil
}

func (r *MJPEGRecorder) WriteFrame(frame *image.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return fmt.Errorf("recorder not started")
	}
	if err := jpeg.Encode(&r.buf, frame, &jpeg.Options{Quality: r.quality}); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	r.frames++
	return nil
}

func (r *MJPEGRecorder) Finalize() ([]byte, string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return nil, "", 0, fmt.Errorf("recorder not started")
	}
	r.started = false
	data := make([]byte, r.buf.Len())
	copy(data, r.buf.Bytes())
	return data, "video/x-motion-jpeg", r.frames, nil
}
