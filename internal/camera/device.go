// Package camera owns acquisition and release of the live capture
// stream. The Session is the single owner of the hardware handle;
// consumers only read frames through it.
package camera

import (
	"image"
	"time"
)

// Constraints describe the stream to acquire. Audio is requested only
// when video recording is supported by the surface; photo-only mode
// leaves it off.
type Constraints struct {
	DeviceID     string
	Width        int
	Height       int
	FPS          int
	IncludeAudio bool
}

// Frame is one decoded video frame with its capture time.
type Frame struct {
	Image image.Image
	At    time.Time
}

// Device is a single camera hardware handle. Implementations must make
// Close safe to call more than once.
type Device interface {
	Open(c Constraints) error
	ReadFrame() (image.Image, error)
	Close() error
}

// AudioCapturer is implemented by devices that also capture a
// microphone track alongside video.
type AudioCapturer interface {
	AudioPCM() []byte
}
