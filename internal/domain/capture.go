package domain

import "time"

// Capture timing defaults. The record limit is a hard stop; the visible
// per-second counter is advisory only.
const (
	DefaultCountdownSeconds = 3
	DefaultPosePromptDelay  = 2 * time.Second
	DefaultShutterDelay     = 100 * time.Millisecond
	DefaultRecordLimit      = 10 * time.Second
	DefaultOutputFPS        = 30
	DefaultJPEGQuality      = 92

	// Gesture thresholds for the capture surface.
	LongPressThreshold = 500 * time.Millisecond
	SwipeThresholdPx   = 60.0
	FilterToastDur     = 1500 * time.Millisecond

	// Camera start is delayed slightly after open so the preview
	// surface has mounted.
	CameraStartDelay = 100 * time.Millisecond
)

// RenderTask is a queued server-side render request.
type RenderTask struct {
	ID        string       `json:"id"`
	FramePath string       `json:"frame_path"`
	Bucket    string       `json:"bucket"`
	VenueName string       `json:"venue_name"`
	Vibe      Vibe         `json:"vibe"`
	FilterID  string       `json:"filter_id"`
	Zoom      float64      `json:"zoom"`
	Kind      ArtifactKind `json:"kind"`
}

// RenderResult announces a finished (or failed) render.
type RenderResult struct {
	ID         string         `json:"id"`
	ArtifactID string         `json:"artifact_id"`
	Status     ArtifactStatus `json:"status"`
	Path       string         `json:"path"`
	Error      string         `json:"error,omitempty"`
}

const (
	KafkaTopicRenders = "vibe-renders"
	KafkaTopicResults = "vibe-rendered"
	KafkaGroupID      = "vibe-capture-group"
)

const (
	PathPrefixFrames    = "frames/"
	PathPrefixArtifacts = "artifacts/"
)
