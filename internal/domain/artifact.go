package domain

import (
	"fmt"
	"strings"
	"time"
)

type ArtifactKind string

const (
	KindPhoto ArtifactKind = "photo"
	KindVideo ArtifactKind = "video"
)

// Artifact is a finished capture. Immutable once produced; ownership
// passes to the share adapter or the artifact store.
type Artifact struct {
	ID        string
	Kind      ArtifactKind
	VenueName string
	Vibe      Vibe
	Filter    string
	MimeType  string
	Data      []byte
	// AudioPCM carries the microphone track for video artifacts when one
	// was granted. Empty for photos and audio-less recordings.
	AudioPCM  []byte
	Duration  time.Duration
	CreatedAt time.Time
}

// Filename builds the shareable name: vibe-{media}-{Venue-Name}-{vibe}.{ext},
// spaces in the venue name replaced by hyphens.
func (a *Artifact) Filename() string {
	media := "selfie"
	ext := "jpg"
	if a.Kind == KindVideo {
		media = "video"
		ext = "mjpeg"
	}
	venue := strings.ReplaceAll(strings.TrimSpace(a.VenueName), " ", "-")
	return fmt.Sprintf("vibe-%s-%s-%s.%s", media, venue, a.Vibe, ext)
}

type ArtifactStatus string

const (
	StatusUploaded   ArtifactStatus = "uploaded"
	StatusProcessing ArtifactStatus = "processing"
	StatusCompleted  ArtifactStatus = "completed"
	StatusFailed     ArtifactStatus = "failed"
	StatusDeleted    ArtifactStatus = "deleted"
)

// ArtifactRecord is the persisted metadata for a stored artifact.
type ArtifactRecord struct {
	ID        string
	Kind      ArtifactKind
	VenueName string
	Vibe      Vibe
	Filter    string
	MimeType  string
	Size      int64
	Status    ArtifactStatus
	Path      string
	Bucket    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
