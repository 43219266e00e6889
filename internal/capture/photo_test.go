package capture

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"vibe-capture/internal/camera"
	"vibe-capture/internal/domain"
	"vibe-capture/internal/filter"
	"vibe-capture/internal/overlay"

	"github.com/wb-go/wbf/zlog"
)

// stubDevice feeds a fixed frame to a camera session in tests.
type stubDevice struct {
	mu     sync.Mutex
	closed bool
	frame  *image.RGBA
}

func newStubDevice(w, h int) *stubDevice {
	return &stubDevice{frame: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (d *stubDevice) Open(camera.Constraints) error { return nil }

func (d *stubDevice) ReadFrame() (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("closed")
	}
	time.Sleep(time.Millisecond)
	return d.frame, nil
}

func (d *stubDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func liveSession(t *testing.T) *camera.Session {
	t.Helper()
	s := camera.NewSession(func() camera.Device { return newStubDevice(64, 48) }, &zlog.Logger)
	if err := s.Start(context.Background(), camera.Constraints{}); err != nil {
		t.Fatalf("session start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := s.LatestFrame(); ok {
			return s
		}
		if time.Now().After(deadline) {
			t.Fatal("no frame arrived")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func testRenderer() *overlay.Renderer {
	return overlay.NewRenderer(overlay.NewImageCache(), &zlog.Logger)
}

func photoRequest() Request {
	return Request{
		VenueName: "The Underground",
		Vibe:      domain.VibeTurnt,
		Filter:    filter.NewRegistry().Get("noir"),
		Zoom:      1,
	}
}

func TestStartCountdownCapturesOnce(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	p := NewPhotoPipeline(session, testRenderer(), &zlog.Logger)
	p.countdownFrom = 2
	p.poseDuration = 20 * time.Millisecond
	p.shutterDelay = 10 * time.Millisecond

	var mu sync.Mutex
	var ticks []int
	promptShown := ""
	p.OnCountdownTick = func(remaining int) {
		mu.Lock()
		ticks = append(ticks, remaining)
		mu.Unlock()
	}
	p.OnPosePrompt = func(prompt string) { promptShown = prompt }

	artifact, err := p.StartCountdown(context.Background(), photoRequest())
	if err != nil {
		t.Fatalf("StartCountdown: %v", err)
	}
	if artifact == nil {
		t.Fatal("expected an artifact")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ticks) != 2 || ticks[0] != 2 || ticks[1] != 1 {
		t.Fatalf("ticks = %v, want [2 1]", ticks)
	}
	if promptShown != "Throw your hands up!" {
		t.Fatalf("pose prompt = %q", promptShown)
	}
	if artifact.Kind != domain.KindPhoto {
		t.Fatalf("kind = %v", artifact.Kind)
	}
	if artifact.MimeType != "image/jpeg" {
		t.Fatalf("mime = %q", artifact.MimeType)
	}
	if len(artifact.Data) == 0 {
		t.Fatal("empty artifact data")
	}
	if session.Active() {
		t.Fatal("camera must be released after a capture")
	}
}

func TestStartCountdownCancelled(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	p := NewPhotoPipeline(session, testRenderer(), &zlog.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.StartCountdown(ctx, photoRequest()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !session.Active() {
		t.Fatal("cancelled countdown must not stop the camera")
	}
}

func TestStartCountdownRejectsUnknownVibe(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	p := NewPhotoPipeline(session, testRenderer(), &zlog.Logger)
	req := photoRequest()
	req.Vibe = domain.Vibe("mellow")

	if _, err := p.StartCountdown(context.Background(), req); !errors.Is(err, domain.ErrInvalidVibe) {
		t.Fatalf("expected ErrInvalidVibe, got %v", err)
	}
}

func TestCaptureWithoutFrameIsNoop(t *testing.T) {
	session := camera.NewSession(func() camera.Device { return newStubDevice(64, 48) }, &zlog.Logger)
	p := NewPhotoPipeline(session, testRenderer(), &zlog.Logger)

	artifact, err := p.Capture(nil, photoRequest())
	if err != nil {
		t.Fatalf("Capture(nil): %v", err)
	}
	if artifact != nil {
		t.Fatal("missing frame must yield no artifact")
	}
}

func TestCaptureSanitizesBadFilter(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	p := NewPhotoPipeline(session, testRenderer(), &zlog.Logger)
	req := photoRequest()
	req.Filter = filter.Definition{ID: "broken", Expression: "blur(??)"}

	frame, _ := session.LatestFrame()
	artifact, err := p.Capture(frame.Image, req)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if artifact == nil || len(artifact.Data) == 0 {
		t.Fatal("bad filter must still capture unfiltered")
	}
}

func TestPhotoArtifactFilename(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	p := NewPhotoPipeline(session, testRenderer(), &zlog.Logger)
	frame, _ := session.LatestFrame()
	artifact, err := p.Capture(frame.Image, photoRequest())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	want := "vibe-selfie-The-Underground-turnt.jpg"
	if got := artifact.Filename(); got != want {
		t.Fatalf("Filename() = %q, want %q", got, want)
	}
}
