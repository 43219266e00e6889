package camera

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vibe-capture/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

// fakeDevice serves a fixed frame until closed and counts lifecycle
// calls so tests can assert ownership.
type fakeDevice struct {
	mu      sync.Mutex
	opened  bool
	closed  bool
	openErr error
	frame   *image.RGBA
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
}

func (d *fakeDevice) Open(c Constraints) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.openErr != nil {
		return d.openErr
	}
	d.opened = true
	return nil
}

func (d *fakeDevice) ReadFrame() (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("device closed")
	}
	time.Sleep(time.Millisecond)
	return d.frame, nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestStartDeliversFrames(t *testing.T) {
	dev := newFakeDevice()
	s := NewSession(func() Device { return dev }, &zlog.Logger)
	defer s.Stop()

	if err := s.Start(context.Background(), Constraints{Width: 4, Height: 4}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitFor(t, func() bool {
		_, ok := s.LatestFrame()
		return ok
	})
	if !s.Active() {
		t.Fatal("session should be active")
	}
}

func TestStartStopsPriorStream(t *testing.T) {
	var devices []*fakeDevice
	var mu sync.Mutex
	s := NewSession(func() Device {
		d := newFakeDevice()
		mu.Lock()
		devices = append(devices, d)
		mu.Unlock()
		return d
	}, &zlog.Logger)
	defer s.Stop()

	if err := s.Start(context.Background(), Constraints{}); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := s.Start(context.Background(), Constraints{}); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	if !devices[0].isClosed() {
		t.Fatal("first device must be closed before the second opens")
	}
	if devices[1].isClosed() {
		t.Fatal("second device should still be live")
	}
}

func TestStopIdempotent(t *testing.T) {
	dev := newFakeDevice()
	s := NewSession(func() Device { return dev }, &zlog.Logger)

	// Stop before any Start is a no-op.
	s.Stop()

	if err := s.Start(context.Background(), Constraints{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	s.Stop()

	if !dev.isClosed() {
		t.Fatal("device not closed")
	}
	if s.Active() {
		t.Fatal("session still active after Stop")
	}
}

func TestStartOpenErrorPropagates(t *testing.T) {
	dev := newFakeDevice()
	dev.openErr = domain.ErrCameraUnavailable
	s := NewSession(func() Device { return dev }, &zlog.Logger)

	err := s.Start(context.Background(), Constraints{})
	if !errors.Is(err, domain.ErrCameraUnavailable) {
		t.Fatalf("expected ErrCameraUnavailable, got %v", err)
	}
	if s.Active() {
		t.Fatal("session must not be active after a failed open")
	}
}

func TestReadErrorStopsSession(t *testing.T) {
	dev := newFakeDevice()
	s := NewSession(func() Device { return dev }, &zlog.Logger)

	if err := s.Start(context.Background(), Constraints{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Simulate the device dying under the session.
	dev.Close()
	waitFor(t, func() bool { return !s.Active() })
}

func TestSubscribeReceivesAndCancels(t *testing.T) {
	dev := newFakeDevice()
	s := NewSession(func() Device { return dev }, &zlog.Logger)
	defer s.Stop()

	frames, cancel := s.Subscribe(2)

	if err := s.Start(context.Background(), Constraints{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case f := <-frames:
		if f.Image == nil {
			t.Fatal("received frame without image")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered to subscriber")
	}

	cancel()
	cancel() // second cancel is safe

	// The channel must be closed after cancel; drain to the close.
	var received atomic.Bool
	go func() {
		for range frames {
		}
		received.Store(true)
	}()
	waitFor(t, received.Load)
}

func TestAudioPCMOnlyWhenRequested(t *testing.T) {
	dev := newFakeDevice()
	s := NewSession(func() Device { return dev }, &zlog.Logger)
	defer s.Stop()

	if err := s.Start(context.Background(), Constraints{IncludeAudio: false}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if pcm := s.AudioPCM(); pcm != nil {
		t.Fatalf("audio not requested but got %d bytes", len(pcm))
	}
}
