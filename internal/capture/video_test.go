package capture

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"vibe-capture/internal/domain"

	"github.com/wb-go/wbf/zlog"
)

// countingRecorder tracks frame writes so tests can assert the draw
// loop stopped.
type countingRecorder struct {
	mu       sync.Mutex
	frames   int
	started  bool
	startErr error
}

func (r *countingRecorder) Start(w, h, fps int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	r.started = true
	return nil
}

func (r *countingRecorder) WriteFrame(*image.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	return nil
}

func (r *countingRecorder) Finalize() ([]byte, string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = false
	return []byte("clip"), "video/x-motion-jpeg", r.frames, nil
}

func (r *countingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func TestVideoExplicitStopBeforeLimit(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	rec := &countingRecorder{}
	p := NewVideoPipeline(session, testRenderer(), rec, &zlog.Logger)
	p.SetLimits(30, 10*time.Second)

	if err := p.Start(photoRequest()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	p.Stop()

	artifact := <-p.Result()
	if artifact == nil {
		t.Fatal("expected an artifact")
	}
	if artifact.Kind != domain.KindVideo {
		t.Fatalf("kind = %v", artifact.Kind)
	}
	if artifact.Duration >= time.Second {
		t.Fatalf("duration %v should reflect the early stop, not the limit", artifact.Duration)
	}

	// The draw loop must be dead: no frames written after Stop returns.
	n := rec.count()
	time.Sleep(150 * time.Millisecond)
	if rec.count() != n {
		t.Fatal("draw loop still writing after Stop")
	}
}

func TestVideoHardStopAtLimit(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	rec := &countingRecorder{}
	p := NewVideoPipeline(session, testRenderer(), rec, &zlog.Logger)
	p.SetLimits(30, 250*time.Millisecond)

	if err := p.Start(photoRequest()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case artifact := <-p.Result():
		if artifact == nil {
			t.Fatal("expected an artifact from the hard stop")
		}
		if artifact.Duration > 250*time.Millisecond {
			t.Fatalf("duration %v exceeds the cap", artifact.Duration)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("hard stop never fired")
	}

	if p.Recording() {
		t.Fatal("still recording after the hard stop")
	}
	n := rec.count()
	time.Sleep(150 * time.Millisecond)
	if rec.count() != n {
		t.Fatal("draw loop still writing after the hard stop")
	}
}

func TestVideoDoubleStartRejected(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	p := NewVideoPipeline(session, testRenderer(), &countingRecorder{}, &zlog.Logger)
	p.SetLimits(30, 10*time.Second)

	if err := p.Start(photoRequest()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	if err := p.Start(photoRequest()); !errors.Is(err, domain.ErrRecordingActive) {
		t.Fatalf("expected ErrRecordingActive, got %v", err)
	}
}

func TestVideoStopBeforeStart(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	p := NewVideoPipeline(session, testRenderer(), &countingRecorder{}, &zlog.Logger)
	p.Stop() // must not panic or block
}

func TestVideoRecorderSetupFailure(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	rec := &countingRecorder{startErr: errors.New("no encoder")}
	p := NewVideoPipeline(session, testRenderer(), rec, &zlog.Logger)

	if err := p.Start(photoRequest()); !errors.Is(err, domain.ErrRecordingSetupFailed) {
		t.Fatalf("expected ErrRecordingSetupFailed, got %v", err)
	}
	if p.Recording() {
		t.Fatal("failed setup must not leave the recording flag set")
	}
}

func TestVideoElapsedCounter(t *testing.T) {
	session := liveSession(t)
	defer session.Stop()

	p := NewVideoPipeline(session, testRenderer(), &countingRecorder{}, &zlog.Logger)
	p.SetLimits(30, 10*time.Second)

	var mu sync.Mutex
	var seen []int
	p.OnElapsed = func(s int) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	}

	if err := p.Start(photoRequest()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)
	p.Stop()
	<-p.Result()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) == 0 || seen[0] != 1 {
		t.Fatalf("elapsed ticks = %v, want to start at 1", seen)
	}
}
