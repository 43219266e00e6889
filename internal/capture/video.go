package capture

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"vibe-capture/internal/camera"
	"vibe-capture/internal/domain"
	"vibe-capture/internal/filter"
	"vibe-capture/internal/overlay"
	"vibe-capture/internal/vibe"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// VideoPipeline records a fixed-length clip by re-rendering filtered,
// overlaid frames onto a portrait canvas at a fixed rate. A passthrough
// of the raw stream cannot carry the burned-in branding, hence the
// render loop.
type VideoPipeline struct {
	session  *camera.Session
	renderer *overlay.Renderer
	recorder Recorder
	logger   *zlog.Zerolog

	fps         int
	maxDuration time.Duration

	recording atomic.Bool
	loopDone  chan struct{}
	stopTimer *time.Timer
	stopOnce  *sync.Once

	mu      sync.Mutex
	req     Request
	cfg     vibe.Config
	expr    filter.Expression
	layout  overlay.Layout
	startAt time.Time
	result  chan *domain.Artifact

	// OnElapsed receives the advisory per-second counter. It is UX
	// only; the hard stop timer is what actually ends the recording.
	OnElapsed func(seconds int)
}

func NewVideoPipeline(session *camera.Session, renderer *overlay.Renderer, recorder Recorder, logger *zlog.Zerolog) *VideoPipeline {
	return &VideoPipeline{
		session:     session,
		renderer:    renderer,
		recorder:    recorder,
		logger:      logger,
		fps:         domain.DefaultOutputFPS,
		maxDuration: domain.DefaultRecordLimit,
	}
}

// SetLimits overrides the output rate and the hard duration cap. Call
// before Start.
func (p *VideoPipeline) SetLimits(fps int, maxDuration time.Duration) {
	if fps > 0 {
		p.fps = fps
	}
	if maxDuration > 0 {
		p.maxDuration = maxDuration
	}
}

// Start begins a recording. A second Start while one is active is a
// caller error. The portrait canvas swaps the landscape sensor
// dimensions; the hard stop fires at the duration limit regardless of
// the advisory counter.
func (p *VideoPipeline) Start(req Request) error {
	if p.recording.Load() {
		return domain.ErrRecordingActive
	}

	frame, ok := p.session.LatestFrame()
	if !ok {
		return fmt.Errorf("%w: no frame available", domain.ErrCaptureSurfaceNotReady)
	}

	cfg, err := vibe.ConfigFor(req.Vibe, req.VenueName)
	if err != nil {
		return err
	}
	expr, err := filter.Parse(req.Filter.Expression)
	if err != nil {
		p.logger.Warn().Err(err).Str("filter", req.Filter.ID).Msg("Bad filter expression, recording unfiltered")
		expr = filter.Expression{}
	}

	srcBounds := frame.Image.Bounds()
	portraitW := srcBounds.Dy()
	portraitH := srcBounds.Dx()
	if err := p.recorder.Start(portraitW, portraitH, p.fps); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRecordingSetupFailed, err)
	}

	p.mu.Lock()
	p.req = req
	p.cfg = cfg
	p.expr = expr
	p.layout = overlay.Compute(portraitW, portraitH)
	p.startAt = time.Now()
	p.result = make(chan *domain.Artifact, 1)
	p.mu.Unlock()

	p.stopOnce = new(sync.Once)
	p.loopDone = make(chan struct{})
	p.recording.Store(true)
	p.stopTimer = time.AfterFunc(p.maxDuration, p.Stop)

	go p.drawLoop()
	go p.elapsedLoop()

	p.logger.Info().
		Int("width", portraitW).
		Int("height", portraitH).
		Int("fps", p.fps).
		Dur("limit", p.maxDuration).
		Msg("Recording started")
	return nil
}

// Stop finalizes the recording. Both the explicit stop and the hard
// timeout land here; whichever runs first wins and the loop exits on
// its next flag check.
func (p *VideoPipeline) Stop() {
	if p.stopOnce == nil {
		return
	}
	p.stopOnce.Do(func() {
		if p.loopDone == nil {
			return
		}
		p.recording.Store(false)
		if p.stopTimer != nil {
			p.stopTimer.Stop()
		}
		<-p.loopDone

		p.mu.Lock()
		defer p.mu.Unlock()

		elapsed := time.Since(p.startAt)
		if elapsed > p.maxDuration {
			elapsed = p.maxDuration
		}

		data, mimeType, frames, err := p.recorder.Finalize()
		if err != nil {
			p.logger.Error().Err(err).Msg("Failed to finalize recording")
			close(p.result)
			return
		}

		artifact := &domain.Artifact{
			ID:        uuid.New().String(),
			Kind:      domain.KindVideo,
			VenueName: p.req.VenueName,
			Vibe:      p.req.Vibe,
			Filter:    p.req.Filter.ID,
			MimeType:  mimeType,
			Data:      data,
			AudioPCM:  p.session.AudioPCM(),
			Duration:  elapsed,
			CreatedAt: time.Now(),
		}
		p.result <- artifact
		close(p.result)

		p.logger.Info().
			Str("artifact_id", artifact.ID).
			Int("frames", frames).
			Dur("duration", elapsed).
			Bool("audio", len(artifact.AudioPCM) > 0).
			Msg("Recording finished")
	})
}

// Recording reports whether a capture is in flight.
func (p *VideoPipeline) Recording() bool {
	return p.recording.Load()
}

// Result delivers the finished artifact after Stop. The channel closes
// without a value if finalization failed.
func (p *VideoPipeline) Result() <-chan *domain.Artifact {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// drawLoop renders frames at the output rate. Every iteration checks
// the recording flag and exits promptly once it clears; a loop that
// outlives Stop would burn CPU against a dead recorder.
func (p *VideoPipeline) drawLoop() {
	defer close(p.loopDone)

	ticker := time.NewTicker(time.Second / time.Duration(p.fps))
	defer ticker.Stop()

	for range ticker.C {
		if !p.recording.Load() {
			return
		}
		p.renderFrame()
	}
}

func (p *VideoPipeline) renderFrame() {
	frame, ok := p.session.LatestFrame()
	if !ok {
		return
	}

	p.mu.Lock()
	req := p.req
	cfg := p.cfg
	expr := p.expr
	layout := p.layout
	p.mu.Unlock()

	canvas := zoomCrop(frame.Image, req.Zoom)
	canvas = rotatePortrait(canvas)
	canvas = expr.Apply(canvas)
	p.renderer.Compose(canvas, layout, req.VenueName, cfg)

	if err := p.recorder.WriteFrame(canvas); err != nil {
		p.logger.Warn().Err(err).Msg("Dropped a frame during recording")
	}
}

// elapsedLoop drives the visible per-second counter. It never stops the
// recording itself.
func (p *VideoPipeline) elapsedLoop() {
	if p.OnElapsed == nil {
		return
	}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	seconds := 0
	for range ticker.C {
		if !p.recording.Load() {
			return
		}
		seconds++
		p.OnElapsed(seconds)
	}
}
