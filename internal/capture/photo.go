package capture

import (
	"context"
	"image"
	"time"

	"vibe-capture/internal/camera"
	"vibe-capture/internal/domain"
	"vibe-capture/internal/filter"
	"vibe-capture/internal/overlay"
	"vibe-capture/internal/vibe"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// Request carries everything a capture needs besides the frame itself.
type Request struct {
	VenueName string
	Vibe      domain.Vibe
	Filter    filter.Definition
	Zoom      float64
}

// PhotoPipeline runs the pose prompt, the countdown and the single
// frame capture.
type PhotoPipeline struct {
	session  *camera.Session
	renderer *overlay.Renderer
	logger   *zlog.Zerolog

	countdownFrom int
	poseDuration  time.Duration
	shutterDelay  time.Duration
	jpegQuality   int

	// UI hooks; nil hooks are skipped.
	OnPosePrompt    func(prompt string)
	OnPosePromptEnd func()
	OnCountdownTick func(remaining int)
}

func NewPhotoPipeline(session *camera.Session, renderer *overlay.Renderer, logger *zlog.Zerolog) *PhotoPipeline {
	return &PhotoPipeline{
		session:       session,
		renderer:      renderer,
		logger:        logger,
		countdownFrom: domain.DefaultCountdownSeconds,
		poseDuration:  domain.DefaultPosePromptDelay,
		shutterDelay:  domain.DefaultShutterDelay,
		jpegQuality:   domain.DefaultJPEGQuality,
	}
}

// StartCountdown shows the pose prompt, ticks the countdown at 1Hz and
// captures exactly once when it reaches zero. The pose prompt runs on
// its own timer and does not block the countdown. Cancelling ctx
// cancels every pending timer.
func (p *PhotoPipeline) StartCountdown(ctx context.Context, req Request) (*domain.Artifact, error) {
	cfg, err := vibe.ConfigFor(req.Vibe, req.VenueName)
	if err != nil {
		return nil, err
	}

	if p.OnPosePrompt != nil {
		p.OnPosePrompt(cfg.PosePrompt)
		poseTimer := time.AfterFunc(p.poseDuration, func() {
			if p.OnPosePromptEnd != nil {
				p.OnPosePromptEnd()
			}
		})
		defer poseTimer.Stop()
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for remaining := p.countdownFrom; remaining > 0; remaining-- {
		if p.OnCountdownTick != nil {
			p.OnCountdownTick(remaining)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	// Brief shutter-delay buffer between "0" and the actual grab.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.shutterDelay):
	}

	frame, ok := p.session.LatestFrame()
	if !ok {
		return p.Capture(nil, req)
	}
	return p.Capture(frame.Image, req)
}

// Capture freezes one frame: digital zoom, filter, baked overlay, JPEG
// encode, camera release. A nil frame yields no artifact and no error.
func (p *PhotoPipeline) Capture(frame image.Image, req Request) (*domain.Artifact, error) {
	if frame == nil {
		p.logger.Warn().Msg("Capture invoked without an attached frame, skipping")
		return nil, nil
	}

	if _, err := filter.Parse(req.Filter.Expression); err != nil {
		p.logger.Warn().Err(err).Str("filter", req.Filter.ID).Msg("Bad filter expression, capturing unfiltered")
		req.Filter.Expression = ""
	}

	data, err := RenderStill(frame, req, p.renderer, p.jpegQuality)
	if err != nil {
		return nil, err
	}

	p.session.Stop()

	artifact := &domain.Artifact{
		ID:        uuid.New().String(),
		Kind:      domain.KindPhoto,
		VenueName: req.VenueName,
		Vibe:      req.Vibe,
		Filter:    req.Filter.ID,
		MimeType:  "image/jpeg",
		Data:      data,
		CreatedAt: time.Now(),
	}

	p.logger.Info().
		Str("artifact_id", artifact.ID).
		Str("venue", req.VenueName).
		Str("vibe", string(req.Vibe)).
		Str("filter", req.Filter.ID).
		Int("size", len(artifact.Data)).
		Msg("Photo captured")
	return artifact, nil
}
