package capture

import (
	"context"
	"sync"
	"time"

	"vibe-capture/internal/camera"
	"vibe-capture/internal/domain"
	"vibe-capture/internal/filter"

	"github.com/wb-go/wbf/zlog"
)

// State is the capture surface's single tagged state. Invalid
// combinations (recording while counting down, previewing while live)
// are unrepresentable.
type State string

const (
	StateClosed       State = "closed"
	StateOpening      State = "opening"
	StateLive         State = "live"
	StateCountdown    State = "countdown"
	StateRecording    State = "recording"
	StatePhotoPreview State = "photo_preview"
	StateVideoPreview State = "video_preview"
	StateError        State = "error"
)

// Status is a point-in-time snapshot of the surface for the UI layer.
type Status struct {
	State        State
	Countdown    int
	PosePrompt   string
	Elapsed      int
	FilterID     string
	FilterToast  string
	Zoom         float64
	Artifact     *domain.Artifact
	ErrorMessage string
}

// Controller wires the camera session, filter registry and the two
// capture pipelines into one interactive surface.
type Controller struct {
	mu sync.Mutex

	session     *camera.Session
	registry    *filter.Registry
	photo       *PhotoPipeline
	newVideo    func() *VideoPipeline
	constraints camera.Constraints
	logger      *zlog.Zerolog

	state      State
	venue      string
	vibe       domain.Vibe
	filterID   string
	zoom       float64
	countdown  int
	posePrompt string
	elapsed    int
	artifact   *domain.Artifact
	errMsg     string

	toast      string
	toastTimer *time.Timer

	video      *VideoPipeline
	pressTimer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

func NewController(session *camera.Session, registry *filter.Registry, photo *PhotoPipeline, newVideo func() *VideoPipeline, constraints camera.Constraints, logger *zlog.Zerolog) *Controller {
	c := &Controller{
		session:     session,
		registry:    registry,
		photo:       photo,
		newVideo:    newVideo,
		constraints: constraints,
		logger:      logger,
		state:       StateClosed,
		zoom:        1,
	}
	c.filterID = registry.List()[0].ID
	photo.OnCountdownTick = c.onCountdownTick
	photo.OnPosePrompt = c.onPosePrompt
	photo.OnPosePromptEnd = c.onPosePromptEnd
	return c
}

// Open starts the surface for a venue and vibe. The camera starts after
// a short delay so the preview surface has a chance to mount.
func (c *Controller) Open(ctx context.Context, venueName string, v domain.Vibe) error {
	if _, err := domain.ParseVibe(string(v)); err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		c.Close()
		c.mu.Lock()
	}
	// Retry and Dismiss reopen without going through Close; the prior
	// run context must not outlive its surface.
	if c.cancel != nil {
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.ctx = runCtx
	c.cancel = cancel
	c.venue = venueName
	c.vibe = v
	c.state = StateOpening
	c.artifact = nil
	c.errMsg = ""
	c.mu.Unlock()

	go func() {
		select {
		case <-runCtx.Done():
			return
		case <-time.After(domain.CameraStartDelay):
		}
		err := c.session.Start(runCtx, c.constraints)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state != StateOpening {
			return
		}
		if err != nil {
			c.state = StateError
			c.errMsg = domain.UserMessage(err)
			return
		}
		c.state = StateLive
	}()
	return nil
}

// Close tears the surface down completely, whatever sub-state it is in:
// pending timers, any in-flight recording and the camera stream all go.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.pressTimer != nil {
		c.pressTimer.Stop()
		c.pressTimer = nil
	}
	if c.toastTimer != nil {
		c.toastTimer.Stop()
		c.toastTimer = nil
	}
	video := c.video
	c.video = nil
	c.state = StateClosed
	c.toast = ""
	c.posePrompt = ""
	c.mu.Unlock()

	if video != nil {
		video.Stop()
	}
	c.session.Stop()
	c.logger.Info().Msg("Capture surface closed")
}

// PressDown begins a pointer interaction. Holding past the long-press
// threshold starts a recording immediately, without waiting for
// release.
func (c *Controller) PressDown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateLive {
		return
	}
	if c.pressTimer != nil {
		c.pressTimer.Stop()
	}
	c.pressTimer = time.AfterFunc(domain.LongPressThreshold, c.onLongPress)
}

// PressUp finishes a pointer interaction. If a recording started while
// held, release stops it. Otherwise the release resolves to a tap
// (photo), a filter swipe, or nothing.
func (c *Controller) PressUp(dx, dy float64, inZoomZone bool, held time.Duration) {
	c.mu.Lock()
	if c.pressTimer != nil {
		c.pressTimer.Stop()
		c.pressTimer = nil
	}

	if c.state == StateRecording {
		c.mu.Unlock()
		c.stopRecording()
		return
	}
	if c.state != StateLive {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	switch ResolvePress(Press{Duration: held, DX: dx, DY: dy, InZoomZone: inZoomZone}) {
	case ActionPhoto:
		c.startCountdown()
	case ActionVideoStart:
		// Long hold that somehow beat the timer; start and let the next
		// release stop it.
		c.onLongPress()
	case ActionFilterNext:
		c.CycleFilter(true)
	case ActionFilterPrev:
		c.CycleFilter(false)
	}
}

// CycleFilter advances to the next or previous filter and shows the
// transient filter-name toast.
func (c *Controller) CycleFilter(forward bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var def filter.Definition
	if forward {
		def = c.registry.Next(c.filterID)
	} else {
		def = c.registry.Previous(c.filterID)
	}
	c.filterID = def.ID
	c.toast = def.Name

	if c.toastTimer != nil {
		c.toastTimer.Stop()
	}
	c.toastTimer = time.AfterFunc(domain.FilterToastDur, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.toast = ""
	})
}

// SetZoom updates the digital zoom factor used by both pipelines and
// the live preview.
func (c *Controller) SetZoom(zoom float64) {
	if zoom < 1 {
		zoom = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
}

// Zoom returns the current digital zoom factor.
func (c *Controller) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// Retry restarts the camera after an error state.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateError {
		c.mu.Unlock()
		return nil
	}
	venue, v := c.venue, c.vibe
	c.state = StateClosed
	c.mu.Unlock()
	return c.Open(ctx, venue, v)
}

// Dismiss leaves a preview or error state and returns to live,
// restarting the camera which the photo pipeline stopped.
func (c *Controller) Dismiss(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StatePhotoPreview && c.state != StateVideoPreview {
		c.mu.Unlock()
		return nil
	}
	venue, v := c.venue, c.vibe
	c.state = StateClosed
	c.artifact = nil
	c.mu.Unlock()
	return c.Open(ctx, venue, v)
}

// Status snapshots the surface.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:        c.state,
		Countdown:    c.countdown,
		PosePrompt:   c.posePrompt,
		Elapsed:      c.elapsed,
		FilterID:     c.filterID,
		FilterToast:  c.toast,
		Zoom:         c.zoom,
		Artifact:     c.artifact,
		ErrorMessage: c.errMsg,
	}
}

func (c *Controller) request() Request {
	return Request{
		VenueName: c.venue,
		Vibe:      c.vibe,
		Filter:    c.registry.Get(c.filterID),
		Zoom:      c.zoom,
	}
}

func (c *Controller) startCountdown() {
	c.mu.Lock()
	if c.state != StateLive {
		c.mu.Unlock()
		return
	}
	c.state = StateCountdown
	req := c.request()
	ctx := c.ctx
	c.mu.Unlock()

	go func() {
		artifact, err := c.photo.StartCountdown(ctx, req)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state != StateCountdown {
			return
		}
		c.countdown = 0
		c.posePrompt = ""
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			c.state = StateError
			c.errMsg = domain.UserMessage(err)
		case artifact == nil:
			c.state = StateLive
		default:
			c.state = StatePhotoPreview
			c.artifact = artifact
		}
	}()
}

func (c *Controller) onCountdownTick(remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateCountdown {
		c.countdown = remaining
	}
}

func (c *Controller) onPosePrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateCountdown {
		c.posePrompt = prompt
	}
}

func (c *Controller) onPosePromptEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posePrompt = ""
}

func (c *Controller) onLongPress() {
	c.mu.Lock()
	if c.state != StateLive {
		c.mu.Unlock()
		return
	}
	video := c.newVideo()
	video.OnElapsed = c.onElapsed
	req := c.request()
	c.mu.Unlock()

	if err := video.Start(req); err != nil {
		c.logger.Error().Err(err).Msg("Failed to start recording")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateLive {
		// Surface closed while the recording spun up.
		go video.Stop()
		return
	}
	c.video = video
	c.elapsed = 0
	c.state = StateRecording

	// One watcher covers both stop paths: explicit release and the
	// pipeline's hard timeout.
	go func() {
		artifact := <-video.Result()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state != StateRecording {
			return
		}
		c.video = nil
		if artifact == nil {
			c.state = StateError
			c.errMsg = domain.UserMessage(domain.ErrRecordingSetupFailed)
			return
		}
		c.session.Stop()
		c.state = StateVideoPreview
		c.artifact = artifact
	}()
}

func (c *Controller) stopRecording() {
	c.mu.Lock()
	video := c.video
	c.mu.Unlock()
	if video != nil {
		video.Stop()
	}
}

func (c *Controller) onElapsed(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRecording {
		c.elapsed = seconds
	}
}
