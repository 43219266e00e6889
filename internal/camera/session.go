package camera

import (
	"context"
	"sync"
	"time"

	"github.com/wb-go/wbf/zlog"
)

// Session manages the lifetime of one live camera stream. Acquisition
// is strictly sequential: Start always fully stops a prior stream
// before opening a new one, so at most one hardware handle is ever
// live. Stop is idempotent and must be called on every exit path.
type Session struct {
	mu        sync.Mutex
	newDevice func() Device
	device    Device
	cancel    context.CancelFunc
	running   bool
	audio     bool

	latest   Frame
	hasFrame bool

	subsMu sync.Mutex
	subs   map[int]chan Frame
	nextID int

	logger *zlog.Zerolog
}

func NewSession(factory func() Device, logger *zlog.Zerolog) *Session {
	return &Session{
		newDevice: factory,
		subs:      make(map[int]chan Frame),
		logger:    logger,
	}
}

// Start acquires a new stream under the given constraints, tearing down
// any existing one first. Errors are one of the domain camera kinds.
func (s *Session) Start(ctx context.Context, c Constraints) error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	dev := s.newDevice()
	if err := dev.Open(c); err != nil {
		s.logger.Error().Err(err).Msg("Failed to open camera device")
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.device = dev
	s.cancel = cancel
	s.running = true
	s.audio = c.IncludeAudio
	s.hasFrame = false

	go s.readLoop(runCtx, dev)

	s.logger.Info().
		Int("width", c.Width).
		Int("height", c.Height).
		Int("fps", c.FPS).
		Bool("audio", c.IncludeAudio).
		Msg("Camera session started")
	return nil
}

// Stop releases the current stream. Safe to call when already stopped.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.device != nil {
		if err := s.device.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("Error closing camera device")
		}
		s.device = nil
	}
	s.logger.Info().Msg("Camera session stopped")
}

// Active reports whether a stream is currently live.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LatestFrame returns the most recent frame, if any has arrived yet.
func (s *Session) LatestFrame() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.hasFrame
}

// AudioPCM returns the captured microphone track when audio was
// requested and the device supports it, nil otherwise.
func (s *Session) AudioPCM() []byte {
	s.mu.Lock()
	dev := s.device
	audio := s.audio
	s.mu.Unlock()

	if !audio {
		return nil
	}
	if ac, ok := dev.(AudioCapturer); ok {
		return ac.AudioPCM()
	}
	return nil
}

// Subscribe returns a channel of live frames and a cancel func. Slow
// subscribers drop frames rather than stalling the read loop.
func (s *Session) Subscribe(buffer int) (<-chan Frame, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Frame, buffer)
	s.subs[id] = ch

	return ch, func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Session) readLoop(ctx context.Context, dev Device) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		img, err := dev.ReadFrame()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("Frame read failed, stopping stream")
				s.Stop()
			}
			return
		}

		frame := Frame{Image: img, At: time.Now()}

		s.mu.Lock()
		s.latest = frame
		s.hasFrame = true
		s.mu.Unlock()

		s.subsMu.Lock()
		for _, ch := range s.subs {
			select {
			case ch <- frame:
			default:
			}
		}
		s.subsMu.Unlock()
	}
}
