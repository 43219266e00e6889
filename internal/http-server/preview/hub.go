// Package preview streams live camera frames to websocket clients as
// MJPEG, with the active filter and zoom applied so the preview matches
// what a capture would produce.
package preview

import (
	"bytes"
	"image/jpeg"
	"net/http"

	"vibe-capture/internal/camera"
	"vibe-capture/internal/capture"
	"vibe-capture/internal/filter"

	"github.com/gorilla/websocket"
	"github.com/wb-go/wbf/zlog"
)

const (
	subscriberBuffer = 4
	previewQuality   = 70
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub serves the live preview stream. Each connection gets its own
// frame subscription; slow clients drop frames instead of stalling the
// camera loop.
type Hub struct {
	session    *camera.Session
	controller *capture.Controller
	registry   *filter.Registry
	logger     *zlog.Zerolog
}

func NewHub(session *camera.Session, controller *capture.Controller, registry *filter.Registry, logger *zlog.Zerolog) *Hub {
	return &Hub{
		session:    session,
		controller: controller,
		registry:   registry,
		logger:     logger,
	}
}

// ServeWS upgrades the connection and streams preview frames until the
// client disconnects or the camera stops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Preview upgrade failed")
		return
	}
	defer conn.Close()

	frames, cancel := h.session.Subscribe(subscriberBuffer)
	defer cancel()

	// Drain client messages so pings and close frames are handled.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("Preview client connected")

	var buf bytes.Buffer
	for frame := range frames {
		buf.Reset()
		if err := h.encodeFrame(&buf, frame); err != nil {
			h.logger.Error().Err(err).Msg("Preview frame encode failed")
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			return
		}
	}
}

func (h *Hub) encodeFrame(buf *bytes.Buffer, frame camera.Frame) error {
	status := h.controller.Status()
	img := capture.PreviewFrame(frame.Image, h.registry.Get(status.FilterID), status.Zoom)
	return jpeg.Encode(buf, img, &jpeg.Options{Quality: previewQuality})
}
