// Package capture exposes the interactive capture surface over HTTP:
// open/close, gestures, zoom, status polling and sharing.
package capture

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	capt "vibe-capture/internal/capture"
	"vibe-capture/internal/domain"
	"vibe-capture/internal/filter"
	"vibe-capture/internal/http-server/handler/render/dto"
	"vibe-capture/internal/share"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

type CaptureHandler struct {
	controller *capt.Controller
	registry   *filter.Registry
	sharer     *share.Adapter
	validate   *validator.Validate
	logger     *zlog.Zerolog
}

func NewCaptureHandler(controller *capt.Controller, registry *filter.Registry, sharer *share.Adapter, logger *zlog.Zerolog) *CaptureHandler {
	return &CaptureHandler{
		controller: controller,
		registry:   registry,
		sharer:     sharer,
		validate:   validator.New(),
		logger:     logger,
	}
}

func (h *CaptureHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenCaptureRequest
	if !h.decode(w, r, &req) {
		return
	}

	// The surface outlives the request; the request context would tear
	// the camera down as soon as the response is written.
	if err := h.controller.Open(context.Background(), req.VenueName, domain.Vibe(req.Vibe)); err != nil {
		if errors.Is(err, domain.ErrInvalidVibe) {
			h.respondError(w, http.StatusBadRequest, "Unknown vibe", err)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Failed to open capture surface", err)
		return
	}
	h.writeStatus(w)
}

func (h *CaptureHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.controller.Close()
	h.writeStatus(w)
}

func (h *CaptureHandler) Press(w http.ResponseWriter, r *http.Request) {
	var req dto.PressRequest
	if !h.decode(w, r, &req) {
		return
	}

	switch req.Action {
	case "down":
		h.controller.PressDown()
	case "up":
		held := time.Duration(req.HeldMillis) * time.Millisecond
		h.controller.PressUp(req.DX, req.DY, req.InZoomZone, held)
	}
	h.writeStatus(w)
}

func (h *CaptureHandler) Zoom(w http.ResponseWriter, r *http.Request) {
	var req dto.ZoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.controller.SetZoom(req.Zoom)
	h.writeStatus(w)
}

func (h *CaptureHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Retry(context.Background()); err != nil {
		h.respondError(w, http.StatusInternalServerError, "Retry failed", err)
		return
	}
	h.writeStatus(w)
}

func (h *CaptureHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Dismiss(context.Background()); err != nil {
		h.respondError(w, http.StatusInternalServerError, "Dismiss failed", err)
		return
	}
	h.writeStatus(w)
}

func (h *CaptureHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.writeStatus(w)
}

// Artifact streams the current preview artifact.
func (h *CaptureHandler) Artifact(w http.ResponseWriter, r *http.Request) {
	status := h.controller.Status()
	if status.Artifact == nil {
		h.respondError(w, http.StatusNotFound, "No artifact to preview", nil)
		return
	}
	w.Header().Set("Content-Type", status.Artifact.MimeType)
	w.Header().Set("Content-Disposition", "inline; filename=\""+status.Artifact.Filename()+"\"")
	w.Write(status.Artifact.Data)
}

// Share runs the save/share fallback chain on the preview artifact.
func (h *CaptureHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req dto.ShareRequest
	if !h.decode(w, r, &req) {
		return
	}

	status := h.controller.Status()
	if status.Artifact == nil {
		h.respondError(w, http.StatusNotFound, "No artifact to share", nil)
		return
	}

	outcome, err := h.sharer.Share(status.Artifact, req.IncludeHashtags)
	if err != nil {
		h.logger.Error().Err(err).Msg("Share chain exhausted")
		h.respondError(w, http.StatusInternalServerError, "Could not save artifact", err)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.ShareResponse{Outcome: string(outcome)})
}

// Filters lists the registry in fixed order.
func (h *CaptureHandler) Filters(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.registry.List())
}

func (h *CaptureHandler) writeStatus(w http.ResponseWriter) {
	s := h.controller.Status()
	resp := dto.CaptureStatusResponse{
		State:       string(s.State),
		Countdown:   s.Countdown,
		PosePrompt:  s.PosePrompt,
		Elapsed:     s.Elapsed,
		FilterID:    s.FilterID,
		FilterToast: s.FilterToast,
		Zoom:        s.Zoom,
		Error:       s.ErrorMessage,
	}
	if s.Artifact != nil {
		resp.ArtifactID = s.Artifact.ID
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *CaptureHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request", err)
		return false
	}
	return true
}

func (h *CaptureHandler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *CaptureHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := dto.ErrorResponse{Error: http.StatusText(status), Message: message}
	if err != nil {
		resp.Details = err.Error()
	}
	h.respondJSON(w, status, resp)
}
