package render

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"vibe-capture/internal/domain"
	"vibe-capture/internal/http-server/handler/render/dto"
	repoArtifact "vibe-capture/internal/repository/artifact"
	render_uc "vibe-capture/internal/usecase/render"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const maxFrameSize = 32 << 20

type RenderHandler struct {
	usecase  renderUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewRenderHandler(usecase renderUsecase, logger *zlog.Zerolog) *RenderHandler {
	return &RenderHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

// SubmitRender accepts a multipart frame plus branding fields and
// queues a server-side render.
func (h *RenderHandler) SubmitRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxFrameSize)
	if err := r.ParseMultipartForm(maxFrameSize); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to parse multipart form")
		h.respondError(w, http.StatusBadRequest, "Invalid request format", nil)
		return
	}

	file, header, err := r.FormFile("frame")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Frame file is required", nil)
		return
	}
	defer file.Close()

	zoom := 1.0
	if z := r.FormValue("zoom"); z != "" {
		if parsed, err := strconv.ParseFloat(z, 64); err == nil {
			zoom = parsed
		}
	}

	req := dto.RenderRequest{
		VenueName: r.FormValue("venue_name"),
		Vibe:      r.FormValue("vibe"),
		FilterID:  r.FormValue("filter_id"),
		Zoom:      zoom,
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid render parameters", err)
		return
	}

	rec, err := h.usecase.Submit(ctx, file, header.Header.Get("Content-Type"), header.Size, render_uc.Params{
		VenueName: req.VenueName,
		Vibe:      domain.Vibe(req.Vibe),
		FilterID:  req.FilterID,
		Zoom:      req.Zoom,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVibe) {
			h.respondError(w, http.StatusBadRequest, "Unknown vibe", err)
			return
		}
		if errors.Is(err, render_uc.ErrFrameTooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "Frame too large", err)
			return
		}
		h.logger.Error().Err(err).Msg("Failed to submit render")
		h.respondError(w, http.StatusInternalServerError, "Failed to queue render", err)
		return
	}

	h.respondJSON(w, http.StatusAccepted, dto.RenderResponse{
		ID:        rec.ID,
		Status:    string(rec.Status),
		VenueName: rec.VenueName,
		Vibe:      string(rec.Vibe),
		CreatedAt: rec.CreatedAt,
	})
}

// GetArtifact streams the rendered artifact bytes.
func (h *RenderHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Artifact ID is required", nil)
		return
	}

	rec, reader, err := h.usecase.Get(ctx, id)
	if err != nil {
		h.handleLookupError(w, err, id)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", rec.MimeType)
	w.Header().Set("Content-Disposition", "inline; filename="+strconv.Quote(filenameFor(rec)))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error().Err(err).Str("artifact_id", id).Msg("Failed to stream artifact")
	}
}

// ListRenders returns recent artifact records, newest first.
func (h *RenderHandler) ListRenders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	records, err := h.usecase.List(ctx, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list renders")
		h.respondError(w, http.StatusInternalServerError, "Failed to list renders", err)
		return
	}

	resp := dto.ListResponse{
		Renders: make([]dto.RenderResponse, 0, len(records)),
		Limit:   limit,
		Offset:  offset,
	}
	for _, rec := range records {
		resp.Renders = append(resp.Renders, dto.RenderResponse{
			ID:        rec.ID,
			Status:    string(rec.Status),
			VenueName: rec.VenueName,
			Vibe:      string(rec.Vibe),
			CreatedAt: rec.CreatedAt,
		})
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// GetStatus reports the render status for an artifact.
func (h *RenderHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Artifact ID is required", nil)
		return
	}

	status, err := h.usecase.GetStatus(ctx, id)
	if err != nil {
		h.handleLookupError(w, err, id)
		return
	}
	h.respondJSON(w, http.StatusOK, dto.StatusResponse{ID: id, Status: string(status)})
}

// DeleteArtifact removes an artifact.
func (h *RenderHandler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Artifact ID is required", nil)
		return
	}

	if err := h.usecase.Delete(ctx, id); err != nil {
		h.handleLookupError(w, err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RenderHandler) handleLookupError(w http.ResponseWriter, err error, id string) {
	if errors.Is(err, repoArtifact.ErrArtifactNotFound) || errors.Is(err, repoArtifact.ErrObjectNotFound) {
		h.respondError(w, http.StatusNotFound, "Artifact not found", nil)
		return
	}
	h.logger.Error().Err(err).Str("artifact_id", id).Msg("Artifact lookup failed")
	h.respondError(w, http.StatusInternalServerError, "Internal error", err)
}

func (h *RenderHandler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *RenderHandler) respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := dto.ErrorResponse{Error: http.StatusText(status), Message: message}
	if err != nil {
		resp.Details = err.Error()
	}
	h.respondJSON(w, status, resp)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func filenameFor(rec *domain.ArtifactRecord) string {
	a := domain.Artifact{Kind: rec.Kind, VenueName: rec.VenueName, Vibe: rec.Vibe}
	return a.Filename()
}
