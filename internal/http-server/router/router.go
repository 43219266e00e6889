package router

import (
	"net/http"

	"vibe-capture/internal/http-server/handler/capture"
	"vibe-capture/internal/http-server/handler/render"
	"vibe-capture/internal/http-server/middleware"
	"vibe-capture/internal/http-server/preview"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	RenderHandler  *render.RenderHandler
	CaptureHandler *capture.CaptureHandler
	PreviewHub     *preview.Hub
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/renders", func(r chi.Router) {
			r.Post("/", h.RenderHandler.SubmitRender)
			r.Get("/", h.RenderHandler.ListRenders)
			r.Get("/{id}", h.RenderHandler.GetArtifact)
			r.Get("/{id}/status", h.RenderHandler.GetStatus)
			r.Delete("/{id}", h.RenderHandler.DeleteArtifact)
		})

		r.Route("/capture", func(r chi.Router) {
			r.Post("/open", h.CaptureHandler.Open)
			r.Post("/close", h.CaptureHandler.Close)
			r.Post("/press", h.CaptureHandler.Press)
			r.Post("/zoom", h.CaptureHandler.Zoom)
			r.Post("/retry", h.CaptureHandler.Retry)
			r.Post("/dismiss", h.CaptureHandler.Dismiss)
			r.Post("/share", h.CaptureHandler.Share)
			r.Get("/status", h.CaptureHandler.Status)
			r.Get("/artifact", h.CaptureHandler.Artifact)
		})

		r.Get("/filters", h.CaptureHandler.Filters)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	r.Get("/ws/preview", h.PreviewHub.ServeWS)

	return r
}
