package render

import (
	"context"
	"io"

	"vibe-capture/internal/domain"
	render_uc "vibe-capture/internal/usecase/render"
)

type renderUsecase interface {
	Submit(ctx context.Context, frame io.Reader, contentType string, size int64, params render_uc.Params) (*domain.ArtifactRecord, error)
	Get(ctx context.Context, id string) (*domain.ArtifactRecord, io.ReadCloser, error)
	GetStatus(ctx context.Context, id string) (domain.ArtifactStatus, error)
	List(ctx context.Context, limit, offset int) ([]domain.ArtifactRecord, error)
	Delete(ctx context.Context, id string) error
}
