package render

import (
	"context"
	"io"

	"vibe-capture/internal/domain"
	"vibe-capture/internal/filter"
)

type registry interface {
	Get(id string) filter.Definition
	List() []filter.Definition
}

type artifactRepository interface {
	Save(ctx context.Context, rec *domain.ArtifactRecord) error
	GetByID(ctx context.Context, id string) (*domain.ArtifactRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.ArtifactStatus) error
	UpdatePath(ctx context.Context, id, path string, size int64) error
	List(ctx context.Context, limit, offset int) ([]domain.ArtifactRecord, error)
}

type fileRepository interface {
	SaveFrame(ctx context.Context, id string, data io.Reader, size int64, contentType string) (string, error)
	SaveArtifact(ctx context.Context, artifact *domain.Artifact) (string, error)
	GetObject(ctx context.Context, path string) (io.ReadCloser, error)
	DeleteObject(ctx context.Context, path string) error
	DeleteObjectsWithPrefix(ctx context.Context, prefix string) error
}

type renderProducer interface {
	SendTask(ctx context.Context, task *domain.RenderTask) error
	SendResult(ctx context.Context, result *domain.RenderResult) error
}
