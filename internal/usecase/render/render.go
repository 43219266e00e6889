// Package render is the server-side render path: an uploaded frame is
// queued, composed through the same filter/overlay pipeline as a live
// capture, stored, and announced.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"vibe-capture/internal/capture"
	"vibe-capture/internal/domain"
	"vibe-capture/internal/overlay"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// maxFrameBytes bounds a single uploaded frame.
const maxFrameBytes = 32 << 20

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Params are the branding inputs for a queued render.
type Params struct {
	VenueName string
	Vibe      domain.Vibe
	FilterID  string
	Zoom      float64
}

type RenderUsecase struct {
	repo     artifactRepository
	fileRepo fileRepository
	producer renderProducer
	renderer *overlay.Renderer
	registry registry
	quality  int
	logger   *zlog.Zerolog
}

func NewRenderUsecase(repo artifactRepository, fileRepo fileRepository, producer renderProducer, renderer *overlay.Renderer, registry registry, logger *zlog.Zerolog) *RenderUsecase {
	return &RenderUsecase{
		repo:     repo,
		fileRepo: fileRepo,
		producer: producer,
		renderer: renderer,
		registry: registry,
		quality:  domain.DefaultJPEGQuality,
		logger:   logger,
	}
}

// Submit stores the uploaded frame and queues a render task. The
// artifact record starts life in the processing state.
func (u *RenderUsecase) Submit(ctx context.Context, frame io.Reader, contentType string, size int64, params Params) (*domain.ArtifactRecord, error) {
	if _, err := domain.ParseVibe(string(params.Vibe)); err != nil {
		return nil, err
	}
	if size > maxFrameBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	id := uuid.New().String()
	framePath, err := u.fileRepo.SaveFrame(ctx, id, frame, size, contentType)
	if err != nil {
		u.logger.Error().Err(err).Str("artifact_id", id).Msg("Failed to save frame")
		return nil, fmt.Errorf("failed to save frame: %w", err)
	}

	rec := &domain.ArtifactRecord{
		ID:        id,
		Kind:      domain.KindPhoto,
		VenueName: params.VenueName,
		Vibe:      params.Vibe,
		Filter:    params.FilterID,
		MimeType:  "image/jpeg",
		Status:    domain.StatusUploaded,
		Path:      framePath,
		Bucket:    "vibe-artifacts",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := u.repo.Save(ctx, rec); err != nil {
		u.fileRepo.DeleteObject(ctx, framePath)
		return nil, fmt.Errorf("failed to save artifact record: %w", err)
	}

	task := &domain.RenderTask{
		ID:        id,
		FramePath: framePath,
		Bucket:    rec.Bucket,
		VenueName: params.VenueName,
		Vibe:      params.Vibe,
		FilterID:  params.FilterID,
		Zoom:      params.Zoom,
		Kind:      domain.KindPhoto,
	}
	if err := u.producer.SendTask(ctx, task); err != nil {
		u.logger.Error().Err(err).Str("artifact_id", id).Msg("Failed to queue render task")
		u.updateStatus(ctx, id, domain.StatusFailed)
		return nil, fmt.Errorf("failed to queue render task: %w", err)
	}

	if err := u.repo.UpdateStatus(ctx, id, domain.StatusProcessing); err != nil {
		u.logger.Error().Err(err).Str("artifact_id", id).Msg("Failed to update status")
	} else {
		rec.Status = domain.StatusProcessing
	}

	u.logger.Info().Str("artifact_id", id).Str("venue", params.VenueName).Str("vibe", string(params.Vibe)).Msg("Render queued")
	return rec, nil
}

// Process executes one queued render task end to end. Called by the
// worker.
func (u *RenderUsecase) Process(ctx context.Context, task *domain.RenderTask) (*domain.RenderResult, error) {
	result := &domain.RenderResult{
		ID:         task.ID,
		ArtifactID: task.ID,
		Status:     domain.StatusCompleted,
	}

	reader, err := u.fileRepo.GetObject(ctx, task.FramePath)
	if err != nil {
		return u.fail(ctx, result, fmt.Errorf("failed to get frame: %w", err))
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return u.fail(ctx, result, fmt.Errorf("failed to read frame: %w", err))
	}

	frame, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return u.fail(ctx, result, fmt.Errorf("%w: %v", ErrInvalidFrame, err))
	}

	req := capture.Request{
		VenueName: task.VenueName,
		Vibe:      task.Vibe,
		Filter:    u.registry.Get(task.FilterID),
		Zoom:      task.Zoom,
	}
	rendered, err := capture.RenderStill(frame, req, u.renderer, u.quality)
	if err != nil {
		return u.fail(ctx, result, fmt.Errorf("failed to render frame: %w", err))
	}

	artifact := &domain.Artifact{
		ID:        task.ID,
		Kind:      domain.KindPhoto,
		VenueName: task.VenueName,
		Vibe:      task.Vibe,
		Filter:    task.FilterID,
		MimeType:  "image/jpeg",
		Data:      rendered,
		CreatedAt: time.Now(),
	}
	path, err := u.fileRepo.SaveArtifact(ctx, artifact)
	if err != nil {
		return u.fail(ctx, result, fmt.Errorf("failed to store artifact: %w", err))
	}

	if err := u.repo.UpdatePath(ctx, task.ID, path, int64(len(rendered))); err != nil {
		u.logger.Error().Err(err).Str("artifact_id", task.ID).Msg("Failed to update artifact path")
	}
	if err := u.repo.UpdateStatus(ctx, task.ID, domain.StatusCompleted); err != nil {
		u.logger.Error().Err(err).Str("artifact_id", task.ID).Msg("Failed to update artifact status")
	}

	result.Path = path
	if err := u.producer.SendResult(ctx, result); err != nil {
		u.logger.Error().Err(err).Str("artifact_id", task.ID).Msg("Failed to send render result")
	}

	u.logger.Info().Str("artifact_id", task.ID).Str("path", path).Int("size", len(rendered)).Msg("Render completed")
	return result, nil
}

// Get returns an artifact record and a reader over its stored bytes.
func (u *RenderUsecase) Get(ctx context.Context, id string) (*domain.ArtifactRecord, io.ReadCloser, error) {
	rec, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := u.fileRepo.GetObject(ctx, rec.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get artifact object: %w", err)
	}
	return rec, reader, nil
}

// GetStatus returns the render status for an artifact id.
func (u *RenderUsecase) GetStatus(ctx context.Context, id string) (domain.ArtifactStatus, error) {
	rec, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return rec.Status, nil
}

// List returns recent artifact records, newest first.
func (u *RenderUsecase) List(ctx context.Context, limit, offset int) ([]domain.ArtifactRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return u.repo.List(ctx, limit, offset)
}

// Delete removes an artifact's objects and tombstones its record.
// Partial storage failures are logged and do not block the tombstone,
// matching the rest of the degrade-don't-fail policy here.
func (u *RenderUsecase) Delete(ctx context.Context, id string) error {
	rec, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := u.fileRepo.DeleteObject(ctx, rec.Path); err != nil {
		u.logger.Error().Err(err).Str("path", rec.Path).Msg("Failed to delete artifact object")
	}
	prefix := domain.PathPrefixArtifacts + id + "/"
	if err := u.fileRepo.DeleteObjectsWithPrefix(ctx, prefix); err != nil {
		u.logger.Error().Err(err).Str("prefix", prefix).Msg("Failed to delete artifact objects")
	}

	if err := u.repo.UpdateStatus(ctx, id, domain.StatusDeleted); err != nil {
		return fmt.Errorf("failed to mark artifact deleted: %w", err)
	}
	u.logger.Info().Str("artifact_id", id).Msg("Artifact deleted")
	return nil
}

func (u *RenderUsecase) fail(ctx context.Context, result *domain.RenderResult, err error) (*domain.RenderResult, error) {
	result.Status = domain.StatusFailed
	result.Error = err.Error()
	u.logger.Error().Err(err).Str("artifact_id", result.ArtifactID).Msg("Render failed")
	u.updateStatus(ctx, result.ArtifactID, domain.StatusFailed)
	if sendErr := u.producer.SendResult(ctx, result); sendErr != nil {
		u.logger.Error().Err(sendErr).Str("artifact_id", result.ArtifactID).Msg("Failed to send failure result")
	}
	return result, err
}

func (u *RenderUsecase) updateStatus(ctx context.Context, id string, status domain.ArtifactStatus) {
	if err := u.repo.UpdateStatus(ctx, id, status); err != nil {
		u.logger.Error().Err(err).Str("artifact_id", id).Str("status", string(status)).Msg("Failed to update status")
	}
}
