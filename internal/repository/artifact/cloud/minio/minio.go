package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"vibe-capture/internal/config"
	"vibe-capture/internal/domain"
	repoArtifact "vibe-capture/internal/repository/artifact"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/zlog"
)

// FileRepository stores raw frames and finished artifacts in MinIO.
type FileRepository struct {
	client *minio.Client
	bucket string
	logger *zlog.Zerolog
}

func NewMinIORepository(cfg *config.Config, logger *zlog.Zerolog) (*FileRepository, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	repo := &FileRepository{
		client: client,
		bucket: cfg.Minio.Bucket,
		logger: logger,
	}
	if err := repo.ensureBucket(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FileRepository) ensureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		r.logger.Info().Str("bucket", r.bucket).Msg("Created artifact bucket")
	}
	return nil
}

// SaveFrame stores an uploaded source frame and returns its object path.
func (r *FileRepository) SaveFrame(ctx context.Context, id string, data io.Reader, size int64, contentType string) (string, error) {
	path := domain.PathPrefixFrames + id
	_, err := r.client.PutObject(ctx, r.bucket, path, data, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%w: failed to save frame: %v", repoArtifact.ErrStorageError, err)
	}
	return path, nil
}

// SaveArtifact stores a finished artifact under its filename and
// returns the object path.
func (r *FileRepository) SaveArtifact(ctx context.Context, artifact *domain.Artifact) (string, error) {
	path := domain.PathPrefixArtifacts + artifact.ID + "/" + artifact.Filename()
	_, err := r.client.PutObject(ctx, r.bucket, path,
		bytes.NewReader(artifact.Data), int64(len(artifact.Data)),
		minio.PutObjectOptions{ContentType: artifact.MimeType})
	if err != nil {
		return "", fmt.Errorf("%w: failed to save artifact: %v", repoArtifact.ErrStorageError, err)
	}
	return path, nil
}

func (r *FileRepository) GetObject(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get object %s: %v", repoArtifact.ErrStorageError, path, err)
	}
	// minio defers errors until the first read; stat now so a missing
	// object fails here instead of mid-stream.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", repoArtifact.ErrObjectNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to stat object %s: %v", repoArtifact.ErrStorageError, path, err)
	}
	return obj, nil
}

func (r *FileRepository) DeleteObject(ctx context.Context, path string) error {
	if err := r.client.RemoveObject(ctx, r.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", path, err)
	}
	return nil
}

func (r *FileRepository) DeleteObjectsWithPrefix(ctx context.Context, prefix string) error {
	objects := r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true})
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("failed to list objects with prefix %s: %w", prefix, obj.Err)
		}
		if err := r.client.RemoveObject(ctx, r.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to delete object %s: %w", obj.Key, err)
		}
	}
	return nil
}
