package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vibe-capture/internal/domain"
	"vibe-capture/internal/repository/artifact"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
)

type ArtifactsRepository struct {
	db      *dbpg.DB
	retries retry.Strategy
}

func NewArtifactsRepository(db *dbpg.DB, retries retry.Strategy) *ArtifactsRepository {
	return &ArtifactsRepository{
		db:      db,
		retries: retries,
	}
}

func (r *ArtifactsRepository) Save(ctx context.Context, rec *domain.ArtifactRecord) error {
	query := `
		INSERT INTO artifacts (
			id, kind, venue_name, vibe, filter, mime_type,
			size, status, path, bucket, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecWithRetry(ctx, r.retries, query,
		rec.ID,
		rec.Kind,
		rec.VenueName,
		rec.Vibe,
		rec.Filter,
		rec.MimeType,
		rec.Size,
		rec.Status,
		rec.Path,
		rec.Bucket,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact record: %w", err)
	}
	return nil
}

func (r *ArtifactsRepository) GetByID(ctx context.Context, id string) (*domain.ArtifactRecord, error) {
	query := `
		SELECT id, kind, venue_name, vibe, filter, mime_type,
		       size, status, path, bucket, created_at, updated_at
		FROM artifacts
		WHERE id = $1 AND status != $2
	`

	row, err := r.db.QueryRowWithRetry(ctx, r.retries, query, id, domain.StatusDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifact: %w", err)
	}

	var rec domain.ArtifactRecord
	err = row.Scan(
		&rec.ID,
		&rec.Kind,
		&rec.VenueName,
		&rec.Vibe,
		&rec.Filter,
		&rec.MimeType,
		&rec.Size,
		&rec.Status,
		&rec.Path,
		&rec.Bucket,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, artifact.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artifact: %w", err)
	}
	return &rec, nil
}

func (r *ArtifactsRepository) UpdateStatus(ctx context.Context, id string, status domain.ArtifactStatus) error {
	query := `UPDATE artifacts SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update artifact status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return artifact.ErrArtifactNotFound
	}
	return nil
}

func (r *ArtifactsRepository) UpdatePath(ctx context.Context, id, path string, size int64) error {
	query := `UPDATE artifacts SET path = $1, size = $2, updated_at = $3 WHERE id = $4`

	result, err := r.db.ExecWithRetry(ctx, r.retries, query, path, size, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update artifact path: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return artifact.ErrArtifactNotFound
	}
	return nil
}

func (r *ArtifactsRepository) List(ctx context.Context, limit, offset int) ([]domain.ArtifactRecord, error) {
	query := `
		SELECT id, kind, venue_name, vibe, filter, mime_type,
		       size, status, path, bucket, created_at, updated_at
		FROM artifacts
		WHERE status != $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryWithRetry(ctx, r.retries, query, domain.StatusDeleted, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}
	defer rows.Close()

	var records []domain.ArtifactRecord
	for rows.Next() {
		var rec domain.ArtifactRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Kind,
			&rec.VenueName,
			&rec.Vibe,
			&rec.Filter,
			&rec.MimeType,
			&rec.Size,
			&rec.Status,
			&rec.Path,
			&rec.Bucket,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating artifacts: %w", err)
	}
	return records, nil
}
