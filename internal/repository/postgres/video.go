package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VideoRepository implements domain.VideoRepository
type VideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new video job repository
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{pool: db.Pool}
}

func (r *VideoRepository) Create(ctx context.Context, job *domain.VideoJob) error {
	query := `
		INSERT INTO generated_videos (id, session_id, prompt, external_id, video_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.SessionID,
		job.Prompt,
		job.ExternalID,
		job.VideoURL,
		job.Status,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video job: %w", err)
	}
	return nil
}

func (r *VideoRepository) Get(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error) {
	query := `
		SELECT id, session_id, prompt, external_id, video_url, status, created_at, updated_at
		FROM generated_videos
		WHERE id = $1
	`
	var v domain.VideoJob
	var statusStr string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.SessionID,
		&v.Prompt,
		&v.ExternalID,
		&v.VideoURL,
		&statusStr,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video job: %w", err)
	}
	v.Status = domain.VideoStatus(statusStr)
	return &v, nil
}

// ListBySession retrieves video jobs for a session, newest first
func (r *VideoRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.VideoJob, error) {
	query := `
		SELECT id, session_id, prompt, external_id, video_url, status, created_at, updated_at
		FROM generated_videos
		WHERE session_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list video jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.VideoJob
	for rows.Next() {
		var v domain.VideoJob
		var statusStr string
		if err := rows.Scan(
			&v.ID,
			&v.SessionID,
			&v.Prompt,
			&v.ExternalID,
			&v.VideoURL,
			&statusStr,
			&v.CreatedAt,
			&v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan video job: %w", err)
		}
		v.Status = domain.VideoStatus(statusStr)
		jobs = append(jobs, v)
	}
	return jobs, nil
}

func (r *VideoRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VideoStatus) error {
	query := `
		UPDATE generated_videos
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	_, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}
	return nil
}

func (r *VideoRepository) UpdateResult(ctx context.Context, id uuid.UUID, externalID, videoURL string, status domain.VideoStatus) error {
	query := `
		UPDATE generated_videos
		SET external_id = $1, video_url = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	_, err := r.pool.Exec(ctx, query, externalID, videoURL, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update video result: %w", err)
	}
	return nil
}
