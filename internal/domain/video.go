package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VideoStatus is the local state of a video-generation job, independent
// of the provider's own vocabulary.
type VideoStatus string

const (
	VideoPending    VideoStatus = "pending"
	VideoProcessing VideoStatus = "processing"
	VideoCompleted  VideoStatus = "completed"
	VideoFailed     VideoStatus = "failed"
)

// Terminal reports whether no further transition leaves the status.
func (s VideoStatus) Terminal() bool {
	return s == VideoCompleted || s == VideoFailed
}

// Valid reports whether s is one of the four known statuses.
func (s VideoStatus) Valid() bool {
	switch s {
	case VideoPending, VideoProcessing, VideoCompleted, VideoFailed:
		return true
	}
	return false
}

// VideoJob tracks a request to the external video-generation provider.
// A job is created in processing state and mutated exactly once after the
// outbound call resolves; the polling endpoint only reads it afterwards.
type VideoJob struct {
	ID         uuid.UUID   `json:"id"`
	SessionID  uuid.UUID   `json:"session_id"`
	Prompt     string      `json:"prompt"`
	ExternalID string      `json:"external_id"`
	VideoURL   string      `json:"video_url"`
	Status     VideoStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// VideoSnapshot is the read-only view served to polling clients.
type VideoSnapshot struct {
	Status     VideoStatus `json:"status"`
	VideoURL   string      `json:"video_url"`
	ExternalID string      `json:"external_id"`
}

// Snapshot returns the polling view of the job.
func (v VideoJob) Snapshot() VideoSnapshot {
	return VideoSnapshot{
		Status:     v.Status,
		VideoURL:   v.VideoURL,
		ExternalID: v.ExternalID,
	}
}

// VideoRepository defines the interface for video job storage
type VideoRepository interface {
	Create(ctx context.Context, job *VideoJob) error
	Get(ctx context.Context, id uuid.UUID) (*VideoJob, error)
	// ListBySession returns jobs newest-first.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]VideoJob, error)
	// UpdateStatus sets only the status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status VideoStatus) error
	// UpdateResult persists external_id, video_url and status together.
	UpdateResult(ctx context.Context, id uuid.UUID, externalID, videoURL string, status VideoStatus) error
}
