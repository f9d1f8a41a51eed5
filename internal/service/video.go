package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/chatboxhq/chatbox/internal/webhook"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// videoRequester is the outbound side of video generation
type videoRequester interface {
	VideoConfigured() bool
	RequestVideo(ctx context.Context, req webhook.VideoRequest) (*webhook.VideoResult, error)
}

// statusCache holds polling snapshots; nil disables caching
type statusCache interface {
	Get(ctx context.Context, videoID uuid.UUID) (*domain.VideoSnapshot, error)
	Set(ctx context.Context, videoID uuid.UUID, snap domain.VideoSnapshot) error
	Invalidate(ctx context.Context, videoID uuid.UUID) error
}

// VideoService drives the video job state machine:
//
//	pending    -> processing, failed
//	processing -> pending, processing, completed, failed
//
// Jobs start in processing and are written exactly once more after the
// provider call resolves. completed and failed are terminal.
type VideoService struct {
	videos     domain.VideoRepository
	dispatcher videoRequester
	cache      statusCache
}

// NewVideoService creates a new video service
func NewVideoService(videos domain.VideoRepository, dispatcher videoRequester, cache statusCache) *VideoService {
	return &VideoService{
		videos:     videos,
		dispatcher: dispatcher,
		cache:      cache,
	}
}

// RequestVideo creates a job and synchronously asks the provider to
// generate a video. Without a configured endpoint the job is parked as
// pending. On a transport or HTTP failure the job is marked failed and
// the error is returned alongside the job so the caller can surface it.
func (s *VideoService) RequestVideo(ctx context.Context, session *domain.Session, prompt string) (*domain.VideoJob, error) {
	now := time.Now().UTC()
	job := &domain.VideoJob{
		ID:        uuid.New(),
		SessionID: session.ID,
		Prompt:    prompt,
		Status:    domain.VideoProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.videos.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create video job: %w", err)
	}

	if !s.dispatcher.VideoConfigured() {
		// Queued but nothing to call.
		if err := s.setStatus(ctx, job, domain.VideoPending); err != nil {
			return nil, err
		}
		return job, nil
	}

	result, err := s.dispatcher.RequestVideo(ctx, webhook.VideoRequest{
		Prompt:      prompt,
		SessionID:   session.ID.String(),
		SessionName: session.Name,
	})
	if err != nil {
		if setErr := s.setStatus(ctx, job, domain.VideoFailed); setErr != nil {
			log.Error().Err(setErr).Str("video_id", job.ID.String()).Msg("Failed to mark video job failed")
		}
		return job, err
	}

	if err := s.videos.UpdateResult(ctx, job.ID, result.ExternalID, result.VideoURL, result.Status); err != nil {
		return nil, fmt.Errorf("failed to update video job: %w", err)
	}
	job.ExternalID = result.ExternalID
	job.VideoURL = result.VideoURL
	job.Status = result.Status
	job.UpdatedAt = time.Now().UTC()
	s.invalidate(ctx, job.ID)

	return job, nil
}

// Status returns the persisted snapshot of a job without contacting the
// provider. Snapshots are briefly cached for polling clients.
func (s *VideoService) Status(ctx context.Context, id uuid.UUID) (*domain.VideoSnapshot, error) {
	if s.cache != nil {
		if snap, err := s.cache.Get(ctx, id); err == nil && snap != nil {
			return snap, nil
		}
	}

	job, err := s.videos.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snap := job.Snapshot()
	if s.cache != nil {
		if err := s.cache.Set(ctx, id, snap); err != nil {
			log.Warn().Err(err).Str("video_id", id.String()).Msg("Failed to cache video snapshot")
		}
	}
	return &snap, nil
}

// ListBySession returns a session's jobs newest-first
func (s *VideoService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.VideoJob, error) {
	return s.videos.ListBySession(ctx, sessionID)
}

func (s *VideoService) setStatus(ctx context.Context, job *domain.VideoJob, status domain.VideoStatus) error {
	if err := s.videos.UpdateStatus(ctx, job.ID, status); err != nil {
		return fmt.Errorf("failed to update video status: %w", err)
	}
	job.Status = status
	job.UpdatedAt = time.Now().UTC()
	s.invalidate(ctx, job.ID)
	return nil
}

func (s *VideoService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Str("video_id", id.String()).Msg("Failed to invalidate video snapshot cache")
	}
}
