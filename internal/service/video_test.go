package service

import (
	"context"
	"errors"
	"testing"

	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/chatboxhq/chatbox/internal/webhook"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestVideoService_RequestVideo_NoEndpointParksAsPending(t *testing.T) {
	ctx := context.Background()
	videos := new(MockVideoRepository)
	dispatcher := &MockVideoRequester{Configured: false}

	videos.On("Create", ctx, mock.AnythingOfType("*domain.VideoJob")).Return(nil)
	videos.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), domain.VideoPending).Return(nil)

	svc := NewVideoService(videos, dispatcher, nil)
	job, err := svc.RequestVideo(ctx, testSession(), "a cat")
	require.NoError(t, err)

	assert.Equal(t, domain.VideoPending, job.Status)
	assert.Empty(t, job.ExternalID)
	assert.Empty(t, job.VideoURL)
	dispatcher.AssertNotCalled(t, "RequestVideo")
	videos.AssertExpectations(t)
}

func TestVideoService_RequestVideo_CompletedResult(t *testing.T) {
	ctx := context.Background()
	session := testSession()
	videos := new(MockVideoRepository)
	dispatcher := &MockVideoRequester{Configured: true}

	videos.On("Create", ctx, mock.AnythingOfType("*domain.VideoJob")).Return(nil)
	dispatcher.On("RequestVideo", ctx, webhook.VideoRequest{
		Prompt:      "a cat",
		SessionID:   session.ID.String(),
		SessionName: session.Name,
	}).Return(&webhook.VideoResult{
		ExternalID: "ext-1",
		VideoURL:   "https://x/y.mp4",
		Status:     domain.VideoCompleted,
	}, nil)
	videos.On("UpdateResult", ctx, mock.AnythingOfType("uuid.UUID"), "ext-1", "https://x/y.mp4", domain.VideoCompleted).Return(nil)

	svc := NewVideoService(videos, dispatcher, nil)
	job, err := svc.RequestVideo(ctx, session, "a cat")
	require.NoError(t, err)

	assert.Equal(t, domain.VideoCompleted, job.Status)
	assert.Equal(t, "https://x/y.mp4", job.VideoURL)
	assert.Equal(t, "ext-1", job.ExternalID)
	videos.AssertExpectations(t)
}

func TestVideoService_RequestVideo_CallFailureMarksFailedAndPropagates(t *testing.T) {
	ctx := context.Background()
	videos := new(MockVideoRepository)
	dispatcher := &MockVideoRequester{Configured: true}

	videos.On("Create", ctx, mock.AnythingOfType("*domain.VideoJob")).Return(nil)
	callErr := errors.New("timeout")
	dispatcher.On("RequestVideo", ctx, mock.Anything).Return(nil, callErr)
	videos.On("UpdateStatus", ctx, mock.AnythingOfType("uuid.UUID"), domain.VideoFailed).Return(nil)

	svc := NewVideoService(videos, dispatcher, nil)
	job, err := svc.RequestVideo(ctx, testSession(), "a cat")

	require.ErrorIs(t, err, callErr)
	require.NotNil(t, job)
	assert.Equal(t, domain.VideoFailed, job.Status)
	videos.AssertExpectations(t)
}

func TestVideoService_RequestVideo_InvalidatesCacheOnWrite(t *testing.T) {
	ctx := context.Background()
	videos := new(MockVideoRepository)
	dispatcher := &MockVideoRequester{Configured: true}
	cache := new(MockStatusCache)

	videos.On("Create", ctx, mock.AnythingOfType("*domain.VideoJob")).Return(nil)
	dispatcher.On("RequestVideo", ctx, mock.Anything).Return(&webhook.VideoResult{
		Status: domain.VideoPending,
	}, nil)
	videos.On("UpdateResult", ctx, mock.AnythingOfType("uuid.UUID"), "", "", domain.VideoPending).Return(nil)
	cache.On("Invalidate", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	svc := NewVideoService(videos, dispatcher, cache)
	_, err := svc.RequestVideo(ctx, testSession(), "a cat")
	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestVideoService_Status(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("cache miss reads repository and fills cache", func(t *testing.T) {
		videos := new(MockVideoRepository)
		cache := new(MockStatusCache)

		job := &domain.VideoJob{
			ID:         id,
			Status:     domain.VideoCompleted,
			VideoURL:   "https://x/y.mp4",
			ExternalID: "ext",
		}
		cache.On("Get", ctx, id).Return(nil, nil)
		videos.On("Get", ctx, id).Return(job, nil)
		cache.On("Set", ctx, id, job.Snapshot()).Return(nil)

		svc := NewVideoService(videos, &MockVideoRequester{}, cache)
		snap, err := svc.Status(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.VideoCompleted, snap.Status)
		assert.Equal(t, "https://x/y.mp4", snap.VideoURL)
		videos.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		videos := new(MockVideoRepository)
		cache := new(MockStatusCache)

		cache.On("Get", ctx, id).Return(&domain.VideoSnapshot{Status: domain.VideoPending}, nil)

		svc := NewVideoService(videos, &MockVideoRequester{}, cache)
		snap, err := svc.Status(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.VideoPending, snap.Status)
		videos.AssertNotCalled(t, "Get")
	})

	t.Run("unknown job", func(t *testing.T) {
		videos := new(MockVideoRepository)
		videos.On("Get", ctx, id).Return(nil, domain.ErrNotFound)

		svc := NewVideoService(videos, &MockVideoRequester{}, nil)
		_, err := svc.Status(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestVideoStatusTransitions(t *testing.T) {
	assert.True(t, domain.VideoCompleted.Terminal())
	assert.True(t, domain.VideoFailed.Terminal())
	assert.False(t, domain.VideoPending.Terminal())
	assert.False(t, domain.VideoProcessing.Terminal())

	assert.True(t, domain.VideoPending.Valid())
	assert.False(t, domain.VideoStatus("done").Valid())
}
