package service

import (
	"context"
	"io"

	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/chatboxhq/chatbox/internal/webhook"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository mocks domain.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Session, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageRepository mocks domain.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.Message), args.Error(1)
}

// MockVideoRepository mocks domain.VideoRepository
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) Create(ctx context.Context, job *domain.VideoJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockVideoRepository) Get(ctx context.Context, id uuid.UUID) (*domain.VideoJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoJob), args.Error(1)
}

func (m *MockVideoRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.VideoJob, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.VideoJob), args.Error(1)
}

func (m *MockVideoRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VideoStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockVideoRepository) UpdateResult(ctx context.Context, id uuid.UUID, externalID, videoURL string, status domain.VideoStatus) error {
	args := m.Called(ctx, id, externalID, videoURL, status)
	return args.Error(0)
}

// MockVideoRequester mocks the outbound video call
type MockVideoRequester struct {
	mock.Mock
	Configured bool
}

func (m *MockVideoRequester) VideoConfigured() bool {
	return m.Configured
}

func (m *MockVideoRequester) RequestVideo(ctx context.Context, req webhook.VideoRequest) (*webhook.VideoResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.VideoResult), args.Error(1)
}

// MockNotifier mocks the outbound message webhook
type MockNotifier struct {
	mock.Mock
	Configured bool
}

func (m *MockNotifier) MessageConfigured() bool {
	return m.Configured
}

func (m *MockNotifier) NotifyMessage(ctx context.Context, n webhook.MessageNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockAttachmentStore mocks attachment persistence
type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) Save(sessionID uuid.UUID, filename string, r io.Reader) (string, error) {
	args := m.Called(sessionID, filename, r)
	return args.String(0), args.Error(1)
}

// MockStatusCache mocks the redis snapshot cache
type MockStatusCache struct {
	mock.Mock
}

func (m *MockStatusCache) Get(ctx context.Context, videoID uuid.UUID) (*domain.VideoSnapshot, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VideoSnapshot), args.Error(1)
}

func (m *MockStatusCache) Set(ctx context.Context, videoID uuid.UUID, snap domain.VideoSnapshot) error {
	args := m.Called(ctx, videoID, snap)
	return args.Error(0)
}

func (m *MockStatusCache) Invalidate(ctx context.Context, videoID uuid.UUID) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}
