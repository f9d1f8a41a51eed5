package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/google/uuid"
)

// SessionService handles conversation threads
type SessionService struct {
	sessions domain.SessionRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessions domain.SessionRepository) *SessionService {
	return &SessionService{sessions: sessions}
}

// Create inserts a new session. The name is trimmed; empty is allowed.
func (s *SessionService) Create(ctx context.Context, name string) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Get fetches a session by ID
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.sessions.Get(ctx, id)
}

// ListRecent returns sessions newest-first; limit <= 0 returns all
func (s *SessionService) ListRecent(ctx context.Context, limit int) ([]domain.Session, error) {
	return s.sessions.ListRecent(ctx, limit)
}

// Delete removes a session and, through the schema, its messages and videos
func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.sessions.Delete(ctx, id)
}
