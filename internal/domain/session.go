package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session represents a named conversation thread grouping messages and
// video jobs. Sessions are immutable after creation.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the session name, or a short identifier for
// sessions created without one.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("Session %s", s.ID.String()[:8])
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	// ListRecent returns sessions newest-first. A limit <= 0 means no limit.
	ListRecent(ctx context.Context, limit int) ([]Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
