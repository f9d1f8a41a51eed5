package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message represents a chat message inside a session. Content and
// attachment are individually optional; an all-empty message is valid.
type Message struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	// Attachment is a path relative to the media root, empty when the
	// message carries no file.
	Attachment     string    `json:"attachment,omitempty"`
	AttachmentType string    `json:"attachment_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasAttachment reports whether the message carries a stored file.
func (m Message) HasAttachment() bool {
	return m.Attachment != ""
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// ListBySession returns messages oldest-first (chronological display order).
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]Message, error)
}
