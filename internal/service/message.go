package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/chatboxhq/chatbox/internal/webhook"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// messageNotifier is the outbound side of message forwarding
type messageNotifier interface {
	MessageConfigured() bool
	NotifyMessage(ctx context.Context, n webhook.MessageNotification) error
}

// attachmentStore persists uploaded files
type attachmentStore interface {
	Save(sessionID uuid.UUID, filename string, r io.Reader) (string, error)
}

// Attachment is an uploaded file accompanying a message. ContentType may
// be empty, in which case the type is inferred from the filename.
type Attachment struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// SendResult reports the outcome of a message send. DeliveryErr is set
// when forwarding to the message webhook failed; the message itself is
// saved regardless.
type SendResult struct {
	Message     *domain.Message
	DeliveryErr error
}

// MessageService handles message persistence and forwarding
type MessageService struct {
	messages domain.MessageRepository
	store    attachmentStore
	notifier messageNotifier
}

// NewMessageService creates a new message service
func NewMessageService(messages domain.MessageRepository, store attachmentStore, notifier messageNotifier) *MessageService {
	return &MessageService{
		messages: messages,
		store:    store,
		notifier: notifier,
	}
}

// Send persists a user message and forwards it to the configured webhook.
// Content and attachment are both optional; an all-empty message is
// accepted. baseURL is used to build the absolute attachment URL in the
// forwarded payload.
func (s *MessageService) Send(ctx context.Context, session *domain.Session, content string, att *Attachment, baseURL string) (*SendResult, error) {
	msg := &domain.Message{
		ID:        uuid.New(),
		SessionID: session.ID,
		Sender:    domain.SenderUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if att != nil {
		rel, err := s.store.Save(session.ID, att.Filename, att.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		msg.Attachment = rel
		msg.AttachmentType = att.ContentType
		if msg.AttachmentType == "" {
			msg.AttachmentType = inferMIMEType(att.Filename)
		}
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	result := &SendResult{Message: msg}

	if s.notifier.MessageConfigured() {
		notification := webhook.MessageNotification{
			MessageID:      msg.ID.String(),
			SessionID:      session.ID.String(),
			SessionName:    session.Name,
			Sender:         string(msg.Sender),
			Content:        msg.Content,
			CreatedAt:      msg.CreatedAt.Format(time.RFC3339),
			AttachmentType: msg.AttachmentType,
		}
		if msg.HasAttachment() {
			notification.AttachmentURL = strings.TrimSuffix(baseURL, "/") + "/media/" + msg.Attachment
		}
		if err := s.notifier.NotifyMessage(ctx, notification); err != nil {
			// The message is already committed; delivery failure only
			// produces a user-visible notice.
			log.Error().Err(err).Str("message_id", msg.ID.String()).Msg("Message webhook delivery failed")
			result.DeliveryErr = err
		}
	}

	return result, nil
}

// List returns a session's messages oldest-first
func (s *MessageService) List(ctx context.Context, sessionID uuid.UUID) ([]domain.Message, error) {
	return s.messages.ListBySession(ctx, sessionID)
}

// inferMIMEType guesses a MIME type from the filename extension,
// falling back to the generic binary type.
func inferMIMEType(filename string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if mimeType == "" {
		return "application/octet-stream"
	}
	// TypeByExtension may append parameters (text/plain; charset=utf-8);
	// only the bare type is stored.
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}
