package handler

import (
	"errors"
	"net/http"

	"github.com/chatboxhq/chatbox/internal/api/response"
	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/chatboxhq/chatbox/internal/service"
	"github.com/chatboxhq/chatbox/internal/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// User-visible notices carried through the post-redirect-get cycle.
const (
	noticeMessageSent        = "message_sent"
	noticeDeliveryFailed     = "message_delivery_failed"
	noticeUnexpectedResponse = "webhook_unexpected_response"
	noticeVideoStarted       = "video_started"
	noticeVideoFailed        = "video_failed"
)

// SessionHandler serves the session detail page and its form actions
type SessionHandler struct {
	sessions *service.SessionService
	messages *service.MessageService
	videos   *service.VideoService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, messages *service.MessageService, videos *service.VideoService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		messages: messages,
		videos:   videos,
	}
}

func (h *SessionHandler) load(w http.ResponseWriter, r *http.Request) *domain.Session {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return nil
	}

	session, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "session not found")
			return nil
		}
		log.Error().Err(err).Msg("Failed to load session")
		response.InternalError(w, "failed to load session")
		return nil
	}
	return session
}

// Detail returns the session with its messages, videos and a sidebar of
// recent sessions
func (h *SessionHandler) Detail(w http.ResponseWriter, r *http.Request) {
	session := h.load(w, r)
	if session == nil {
		return
	}
	ctx := r.Context()

	messages, err := h.messages.List(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list messages")
		response.InternalError(w, "failed to list messages")
		return
	}
	videos, err := h.videos.ListBySession(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list videos")
		response.InternalError(w, "failed to list videos")
		return
	}
	recent, err := h.sessions.ListRecent(ctx, 10)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list recent sessions")
		response.InternalError(w, "failed to list sessions")
		return
	}

	if messages == nil {
		messages = []domain.Message{}
	}
	if videos == nil {
		videos = []domain.VideoJob{}
	}

	response.OK(w, map[string]any{
		"session":  session,
		"sessions": recent,
		"messages": messages,
		"videos":   videos,
		"notice":   r.URL.Query().Get("notice"),
	})
}

// Act performs the submitted form action and redirects back to the
// session detail page
func (h *SessionHandler) Act(w http.ResponseWriter, r *http.Request) {
	session := h.load(w, r)
	if session == nil {
		return
	}

	action, err := decodeSessionAction(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	target := "/sessions/" + session.ID.String() + "/"

	switch a := action.(type) {
	case sendMessageAction:
		defer a.Close()

		var attachment *service.Attachment
		if a.File != nil {
			attachment = &service.Attachment{
				Filename: a.Filename,
				Reader:   a.File,
			}
		}

		result, err := h.messages.Send(r.Context(), session, a.Content, attachment, requestBaseURL(r))
		if err != nil {
			log.Error().Err(err).Msg("Failed to send message")
			response.InternalError(w, "failed to send message")
			return
		}

		notice := noticeMessageSent
		if result.DeliveryErr != nil {
			notice = noticeDeliveryFailed
			if errors.Is(result.DeliveryErr, webhook.ErrUnexpectedResponse) {
				notice = noticeUnexpectedResponse
			}
		}
		response.Redirect(w, r, target, notice)

	case generateVideoAction:
		job, err := h.videos.RequestVideo(r.Context(), session, a.Prompt)
		if job == nil {
			log.Error().Err(err).Msg("Failed to create video job")
			response.InternalError(w, "failed to request video")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("video_id", job.ID.String()).Msg("Video generation failed")
		}

		notice := noticeVideoStarted
		if job.Status == domain.VideoFailed {
			notice = noticeVideoFailed
		}
		response.Redirect(w, r, target, notice)

	default:
		response.BadRequest(w, "unknown action")
	}
}

// Delete removes the session and everything it owns
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := h.load(w, r)
	if session == nil {
		return
	}

	if err := h.sessions.Delete(r.Context(), session.ID); err != nil {
		log.Error().Err(err).Msg("Failed to delete session")
		response.InternalError(w, "failed to delete session")
		return
	}
	response.Redirect(w, r, "/", "")
}
