package handler

import (
	"errors"
	"net/http"

	"github.com/chatboxhq/chatbox/internal/api/response"
	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/chatboxhq/chatbox/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// VideoHandler serves the polling endpoint
type VideoHandler struct {
	videos *service.VideoService
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(videos *service.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// Status returns the persisted job snapshot as plain JSON. It never
// contacts the provider.
func (h *VideoHandler) Status(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "videoID"))
	if err != nil {
		response.BadRequest(w, "invalid video ID")
		return
	}

	snap, err := h.videos.Status(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "video not found")
			return
		}
		log.Error().Err(err).Msg("Failed to load video status")
		response.InternalError(w, "failed to load video status")
		return
	}

	response.Raw(w, http.StatusOK, snap)
}
