package handler

import (
	"net/http"

	"github.com/chatboxhq/chatbox/internal/api/response"
	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/chatboxhq/chatbox/internal/service"
	"github.com/rs/zerolog/log"
)

// DashboardHandler serves the session overview
type DashboardHandler struct {
	sessions *service.SessionService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(sessions *service.SessionService) *DashboardHandler {
	return &DashboardHandler{sessions: sessions}
}

// List returns all sessions, newest first
func (h *DashboardHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListRecent(r.Context(), 0)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sessions")
		response.InternalError(w, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	response.OK(w, map[string]any{
		"sessions": sessions,
		"notice":   r.URL.Query().Get("notice"),
	})
}

// Create makes a new session from the submitted name and redirects to it
func (h *DashboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "failed to parse form")
		return
	}

	session, err := h.sessions.Create(r.Context(), r.FormValue("name"))
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session")
		response.InternalError(w, "failed to create session")
		return
	}

	response.Redirect(w, r, "/sessions/"+session.ID.String()+"/", "")
}
