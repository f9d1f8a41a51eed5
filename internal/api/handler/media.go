package handler

import (
	"net/http"
	"os"

	"github.com/chatboxhq/chatbox/internal/api/response"
	"github.com/chatboxhq/chatbox/internal/storage"
	"github.com/go-chi/chi/v5"
)

// MediaHandler serves stored message attachments
type MediaHandler struct {
	store *storage.Store
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(store *storage.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// Serve streams an attachment by its media-relative path
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if rel == "" {
		response.NotFound(w, "not found")
		return
	}

	path, err := h.store.Path(rel)
	if err != nil {
		response.BadRequest(w, "invalid attachment path")
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		response.NotFound(w, "attachment not found")
		return
	}

	http.ServeFile(w, r, path)
}
