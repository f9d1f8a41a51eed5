package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var errUnknownAction = errors.New("unknown action")

// sessionAction is the tagged variant a session POST decodes into. The
// form's action field is read exactly once here; handlers dispatch on the
// concrete type.
type sessionAction interface {
	isSessionAction()
}

// sendMessageAction posts a chat message; both fields may be empty
type sendMessageAction struct {
	Content  string
	File     multipart.File
	Filename string
}

// generateVideoAction requests a video generation
type generateVideoAction struct {
	Prompt string `validate:"required"`
}

func (sendMessageAction) isSessionAction()   {}
func (generateVideoAction) isSessionAction() {}

// Close releases the uploaded file handle, if any
func (a sendMessageAction) Close() {
	if a.File != nil {
		a.File.Close()
	}
}

const maxUploadSize = 50 << 20 // 50MB

// decodeSessionAction parses a session form submission into its variant
func decodeSessionAction(r *http.Request) (sessionAction, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, fmt.Errorf("failed to parse form: %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("failed to parse form: %w", err)
		}
	}

	switch action := r.FormValue("action"); action {
	case "send_message":
		a := sendMessageAction{Content: r.FormValue("content")}
		file, header, err := r.FormFile("attachment")
		switch {
		case err == nil:
			a.File = file
			a.Filename = header.Filename
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			// No attachment; the empty message is still accepted.
		default:
			return nil, fmt.Errorf("failed to read attachment: %w", err)
		}
		return a, nil

	case "generate_video":
		a := generateVideoAction{Prompt: strings.TrimSpace(r.FormValue("prompt"))}
		if err := validate.Struct(a); err != nil {
			return nil, fmt.Errorf("prompt is required: %w", err)
		}
		return a, nil

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownAction, action)
	}
}

// requestBaseURL rebuilds the external base URL of the request; it is
// threaded explicitly into webhook payload building.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
