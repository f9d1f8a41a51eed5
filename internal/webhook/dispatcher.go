package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chatboxhq/chatbox/internal/config"
	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrUnexpectedResponse marks a webhook endpoint that answered 2xx but did
// not return a JSON body. Callers surface this differently from a
// transport failure.
var ErrUnexpectedResponse = errors.New("unexpected webhook response")

// Dispatcher issues the two outbound calls of the application: video
// generation requests and message-forwarding notifications. Calls are
// synchronous; there is no retry.
type Dispatcher struct {
	client *http.Client

	videoURL string
	videoKey string

	messageURL    string
	messageKey    string
	messageMethod string
}

// NewDispatcher creates a dispatcher from the external-endpoint configuration
func NewDispatcher(videoCfg config.VideoAPIConfig, msgCfg config.MessageWebhookConfig) *Dispatcher {
	timeout := videoCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		client:        &http.Client{Timeout: timeout},
		videoURL:      videoCfg.URL,
		videoKey:      videoCfg.APIKey,
		messageURL:    msgCfg.URL,
		messageKey:    msgCfg.APIKey,
		messageMethod: msgCfg.Method,
	}
}

// VideoConfigured reports whether a video endpoint is set
func (d *Dispatcher) VideoConfigured() bool {
	return d.videoURL != ""
}

// MessageConfigured reports whether a message-forwarding endpoint is set
func (d *Dispatcher) MessageConfigured() bool {
	return d.messageURL != ""
}

// VideoRequest is the payload sent to the video-generation provider
type VideoRequest struct {
	Prompt      string `json:"prompt"`
	SessionID   string `json:"session_id"`
	SessionName string `json:"session_name"`
}

// VideoResult is the provider response translated into local vocabulary.
// Status is the local job status, not the provider's wording.
type VideoResult struct {
	ExternalID string
	VideoURL   string
	Status     domain.VideoStatus
}

// RequestVideo posts a generation request and maps the provider response
// to a local status:
//   - a non-empty video_url means completed
//   - provider status pending or processing means pending
//   - provider status failed means failed
//   - anything else is treated as still processing
func (d *Dispatcher) RequestVideo(ctx context.Context, req VideoRequest) (*VideoResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.videoURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.videoKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.videoKey)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("video request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("video api returned status %d", resp.StatusCode)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: failed to decode video response: %v", ErrUnexpectedResponse, err)
	}

	externalID := stringField(data, "id")
	if externalID == "" {
		externalID = stringField(data, "job_id")
	}

	result := &VideoResult{
		ExternalID: externalID,
		VideoURL:   stringField(data, "video_url"),
	}
	result.Status = mapProviderStatus(result.VideoURL, stringField(data, "status"))
	return result, nil
}

func mapProviderStatus(videoURL, providerStatus string) domain.VideoStatus {
	switch status := strings.ToLower(providerStatus); {
	case videoURL != "":
		return domain.VideoCompleted
	case status == string(domain.VideoPending), status == string(domain.VideoProcessing):
		return domain.VideoPending
	case status == string(domain.VideoFailed):
		return domain.VideoFailed
	default:
		return domain.VideoProcessing
	}
}

// stringField reads a top-level field as a string, tolerating numeric IDs.
func stringField(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// MessageNotification is the payload forwarded after a message is saved
type MessageNotification struct {
	MessageID      string `json:"message_id"`
	SessionID      string `json:"session_id"`
	SessionName    string `json:"session_name"`
	Sender         string `json:"sender"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
}

func (n MessageNotification) values() url.Values {
	v := url.Values{}
	v.Set("message_id", n.MessageID)
	v.Set("session_id", n.SessionID)
	v.Set("session_name", n.SessionName)
	v.Set("sender", n.Sender)
	v.Set("content", n.Content)
	v.Set("created_at", n.CreatedAt)
	if n.AttachmentURL != "" {
		v.Set("attachment_url", n.AttachmentURL)
	}
	if n.AttachmentType != "" {
		v.Set("attachment_type", n.AttachmentType)
	}
	return v
}

// NotifyMessage forwards a saved message to the configured endpoint. With
// method GET the payload travels as query parameters, with POST as a JSON
// body; any other configured method is coerced to POST with a warning.
// The endpoint must answer 2xx with a JSON body.
func (d *Dispatcher) NotifyMessage(ctx context.Context, n MessageNotification) error {
	method := strings.ToUpper(d.messageMethod)
	switch method {
	case http.MethodGet, http.MethodPost:
	case "":
		method = http.MethodPost
	default:
		log.Warn().Str("method", d.messageMethod).Msg("Unsupported message webhook method, falling back to POST")
		method = http.MethodPost
	}

	var httpReq *http.Request
	var err error
	if method == http.MethodGet {
		target := d.messageURL
		if strings.Contains(target, "?") {
			target += "&" + n.values().Encode()
		} else {
			target += "?" + n.values().Encode()
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	} else {
		var body []byte
		body, err = json.Marshal(n)
		if err != nil {
			return fmt.Errorf("failed to marshal notification: %w", err)
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, d.messageURL, bytes.NewReader(body))
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if method == http.MethodPost {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if d.messageKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.messageKey)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("message webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("message webhook returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read webhook response: %w", err)
	}
	if !json.Valid(body) {
		return fmt.Errorf("%w: body is not valid JSON", ErrUnexpectedResponse)
	}
	return nil
}
