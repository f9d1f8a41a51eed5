package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/sessions/x/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDecodeSessionAction_SendMessage(t *testing.T) {
	action, err := decodeSessionAction(formRequest(t, url.Values{
		"action":  {"send_message"},
		"content": {"bonjour"},
	}))
	require.NoError(t, err)

	msg, ok := action.(sendMessageAction)
	require.True(t, ok)
	assert.Equal(t, "bonjour", msg.Content)
	assert.Nil(t, msg.File)
}

func TestDecodeSessionAction_SendMessageAllEmpty(t *testing.T) {
	// An empty submission is accepted as-is.
	action, err := decodeSessionAction(formRequest(t, url.Values{
		"action": {"send_message"},
	}))
	require.NoError(t, err)

	msg, ok := action.(sendMessageAction)
	require.True(t, ok)
	assert.Empty(t, msg.Content)
	assert.Nil(t, msg.File)
}

func TestDecodeSessionAction_SendMessageWithAttachment(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("action", "send_message"))
	part, err := mw.CreateFormFile("attachment", "photo.jpg")
	require.NoError(t, err)
	part.Write([]byte("jpegdata"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/sessions/x/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	action, err := decodeSessionAction(req)
	require.NoError(t, err)

	msg, ok := action.(sendMessageAction)
	require.True(t, ok)
	defer msg.Close()
	assert.Equal(t, "photo.jpg", msg.Filename)
	assert.NotNil(t, msg.File)
}

func TestDecodeSessionAction_GenerateVideo(t *testing.T) {
	action, err := decodeSessionAction(formRequest(t, url.Values{
		"action": {"generate_video"},
		"prompt": {"  a quiet beach at dawn  "},
	}))
	require.NoError(t, err)

	video, ok := action.(generateVideoAction)
	require.True(t, ok)
	assert.Equal(t, "a quiet beach at dawn", video.Prompt)
}

func TestDecodeSessionAction_GenerateVideoRequiresPrompt(t *testing.T) {
	_, err := decodeSessionAction(formRequest(t, url.Values{
		"action": {"generate_video"},
		"prompt": {"   "},
	}))
	assert.Error(t, err)
}

func TestDecodeSessionAction_UnknownAction(t *testing.T) {
	_, err := decodeSessionAction(formRequest(t, url.Values{
		"action": {"reticulate_splines"},
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnknownAction)
}

func TestRequestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/sessions/x/", nil)
	assert.Equal(t, "http://example.com", requestBaseURL(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://example.com", requestBaseURL(req))
}
