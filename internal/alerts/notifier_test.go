package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramNotifier_NotConfigured(t *testing.T) {
	n := &TelegramNotifier{}
	assert.False(t, n.Configured())
	assert.ErrorIs(t, n.Send(context.Background(), "hello"), ErrNotConfigured)

	n = &TelegramNotifier{Token: "abc"}
	assert.ErrorIs(t, n.Send(context.Background(), "hello"), ErrNotConfigured)
}

func TestTelegramNotifier_SendsMarkdownPayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := &TelegramNotifier{Token: "bot-token", ChatID: "12345", BaseURL: srv.URL}
	require.NoError(t, n.Send(context.Background(), "*Alert*"))

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "12345", gotBody["chat_id"])
	assert.Equal(t, "*Alert*", gotBody["text"])
	assert.Equal(t, "Markdown", gotBody["parse_mode"])
}

func TestTelegramNotifier_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := &TelegramNotifier{Token: "t", ChatID: "c", BaseURL: srv.URL}
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
