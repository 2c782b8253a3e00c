package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned when a notifier has no credentials.
var ErrNotConfigured = errors.New("notifier not configured: set bot token and chat id")

// Notifier delivers a rendered alert message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier sends Markdown messages through the Telegram Bot API.
type TelegramNotifier struct {
	Token  string
	ChatID string
	// Client defaults to a 10s-timeout client when nil.
	Client *http.Client
	// BaseURL overrides the Telegram API endpoint (tests).
	BaseURL string
}

// Configured reports whether credentials are present.
func (t *TelegramNotifier) Configured() bool {
	return t.Token != "" && t.ChatID != ""
}

// Send posts the message. Returns ErrNotConfigured without any network call
// when credentials are missing.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	if !t.Configured() {
		return ErrNotConfigured
	}
	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	base := t.BaseURL
	if base == "" {
		base = "https://api.telegram.org"
	}

	body, err := json.Marshal(map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("encoding telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", base, t.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	logrus.Debugf("telegram message delivered to chat %s", t.ChatID)
	return nil
}
