package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bft-labs/credrot/internal/ports"
)

// Webhook implements ports.Notifier by POSTing JSON to an HTTP endpoint.
// The message destination is used when it is an http(s) URL, otherwise the
// fallback URL; with neither, messages are dropped.
type Webhook struct {
	client   ports.HTTPClient
	fallback string
}

// NewWebhook creates a webhook notifier.
func NewWebhook(client ports.HTTPClient, fallbackURL string) *Webhook {
	return &Webhook{client: client, fallback: fallbackURL}
}

type webhookPayload struct {
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Destination string    `json:"destination,omitempty"`
	Cancellable bool      `json:"cancellable"`
	SentAt      time.Time `json:"sent_at"`
}

// Notify posts an informational message.
func (w *Webhook) Notify(ctx context.Context, msg ports.Message) error {
	return w.post(ctx, msg, false)
}

// NotifyWithCancel posts a progress message. A remote endpoint cannot invoke
// the cancel control, so onCancel is not retained.
func (w *Webhook) NotifyWithCancel(ctx context.Context, msg ports.Message, onCancel func()) error {
	return w.post(ctx, msg, true)
}

// NotifySummary posts the session summary.
func (w *Webhook) NotifySummary(ctx context.Context, msg ports.Message) error {
	return w.post(ctx, msg, false)
}

func (w *Webhook) url(destination string) string {
	if strings.HasPrefix(destination, "http://") || strings.HasPrefix(destination, "https://") {
		return destination
	}
	return w.fallback
}

func (w *Webhook) post(ctx context.Context, msg ports.Message, cancellable bool) error {
	url := w.url(msg.Destination)
	if url == "" {
		return nil
	}

	body, err := json.Marshal(webhookPayload{
		Kind:        string(msg.Kind),
		Title:       msg.Title,
		Text:        msg.Text,
		Destination: msg.Destination,
		Cancellable: cancellable,
		SentAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
