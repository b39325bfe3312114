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
)

// WebhookNotifier posts alerts to a Slack or Discord incoming webhook
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{url: url, client: &http.Client{Timeout: timeout}}
}

type webhookPayload struct {
	// Slack reads text, Discord reads content
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
}

func (w *WebhookNotifier) NotifyHighIntent(ctx context.Context, alert Alert) error {
	message := fmt.Sprintf("*%s*\n%s", subject(alert), plainBody(alert))
	payload := webhookPayload{Text: message}
	if strings.Contains(w.url, "discord.com") || strings.Contains(w.url, "discordapp.com") {
		payload = webhookPayload{Content: message}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
