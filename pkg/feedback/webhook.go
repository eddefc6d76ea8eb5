package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wafertools/wafermap/pkg/httputil"
	"github.com/wafertools/wafermap/pkg/observability"
)

// WebhookStore forwards entries to a chat webhook as a {"text": ...}
// payload, the format Slack-compatible incoming webhooks accept. Transient
// failures are retried with backoff.
type WebhookStore struct {
	url        string
	client     *http.Client
	attempts   int
	retryDelay time.Duration
}

// NewWebhookStore creates a webhook store posting to url.
func NewWebhookStore(url string) *WebhookStore {
	return &WebhookStore{
		url:        url,
		client:     &http.Client{Timeout: 10 * time.Second},
		attempts:   3,
		retryDelay: time.Second,
	}
}

// Save posts the entry. 5xx and 429 responses are retried; other failures
// are returned immediately.
func (s *WebhookStore) Save(ctx context.Context, entry Entry) error {
	payload, err := json.Marshal(map[string]string{"text": formatText(entry)})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	var host, path string
	if u, err := url.Parse(s.url); err == nil {
		host, path = u.Host, u.Path
	}

	return httputil.Retry(ctx, s.attempts, s.retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		observability.HTTP().OnRequest(ctx, http.MethodPost, host, path)
		start := time.Now()
		resp, err := s.client.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, http.MethodPost, host, path, err)
			return &httputil.RetryableError{Err: err}
		}
		observability.HTTP().OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		switch {
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return &httputil.RetryableError{Err: fmt.Errorf("webhook status %d", resp.StatusCode)}
		case resp.StatusCode >= 400:
			return fmt.Errorf("webhook status %d", resp.StatusCode)
		}
		return nil
	})
}

// Close does nothing for the webhook store.
func (s *WebhookStore) Close(ctx context.Context) error { return nil }

func formatText(entry Entry) string {
	email := entry.Email
	if email == "" {
		email = "n/a"
	}
	context, _ := json.Marshal(entry.Context)
	return fmt.Sprintf("Feedback (%s):\n%s\n\nEmail: %s\nContext: %s",
		entry.Type, entry.Message, email, context)
}

// Ensure WebhookStore implements Store.
var _ Store = (*WebhookStore)(nil)
