// Package webhooks holds the outbound integrations: PDF extraction,
// podcast transcription, and the chat assistant. All of them are
// best-effort enrichments; a webhook failure surfaces one error to the
// operator and never takes down the authoring flow.
package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/JamesMorphed/immersive-agency-sub000/internal/app/system/timeouts"
)

// Client posts to the configured external webhooks.
type Client struct {
	http *http.Client
	log  *zap.Logger
}

// New creates a webhook client. The HTTP timeout covers the whole
// exchange; document extraction is the slowest caller and sizes it.
func New(log *zap.Logger) *Client {
	return &Client{
		http: &http.Client{Timeout: timeouts.Webhook()},
		log:  log,
	}
}

// PostJSON sends payload as a JSON POST and returns the response body.
// Non-2xx statuses are errors.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("webhooks: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("webhooks: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// PostMultipartFile uploads a single file as multipart/form-data with
// optional extra form fields, and returns the response body.
func (c *Client) PostMultipartFile(ctx context.Context, url, fieldName, filename string, file io.Reader, extra map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(fieldName, filename)
	if err != nil {
		return nil, fmt.Errorf("webhooks: build multipart: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("webhooks: copy file: %w", err)
	}
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("webhooks: write field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("webhooks: close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("webhooks: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req)
}

// Notify sends payload as JSON without waiting for the result. Used for
// fire-and-forget calls such as the podcast transcription webhook. The
// call runs on its own context so it survives the originating request.
func (c *Client) Notify(url string, payload any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Webhook())
		defer cancel()

		if _, err := c.PostJSON(ctx, url, payload); err != nil {
			c.log.Warn("webhook notify failed",
				zap.String("url", url),
				zap.Error(err),
			)
		}
	}()
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhooks: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("webhooks: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("webhook returned non-2xx",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("webhooks: %s returned status %d", req.URL.Host, resp.StatusCode)
	}
	return body, nil
}
