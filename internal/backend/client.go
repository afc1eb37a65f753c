// Package backend is the HTTP client for the product application backend.
// Calls are fire-and-forget from the agent's perspective: failures are
// returned for logging, never retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// MarkChecked marks a product as reviewed.
func (c *Client) MarkChecked(ctx context.Context, productID string) error {
	body := map[string]string{"productId": productID}
	return c.post(ctx, "/api/products/mark-checked", body)
}

// ScheduleReminder asks the backend to re-notify about a product at remindAt.
func (c *Client) ScheduleReminder(ctx context.Context, productID string, remindAt time.Time) error {
	body := map[string]string{
		"productId": productID,
		"remindAt":  remindAt.UTC().Format(time.RFC3339),
	}
	return c.post(ctx, "/api/products/schedule-reminder", body)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request for %s failed: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request for %s failed: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request to %s returned status %d", path, resp.StatusCode)
	}
	return nil
}
