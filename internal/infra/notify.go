package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NotifyClient posts workflow events to the notification sidecar, which fans
// them out to the channels procurement actually watches (chat, dashboards).
// Calls go through the circuit breaker so a downed sidecar never stalls a
// worker for long.
type NotifyClient struct {
	baseURL string
	client  *http.Client
}

func NewNotifyClient(baseURL string) *NotifyClient {
	return &NotifyClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Publish sends one event payload to the sidecar's /events endpoint.
func (c *NotifyClient) Publish(ctx context.Context, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: sidecar returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
