package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ResultEvent describes the outcome of one price check
type ResultEvent struct {
	Success        bool   `json:"success"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	ErrorType      string `json:"error_type,omitempty"`
}

// ChangeEvent describes one detected price change
type ChangeEvent struct {
	ProductID string    `json:"product_id"`
	OldPrice  string    `json:"old_price"`
	NewPrice  string    `json:"new_price"`
	Timestamp time.Time `json:"timestamp"`
}

// Client posts monitoring events to the telemetry collector. Every call is
// fire-and-forget: failures are logged and swallowed, never returned, so a
// broken collector cannot affect a run's outcome.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a telemetry client. An empty endpoint disables delivery; events
// are still logged at debug level.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TrackResult records the outcome of one price check
func (c *Client) TrackResult(ctx context.Context, event ResultEvent) {
	c.post(ctx, "scrape_result", event)
}

// TrackChange records one detected price change
func (c *Client) TrackChange(ctx context.Context, event ChangeEvent) {
	c.post(ctx, "price_change", event)
}

func (c *Client) post(ctx context.Context, eventType string, event interface{}) {
	if c.endpoint == "" {
		slog.Debug("Telemetry disabled, dropping event", "event_type", eventType)
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"event_type": eventType,
		"payload":    event,
		"sent_at":    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		slog.Error("Failed to marshal telemetry event", "event_type", eventType, "error", err.Error())
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Error("Failed to create telemetry request", "event_type", eventType, "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Telemetry delivery failed", "event_type", eventType, "error", err.Error())
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	if resp.StatusCode >= 300 {
		slog.Warn("Telemetry collector rejected event",
			"event_type", eventType,
			"status_code", resp.StatusCode,
		)
	}
}
