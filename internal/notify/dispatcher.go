package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/noah-ing/pricehawk/internal/model"
)

// Notification kinds
const (
	KindRunFailure   = "monitor_failure"
	KindRunCritical  = "monitor_critical"
	KindWeeklyDigest = "weekly_digest"
)

// Dispatcher delivers notifications to the notification gateway webhook with
// retry logic and a circuit breaker. Delivery is best-effort: callers log and
// swallow returned errors.
type Dispatcher struct {
	gatewayURL     string
	httpClient     *http.Client
	retryStrategy  *RetryStrategy
	circuitBreaker *CircuitBreaker
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(gatewayURL string, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retryStrategy:  NewRetryStrategy(RetryConfig{}),
		circuitBreaker: NewCircuitBreaker(),
	}
}

// Send delivers one notification to one recipient
func (d *Dispatcher) Send(ctx context.Context, kind string, recipient model.User, data map[string]interface{}) error {
	if !recipient.NotificationsEnabled && kind != KindRunFailure && kind != KindRunCritical {
		slog.Debug("Recipient has notifications disabled, skipping",
			"kind", kind,
			"recipient", recipient.Email,
		)
		return nil
	}

	if !d.circuitBreaker.CanAttempt() {
		slog.Warn("Circuit breaker is open, skipping notification delivery",
			"kind", kind,
			"recipient", recipient.Email,
			"circuit_state", d.circuitBreaker.State().String(),
		)
		return fmt.Errorf("circuit breaker is open")
	}

	payload := Payload{
		Type:      kind,
		Recipient: Recipient{Email: recipient.Email, Name: recipient.Name},
		Data:      data,
		Metadata: map[string]interface{}{
			"service":   "pricehawk-monitor",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}

	for attempt := 1; attempt <= d.retryStrategy.GetMaxAttempts(); attempt++ {
		statusCode, err := d.deliver(ctx, payload)
		if err == nil && statusCode >= 200 && statusCode < 300 {
			slog.Info("Notification delivered",
				"kind", kind,
				"recipient", recipient.Email,
				"attempt", attempt,
			)
			d.circuitBreaker.RecordSuccess()
			return nil
		}

		if !d.retryStrategy.ShouldRetry(attempt, statusCode, err) {
			d.circuitBreaker.RecordFailure()
			return fmt.Errorf("notification delivery failed after %d attempts (status %d): %w", attempt, statusCode, err)
		}

		if attempt < d.retryStrategy.GetMaxAttempts() {
			delay := d.retryStrategy.CalculateDelay(attempt)
			slog.Warn("Notification delivery failed, retrying",
				"kind", kind,
				"recipient", recipient.Email,
				"attempt", attempt,
				"next_retry_ms", delay.Milliseconds(),
			)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				d.circuitBreaker.RecordFailure()
				return ctx.Err()
			}
		}
	}

	d.circuitBreaker.RecordFailure()
	return fmt.Errorf("notification delivery failed after %d attempts", d.retryStrategy.GetMaxAttempts())
}

// deliver performs a single delivery attempt
func (d *Dispatcher) deliver(ctx context.Context, payload Payload) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return resp.StatusCode, nil
}

// GetCircuitBreakerState returns the current circuit breaker state
func (d *Dispatcher) GetCircuitBreakerState() string {
	return d.circuitBreaker.State().String()
}

// LogNotifier logs notifications instead of delivering them. Used when no
// gateway URL is configured.
type LogNotifier struct{}

// Send logs the notification and succeeds
func (LogNotifier) Send(_ context.Context, kind string, recipient model.User, data map[string]interface{}) error {
	slog.Info("Notification (log only)",
		"kind", kind,
		"recipient", recipient.Email,
		"data_keys", len(data),
	)
	return nil
}
