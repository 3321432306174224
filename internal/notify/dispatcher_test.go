package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-ing/pricehawk/internal/model"
)

func recipient(enabled bool) model.User {
	return model.User{
		Email:                "alice@example.com",
		Name:                 "Alice",
		Role:                 model.RoleUser,
		NotificationsEnabled: enabled,
	}
}

func TestSendDeliversPayload(t *testing.T) {
	var received Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)
	err := d.Send(context.Background(), KindWeeklyDigest, recipient(true), map[string]interface{}{"text": "hello"})

	require.NoError(t, err)
	assert.Equal(t, KindWeeklyDigest, received.Type)
	assert.Equal(t, "alice@example.com", received.Recipient.Email)
	assert.Equal(t, "hello", received.Data["text"])
	assert.Equal(t, "pricehawk-monitor", received.Metadata["service"])
}

func TestSendRetriesOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)
	d.retryStrategy = NewRetryStrategy(RetryConfig{InitialDelayMs: 1})

	err := d.Send(context.Background(), KindRunFailure, recipient(true), nil)

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendGivesUpOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)
	err := d.Send(context.Background(), KindRunFailure, recipient(true), nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendSkipsDisabledRecipient(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)
	err := d.Send(context.Background(), KindWeeklyDigest, recipient(false), nil)

	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSendAdminEscalationIgnoresDisabledFlag(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := NewDispatcher(server.URL, 5*time.Second)

	require.NoError(t, d.Send(context.Background(), KindRunFailure, recipient(false), nil))
	require.NoError(t, d.Send(context.Background(), KindRunCritical, recipient(false), nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendCircuitBreakerBlocksWhenOpen(t *testing.T) {
	d := NewDispatcher("http://127.0.0.1:1", time.Second)
	for i := 0; i < 5; i++ {
		d.circuitBreaker.RecordFailure()
	}
	require.Equal(t, "open", d.GetCircuitBreakerState())

	err := d.Send(context.Background(), KindRunFailure, recipient(true), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker")
}

func TestLogNotifierAlwaysSucceeds(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Send(context.Background(), KindWeeklyDigest, recipient(true), nil))
}
