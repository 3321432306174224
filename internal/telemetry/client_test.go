package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackResultPostsEvent(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	client.TrackResult(context.Background(), ResultEvent{Success: true, ResponseTimeMs: 42})

	require.NotNil(t, received)
	assert.Equal(t, "scrape_result", received["event_type"])
	payload := received["payload"].(map[string]interface{})
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(42), payload["response_time_ms"])
}

func TestTrackChangePostsEvent(t *testing.T) {
	var eventType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		eventType, _ = body["event_type"].(string)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	client.TrackChange(context.Background(), ChangeEvent{ProductID: "p1", OldPrice: "100", NewPrice: "90"})

	assert.Equal(t, "price_change", eventType)
}

func TestDisabledEndpointDropsEvents(t *testing.T) {
	client := New("", time.Second)

	// Must not panic or block
	client.TrackResult(context.Background(), ResultEvent{Success: false, ErrorType: "fetch_failed"})
	client.TrackChange(context.Background(), ChangeEvent{ProductID: "p1"})
}

func TestCollectorFailureIsSwallowed(t *testing.T) {
	client := New("http://127.0.0.1:1", 100*time.Millisecond)
	client.TrackResult(context.Background(), ResultEvent{Success: true})
}
