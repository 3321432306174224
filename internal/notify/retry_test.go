package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDelayExponentialGrowth(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{})

	assert.Equal(t, time.Duration(0), rs.CalculateDelay(0))
	assert.Equal(t, 1000*time.Millisecond, rs.CalculateDelay(1))
	assert.Equal(t, 2000*time.Millisecond, rs.CalculateDelay(2))
	assert.Equal(t, 4000*time.Millisecond, rs.CalculateDelay(3))
}

func TestCalculateDelayCappedAtMax(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{InitialDelayMs: 1000, MaxDelayMs: 5000, Multiplier: 2.0})

	assert.Equal(t, 4000*time.Millisecond, rs.CalculateDelay(3))
	assert.Equal(t, 5000*time.Millisecond, rs.CalculateDelay(4))
	assert.Equal(t, 5000*time.Millisecond, rs.CalculateDelay(10))
}

func TestShouldRetryRespectsMaxAttempts(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{MaxAttempts: 3})

	assert.True(t, rs.ShouldRetry(1, 500, nil))
	assert.True(t, rs.ShouldRetry(2, 500, nil))
	assert.False(t, rs.ShouldRetry(3, 500, nil))
}

func TestShouldRetryStatusClasses(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{})

	// Network errors and server errors retry
	assert.True(t, rs.ShouldRetry(1, 0, errors.New("connection refused")))
	assert.True(t, rs.ShouldRetry(1, 502, nil))
	assert.True(t, rs.ShouldRetry(1, 429, nil))

	// Client errors do not
	assert.False(t, rs.ShouldRetry(1, 400, nil))
	assert.False(t, rs.ShouldRetry(1, 404, nil))

	// Success does not
	assert.False(t, rs.ShouldRetry(1, 200, nil))
}

func TestRetryConfigDefaults(t *testing.T) {
	rs := NewRetryStrategy(RetryConfig{})

	assert.Equal(t, 3, rs.GetMaxAttempts())
	assert.Equal(t, 1000*time.Millisecond, rs.CalculateDelay(1))
}
