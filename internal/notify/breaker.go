package notify

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker's current mode.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker protects the notification gateway from being hammered while
// it is down. Consecutive delivery failures open the circuit; after the
// timeout one trial delivery is let through, and enough trial successes close
// it again.
type CircuitBreaker struct {
	mu sync.Mutex

	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time

	failureThreshold int
	successThreshold int
	timeout          time.Duration
}

// NewCircuitBreaker creates a breaker that opens after 5 consecutive
// failures, waits 60s before trialing, and closes after 2 trial successes.
func NewCircuitBreaker() *CircuitBreaker {
	return &CircuitBreaker{
		state:            BreakerClosed,
		failureThreshold: 5,
		successThreshold: 2,
		timeout:          60 * time.Second,
	}
}

// CanAttempt reports whether a delivery may be tried now. When the circuit is
// open and the timeout has elapsed, it flips to half-open and lets the
// delivery through as a trial.
func (cb *CircuitBreaker) CanAttempt() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == BreakerOpen {
		if time.Since(cb.openedAt) < cb.timeout {
			return false
		}
		cb.state = BreakerHalfOpen
		cb.failures = 0
		cb.successes = 0
	}

	return true
}

// RecordSuccess feeds a successful delivery into the breaker
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed:
		cb.failures = 0
	case BreakerHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = BreakerClosed
			cb.failures = 0
			cb.successes = 0
		}
	}
}

// RecordFailure feeds a failed delivery into the breaker. A failure during
// the half-open trial reopens the circuit immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed:
		cb.failures++
		if cb.failures >= cb.failureThreshold {
			cb.state = BreakerOpen
			cb.openedAt = time.Now()
		}
	case BreakerHalfOpen:
		cb.state = BreakerOpen
		cb.openedAt = time.Now()
		cb.successes = 0
	}
}

// State returns the breaker's current mode
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset forces the breaker closed
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = BreakerClosed
	cb.failures = 0
	cb.successes = 0
}
