package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/noah-ing/pricehawk/internal/model"
)

// RetryPolicy tunes the candidate retry loop
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Concurrency int
}

// DefaultRetryPolicy matches production timing: one candidate at a time with
// a constant five-second pause before each attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: MaxRetryAttempts,
		Delay:       RetryDelay,
		Concurrency: 1,
	}
}

func (p *RetryPolicy) applyDefaults() {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = MaxRetryAttempts
	}
	if p.Delay <= 0 {
		p.Delay = RetryDelay
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 1
	}
}

// RetryResult is the terminal state of one retried candidate. Result is nil
// when every attempt failed; Attempts counts the additional attempts made.
type RetryResult struct {
	Result   *model.PriceResult
	Attempts int
}

// RetryCoordinator drives bounded re-checks over candidates that failed their
// first check. Each candidate gets up to MaxAttempts additional attempts,
// each preceded by the constant delay; the first success wins and the
// remaining attempts for that candidate are skipped.
type RetryCoordinator struct {
	checker Checker
	policy  RetryPolicy
}

// NewRetryCoordinator creates a retry coordinator
func NewRetryCoordinator(checker Checker, policy RetryPolicy) *RetryCoordinator {
	policy.applyDefaults()
	return &RetryCoordinator{
		checker: checker,
		policy:  policy,
	}
}

// Retry processes all failed candidates and returns a result per product ID.
// With the default concurrency of 1 candidates retry strictly in input order.
func (rc *RetryCoordinator) Retry(ctx context.Context, failed []model.CheckCandidate) map[string]RetryResult {
	results := make(map[string]RetryResult, len(failed))
	if len(failed) == 0 {
		return results
	}

	workers := rc.policy.Concurrency
	if workers > len(failed) {
		workers = len(failed)
	}

	var mu sync.Mutex
	jobs := make(chan model.CheckCandidate)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for candidate := range jobs {
				result := rc.retryCandidate(ctx, candidate)
				mu.Lock()
				results[candidate.ProductID] = result
				mu.Unlock()
			}
		}()
	}

	for _, candidate := range failed {
		select {
		case jobs <- candidate:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results
		}
	}

	close(jobs)
	wg.Wait()

	return results
}

// retryCandidate runs the attempt loop for a single candidate
func (rc *RetryCoordinator) retryCandidate(ctx context.Context, candidate model.CheckCandidate) RetryResult {
	for attempt := 1; attempt <= rc.policy.MaxAttempts; attempt++ {
		select {
		case <-time.After(rc.policy.Delay):
		case <-ctx.Done():
			slog.Warn("Retry loop cancelled",
				"product_id", candidate.ProductID,
				"attempt", attempt,
			)
			return RetryResult{Attempts: attempt - 1}
		}

		slog.Debug("Retrying price check",
			"product_id", candidate.ProductID,
			"attempt", attempt,
			"max_attempts", rc.policy.MaxAttempts,
		)

		result, err := rc.checker.Check(ctx, candidate)
		if err == nil {
			slog.Info("Price check succeeded on retry",
				"product_id", candidate.ProductID,
				"attempt", attempt,
			)
			return RetryResult{Result: result, Attempts: attempt}
		}

		slog.Warn("Retry attempt failed",
			"product_id", candidate.ProductID,
			"attempt", attempt,
			"error", err.Error(),
		)
	}

	return RetryResult{Attempts: rc.policy.MaxAttempts}
}
