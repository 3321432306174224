package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/noah-ing/pricehawk/internal/notify"
	"github.com/noah-ing/pricehawk/internal/telemetry"
)

// RunParams configure one monitoring run
type RunParams struct {
	Trigger         string
	Limit           int
	Retry           bool
	NotifyOnFailure bool
	CorrelationID   string
}

// ExecutorDeps are the collaborators a run needs
type ExecutorDeps struct {
	Products  ProductSource
	Accounts  AccountSource
	Checker   Checker
	Notifier  Notifier
	Telemetry Telemetry
	Buffer    *ChangeBuffer
	History   HistorySink // optional
	Runs      RunSink     // optional
}

// Executor runs one complete check cycle: fetch due candidates, check them
// all, retry failures, detect changes, escalate. Runs are serialized by an
// internal mutex so overlapping triggers cannot interleave their accounting.
type Executor struct {
	deps    ExecutorDeps
	retrier *RetryCoordinator

	runMu sync.Mutex
}

// NewExecutor creates a batch run executor
func NewExecutor(deps ExecutorDeps, policy RetryPolicy) *Executor {
	return &Executor{
		deps:    deps,
		retrier: NewRetryCoordinator(deps.Checker, policy),
	}
}

// Run executes one monitoring run. It never panics outward and never returns
// an error: run-level failures produce a summary with Errors=1 and an error
// message, after admins have been notified.
func (e *Executor) Run(ctx context.Context, params RunParams) (summary model.RunSummary) {
	if params.CorrelationID == "" {
		params.CorrelationID = uuid.New().String()
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			summary = e.failRun(ctx, params, start, fmt.Errorf("panic during run: %v", r))
		}
	}()

	e.runMu.Lock()
	defer e.runMu.Unlock()

	slog.Info("Starting monitoring run",
		"correlation_id", params.CorrelationID,
		"trigger", params.Trigger,
		"limit", params.Limit,
		"retry", params.Retry,
	)

	candidates, err := e.deps.Products.FindDueForCheck(ctx, params.Limit)
	if err != nil {
		return e.failRun(ctx, params, start, fmt.Errorf("due-for-check query: %w", err))
	}

	if len(candidates) == 0 {
		slog.Info("No products due for check",
			"correlation_id", params.CorrelationID,
			"trigger", params.Trigger,
		)
		summary.DurationMs = time.Since(start).Milliseconds()
		return summary
	}

	results := e.deps.Checker.CheckAll(ctx, candidates)

	outcomes := make(map[string]model.CheckOutcome, len(candidates))
	byID := make(map[string]model.CheckCandidate, len(candidates))
	var failed []model.CheckCandidate
	var changes []model.ChangeRecord

	for i, candidate := range candidates {
		byID[candidate.ProductID] = candidate
		result := results[i]

		if result == nil {
			outcomes[candidate.ProductID] = model.CheckOutcome{
				ProductID: candidate.ProductID,
				Status:    model.CheckFailed,
				Error:     "price check failed",
				Attempts:  1,
			}
			failed = append(failed, candidate)
			e.deps.Telemetry.TrackResult(ctx, telemetry.ResultEvent{
				Success:   false,
				ErrorType: "fetch_failed",
			})
			continue
		}

		outcomes[candidate.ProductID] = model.CheckOutcome{
			ProductID: candidate.ProductID,
			Status:    model.CheckSucceeded,
			NewPrice:  result.Price,
			Attempts:  1,
		}
		e.deps.Telemetry.TrackResult(ctx, telemetry.ResultEvent{
			Success:        true,
			ResponseTimeMs: result.DurationMs,
		})

		if change := e.acceptResult(ctx, candidate, result); change != nil {
			changes = append(changes, *change)
		}
	}

	if params.Retry && len(failed) > 0 {
		slog.Info("Retrying failed checks",
			"correlation_id", params.CorrelationID,
			"failed", len(failed),
		)

		retried := e.retrier.Retry(ctx, failed)
		for productID, rr := range retried {
			outcome := outcomes[productID]
			outcome.Attempts = 1 + rr.Attempts

			if rr.Result != nil {
				outcome.Status = model.CheckSucceeded
				outcome.NewPrice = rr.Result.Price
				outcome.Error = ""

				// Change detection runs once per candidate, against the
				// price from before this run, not the last failed attempt.
				if change := e.acceptResult(ctx, byID[productID], rr.Result); change != nil {
					changes = append(changes, *change)
				}
			}

			outcomes[productID] = outcome
		}
	}

	for _, outcome := range outcomes {
		if outcome.Status == model.CheckSucceeded {
			summary.CandidatesChecked++
		} else {
			summary.Failures++
		}
	}
	summary.Changes = len(changes)
	summary.ChangeDetails = changes
	summary.DurationMs = time.Since(start).Milliseconds()

	if params.NotifyOnFailure && summary.Failures > 0 {
		e.escalateFailures(ctx, params, summary)
	}

	e.recordRun(ctx, params, start, summary)

	slog.Info("Monitoring run completed",
		"correlation_id", params.CorrelationID,
		"trigger", params.Trigger,
		"candidates_checked", summary.CandidatesChecked,
		"changes", summary.Changes,
		"failures", summary.Failures,
		"duration_ms", summary.DurationMs,
	)

	return summary
}

// acceptResult applies one accepted price: the product record is updated and,
// when the price moved, a change is buffered, tracked, and archived. Returns
// the change record or nil when the price held.
func (e *Executor) acceptResult(ctx context.Context, candidate model.CheckCandidate, result *model.PriceResult) *model.ChangeRecord {
	if err := e.deps.Products.UpdatePrice(ctx, candidate.ProductID, result.Price, result.CheckedAt); err != nil {
		slog.Error("Failed to persist price update",
			"product_id", candidate.ProductID,
			"error", err.Error(),
		)
	}

	if result.Price.Equal(candidate.PreviousPrice.Decimal) {
		return nil
	}

	change := model.ChangeRecord{
		ProductID: candidate.ProductID,
		OwnerID:   candidate.OwnerID,
		OldPrice:  candidate.PreviousPrice,
		NewPrice:  result.Price,
		Currency:  result.Currency,
		Timestamp: result.CheckedAt,
	}
	e.deps.Buffer.Append(change)

	e.deps.Telemetry.TrackChange(ctx, telemetry.ChangeEvent{
		ProductID: candidate.ProductID,
		OldPrice:  candidate.PreviousPrice.String(),
		NewPrice:  result.Price.String(),
		Timestamp: result.CheckedAt,
	})

	if e.deps.History != nil {
		if err := e.deps.History.Append(ctx, candidate.ProductID, result.Price, result.Currency, result.CheckedAt); err != nil {
			slog.Error("Failed to append price history",
				"product_id", candidate.ProductID,
				"error", err.Error(),
			)
		}
	}

	slog.Info("Price change detected",
		"product_id", candidate.ProductID,
		"old_price", candidate.PreviousPrice.String(),
		"new_price", result.Price.String(),
		"currency", result.Currency,
	)

	return &change
}

// escalateFailures notifies every admin about failed checks, best-effort
func (e *Executor) escalateFailures(ctx context.Context, params RunParams, summary model.RunSummary) {
	admins, err := e.deps.Accounts.FindAdmins(ctx)
	if err != nil {
		slog.Error("Failed to load admins for failure escalation",
			"correlation_id", params.CorrelationID,
			"error", err.Error(),
		)
		return
	}

	data := notify.RunFailureData(params.Trigger, params.CorrelationID, summary.Failures, summary.CandidatesChecked)
	for _, admin := range admins {
		if err := e.deps.Notifier.Send(ctx, notify.KindRunFailure, admin, data); err != nil {
			slog.Error("Failed to notify admin of check failures",
				"correlation_id", params.CorrelationID,
				"admin", admin.Email,
				"error", err.Error(),
			)
		}
	}
}

// failRun handles a run-level failure: the error is logged, telemetry is
// informed, every admin gets a critical notification, and the caller receives
// a zero summary with the error attached. The process keeps running.
func (e *Executor) failRun(ctx context.Context, params RunParams, start time.Time, runErr error) model.RunSummary {
	slog.Error("Monitoring run failed",
		"correlation_id", params.CorrelationID,
		"trigger", params.Trigger,
		"error", runErr.Error(),
	)

	e.deps.Telemetry.TrackResult(ctx, telemetry.ResultEvent{
		Success:   false,
		ErrorType: "run_failure",
	})

	if admins, err := e.deps.Accounts.FindAdmins(ctx); err != nil {
		slog.Error("Failed to load admins for critical escalation",
			"correlation_id", params.CorrelationID,
			"error", err.Error(),
		)
	} else {
		data := notify.RunCriticalData(params.Trigger, params.CorrelationID, runErr.Error())
		for _, admin := range admins {
			if err := e.deps.Notifier.Send(ctx, notify.KindRunCritical, admin, data); err != nil {
				slog.Error("Failed to notify admin of run failure",
					"correlation_id", params.CorrelationID,
					"admin", admin.Email,
					"error", err.Error(),
				)
			}
		}
	}

	summary := model.RunSummary{
		Errors:       1,
		ErrorMessage: runErr.Error(),
		DurationMs:   time.Since(start).Milliseconds(),
	}

	e.recordRun(ctx, params, start, summary)

	return summary
}

// recordRun persists the run record when a sink is configured
func (e *Executor) recordRun(ctx context.Context, params RunParams, start time.Time, summary model.RunSummary) {
	if e.deps.Runs == nil {
		return
	}

	record := model.NewRunRecord(params.Trigger, params.CorrelationID, start.UTC(), summary)
	if err := e.deps.Runs.Create(ctx, record); err != nil {
		slog.Error("Failed to save run record",
			"correlation_id", params.CorrelationID,
			"error", err.Error(),
		)
	}
}
