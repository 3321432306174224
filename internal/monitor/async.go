package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/noah-ing/pricehawk/pkg/middleware"
)

// AsyncRunner executes manual checks in the background. Callers get a job ID
// immediately and poll for the run summary; statuses live in memory and do
// not survive a restart.
type AsyncRunner struct {
	scheduler *Scheduler
	jobStore  *model.JobStatusStore
	timeout   time.Duration
}

// NewAsyncRunner creates an async manual check runner
func NewAsyncRunner(scheduler *Scheduler, timeout time.Duration) *AsyncRunner {
	return &AsyncRunner{
		scheduler: scheduler,
		jobStore:  model.NewJobStatusStore(),
		timeout:   timeout,
	}
}

// SubmitCheck queues a manual check and returns its job ID. The job gets its
// own correlation ID so the resulting run record can be traced back to it.
func (ar *AsyncRunner) SubmitCheck(limit int, retry, notifyOnFailure bool) string {
	jobID := uuid.New().String()
	correlationID := uuid.New().String()

	ar.jobStore.Set(jobID, model.JobStatus{
		JobID:         jobID,
		Status:        "queued",
		CorrelationID: correlationID,
	})

	go ar.runCheck(jobID, correlationID, limit, retry, notifyOnFailure)

	return jobID
}

// GetJobStatus retrieves a snapshot of an async manual check's status
func (ar *AsyncRunner) GetJobStatus(jobID string) (model.JobStatus, bool) {
	return ar.jobStore.Get(jobID)
}

// runCheck executes the manual check and records its outcome
func (ar *AsyncRunner) runCheck(jobID, correlationID string, limit int, retry, notifyOnFailure bool) {
	ar.jobStore.Update(jobID, func(status *model.JobStatus) {
		status.Status = "processing"
	})

	slog.Info("Starting async manual check",
		"job_id", jobID,
		"correlation_id", correlationID,
		"limit", limit,
		"retry", retry,
	)

	ctx, cancel := context.WithTimeout(context.Background(), ar.timeout)
	defer cancel()
	ctx = middleware.WithCorrelationID(ctx, correlationID)

	summary := ar.scheduler.ManualCheck(ctx, correlationID, limit, retry, notifyOnFailure)

	ar.jobStore.Update(jobID, func(status *model.JobStatus) {
		if summary.Errors > 0 {
			status.Status = "failed"
			status.Error = summary.ErrorMessage
		} else {
			status.Status = "completed"
		}
		status.Result = &summary
	})

	slog.Info("Async manual check completed",
		"job_id", jobID,
		"candidates_checked", summary.CandidatesChecked,
		"changes", summary.Changes,
		"failures", summary.Failures,
	)
}
