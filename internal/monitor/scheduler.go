package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/robfig/cron/v3"
)

// StartResult reports the outcome of a Start call
type StartResult struct {
	IsRunning bool    `json:"is_running"`
	Options   Options `json:"options"`
}

// Status is a point-in-time snapshot of the scheduler
type Status struct {
	IsRunning       bool     `json:"is_running"`
	Options         *Options `json:"options,omitempty"`
	BufferedChanges int      `json:"buffered_changes"`
}

// Scheduler owns the recurring monitoring triggers: an hourly check run, a
// daily deep run at 02:00, and the weekly digest on Sunday 09:00. Scheduled
// runs take a distributed lock so only one instance fires per trigger; manual
// checks bypass the lock and run on whichever instance received the request.
type Scheduler struct {
	executor   *Executor
	digest     *DigestDispatcher
	locks      RunLocker // optional
	instanceID string
	lockTTL    time.Duration
	runTimeout time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	options Options
}

// NewScheduler creates a scheduler. Locks may be nil for single-instance
// deployments.
func NewScheduler(executor *Executor, digest *DigestDispatcher, locks RunLocker, lockTTL, runTimeout time.Duration) *Scheduler {
	instanceID, err := os.Hostname()
	if err != nil {
		instanceID = uuid.New().String()
		slog.Warn("Failed to get hostname, using UUID as instance ID", "instance_id", instanceID)
	}

	return &Scheduler{
		executor:   executor,
		digest:     digest,
		locks:      locks,
		instanceID: instanceID,
		lockTTL:    lockTTL,
		runTimeout: runTimeout,
	}
}

// Start registers the recurring triggers and begins firing them. Calling
// Start while already running is a no-op that reports the active options.
func (s *Scheduler) Start(opts Options) StartResult {
	opts.applyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		slog.Warn("Monitoring already running, ignoring start request")
		return StartResult{IsRunning: true, Options: s.options}
	}

	c := cron.New()
	mustSchedule(c, scheduleHourly, func() {
		s.runScheduled(model.TriggerHourly, s.snapshotOptions().HourlyLimit)
	})
	mustSchedule(c, scheduleDaily, func() {
		s.runScheduled(model.TriggerDaily, s.snapshotOptions().DailyLimit)
	})
	mustSchedule(c, scheduleWeekly, func() {
		s.runDigest()
	})
	c.Start()

	s.cron = c
	s.options = opts

	slog.Info("Monitoring started",
		"instance_id", s.instanceID,
		"hourly_limit", opts.HourlyLimit,
		"daily_limit", opts.DailyLimit,
		"notifications", opts.EnableNotifications,
	)

	return StartResult{IsRunning: true, Options: opts}
}

// Stop cancels all future trigger firings. A run already in flight finishes
// normally. Stopping an idle scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		slog.Info("Monitoring not running, nothing to stop")
		return
	}

	s.cron.Stop()
	s.cron = nil

	slog.Info("Monitoring stopped", "instance_id", s.instanceID)
}

// InstanceID returns the identifier this scheduler uses for run locks
func (s *Scheduler) InstanceID() string {
	return s.instanceID
}

// IsRunning reports whether the triggers are active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Status returns the current scheduler state
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		IsRunning:       s.cron != nil,
		BufferedChanges: s.executor.deps.Buffer.Len(),
	}
	if s.cron != nil {
		opts := s.options
		status.Options = &opts
	}
	return status
}

// ManualCheck runs one on-demand monitoring cycle, independent of whether
// the recurring triggers are active. An empty correlationID gets a generated
// one.
func (s *Scheduler) ManualCheck(ctx context.Context, correlationID string, limit int, retry, notifyOnFailure bool) model.RunSummary {
	if limit <= 0 {
		limit = DefaultManualLimit
	}

	return s.executor.Run(ctx, RunParams{
		Trigger:         model.TriggerManual,
		Limit:           limit,
		Retry:           retry,
		NotifyOnFailure: notifyOnFailure,
		CorrelationID:   correlationID,
	})
}

func (s *Scheduler) snapshotOptions() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// runScheduled executes a triggered run under the distributed lock
func (s *Scheduler) runScheduled(trigger string, limit int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	if !s.acquire(ctx, trigger) {
		return
	}
	defer s.release(trigger)

	notifyOnFailure := s.snapshotOptions().EnableNotifications
	s.executor.Run(ctx, RunParams{
		Trigger:         trigger,
		Limit:           limit,
		Retry:           true,
		NotifyOnFailure: notifyOnFailure,
	})
}

// runDigest executes the weekly digest under the distributed lock
func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	if !s.acquire(ctx, model.TriggerWeekly) {
		return
	}
	defer s.release(model.TriggerWeekly)

	s.digest.Dispatch(ctx)
}

func (s *Scheduler) acquire(ctx context.Context, trigger string) bool {
	if s.locks == nil {
		return true
	}

	acquired, err := s.locks.AcquireLock(ctx, trigger, s.instanceID, s.lockTTL)
	if err != nil {
		slog.Error("Failed to acquire run lock",
			"trigger", trigger,
			"instance_id", s.instanceID,
			"error", err.Error(),
		)
		return false
	}
	if !acquired {
		slog.Info("Run lock held by another instance, skipping",
			"trigger", trigger,
			"instance_id", s.instanceID,
		)
		return false
	}
	return true
}

func (s *Scheduler) release(trigger string) {
	if s.locks == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.locks.ReleaseLock(ctx, trigger, s.instanceID); err != nil {
		slog.Error("Failed to release run lock",
			"trigger", trigger,
			"instance_id", s.instanceID,
			"error", err.Error(),
		)
	}
}

// mustSchedule registers a cron entry. The expressions are compile-time
// constants, so a parse failure is a programming error.
func mustSchedule(c *cron.Cron, expr string, fn func()) {
	if _, err := c.AddFunc(expr, fn); err != nil {
		panic(fmt.Sprintf("invalid cron expression %q: %v", expr, err))
	}
}
