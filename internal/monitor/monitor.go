package monitor

import (
	"context"
	"time"

	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/noah-ing/pricehawk/internal/telemetry"
)

// Retry policy for failed candidates. The delay is constant across attempts;
// gateway notification delivery uses exponential backoff instead, the two
// policies are intentionally different.
const (
	MaxRetryAttempts = 3
	RetryDelay       = 5000 * time.Millisecond
)

// Default run limits
const (
	DefaultHourlyLimit = 50
	DefaultDailyLimit  = 1000
	DefaultManualLimit = 10
)

// Cron expressions for the recurring triggers. Operational tooling depends on
// these exact firing times; do not adjust without migrating the fleet.
const (
	scheduleHourly = "0 * * * *" // top of every hour
	scheduleDaily  = "0 2 * * *" // 02:00 every day
	scheduleWeekly = "0 9 * * 0" // 09:00 every Sunday
)

// Options configure a monitoring session. Captured at Start time; scheduled
// runs use them until Stop.
type Options struct {
	HourlyLimit         int  `json:"hourly_limit"`
	DailyLimit          int  `json:"daily_limit"`
	EnableNotifications bool `json:"enable_notifications"`
}

// DefaultOptions returns the standard monitoring options
func DefaultOptions() Options {
	return Options{
		HourlyLimit:         DefaultHourlyLimit,
		DailyLimit:          DefaultDailyLimit,
		EnableNotifications: true,
	}
}

// applyDefaults fills zero-valued limits
func (o *Options) applyDefaults() {
	if o.HourlyLimit <= 0 {
		o.HourlyLimit = DefaultHourlyLimit
	}
	if o.DailyLimit <= 0 {
		o.DailyLimit = DefaultDailyLimit
	}
}

// ProductSource supplies due candidates and product ownership data
type ProductSource interface {
	FindDueForCheck(ctx context.Context, limit int) ([]model.CheckCandidate, error)
	UpdatePrice(ctx context.Context, productID string, price model.Price, checkedAt time.Time) error
	FindIDsByUserID(ctx context.Context, userID string) ([]string, error)
}

// AccountSource supplies accounts for escalation and digest partitioning
type AccountSource interface {
	FindAdmins(ctx context.Context) ([]model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
}

// Checker fetches current prices. CheckAll is positional: results[i] belongs
// to candidates[i] and nil means the check failed.
type Checker interface {
	Check(ctx context.Context, candidate model.CheckCandidate) (*model.PriceResult, error)
	CheckAll(ctx context.Context, candidates []model.CheckCandidate) []*model.PriceResult
}

// Notifier delivers one notification to one recipient, best-effort
type Notifier interface {
	Send(ctx context.Context, kind string, recipient model.User, data map[string]interface{}) error
}

// Telemetry records monitoring events, fire-and-forget
type Telemetry interface {
	TrackResult(ctx context.Context, event telemetry.ResultEvent)
	TrackChange(ctx context.Context, event telemetry.ChangeEvent)
}

// HistorySink stores historical price points
type HistorySink interface {
	Append(ctx context.Context, productID string, price model.Price, currency string, recordedAt time.Time) error
}

// RunSink persists completed run records
type RunSink interface {
	Create(ctx context.Context, record *model.RunRecord) error
}

// RunLocker coordinates scheduled runs across instances
type RunLocker interface {
	AcquireLock(ctx context.Context, trigger, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, trigger, instanceID string) error
}
