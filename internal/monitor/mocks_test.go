package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/noah-ing/pricehawk/internal/telemetry"
)

type fakeProducts struct {
	mu sync.Mutex

	candidates []model.CheckCandidate
	findErr    error
	ownership  map[string][]string

	findCalls    int
	priceUpdates map[string]model.Price
}

func newFakeProducts(candidates ...model.CheckCandidate) *fakeProducts {
	return &fakeProducts{
		candidates:   candidates,
		ownership:    make(map[string][]string),
		priceUpdates: make(map[string]model.Price),
	}
}

func (f *fakeProducts) FindDueForCheck(ctx context.Context, limit int) ([]model.CheckCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if limit < len(f.candidates) {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

func (f *fakeProducts) UpdatePrice(ctx context.Context, productID string, price model.Price, checkedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceUpdates[productID] = price
	return nil
}

func (f *fakeProducts) FindIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ownership[userID], nil
}

type fakeAccounts struct {
	admins    []model.User
	users     []model.User
	adminsErr error
}

func (f *fakeAccounts) FindAdmins(ctx context.Context) ([]model.User, error) {
	if f.adminsErr != nil {
		return nil, f.adminsErr
	}
	return f.admins, nil
}

func (f *fakeAccounts) FindAll(ctx context.Context) ([]model.User, error) {
	return f.users, nil
}

// fakeChecker scripts per-product results. The first Check (or CheckAll slot)
// for a product consumes entry 0 of its script, the next consumes entry 1,
// and so on; a nil entry or an exhausted script means failure.
type fakeChecker struct {
	mu      sync.Mutex
	scripts map[string][]*model.PriceResult
	calls   map[string]int

	// When set, Check blocks until the channel is closed. Set before the
	// first Check and never changed afterwards.
	gate chan struct{}
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{
		scripts: make(map[string][]*model.PriceResult),
		calls:   make(map[string]int),
	}
}

func (f *fakeChecker) script(productID string, results ...*model.PriceResult) {
	f.scripts[productID] = results
}

func (f *fakeChecker) Check(ctx context.Context, candidate model.CheckCandidate) (*model.PriceResult, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.calls[candidate.ProductID]
	f.calls[candidate.ProductID] = n + 1

	script := f.scripts[candidate.ProductID]
	if n >= len(script) || script[n] == nil {
		return nil, context.DeadlineExceeded
	}
	return script[n], nil
}

func (f *fakeChecker) CheckAll(ctx context.Context, candidates []model.CheckCandidate) []*model.PriceResult {
	results := make([]*model.PriceResult, len(candidates))
	for i, candidate := range candidates {
		if result, err := f.Check(ctx, candidate); err == nil {
			results[i] = result
		}
	}
	return results
}

func (f *fakeChecker) checkCount(productID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[productID]
}

type sentNotification struct {
	Kind      string
	Recipient model.User
	Data      map[string]interface{}
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentNotification
	sendErr error
}

func (f *fakeNotifier) Send(ctx context.Context, kind string, recipient model.User, data map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{Kind: kind, Recipient: recipient, Data: data})
	return f.sendErr
}

func (f *fakeNotifier) sentKinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	kinds := make([]string, len(f.sent))
	for i, s := range f.sent {
		kinds[i] = s.Kind
	}
	return kinds
}

type fakeTelemetry struct {
	mu      sync.Mutex
	results []telemetry.ResultEvent
	changes []telemetry.ChangeEvent
}

func (f *fakeTelemetry) TrackResult(ctx context.Context, event telemetry.ResultEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, event)
}

func (f *fakeTelemetry) TrackChange(ctx context.Context, event telemetry.ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, event)
}

type fakeHistory struct {
	mu      sync.Mutex
	appends []string
}

func (f *fakeHistory) Append(ctx context.Context, productID string, price model.Price, currency string, recordedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends = append(f.appends, productID)
	return nil
}

type fakeRuns struct {
	mu      sync.Mutex
	records []*model.RunRecord
}

func (f *fakeRuns) Create(ctx context.Context, record *model.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	denied   bool
	acquired []string
	released []string
}

func (f *fakeLocker) AcquireLock(ctx context.Context, trigger, instanceID string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied {
		return false, nil
	}
	f.acquired = append(f.acquired, trigger)
	return true, nil
}

func (f *fakeLocker) ReleaseLock(ctx context.Context, trigger, instanceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, trigger)
	return nil
}
