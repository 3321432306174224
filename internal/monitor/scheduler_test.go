package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-ing/pricehawk/internal/model"
)

type schedulerFixture struct {
	*executorFixture
	locker    *fakeLocker
	scheduler *Scheduler
}

func newSchedulerFixture(candidates ...model.CheckCandidate) *schedulerFixture {
	ef := newExecutorFixture(candidates...)
	locker := &fakeLocker{}
	digest := NewDigestDispatcher(ef.buffer, ef.accounts, ef.products, ef.notifier)

	return &schedulerFixture{
		executorFixture: ef,
		locker:          locker,
		scheduler:       NewScheduler(ef.executor, digest, locker, 15*time.Minute, time.Minute),
	}
}

func TestSchedulerStartAndStop(t *testing.T) {
	f := newSchedulerFixture()
	defer f.scheduler.Stop()

	assert.False(t, f.scheduler.IsRunning())

	result := f.scheduler.Start(Options{HourlyLimit: 25, DailyLimit: 500, EnableNotifications: true})
	assert.True(t, result.IsRunning)
	assert.Equal(t, 25, result.Options.HourlyLimit)
	assert.Equal(t, 500, result.Options.DailyLimit)
	assert.True(t, f.scheduler.IsRunning())

	f.scheduler.Stop()
	assert.False(t, f.scheduler.IsRunning())
}

func TestSchedulerStartIsIdempotent(t *testing.T) {
	f := newSchedulerFixture()
	defer f.scheduler.Stop()

	first := f.scheduler.Start(Options{HourlyLimit: 25, DailyLimit: 500, EnableNotifications: true})
	require.True(t, first.IsRunning)

	// A second start keeps the original options
	second := f.scheduler.Start(Options{HourlyLimit: 99, DailyLimit: 9999})
	assert.True(t, second.IsRunning)
	assert.Equal(t, 25, second.Options.HourlyLimit)
	assert.Equal(t, 500, second.Options.DailyLimit)
}

func TestSchedulerStartAppliesDefaults(t *testing.T) {
	f := newSchedulerFixture()
	defer f.scheduler.Stop()

	result := f.scheduler.Start(Options{EnableNotifications: true})
	assert.Equal(t, DefaultHourlyLimit, result.Options.HourlyLimit)
	assert.Equal(t, DefaultDailyLimit, result.Options.DailyLimit)
}

func TestSchedulerStopWhenIdle(t *testing.T) {
	f := newSchedulerFixture()

	// Stopping an idle scheduler must not panic or change state
	f.scheduler.Stop()
	assert.False(t, f.scheduler.IsRunning())
}

func TestSchedulerStatus(t *testing.T) {
	f := newSchedulerFixture()
	defer f.scheduler.Stop()

	status := f.scheduler.Status()
	assert.False(t, status.IsRunning)
	assert.Nil(t, status.Options)

	f.scheduler.Start(DefaultOptions())
	f.buffer.Append(model.ChangeRecord{ProductID: "p1"})

	status = f.scheduler.Status()
	assert.True(t, status.IsRunning)
	require.NotNil(t, status.Options)
	assert.Equal(t, DefaultHourlyLimit, status.Options.HourlyLimit)
	assert.Equal(t, 1, status.BufferedChanges)
}

func TestManualCheckDefaultsLimit(t *testing.T) {
	candidates := make([]model.CheckCandidate, 15)
	for i := range candidates {
		candidates[i] = testCandidate(string(rune('a'+i)), 100)
	}
	f := newSchedulerFixture(candidates...)
	for _, c := range candidates {
		f.checker.script(c.ProductID, testResult(100))
	}

	summary := f.scheduler.ManualCheck(context.Background(), "", 0, true, true)

	// A non-positive limit falls back to the manual default of 10
	assert.Equal(t, DefaultManualLimit, summary.CandidatesChecked+summary.Failures)
}

func TestManualCheckWorksWithoutStart(t *testing.T) {
	f := newSchedulerFixture(testCandidate("p1", 100))
	f.checker.script("p1", testResult(90))

	require.False(t, f.scheduler.IsRunning())

	summary := f.scheduler.ManualCheck(context.Background(), "", 10, true, true)
	assert.Equal(t, 1, summary.CandidatesChecked)
	assert.Equal(t, 1, summary.Changes)

	// Manual checks never take the distributed lock
	assert.Empty(t, f.locker.acquired)
}

func TestScheduledRunTakesLock(t *testing.T) {
	f := newSchedulerFixture(testCandidate("p1", 100))
	f.checker.script("p1", testResult(100))
	f.scheduler.options = DefaultOptions()

	f.scheduler.runScheduled(model.TriggerHourly, 50)

	assert.Equal(t, []string{model.TriggerHourly}, f.locker.acquired)
	assert.Equal(t, []string{model.TriggerHourly}, f.locker.released)
	require.Len(t, f.runs.records, 1)
	assert.Equal(t, model.TriggerHourly, f.runs.records[0].Trigger)
}

func TestScheduledRunSkipsWhenLockDenied(t *testing.T) {
	f := newSchedulerFixture(testCandidate("p1", 100))
	f.locker.denied = true

	f.scheduler.runScheduled(model.TriggerHourly, 50)

	assert.Equal(t, 0, f.products.findCalls)
	assert.Empty(t, f.runs.records)
	assert.Empty(t, f.locker.released)
}

func TestScheduledDigestDrainsBuffer(t *testing.T) {
	f := newSchedulerFixture()
	f.buffer.Append(model.ChangeRecord{ProductID: "p1", OwnerID: "u1"})

	f.scheduler.runDigest()

	assert.Equal(t, []string{model.TriggerWeekly}, f.locker.acquired)
	assert.Equal(t, 0, f.buffer.Len())
}
