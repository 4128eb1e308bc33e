package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// fakeClock hands every timer request to the test, which decides when it
// fires.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits chan time.Duration
	fire  chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{
		now:   now,
		waits: make(chan time.Duration, 8),
		fire:  make(chan time.Time),
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.waits <- d
	return c.fire
}

// advance waits for the scheduler to arm a timer, moves the clock past it and
// fires it.
func (c *fakeClock) advance(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-c.waits:
		c.mu.Lock()
		c.now = c.now.Add(d)
		now := c.now
		c.mu.Unlock()
		c.fire <- now
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never armed a timer")
		return 0
	}
}

func (c *fakeClock) nextWait(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-c.waits:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never armed a timer")
		return 0
	}
}

func newTestScheduler(t *testing.T, at string, clock *fakeClock, task Task) *Scheduler {
	t.Helper()
	s, err := NewScheduler(at, task, WithClock(clock.Now, clock.After), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return s
}

func TestDailyExpr(t *testing.T) {
	tests := []struct {
		at      string
		want    string
		wantErr bool
	}{
		{at: "08:00", want: "0 8 * * *"},
		{at: "00:05", want: "5 0 * * *"},
		{at: "23:59", want: "59 23 * * *"},
		{at: "24:00", wantErr: true},
		{at: "8am", wantErr: true},
		{at: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.at, func(t *testing.T) {
			got, err := DailyExpr(tt.at)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSchedulerRejectsBadInput(t *testing.T) {
	_, err := NewScheduler("25:00", func(context.Context, time.Time) error { return nil })
	assert.Error(t, err)

	_, err = NewScheduler("08:00", nil)
	assert.Error(t, err)
}

func TestSchedulerNext(t *testing.T) {
	s, err := NewScheduler("08:00", func(context.Context, time.Time) error { return nil }, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	at := func(d, h, m, sec int) time.Time {
		return time.Date(2026, time.January, d, h, m, sec, 0, time.Local)
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "before today's slot", now: at(10, 7, 59, 59), want: at(10, 8, 0, 0)},
		{name: "exactly at the slot", now: at(10, 8, 0, 0), want: at(11, 8, 0, 0)},
		{name: "just after the slot", now: at(10, 8, 0, 1), want: at(11, 8, 0, 0)},
		{name: "late evening", now: at(10, 23, 30, 0), want: at(11, 8, 0, 0)},
		{name: "month rollover", now: at(31, 9, 0, 0), want: time.Date(2026, time.February, 1, 8, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Next(tt.now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestSchedulerFiresDaily(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock(time.Date(2026, time.January, 10, 7, 59, 30, 0, time.Local))
	ticks := make(chan time.Time, 4)
	s := newTestScheduler(t, "08:00", clock, func(_ context.Context, tick time.Time) error {
		ticks <- tick
		return nil
	})

	assert.Equal(t, StateIdle, s.State())
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, StateArmed, s.State())

	assert.Equal(t, 30*time.Second, clock.advance(t))
	first := <-ticks
	assert.Equal(t, 10, first.Day())
	assert.Equal(t, 8, first.Hour())

	assert.Equal(t, 24*time.Hour, clock.advance(t))
	second := <-ticks
	assert.Equal(t, 11, second.Day())
	assert.Equal(t, 8, second.Hour())

	assert.Equal(t, 24*time.Hour, clock.nextWait(t))
	s.Stop()
	assert.Equal(t, StateArmed, s.State())
}

func TestSchedulerSurvivesFailingTask(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock(time.Date(2026, time.January, 10, 9, 0, 0, 0, time.Local))
	var mu sync.Mutex
	calls := 0
	s := newTestScheduler(t, "08:00", clock, func(context.Context, time.Time) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			panic("boom")
		}
		return errors.New("send failed")
	})

	require.NoError(t, s.Start(context.Background()))

	clock.advance(t)
	clock.advance(t)
	// the loop re-arms after a panic and after an error
	clock.nextWait(t)
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestSchedulerStartTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock(time.Date(2026, time.January, 10, 9, 0, 0, 0, time.Local))
	s := newTestScheduler(t, "08:00", clock, func(context.Context, time.Time) error { return nil })

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)

	clock.nextWait(t)
	s.Stop()
	s.Stop()
}

func TestSchedulerStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock(time.Date(2026, time.January, 10, 9, 0, 0, 0, time.Local))
	s := newTestScheduler(t, "08:00", clock, func(context.Context, time.Time) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	clock.nextWait(t)

	cancel()
	s.Stop()
}

func TestStopBeforeStart(t *testing.T) {
	s, err := NewScheduler("08:00", func(context.Context, time.Time) error { return nil }, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	s.Stop()
	assert.Equal(t, StateIdle, s.State())
}
