// Package broadcast runs the daily calendar post: a cron-driven scheduler
// and a dispatcher that fans the digest out to every target channel.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/config"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

// Task is run once per scheduled tick with the tick's wall-clock time.
type Task func(ctx context.Context, tick time.Time) error

// State of a Scheduler. The only transition is Idle → Armed.
type State int

const (
	StateIdle State = iota
	StateArmed
)

func (s State) String() string {
	if s == StateArmed {
		return "armed"
	}
	return "idle"
}

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock and timer. Tests use it to drive ticks.
func WithClock(now func() time.Time, after func(time.Duration) <-chan time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
		s.after = after
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// Scheduler fires a task every day at a fixed local time.
type Scheduler struct {
	expr  string
	task  Task
	now   func() time.Time
	after func(time.Duration) <-chan time.Time
	log   *zap.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler builds a scheduler that runs task daily at "HH:MM" local time.
func NewScheduler(at string, task Task, opts ...Option) (*Scheduler, error) {
	if task == nil {
		return nil, errors.New("scheduler task is nil")
	}
	expr, err := DailyExpr(at)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		expr:  expr,
		task:  task,
		now:   time.Now,
		after: time.After,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("scheduler")
	}
	return s, nil
}

// DailyExpr converts "HH:MM" into a five-field cron expression.
func DailyExpr(at string) (string, error) {
	hour, minute, err := config.ParseClock(at)
	if err != nil {
		return "", err
	}
	expr := fmt.Sprintf("%d %d * * *", minute, hour)
	if !gronx.New().IsValid(expr) {
		return "", fmt.Errorf("invalid cron expression %q", expr)
	}
	return expr, nil
}

// Expr returns the cron expression the scheduler fires on.
func (s *Scheduler) Expr() string {
	return s.expr
}

// State reports whether the scheduler has been started.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Next returns the first tick strictly after now.
func (s *Scheduler) Next(now time.Time) (time.Time, error) {
	ref := now.Truncate(time.Minute).Add(time.Minute)
	return gronx.NextTickAfter(s.expr, ref, true)
}

// Start arms the scheduler. The loop runs until ctx is cancelled or Stop is
// called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = StateArmed

	go s.loop(ctx)

	s.log.Info("Scheduler armed", zap.String("expr", s.expr))
	return nil
}

// Stop cancels the loop and waits for an in-flight task to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	for {
		now := s.now()
		next, err := s.Next(now)
		if err != nil {
			s.log.Error("Failed to compute next tick", zap.String("expr", s.expr), zap.Error(err))
			return
		}
		s.log.Info("Next daily post scheduled", zap.Time("at", next))

		select {
		case <-ctx.Done():
			return
		case <-s.after(next.Sub(now)):
		}

		s.fire(ctx, next)
	}
}

func (s *Scheduler) fire(ctx context.Context, tick time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Scheduled task panicked", zap.Time("tick", tick), zap.Any("panic", r))
		}
	}()

	if err := s.task(ctx, tick); err != nil {
		s.log.Error("Scheduled task failed", zap.Time("tick", tick), zap.Error(err))
	}
}
