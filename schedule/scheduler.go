package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const minDelay = time.Millisecond

// ResetFunc performs one automatic reset.
type ResetFunc func(ctx context.Context) error

// Scheduler runs a ResetFunc at every boundary. It is a single-shot timer that
// re-arms itself after each run, so the next delay is always recomputed from
// the current wall clock.
type Scheduler struct {
	reset ResetFunc
	log   zerolog.Logger

	// Now and Next are replaceable for tests.
	Now  func() time.Time
	Next func(time.Time) time.Time

	mu      sync.Mutex
	timer   *time.Timer
	ctx     context.Context
	stopped bool
	nextAt  time.Time
}

func NewScheduler(boundary Daily, reset ResetFunc, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		reset: reset,
		log:   log.With().Str("component", "reset-scheduler").Logger(),
		Now:   time.Now,
		Next:  boundary.Next,
	}
}

// Start arms the first run. The scheduler stops when ctx is done or Stop is
// called, whichever comes first.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.stopped = false
	s.armLocked()
	s.mu.Unlock()

	context.AfterFunc(ctx, s.Stop)
}

// Stop cancels the pending run. A run already in progress finishes but does
// not re-arm.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.log.Info().Msg("reset scheduler stopped")
}

// NextRun reports when the pending run fires. ok is false when nothing is armed.
func (s *Scheduler) NextRun() (at time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.timer == nil {
		return time.Time{}, false
	}
	return s.nextAt, true
}

func (s *Scheduler) armLocked() {
	now := s.Now()
	next := s.Next(now)
	delay := next.Sub(now)
	if delay < minDelay {
		delay = minDelay
	}
	s.nextAt = next
	s.timer = time.AfterFunc(delay, s.fire)
	s.log.Info().Time("next_run", next).Dur("delay", delay).Msg("reset scheduled")
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.mu.Unlock()

	if err := s.runSafely(ctx); err != nil {
		s.log.Error().Stack().Err(err).Msg("automatic reset failed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.armLocked()
}

func (s *Scheduler) runSafely(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reset panicked: %v", r)
		}
	}()
	return s.reset(ctx)
}
