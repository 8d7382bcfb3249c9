package arrivalwindow

import (
	"sync"
	"time"
)

// Scheduler runs one pending callback at a chosen time. It replaces a
// free-running interval: callers schedule the NextRecalculation instant
// reported by Evaluate and reschedule from inside the callback. The clock
// is injectable so tests can drive it without sleeping.
type Scheduler struct {
	now   func() time.Time
	after func(d time.Duration, fn func()) stopper

	mu      sync.Mutex
	pending stopper
}

type stopper interface {
	Stop() bool
}

// NewScheduler returns a Scheduler running on the real clock.
func NewScheduler() *Scheduler {
	return &Scheduler{
		now: time.Now,
		after: func(d time.Duration, fn func()) stopper {
			return time.AfterFunc(d, fn)
		},
	}
}

// Schedule arranges fn to run once at t, replacing any previously
// scheduled callback. A zero t cancels without scheduling anything. An
// instant already in the past fires immediately (asynchronously).
func (s *Scheduler) Schedule(t time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	if t.IsZero() {
		return
	}

	delay := t.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	s.pending = s.after(delay, fn)
}

// Stop cancels the pending callback, if any.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
