package scheduler

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled callback from firing. Calling it after the
// callback ran is a no-op.
type CancelFunc func()

// Scheduler runs a callback once at or after an absolute time. Callbacks fire
// on their own goroutine and are expected to re-enter the engine through the
// same locked operations request handlers use.
type Scheduler interface {
	ScheduleAt(t time.Time, fn func()) CancelFunc
}

// TimerScheduler is the production Scheduler, backed by time.AfterFunc.
type TimerScheduler struct{}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) ScheduleAt(t time.Time, fn func()) CancelFunc {
	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}

// ManualScheduler collects scheduled callbacks and fires them only when the
// test advances the clock. It keeps arrival order for entries with equal
// fire times.
type ManualScheduler struct {
	mu      sync.Mutex
	entries []*manualEntry
}

type manualEntry struct {
	at        time.Time
	fn        func()
	cancelled bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) ScheduleAt(t time.Time, fn func()) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &manualEntry{at: t, fn: fn}
	s.entries = append(s.entries, e)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		e.cancelled = true
	}
}

// Advance fires every pending callback due at or before now, synchronously.
func (s *ManualScheduler) Advance(now time.Time) {
	s.mu.Lock()
	var due []func()
	var rest []*manualEntry
	for _, e := range s.entries {
		if e.cancelled {
			continue
		}
		if !e.at.After(now) {
			due = append(due, e.fn)
		} else {
			rest = append(rest, e)
		}
	}
	s.entries = rest
	s.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Pending reports how many callbacks are still scheduled.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if !e.cancelled {
			n++
		}
	}
	return n
}
