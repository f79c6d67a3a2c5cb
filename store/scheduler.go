package store

import (
	"sync"
	"time"
)

// Scheduler runs fn once after d has elapsed. The Store uses it for the
// delayed reconcile reads that follow an optimistic product mutation.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler runs each function on its own timer. Stop cancels every
// function that has not started yet.
type TimerScheduler struct {
	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[*time.Timer]struct{})}
}

// AfterFunc schedules fn. It is a no-op once the scheduler is stopped.
func (s *TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, t)
		stopped := s.stopped
		s.mu.Unlock()
		if !stopped {
			fn()
		}
	})
	s.timers[t] = struct{}{}
}

// Stop cancels all pending functions.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for t := range s.timers {
		t.Stop()
		delete(s.timers, t)
	}
}

// Pending reports how many functions are waiting to run.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Immediate runs every function inline, ignoring the delay.
type Immediate struct{}

func (Immediate) AfterFunc(_ time.Duration, fn func()) { fn() }
