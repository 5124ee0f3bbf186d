// ABOUTME: Scheduling primitive boundary and timer-backed implementation
// ABOUTME: One-shot tick requests at a display-refresh cadence
package frameclock

import (
	"sync"
	"time"
)

// DefaultTickInterval approximates a 60Hz display refresh
const DefaultTickInterval = time.Second / 60

// Handle identifies a pending tick request
type Handle uint64

// Scheduler is the host scheduling primitive: it invokes a callback
// once per tick with a monotonic timestamp in seconds, and can cancel
// a pending request.
type Scheduler interface {
	RequestTick(fn func(timestamp float64)) Handle
	CancelTick(h Handle)
}

// TickScheduler is the production Scheduler, firing each requested
// tick on a one-shot timer at a fixed frame interval
type TickScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	start    time.Time
	next     Handle
	timers   map[Handle]*time.Timer
}

// NewTickScheduler creates a scheduler; a non-positive interval falls
// back to DefaultTickInterval
func NewTickScheduler(interval time.Duration) *TickScheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickScheduler{
		interval: interval,
		start:    time.Now(),
		timers:   make(map[Handle]*time.Timer),
	}
}

// RequestTick schedules fn to run after one frame interval
func (s *TickScheduler) RequestTick(fn func(timestamp float64)) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	h := s.next

	s.timers[h] = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		delete(s.timers, h)
		s.mu.Unlock()
		fn(time.Since(s.start).Seconds())
	})

	return h
}

// CancelTick stops a pending request. Unknown or already-fired handles
// are ignored.
func (s *TickScheduler) CancelTick(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[h]; ok {
		t.Stop()
		delete(s.timers, h)
	}
}

// Stop cancels every pending request
func (s *TickScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for h, t := range s.timers {
		t.Stop()
		delete(s.timers, h)
	}
}
