// ABOUTME: Tests for the timer-backed tick scheduler
// ABOUTME: Tests tick delivery, timestamps, and cancellation
package frameclock

import (
	"testing"
	"time"
)

func TestTickSchedulerFires(t *testing.T) {
	s := NewTickScheduler(time.Millisecond)
	defer s.Stop()

	fired := make(chan float64, 1)
	s.RequestTick(func(ts float64) { fired <- ts })

	select {
	case ts := <-fired:
		if ts < 0 {
			t.Errorf("expected non-negative timestamp, got %f", ts)
		}
	case <-time.After(time.Second):
		t.Fatal("tick never fired")
	}
}

func TestTickSchedulerTimestampsIncrease(t *testing.T) {
	s := NewTickScheduler(time.Millisecond)
	defer s.Stop()

	fired := make(chan float64, 2)
	s.RequestTick(func(ts float64) {
		fired <- ts
		s.RequestTick(func(ts2 float64) { fired <- ts2 })
	})

	var first, second float64
	select {
	case first = <-fired:
	case <-time.After(time.Second):
		t.Fatal("first tick never fired")
	}
	select {
	case second = <-fired:
	case <-time.After(time.Second):
		t.Fatal("second tick never fired")
	}

	if second <= first {
		t.Errorf("timestamps not increasing: %f then %f", first, second)
	}
}

func TestTickSchedulerCancel(t *testing.T) {
	s := NewTickScheduler(10 * time.Millisecond)
	defer s.Stop()

	fired := make(chan struct{}, 1)
	h := s.RequestTick(func(float64) { fired <- struct{}{} })
	s.CancelTick(h)

	select {
	case <-fired:
		t.Error("cancelled tick fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTickSchedulerCancelUnknownHandle(t *testing.T) {
	s := NewTickScheduler(time.Millisecond)
	defer s.Stop()

	// Must not panic
	s.CancelTick(Handle(9999))
}

func TestTickSchedulerDefaultInterval(t *testing.T) {
	s := NewTickScheduler(0)
	defer s.Stop()

	if s.interval != DefaultTickInterval {
		t.Errorf("expected default interval %v, got %v", DefaultTickInterval, s.interval)
	}
}
