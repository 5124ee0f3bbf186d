// ABOUTME: Tick loop sampling transport position at two cadences
// ABOUTME: Uniform, throttled, and dual fan-out with total cancellation
package frameclock

import (
	"sync"
	"time"
)

// DefaultSlowInterval is the default throttle for render-triggering
// consumers
const DefaultSlowInterval = 100 * time.Millisecond

// Transport is the engine surface the clock samples. It must never be
// computed by consumers themselves; the clock is the only poller.
type Transport interface {
	Position() float64
	Duration() float64
	IsPlaying() bool
}

// Consumer receives a sampled position in seconds
type Consumer func(position float64)

// CancelFunc stops a running loop. No consumer fires after it returns,
// even if a tick was already pending in the scheduler.
type CancelFunc func()

// Start runs a uniform loop: fast is invoked once per scheduler tick
// with the sampled position, until playback stops or the loop is
// cancelled.
func Start(tr Transport, sched Scheduler, fast Consumer) CancelFunc {
	return startLoop(tr, sched, 0, fast, nil)
}

// StartThrottled runs a throttled loop: slow is invoked at most once
// per interval, measured against scheduler tick timestamps. A
// non-positive interval falls back to DefaultSlowInterval.
func StartThrottled(tr Transport, sched Scheduler, interval time.Duration, slow Consumer) CancelFunc {
	return startLoop(tr, sched, interval, nil, slow)
}

// StartDual runs both cadences off one sampled value per tick: fast
// every tick, slow at most once per interval. Fast always observes the
// sample before slow on ticks where both fire.
func StartDual(tr Transport, sched Scheduler, interval time.Duration, fast, slow Consumer) CancelFunc {
	return startLoop(tr, sched, interval, fast, slow)
}

type loop struct {
	mu    sync.Mutex
	tr    Transport
	sched Scheduler
	fast  Consumer
	slow  Consumer

	interval float64 // seconds between slow deliveries
	lastSlow float64
	haveSlow bool

	running bool
	handle  Handle
}

func startLoop(tr Transport, sched Scheduler, interval time.Duration, fast, slow Consumer) CancelFunc {
	if interval <= 0 {
		interval = DefaultSlowInterval
	}

	l := &loop{
		tr:       tr,
		sched:    sched,
		fast:     fast,
		slow:     slow,
		interval: interval.Seconds(),
	}

	l.mu.Lock()
	l.running = true
	l.handle = sched.RequestTick(l.tick)
	l.mu.Unlock()

	return l.cancel
}

// tick samples the transport once and fans out. Holding the lock for
// the whole tick is what makes cancellation total: a tick already
// dispatched by the scheduler blocks here until cancel releases the
// lock, then sees running=false and delivers nothing.
func (l *loop) tick(timestamp float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}

	pos := l.tr.Position()
	if d := l.tr.Duration(); pos > d {
		pos = d
	}

	if l.fast != nil {
		l.fast(pos)
	}

	if l.slow != nil {
		if !l.haveSlow || timestamp-l.lastSlow >= l.interval {
			l.slow(pos)
			l.lastSlow = timestamp
			l.haveSlow = true
		}
	}

	// Self-terminate once playback stops; the final sample above has
	// already been delivered
	if !l.tr.IsPlaying() {
		l.running = false
		return
	}

	l.handle = l.sched.RequestTick(l.tick)
}

func (l *loop) cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false
	l.sched.CancelTick(l.handle)
}
