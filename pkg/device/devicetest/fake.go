// ABOUTME: Fake output device for tests
// ABOUTME: Manual clock, recorded connections, deterministic natural end
// Package devicetest provides an in-memory device.Device with a
// manually advanced clock. Tests drive time with Advance, which also
// fires natural-end callbacks once a connection's asset would have
// played out.
package devicetest

import (
	"sync"

	"github.com/waveplay/waveplay-go/pkg/audio"
	"github.com/waveplay/waveplay-go/pkg/device"
)

// Device is a fake output device
type Device struct {
	mu      sync.Mutex
	now     float64
	resumes int
	conns   []*Conn
	gains   []*Gain

	// ResumeErr, when set, is returned from ResumeIfSuspended
	ResumeErr error

	// HoldEnd keeps natural-end callbacks pending during Advance so a
	// test can observe the state between "asset played out" and "end
	// notification delivered". FireEnds flushes them.
	HoldEnd bool
	pending []*Conn
}

// New creates a fake device with the clock at zero
func New() *Device {
	return &Device{}
}

// ClockNow returns the fake monotonic clock
func (d *Device) ClockNow() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// Advance moves the clock forward and fires natural-end callbacks for
// connections whose asset has played out
func (d *Device) Advance(seconds float64) {
	d.mu.Lock()
	d.now += seconds

	var ended []*Conn
	for _, c := range d.conns {
		if c.shouldEndLocked(d.now) {
			c.ended = true
			ended = append(ended, c)
		}
	}
	if d.HoldEnd {
		d.pending = append(d.pending, ended...)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	// Callbacks run unlocked so they can call back into the device
	for _, c := range ended {
		if c.endCb != nil {
			c.endCb()
		}
	}
}

// FireEnds delivers natural-end callbacks held back by HoldEnd
func (d *Device) FireEnds() {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, c := range pending {
		if c.endCb != nil {
			c.endCb()
		}
	}
}

// ResumeIfSuspended records the resume attempt
func (d *Device) ResumeIfSuspended() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resumes++
	return d.ResumeErr
}

// Resumes reports how many resume attempts were made
func (d *Device) Resumes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resumes
}

// NewGainStage creates a recording gain stage
func (d *Device) NewGainStage() device.GainStage {
	d.mu.Lock()
	defer d.mu.Unlock()
	g := &Gain{target: 1.0}
	d.gains = append(d.gains, g)
	return g
}

// NewConnection records and returns a fake connection
func (d *Device) NewConnection(asset *audio.Asset, gain device.GainStage) (device.Connection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := &Conn{dev: d, Asset: asset}
	d.conns = append(d.conns, c)
	return c, nil
}

// Conns returns every connection the device has handed out
func (d *Device) Conns() []*Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Conn, len(d.conns))
	copy(out, d.conns)
	return out
}

// LastConn returns the most recent connection, or nil
func (d *Device) LastConn() *Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

// LastGain returns the most recent gain stage, or nil
func (d *Device) LastGain() *Gain {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.gains) == 0 {
		return nil
	}
	return d.gains[len(d.gains)-1]
}

// Conn is a recorded fake connection
type Conn struct {
	dev   *Device
	Asset *audio.Asset

	Started   bool
	StartedAt float64 // clock reading at Start
	Offset    float64
	Stops     int
	ended     bool
	endCb     func()
}

// Start records the playback start
func (c *Conn) Start(offsetSeconds float64) {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	c.Started = true
	c.Offset = offsetSeconds
	c.StartedAt = c.dev.now
}

// Stop records the teardown; repeat stops are counted, not rejected
func (c *Conn) Stop() {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	c.Stops++
}

// OnNaturalEnd registers the end callback
func (c *Conn) OnNaturalEnd(fn func()) {
	c.endCb = fn
}

// FireEnd invokes the end callback unconditionally, simulating a
// device that delivers more end events than it promised
func (c *Conn) FireEnd() {
	if c.endCb != nil {
		c.endCb()
	}
}

// Ended reports whether the connection reached natural end
func (c *Conn) Ended() bool {
	c.dev.mu.Lock()
	defer c.dev.mu.Unlock()
	return c.ended
}

// shouldEndLocked reports whether the asset has played out at the
// given clock reading. Caller holds the device lock.
func (c *Conn) shouldEndLocked(now float64) bool {
	if !c.Started || c.Stops > 0 || c.ended || c.Asset == nil {
		return false
	}
	remaining := c.Asset.Duration() - c.Offset
	return now >= c.StartedAt+remaining
}

// Gain is a recording fake gain stage
type Gain struct {
	mu     sync.Mutex
	target float64
	Sets   []GainSet
	closed bool
}

// GainSet is one recorded SetLevel call
type GainSet struct {
	Level       float64
	RampSeconds float64
}

// SetLevel records the requested level and ramp
func (g *Gain) SetLevel(level, rampSeconds float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.target = level
	g.Sets = append(g.Sets, GainSet{Level: level, RampSeconds: rampSeconds})
}

// Level reports the last applied level
func (g *Gain) Level() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}

// Close marks the stage released
func (g *Gain) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}

// Closed reports whether Close was called
func (g *Gain) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}
