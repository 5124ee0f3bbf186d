// ABOUTME: Playback engine with transport controls
// ABOUTME: Owns the audio connection, derives position from the device clock
package engine

import (
	"log"
	"sync"

	"github.com/waveplay/waveplay-go/pkg/audio"
	"github.com/waveplay/waveplay-go/pkg/device"
)

// volumeRampSeconds is the fixed gain ramp applied on volume changes;
// long enough to avoid clicks, short enough to feel immediate
const volumeRampSeconds = 0.010

// Engine is the playback transport. One live connection at most; a new
// play always tears down the previous one first. All methods are safe
// for concurrent use.
type Engine struct {
	mu   sync.Mutex
	dev  device.Device
	gain device.GainStage

	conn    device.Connection
	asset   *audio.Asset
	origin  float64 // device clock reading when the current segment began
	offset  float64 // position at which the current segment began
	playing bool
	paused  bool // frozen by Pause, as opposed to stopped
	volume  float64
	onEnded func()

	// gen rejects stale natural-end notifications: every teardown bumps
	// it, and a completion carrying an older value is discarded
	gen uint64

	disposed bool
}

// New creates an engine on the given device
func New(dev device.Device) *Engine {
	return &Engine{
		dev:    dev,
		gain:   dev.NewGainStage(),
		volume: 1.0,
	}
}

// Play starts or resumes playback from the current offset. Passing a
// new asset replaces the prior one; passing nil replays the cached
// asset. With no asset available at all this is a silent no-op.
func (e *Engine) Play(asset *audio.Asset) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return
	}

	if asset != nil && asset != e.asset {
		e.asset = asset
		log.Printf("Engine: asset %s loaded (%.2fs, %dHz, %dch)",
			asset.ID, asset.Duration(), asset.Format.SampleRate, asset.Format.Channels)
	}
	if e.asset == nil {
		return
	}

	e.startLocked()
}

// Pause freezes the position and releases the connection. No-op when
// not playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		return
	}

	e.offset = e.positionLocked()
	e.teardownLocked()
	e.playing = false
	e.paused = true
}

// Stop releases the connection without capturing the advanced
// position: the offset stays where the current segment began. Use
// Reset to also return to the start.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
	e.playing = false
	e.paused = false
}

// Seek repositions playback, clamping to the asset bounds. A non-nil
// asset is cached first, so Seek can be the initial load. If playback
// was active it resumes from the new offset; otherwise the position
// just moves. No-op when no asset was ever provided.
func (e *Engine) Seek(seconds float64, asset *audio.Asset) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return
	}

	if asset != nil {
		e.asset = asset
	}
	if e.asset == nil {
		return
	}

	if seconds < 0 {
		seconds = 0
	}
	if d := e.asset.Duration(); seconds > d {
		seconds = d
	}

	wasPlaying := e.playing
	if wasPlaying {
		e.teardownLocked()
		e.playing = false
	}

	e.offset = seconds

	if wasPlaying {
		e.startLocked()
	}
}

// Reset stops playback and returns the position to zero
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.teardownLocked()
	e.playing = false
	e.paused = false
	e.offset = 0
}

// SetVolume clamps to [0, 1] and ramps the gain stage to the new level
func (e *Engine) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return
	}

	e.volume = v
	e.gain.SetLevel(v, volumeRampSeconds)
}

// Volume returns the last requested volume
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Position returns the current playback position in seconds. Derived
// from the device clock while playing, frozen at the offset otherwise.
func (e *Engine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.positionLocked()
}

// Duration returns the cached asset's duration, or 0 with no asset
func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.asset == nil {
		return 0
	}
	return e.asset.Duration()
}

// IsPlaying reports whether position is advancing
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// IsPaused reports whether the position was frozen by Pause, as
// opposed to stopped or never started
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Status is a consistent transport snapshot, read in one lock hold
type Status struct {
	Position float64
	Duration float64
	Playing  bool
	Paused   bool
	Volume   float64
}

// Status samples position, duration, playing/paused state, and volume
// together, so the fields of one snapshot never disagree with each
// other the way separate accessor calls can.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	var d float64
	if e.asset != nil {
		d = e.asset.Duration()
	}

	return Status{
		Position: e.positionLocked(),
		Duration: d,
		Playing:  e.playing,
		Paused:   e.paused,
		Volume:   e.volume,
	}
}

// Asset returns the currently cached asset, or nil
func (e *Engine) Asset() *audio.Asset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.asset
}

// SetOnEnded registers the natural end-of-asset notifier, replacing
// any prior registration
func (e *Engine) SetOnEnded(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEnded = fn
}

// Dispose stops playback and releases the gain stage. Idempotent.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return
	}

	e.teardownLocked()
	e.playing = false
	e.paused = false
	e.gain.Close()
	e.disposed = true
}

// startLocked tears down any live connection and starts a new segment
// at the current offset. Caller holds the lock and has verified an
// asset is present.
func (e *Engine) startLocked() {
	e.teardownLocked()

	// Autoplay-gated outputs need a nudge; start optimistically either
	// way and let the device catch up
	if err := e.dev.ResumeIfSuspended(); err != nil {
		log.Printf("Engine: resume failed: %v", err)
	}

	if e.offset < 0 {
		e.offset = 0
	}
	if d := e.asset.Duration(); e.offset > d {
		e.offset = d
	}

	conn, err := e.dev.NewConnection(e.asset, e.gain)
	if err != nil {
		log.Printf("Engine: connection failed: %v", err)
		return
	}

	gen := e.gen
	conn.OnNaturalEnd(func() { e.handleNaturalEnd(gen) })
	conn.Start(e.offset)

	e.conn = conn
	e.origin = e.dev.ClockNow()
	e.playing = true
	e.paused = false
}

// teardownLocked stops and drops the live connection. Bumping the
// generation here is what invalidates any in-flight end notification
// from the old connection.
func (e *Engine) teardownLocked() {
	if e.conn == nil {
		return
	}
	e.gen++
	e.conn.Stop()
	e.conn = nil
}

// positionLocked derives the current position. Caller holds the lock.
func (e *Engine) positionLocked() float64 {
	if !e.playing || e.asset == nil {
		return e.offset
	}

	pos := e.offset + (e.dev.ClockNow() - e.origin)
	if pos < 0 {
		pos = 0
	}
	if d := e.asset.Duration(); pos > d {
		pos = d
	}
	return pos
}

// handleNaturalEnd processes an end-of-asset notification from the
// device. Notifications from a superseded connection are discarded.
func (e *Engine) handleNaturalEnd(gen uint64) {
	e.mu.Lock()
	if e.disposed || gen != e.gen || !e.playing {
		e.mu.Unlock()
		return
	}

	// Retire the ended connection's generation so nothing it emits
	// after this point can ever match again
	e.gen++
	e.conn = nil
	e.playing = false
	e.paused = false
	e.offset = 0
	cb := e.onEnded
	e.mu.Unlock()

	if cb != nil {
		cb()
	}
}
