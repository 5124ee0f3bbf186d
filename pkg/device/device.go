// ABOUTME: Device boundary interfaces
// ABOUTME: Connection, gain stage, and clock contracts for playback
package device

import "github.com/waveplay/waveplay-go/pkg/audio"

// Device is the output device the playback engine drives. Exactly one
// connection is expected to be live at a time; the engine enforces
// teardown-before-start.
type Device interface {
	// NewConnection prepares a playable connection for the asset,
	// routed through the given gain stage.
	NewConnection(asset *audio.Asset, gain GainStage) (Connection, error)

	// NewGainStage creates the gain node assets are routed through
	NewGainStage() GainStage

	// ClockNow returns the monotonic output clock in seconds
	ClockNow() float64

	// ResumeIfSuspended wakes a suspended output. Issued before every
	// start; failures are recoverable and reported, never fatal.
	ResumeIfSuspended() error
}

// Connection is the live graph edge from an asset to the output sink
type Connection interface {
	// Start begins playback at the given offset into the asset
	Start(offsetSeconds float64)

	// Stop tears the connection down. Safe to call more than once.
	Stop()

	// OnNaturalEnd registers a callback fired once when the asset
	// plays to completion. Must be registered before Start.
	OnNaturalEnd(fn func())
}

// GainStage controls output level. Level changes are ramped over
// rampSeconds to avoid audible discontinuities.
type GainStage interface {
	// SetLevel ramps the gain to level (clamped to [0, 1])
	SetLevel(level, rampSeconds float64)

	// Level reports the current ramp target
	Level() float64

	// Close releases the stage; further SetLevel calls are ignored
	Close()
}
