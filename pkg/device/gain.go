// ABOUTME: Software gain stage with ramped level changes
// ABOUTME: Applies a per-frame linear ramp with 24-bit clamping
package device

import (
	"sync"

	"github.com/waveplay/waveplay-go/pkg/audio"
)

// Gain is a software gain stage. Level changes ramp linearly over the
// requested duration, stepped per frame as samples flow through scale.
type Gain struct {
	mu         sync.Mutex
	sampleRate int
	level      float64 // currently applied multiplier
	target     float64
	step       float64 // per-frame increment while ramping
	rampFrames int     // frames left in the current ramp
	closed     bool
}

// NewGain creates a gain stage at full level
func NewGain(sampleRate int) *Gain {
	return &Gain{
		sampleRate: sampleRate,
		level:      1.0,
		target:     1.0,
	}
}

// SetLevel ramps the gain to level over rampSeconds. Levels are
// clamped to [0, 1]; a non-positive ramp applies immediately.
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
	if rampSeconds <= 0 {
		g.level = level
		g.rampFrames = 0
		return
	}

	frames := int(rampSeconds * float64(g.sampleRate))
	if frames < 1 {
		frames = 1
	}
	g.rampFrames = frames
	g.step = (g.target - g.level) / float64(frames)
}

// Level reports the current ramp target
func (g *Gain) Level() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.target
}

// Close releases the stage
func (g *Gain) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}

// scale applies the gain in place to interleaved frames, advancing the
// ramp one step per frame
func (g *Gain) scale(samples []int32, channels int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if channels <= 0 {
		return
	}

	frames := len(samples) / channels
	for f := 0; f < frames; f++ {
		if g.rampFrames > 0 {
			g.level += g.step
			g.rampFrames--
			if g.rampFrames == 0 {
				g.level = g.target
			}
		}
		for ch := 0; ch < channels; ch++ {
			i := f*channels + ch
			scaled := int64(float64(samples[i]) * g.level)
			samples[i] = audio.Clamp24Bit(scaled)
		}
	}
}
