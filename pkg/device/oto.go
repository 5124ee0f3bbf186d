// ABOUTME: Oto-backed output device
// ABOUTME: Plays assets through oto with software gain and end detection
package device

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/waveplay/waveplay-go/pkg/audio"
	"github.com/waveplay/waveplay-go/pkg/audio/resample"
)

// endPollInterval is how often a connection checks whether the oto
// player has drained
const endPollInterval = 50 * time.Millisecond

// OtoDevice is the production output device. oto allows only one
// context per process, so the device is created once and assets in
// other formats are converted to the context format on connection.
type OtoDevice struct {
	otoCtx     *oto.Context
	sampleRate int
	channels   int
	start      time.Time
}

// NewOto opens the audio output at the given format
func NewOto(sampleRate, channels int) (*OtoDevice, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	log.Printf("Audio output initialized: %dHz, %d channels", sampleRate, channels)

	return &OtoDevice{
		otoCtx:     ctx,
		sampleRate: sampleRate,
		channels:   channels,
		start:      time.Now(),
	}, nil
}

// ClockNow returns monotonic seconds since the device was opened
func (d *OtoDevice) ClockNow() float64 {
	return time.Since(d.start).Seconds()
}

// ResumeIfSuspended wakes the oto context
func (d *OtoDevice) ResumeIfSuspended() error {
	if err := d.otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume audio context: %w", err)
	}
	return nil
}

// Suspend pauses the whole context (used on shutdown)
func (d *OtoDevice) Suspend() error {
	return d.otoCtx.Suspend()
}

// NewGainStage creates a software gain stage at the device rate
func (d *OtoDevice) NewGainStage() GainStage {
	return NewGain(d.sampleRate)
}

// NewConnection converts the asset to the context format and prepares
// a playable connection routed through gain
func (d *OtoDevice) NewConnection(asset *audio.Asset, gain GainStage) (Connection, error) {
	g, ok := gain.(*Gain)
	if !ok {
		return nil, fmt.Errorf("gain stage %T is not an oto gain stage", gain)
	}

	samples := asset.Samples
	if asset.Format.Channels != d.channels {
		samples = remapChannels(samples, asset.Format.Channels, d.channels)
	}
	if asset.Format.SampleRate != d.sampleRate {
		samples = resample.Apply(samples, d.channels, asset.Format.SampleRate, d.sampleRate)
	}

	return &otoConnection{
		dev:     d,
		gain:    g,
		samples: samples,
		done:    make(chan struct{}),
	}, nil
}

// otoConnection plays one asset segment through an oto player
type otoConnection struct {
	dev     *OtoDevice
	gain    *Gain
	samples []int32
	onEnd   func()

	mu       sync.Mutex
	player   *oto.Player
	done     chan struct{}
	stopOnce sync.Once
}

// OnNaturalEnd registers the end-of-asset callback
func (c *otoConnection) OnNaturalEnd(fn func()) {
	c.onEnd = fn
}

// Start begins playback at the given offset
func (c *otoConnection) Start(offsetSeconds float64) {
	frame := int(offsetSeconds * float64(c.dev.sampleRate))
	totalFrames := len(c.samples) / c.dev.channels
	if frame < 0 {
		frame = 0
	}
	if frame > totalFrames {
		frame = totalFrames
	}

	reader := &gainReader{
		gain:     c.gain,
		channels: c.dev.channels,
		samples:  c.samples[frame*c.dev.channels:],
	}

	c.mu.Lock()
	c.player = c.dev.otoCtx.NewPlayer(reader)
	c.player.Play()
	c.mu.Unlock()

	go c.watchEnd()
}

// Stop tears the connection down. Double stops are expected during
// rapid transport changes and are swallowed.
func (c *otoConnection) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		player := c.player
		c.mu.Unlock()
		if player != nil {
			if err := player.Close(); err != nil {
				log.Printf("Player close: %v", err)
			}
		}
	})
}

// watchEnd polls the player until the buffer drains, then fires the
// natural-end callback unless the connection was stopped first
func (c *otoConnection) watchEnd() {
	ticker := time.NewTicker(endPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			playing := c.player != nil && c.player.IsPlaying()
			c.mu.Unlock()
			if !playing {
				select {
				case <-c.done:
					return
				default:
				}
				if c.onEnd != nil {
					c.onEnd()
				}
				return
			}
		}
	}
}

// gainReader feeds int32 samples through the gain stage and converts
// to the 16-bit little-endian stream oto consumes
type gainReader struct {
	gain     *Gain
	channels int
	samples  []int32
	scratch  []int32
}

func (r *gainReader) Read(p []byte) (int, error) {
	if len(r.samples) == 0 {
		return 0, io.EOF
	}

	// Whole frames only
	maxSamples := len(p) / 2
	maxSamples -= maxSamples % r.channels
	if maxSamples == 0 {
		return 0, nil
	}
	if maxSamples > len(r.samples) {
		maxSamples = len(r.samples)
	}

	if cap(r.scratch) < maxSamples {
		r.scratch = make([]int32, maxSamples)
	}
	chunk := r.scratch[:maxSamples]
	copy(chunk, r.samples[:maxSamples])
	r.samples = r.samples[maxSamples:]

	r.gain.scale(chunk, r.channels)

	for i, s := range chunk {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(audio.SampleToInt16(s)))
	}

	return maxSamples * 2, nil
}

// remapChannels converts between mono and stereo interleaving
func remapChannels(samples []int32, from, to int) []int32 {
	if from == to || from <= 0 || to <= 0 {
		return samples
	}

	frames := len(samples) / from
	out := make([]int32, frames*to)

	for f := 0; f < frames; f++ {
		switch {
		case from == 1:
			// Duplicate mono into every output channel
			for ch := 0; ch < to; ch++ {
				out[f*to+ch] = samples[f]
			}
		case to == 1:
			// Average down to mono
			var sum int64
			for ch := 0; ch < from; ch++ {
				sum += int64(samples[f*from+ch])
			}
			out[f] = int32(sum / int64(from))
		default:
			// Copy what fits, repeat the last source channel
			for ch := 0; ch < to; ch++ {
				src := ch
				if src >= from {
					src = from - 1
				}
				out[f*to+ch] = samples[f*from+src]
			}
		}
	}

	return out
}
