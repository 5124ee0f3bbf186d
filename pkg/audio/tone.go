// ABOUTME: Sine test tone generator
// ABOUTME: Produces a fixed-duration tone asset for diagnostics and tests
package audio

import (
	"fmt"
	"math"
)

// Tone generates a sine wave asset at 50% amplitude. Useful when no
// audio file is at hand (waveplay -tone) and for exercising the
// playback path in tests.
func Tone(frequency float64, seconds float64, sampleRate, channels int) (*Asset, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("invalid tone frequency: %f", frequency)
	}
	if seconds <= 0 {
		return nil, fmt.Errorf("invalid tone duration: %f", seconds)
	}

	frames := int(seconds * float64(sampleRate))
	samples := make([]int32, frames*channels)

	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		v := math.Sin(2 * math.Pi * frequency * t)

		// 50% volume, scaled into 24-bit range
		sample := int32(v * float64(Max24Bit) * 0.5)
		for ch := 0; ch < channels; ch++ {
			samples[i*channels+ch] = sample
		}
	}

	return NewAsset(samples, Format{
		Codec:      "tone",
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   24,
	})
}
