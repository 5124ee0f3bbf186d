// ABOUTME: Waveform peak extraction
// ABOUTME: Downsamples an asset into per-bucket peak amplitudes for display
package audio

// Peaks reduces an asset to per-bucket peak amplitudes in [0, 1],
// suitable for rendering a waveform outline. Buckets are equal spans
// of frames; the peak is the largest absolute sample across all
// channels in the span.
func Peaks(a *Asset, buckets int) []float64 {
	if a == nil || buckets <= 0 {
		return nil
	}

	frames := a.Frames()
	peaks := make([]float64, buckets)
	if frames == 0 {
		return peaks
	}

	channels := a.Format.Channels
	framesPerBucket := frames / buckets
	if framesPerBucket == 0 {
		framesPerBucket = 1
	}

	for b := 0; b < buckets; b++ {
		start := b * framesPerBucket
		end := start + framesPerBucket
		if b == buckets-1 || end > frames {
			end = frames
		}
		if start >= frames {
			break
		}

		var peak int32
		for i := start * channels; i < end*channels; i++ {
			s := a.Samples[i]
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
		peaks[b] = float64(peak) / float64(Max24Bit)
	}

	return peaks
}
