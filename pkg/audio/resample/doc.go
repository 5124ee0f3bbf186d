// ABOUTME: Linear resampling package
// ABOUTME: Converts decoded audio between sample rates
// Package resample converts interleaved PCM between sample rates using
// linear interpolation. Quality is adequate for playback; waveplay uses
// it to match an asset's rate to the output device's fixed rate.
package resample
