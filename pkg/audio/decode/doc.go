// ABOUTME: Audio decoder package for multiple container support
// ABOUTME: Provides whole-file decoding for MP3, FLAC, Opus, and WAV
// Package decode turns encoded audio files into decoded assets.
//
// Supports: MP3, FLAC, Opus (ogg), WAV (16-bit and 24-bit PCM)
//
// All decoders output a complete *audio.Asset with int32 samples in
// 24-bit range. The container is detected from magic bytes, with the
// file extension as a fallback.
//
// Example:
//
//	asset, err := decode.File("track.flac")
package decode
