// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines decoded assets, sample conversion, tone generation, peaks
// Package audio provides the core audio types for waveplay.
//
// The common sample currency is int32 in 24-bit range, interleaved by
// channel. Decoders normalize everything to this format so the device
// and engine layers never care about the source codec.
package audio
