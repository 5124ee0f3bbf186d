// ABOUTME: Audio type definitions
// ABOUTME: Defines formats, decoded assets, and sample conversion helpers
package audio

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Asset is an immutably decoded audio buffer, ready for playback.
// Samples are interleaved int32 in 24-bit range. Assets are read-only
// after creation and may be shared across play/seek calls.
type Asset struct {
	ID      string  // unique per decode, used in logs
	Samples []int32 // interleaved PCM (int32 to support both 16-bit and 24-bit)
	Format  Format
}

// NewAsset wraps decoded samples in an Asset
func NewAsset(samples []int32, format Format) (*Asset, error) {
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", format.SampleRate)
	}
	if format.Channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels)
	}
	return &Asset{
		ID:      uuid.NewString(),
		Samples: samples,
		Format:  format,
	}, nil
}

// Frames returns the number of sample frames (one sample per channel)
func (a *Asset) Frames() int {
	if a.Format.Channels == 0 {
		return 0
	}
	return len(a.Samples) / a.Format.Channels
}

// Duration returns playback length in seconds, derived from frame count
func (a *Asset) Duration() float64 {
	if a.Format.SampleRate == 0 {
		return 0
	}
	return float64(a.Frames()) / float64(a.Format.SampleRate)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}

// Clamp24Bit clamps a scaled sample value into 24-bit range
func Clamp24Bit(v int64) int32 {
	if v > Max24Bit {
		return Max24Bit
	}
	if v < Min24Bit {
		return Min24Bit
	}
	return int32(v)
}
