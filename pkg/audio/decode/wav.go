// ABOUTME: WAV audio decoder
// ABOUTME: Parses RIFF containers and decodes 16-bit and 24-bit PCM
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/waveplay/waveplay-go/pkg/audio"
)

// WAVDecoder decodes RIFF/WAVE PCM audio
type WAVDecoder struct{}

// Decode converts WAV bytes to a decoded asset
func (d *WAVDecoder) Decode(data []byte) (*audio.Asset, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		format   audio.Format
		haveFmt  bool
		pcmBytes []byte
	)

	// Walk the chunk list for fmt and data
	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("fmt chunk too short: %d bytes", chunkSize)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body:])
			if audioFormat != 1 {
				return nil, fmt.Errorf("unsupported wav encoding: %d (PCM only)", audioFormat)
			}
			format = audio.Format{
				Codec:      "wav",
				Channels:   int(binary.LittleEndian.Uint16(data[body+2:])),
				SampleRate: int(binary.LittleEndian.Uint32(data[body+4:])),
				BitDepth:   int(binary.LittleEndian.Uint16(data[body+14:])),
			}
			haveFmt = true
		case "data":
			pcmBytes = data[body : body+chunkSize]
		}

		// Chunks are word-aligned
		pos = body + chunkSize
		if chunkSize%2 == 1 {
			pos++
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if pcmBytes == nil {
		return nil, fmt.Errorf("missing data chunk")
	}

	samples, err := decodePCM(pcmBytes, format.BitDepth)
	if err != nil {
		return nil, err
	}

	return audio.NewAsset(samples, format)
}

// decodePCM converts raw little-endian PCM bytes to int32 samples
func decodePCM(data []byte, bitDepth int) ([]int32, error) {
	switch bitDepth {
	case 24:
		// 24-bit PCM: 3 bytes per sample
		numSamples := len(data) / 3
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.SampleFrom24Bit(b)
		}
		return samples, nil
	case 16:
		// 16-bit PCM: 2 bytes per sample
		numSamples := len(data) / 2
		samples := make([]int32, numSamples)
		for i := 0; i < numSamples; i++ {
			sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
			samples[i] = audio.SampleFromInt16(sample16)
		}
		return samples, nil
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}
}
