// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes a whole FLAC file to int32 samples via mewkiz/flac
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/waveplay/waveplay-go/pkg/audio"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// Decode converts FLAC bytes to a decoded asset
func (d *FLACDecoder) Decode(data []byte) (*audio.Asset, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse flac stream: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	if channels <= 0 {
		return nil, fmt.Errorf("invalid flac channel count: %d", channels)
	}

	// Scale source bit depth into the 24-bit sample currency
	shift := 24 - int(info.BitsPerSample)

	var samples []int32
	if info.NSamples > 0 {
		samples = make([]int32, 0, int(info.NSamples)*channels)
	}

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame parse failed: %w", err)
		}

		if len(frame.Subframes) != channels {
			return nil, fmt.Errorf("flac frame has %d subframes, expected %d", len(frame.Subframes), channels)
		}

		blockSize := len(frame.Subframes[0].Samples)
		for i := 0; i < blockSize; i++ {
			for ch := 0; ch < channels; ch++ {
				s := frame.Subframes[ch].Samples[i]
				if shift >= 0 {
					samples = append(samples, s<<shift)
				} else {
					samples = append(samples, s>>(-shift))
				}
			}
		}
	}

	return audio.NewAsset(samples, audio.Format{
		Codec:      "flac",
		SampleRate: int(info.SampleRate),
		Channels:   channels,
		BitDepth:   int(info.BitsPerSample),
	})
}
