// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes a whole MP3 file to int32 samples
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/waveplay/waveplay-go/pkg/audio"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// Decode converts MP3 bytes to a decoded asset
func (d *MP3Decoder) Decode(data []byte) (*audio.Asset, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	// go-mp3 always outputs 16-bit little-endian stereo
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := len(pcm) / 2
	samples := make([]int32, numSamples)
	for i := 0; i < numSamples; i++ {
		sample16 := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = audio.SampleFromInt16(sample16)
	}

	return audio.NewAsset(samples, audio.Format{
		Codec:      "mp3",
		SampleRate: dec.SampleRate(),
		Channels:   2,
		BitDepth:   16,
	})
}
