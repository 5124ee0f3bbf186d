// ABOUTME: Opus audio decoder
// ABOUTME: Decodes ogg/opus files to int32 samples via libopusfile
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/waveplay/waveplay-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// Opus always decodes at 48kHz
const opusSampleRate = 48000

// OpusDecoder decodes ogg-encapsulated Opus audio
type OpusDecoder struct{}

// Decode converts ogg/opus bytes to a decoded asset
func (d *OpusDecoder) Decode(data []byte) (*audio.Asset, error) {
	// opusfile interleaves at the stream's native channel layout, so
	// the count must come from the OpusHead packet before decoding.
	channels, err := opusHeadChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	var samples []int32
	pcm16 := make([]int16, 5760*channels) // max opus frame

	for {
		n, err := stream.Read(pcm16)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		if n == 0 {
			break
		}

		// n is samples per channel
		for i := 0; i < n*channels; i++ {
			samples = append(samples, audio.SampleFromInt16(pcm16[i]))
		}
	}

	return audio.NewAsset(samples, audio.Format{
		Codec:      "opus",
		SampleRate: opusSampleRate,
		Channels:   channels,
		BitDepth:   16,
	})
}

// opusHeadChannels reads the channel count out of the OpusHead packet,
// which is the sole packet of the first Ogg page (RFC 7845 §5.1; the
// count lives at byte 9 of the packet)
func opusHeadChannels(data []byte) (int, error) {
	// Ogg page header: "OggS", version, type, granule(8), serial(4),
	// sequence(4), checksum(4), segment count, segment table
	if len(data) < 27 || string(data[:4]) != "OggS" {
		return 0, fmt.Errorf("not an ogg stream")
	}

	segments := int(data[26])
	payload := 27 + segments
	if len(data) < payload+10 {
		return 0, fmt.Errorf("truncated ogg page")
	}

	head := data[payload:]
	if string(head[:8]) != "OpusHead" {
		return 0, fmt.Errorf("first ogg packet is not an opus header")
	}

	channels := int(head[9])
	if channels < 1 {
		return 0, fmt.Errorf("opus header reports %d channels", channels)
	}
	return channels, nil
}
