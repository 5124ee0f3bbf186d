// ABOUTME: Decoder interface and container detection
// ABOUTME: Routes file bytes to the matching codec decoder
package decode

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/waveplay/waveplay-go/pkg/audio"
)

// Decoder decodes a complete encoded file into an asset
type Decoder interface {
	// Decode converts encoded audio data to a decoded asset
	Decode(data []byte) (*audio.Asset, error)
}

// New creates a decoder for the given codec name
func New(codec string) (Decoder, error) {
	switch codec {
	case "mp3":
		return &MP3Decoder{}, nil
	case "flac":
		return &FLACDecoder{}, nil
	case "opus":
		return &OpusDecoder{}, nil
	case "wav":
		return &WAVDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported codec: %s", codec)
	}
}

// Detect identifies the container from magic bytes, falling back to
// the file extension when the magic is ambiguous.
func Detect(name string, data []byte) (string, error) {
	if len(data) >= 4 {
		switch {
		case bytes.HasPrefix(data, []byte("fLaC")):
			return "flac", nil
		case bytes.HasPrefix(data, []byte("OggS")):
			return "opus", nil
		case bytes.HasPrefix(data, []byte("RIFF")):
			return "wav", nil
		case bytes.HasPrefix(data, []byte("ID3")):
			return "mp3", nil
		case data[0] == 0xFF && data[1]&0xE0 == 0xE0:
			// Bare MPEG frame sync (no ID3 header)
			return "mp3", nil
		}
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "mp3", nil
	case ".flac":
		return "flac", nil
	case ".opus", ".ogg":
		return "opus", nil
	case ".wav":
		return "wav", nil
	}

	return "", fmt.Errorf("unrecognized audio container: %s", name)
}

// Bytes detects the container and fully decodes data into an asset
func Bytes(name string, data []byte) (*audio.Asset, error) {
	codec, err := Detect(name, data)
	if err != nil {
		return nil, err
	}

	dec, err := New(codec)
	if err != nil {
		return nil, err
	}

	asset, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s decode failed: %w", codec, err)
	}
	return asset, nil
}

// File reads and decodes an audio file
func File(path string) (*audio.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Bytes(path, data)
}
