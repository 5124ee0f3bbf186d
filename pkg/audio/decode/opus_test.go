// ABOUTME: Tests for Opus decoding
// ABOUTME: Tests OpusHead channel parsing and invalid-stream errors
package decode

import "testing"

// buildOpusHeadPage assembles the first Ogg page of an opus stream: a
// single-segment BOS page whose payload is an OpusHead packet
func buildOpusHeadPage(channels byte) []byte {
	payload := []byte{
		'O', 'p', 'u', 's', 'H', 'e', 'a', 'd',
		1,        // version
		channels, // channel count
		0x00, 0x0f, // pre-skip (3840)
		0x80, 0xbb, 0, 0, // input sample rate (48000)
		0, 0, // output gain
		0, // channel mapping family
	}

	page := []byte("OggS")
	page = append(page, 0)    // stream structure version
	page = append(page, 0x02) // header type: beginning of stream
	page = append(page, make([]byte, 8)...)  // granule position
	page = append(page, 1, 2, 3, 4)          // serial number
	page = append(page, 0, 0, 0, 0)          // page sequence
	page = append(page, 0, 0, 0, 0)          // checksum
	page = append(page, 1)                   // segment count
	page = append(page, byte(len(payload)))  // segment table
	page = append(page, payload...)
	return page
}

func TestOpusHeadChannels(t *testing.T) {
	tests := []struct {
		name     string
		channels byte
	}{
		{"mono", 1},
		{"stereo", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := opusHeadChannels(buildOpusHeadPage(tt.channels))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != int(tt.channels) {
				t.Errorf("expected %d channels, got %d", tt.channels, got)
			}
		})
	}
}

func TestOpusHeadChannelsRejectsZero(t *testing.T) {
	if _, err := opusHeadChannels(buildOpusHeadPage(0)); err == nil {
		t.Error("expected error for zero-channel opus header")
	}
}

func TestOpusHeadChannelsRejectsNonOpusPage(t *testing.T) {
	page := buildOpusHeadPage(2)
	// Corrupt the packet magic: a valid ogg page carrying something else
	copy(page[28:], []byte("FLACHead"))
	if _, err := opusHeadChannels(page); err == nil {
		t.Error("expected error for non-opus first packet")
	}
}

func TestOpusDecodeInvalid(t *testing.T) {
	dec := &OpusDecoder{}
	if _, err := dec.Decode([]byte("not an ogg stream")); err == nil {
		t.Error("expected error for invalid opus data")
	}
}

func TestOpusDecodeBareOgg(t *testing.T) {
	// Ogg capture pattern with no opus payload behind it
	dec := &OpusDecoder{}
	if _, err := dec.Decode([]byte("OggS\x00\x00\x00\x00")); err == nil {
		t.Error("expected error for ogg page without opus stream")
	}
}
