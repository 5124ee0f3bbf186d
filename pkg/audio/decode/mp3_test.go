// ABOUTME: Tests for MP3 decoding
// ABOUTME: Tests error handling for invalid MP3 data
package decode

import "testing"

func TestMP3DecodeInvalid(t *testing.T) {
	dec := &MP3Decoder{}
	if _, err := dec.Decode([]byte("definitely not mpeg audio")); err == nil {
		t.Error("expected error for invalid mp3 data")
	}
}

func TestMP3DecodeEmpty(t *testing.T) {
	dec := &MP3Decoder{}
	if _, err := dec.Decode(nil); err == nil {
		t.Error("expected error for empty input")
	}
}
