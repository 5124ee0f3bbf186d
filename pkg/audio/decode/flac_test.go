// ABOUTME: Tests for FLAC decoding
// ABOUTME: Tests error handling for invalid FLAC streams
package decode

import "testing"

func TestFLACDecodeInvalid(t *testing.T) {
	dec := &FLACDecoder{}
	if _, err := dec.Decode([]byte("not a flac stream")); err == nil {
		t.Error("expected error for invalid flac data")
	}
}

func TestFLACDecodeTruncatedHeader(t *testing.T) {
	// Valid magic but nothing after it
	dec := &FLACDecoder{}
	if _, err := dec.Decode([]byte("fLaC")); err == nil {
		t.Error("expected error for truncated flac stream")
	}
}
