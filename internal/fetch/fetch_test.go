// ABOUTME: Tests for the track downloader
// ABOUTME: Tests URL detection and HTTP status handling
package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://example.com/track.mp3", true},
		{"https://example.com/track.flac", true},
		{"track.mp3", false},
		{"/home/user/track.wav", false},
		{"ftp://example.com/track.mp3", false},
	}

	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGet(t *testing.T) {
	body := []byte("fake audio bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	data, err := Get(srv.URL)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(data) != string(body) {
		t.Errorf("expected %q, got %q", body, data)
	}
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := Get(srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}
