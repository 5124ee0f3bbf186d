// ABOUTME: Remote audio download helper
// ABOUTME: Fetches track bytes over HTTP with timeout and size cap
package fetch

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	// maxBytes caps a download; decoded assets live fully in memory
	maxBytes = 256 << 20 // 256 MiB

	requestTimeout = 60 * time.Second
)

// IsURL reports whether the player argument is a remote track
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Get downloads track bytes from a URL
func Get(url string) ([]byte, error) {
	client := &http.Client{Timeout: requestTimeout}

	log.Printf("Downloading %s", url)
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download read failed: %w", err)
	}
	if len(data) > maxBytes {
		return nil, fmt.Errorf("track exceeds %d byte limit", maxBytes)
	}

	log.Printf("Downloaded %d bytes", len(data))
	return data, nil
}
