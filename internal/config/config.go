// ABOUTME: Player configuration loading and validation
// ABOUTME: TOML file with defaults; CLI flags override loaded values
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds player settings
type Config struct {
	// LogFile is where player logs are written
	LogFile string `toml:"log_file"`

	// Volume is the initial volume in [0, 1]
	Volume float64 `toml:"volume"`

	// SlowIntervalMs throttles render-triggering position updates
	SlowIntervalMs int `toml:"slow_interval_ms"`

	// RemoteEnabled starts the WebSocket remote-control server
	RemoteEnabled bool `toml:"remote_enabled"`

	// RemotePort is the remote-control listen port
	RemotePort int `toml:"remote_port"`

	// MDNSEnabled advertises the remote endpoint via mDNS
	MDNSEnabled bool `toml:"mdns_enabled"`
}

// Default returns the baseline configuration
func Default() Config {
	return Config{
		LogFile:        "waveplay.log",
		Volume:         1.0,
		SlowIntervalMs: 100,
		RemoteEnabled:  false,
		RemotePort:     8937,
		MDNSEnabled:    true,
	}
}

// Load reads a TOML config file, layering it over the defaults. A
// missing file is not an error; it just yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field ranges
func (c Config) Validate() error {
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume %f out of range [0, 1]", c.Volume)
	}
	if c.SlowIntervalMs <= 0 {
		return fmt.Errorf("slow_interval_ms must be positive, got %d", c.SlowIntervalMs)
	}
	if c.RemotePort < 1 || c.RemotePort > 65535 {
		return fmt.Errorf("remote_port %d out of range", c.RemotePort)
	}
	return nil
}
