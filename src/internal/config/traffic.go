// FILE: bistrolog/src/internal/config/traffic.go
package config

import "fmt"

// TrafficConfig drives the virtual traffic generator: a pool of simulated
// users issuing requests against the demo application.
type TrafficConfig struct {
	Enabled bool `toml:"enabled"`

	// Number of concurrent virtual users
	Users int `toml:"users"`

	// Global pacing across all users
	RequestsPerSec float64 `toml:"requests_per_sec"`
	BurstSize      int     `toml:"burst_size"`

	// Per-user think time between requests, jittered in [min, max]
	MinThinkMS int `toml:"min_think_ms"`
	MaxThinkMS int `toml:"max_think_ms"`

	// Request timeout
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Target base URL; empty targets the local server
	BaseURL string `toml:"base_url"`
}

func defaultTrafficConfig() TrafficConfig {
	return TrafficConfig{
		Enabled:        false,
		Users:          5,
		RequestsPerSec: 10,
		BurstSize:      20,
		MinThinkMS:     200,
		MaxThinkMS:     2000,
		TimeoutSeconds: 5,
	}
}

func validateTrafficConfig(cfg *TrafficConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Users < 1 {
		return fmt.Errorf("traffic users must be positive: %d", cfg.Users)
	}
	if cfg.RequestsPerSec <= 0 {
		return fmt.Errorf("traffic requests_per_sec must be positive: %f", cfg.RequestsPerSec)
	}
	if cfg.BurstSize < 1 {
		return fmt.Errorf("traffic burst_size must be positive: %d", cfg.BurstSize)
	}
	if cfg.MinThinkMS < 0 || cfg.MaxThinkMS < cfg.MinThinkMS {
		return fmt.Errorf("traffic think time range invalid: [%d, %d] ms", cfg.MinThinkMS, cfg.MaxThinkMS)
	}
	if cfg.TimeoutSeconds < 1 {
		return fmt.Errorf("traffic timeout_seconds must be positive: %d", cfg.TimeoutSeconds)
	}
	return nil
}
