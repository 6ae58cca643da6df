// FILE: bistrolog/src/internal/config/server.go
package config

import "fmt"

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	ReadTimeoutSeconds  int `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int `toml:"write_timeout_seconds"`

	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled            bool  `toml:"enabled"`
	RequestsPerSec     int   `toml:"requests_per_sec"`
	BurstSize          int   `toml:"burst_size"`
	CleanupIntervalSec int64 `toml:"cleanup_interval_sec"`
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:                "127.0.0.1",
		Port:                8080,
		ReadTimeoutSeconds:  10,
		WriteTimeoutSeconds: 10,
		RateLimit: RateLimitConfig{
			Enabled:            true,
			RequestsPerSec:     50,
			BurstSize:          100,
			CleanupIntervalSec: 60,
		},
	}
}

func validateServerConfig(cfg *ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Port)
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSec < 1 {
			return fmt.Errorf("rate limit requests_per_sec must be positive: %d", cfg.RateLimit.RequestsPerSec)
		}
		if cfg.RateLimit.BurstSize < 1 {
			return fmt.Errorf("rate limit burst_size must be positive: %d", cfg.RateLimit.BurstSize)
		}
		if cfg.RateLimit.CleanupIntervalSec < 1 {
			return fmt.Errorf("rate limit cleanup_interval_sec must be positive: %d", cfg.RateLimit.CleanupIntervalSec)
		}
	}
	return nil
}
