// FILE: bistrolog/src/internal/config/delivery.go
package config

import (
	"fmt"
	"net/url"
	"strings"

	"bistrolog/src/internal/core"
)

// DeliveryConfig tunes the buffering dispatcher. The threshold and interval
// are deliberately configuration, not constants.
type DeliveryConfig struct {
	// Buffer length that triggers an immediate flush
	FlushThreshold int `toml:"flush_threshold"`

	// Timer-driven flush period for partially filled buffers
	FlushIntervalMS int `toml:"flush_interval_ms"`

	// Maximum pending lines per destination; overflow drops oldest
	MaxBuffered int `toml:"max_buffered"`
}

// CollectorConfig describes the optional downstream telemetry endpoint.
// Delivery is best-effort: a single POST per flush, no retries beyond the
// dispatcher's re-queue policy.
type CollectorConfig struct {
	// Request timeout for forwarder sends
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Extra headers sent with every forward, "Name: value" entries
	Headers []string `toml:"headers"`
}

type AnalyticsConfig struct {
	// Rolling window length (entries per channel) for on-demand aggregation
	WindowSize int `toml:"window_size"`
}

func defaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		FlushThreshold:  core.DefaultFlushThreshold,
		FlushIntervalMS: core.DefaultFlushIntervalMS,
		MaxBuffered:     core.DefaultMaxBuffered,
	}
}

func defaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		TimeoutSeconds: 2,
	}
}

func defaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		WindowSize: core.DefaultAnalyticsWindow,
	}
}

func validateDeliveryConfig(cfg *DeliveryConfig) error {
	if cfg.FlushThreshold < 1 {
		return fmt.Errorf("delivery flush threshold must be positive: %d", cfg.FlushThreshold)
	}
	if cfg.FlushIntervalMS < 10 {
		return fmt.Errorf("delivery flush interval too small: %d ms", cfg.FlushIntervalMS)
	}
	if cfg.MaxBuffered < cfg.FlushThreshold {
		return fmt.Errorf("delivery max buffered (%d) must be >= flush threshold (%d)",
			cfg.MaxBuffered, cfg.FlushThreshold)
	}
	return nil
}

func validateCollectorConfig(cfg *CollectorConfig) error {
	if cfg.TimeoutSeconds < 1 {
		return fmt.Errorf("collector timeout must be positive: %d", cfg.TimeoutSeconds)
	}
	for i, h := range cfg.Headers {
		if !strings.Contains(h, ":") {
			return fmt.Errorf("collector header[%d]: expected 'Name: value' form: %s", i, h)
		}
	}
	return nil
}

// IsHTTPDestination reports whether a channel destination targets a
// collector endpoint rather than a file or console sink.
func IsHTTPDestination(dest string) bool {
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
