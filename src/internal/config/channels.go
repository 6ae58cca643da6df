// FILE: bistrolog/src/internal/config/channels.go
package config

import (
	"fmt"
	"strings"

	"bistrolog/src/internal/core"
)

// ChannelsConfig holds the per-channel tables. Each channel is independently
// gated, leveled, formatted, and routed.
type ChannelsConfig struct {
	Access  ChannelConfig `toml:"access"`
	Event   ChannelConfig `toml:"event"`
	Metrics ChannelConfig `toml:"metrics"`
	Error   ChannelConfig `toml:"error"`
}

type ChannelConfig struct {
	// Gate for the whole channel; a disabled channel performs no work
	Enabled bool `toml:"enabled"`

	// Minimum severity to emit: "trace", "debug", "info", "warn", "error", "fatal"
	Level string `toml:"level"`

	// Formatter name: "json", "clf", "string", "csv", "xml", or a registered
	// custom template name
	Format string `toml:"format"`

	// Sink identifier: a file path, "stdout"/"stderr", or an http(s) URL
	Destination string `toml:"destination"`

	// Mirror rendered lines to stdout in addition to the destination
	ConsoleMirror bool `toml:"console_mirror"`

	// Template body when Format is "custom"
	CustomTemplate string `toml:"custom_template"`
}

// ForChannel returns the configuration table for a channel.
func (c *ChannelsConfig) ForChannel(ch core.Channel) ChannelConfig {
	switch ch {
	case core.ChannelAccess:
		return c.Access
	case core.ChannelEvent:
		return c.Event
	case core.ChannelMetrics:
		return c.Metrics
	default:
		return c.Error
	}
}

func defaultChannelsConfig() ChannelsConfig {
	channelDefault := func(ch core.Channel) ChannelConfig {
		return ChannelConfig{
			Enabled:     true,
			Level:       "info",
			Format:      ch.DefaultFormat(),
			Destination: "./log/" + ch.DefaultFileName(),
		}
	}

	cfg := ChannelsConfig{
		Access:  channelDefault(core.ChannelAccess),
		Event:   channelDefault(core.ChannelEvent),
		Metrics: channelDefault(core.ChannelMetrics),
		Error:   channelDefault(core.ChannelError),
	}
	cfg.Error.Level = "warn"
	return cfg
}

func (c *ChannelsConfig) validate() error {
	for _, ch := range core.Channels {
		cfg := c.ForChannel(ch)

		if cfg.Destination == "" {
			return fmt.Errorf("channel '%s': empty destination", ch)
		}
		if strings.Contains(cfg.Destination, "..") {
			return fmt.Errorf("channel '%s': destination contains directory traversal", ch)
		}
		if cfg.Format == "custom" && cfg.CustomTemplate == "" {
			return fmt.Errorf("channel '%s': custom format requires custom_template", ch)
		}
	}
	return nil
}
