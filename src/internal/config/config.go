// FILE: bistrolog/src/internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

type Config struct {
	Logging   LogConfig       `toml:"logging"`
	Server    ServerConfig    `toml:"server"`
	Channels  ChannelsConfig  `toml:"channels"`
	Delivery  DeliveryConfig  `toml:"delivery"`
	Collector CollectorConfig `toml:"collector"`
	Analytics AnalyticsConfig `toml:"analytics"`
	Traffic   TrafficConfig   `toml:"traffic"`
}

func defaults() *Config {
	return &Config{
		Logging:   defaultLogConfig(),
		Server:    defaultServerConfig(),
		Channels:  defaultChannelsConfig(),
		Delivery:  defaultDeliveryConfig(),
		Collector: defaultCollectorConfig(),
		Analytics: defaultAnalyticsConfig(),
		Traffic:   defaultTrafficConfig(),
	}
}

// Load builds the configuration from defaults, the TOML file, BISTROLOG_*
// environment variables, and CLI arguments, in ascending precedence.
func Load(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("BISTROLOG_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	return finalConfig, finalConfig.Validate()
}

func GetConfigPath() string {
	if configFile := os.Getenv("BISTROLOG_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("BISTROLOG_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("BISTROLOG_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "bistrolog.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "bistrolog.toml")
	}

	return "bistrolog.toml"
}

func (c *Config) Validate() error {
	if err := validateLogConfig(&c.Logging); err != nil {
		return err
	}
	if err := validateServerConfig(&c.Server); err != nil {
		return err
	}
	if err := c.Channels.validate(); err != nil {
		return err
	}
	if err := validateDeliveryConfig(&c.Delivery); err != nil {
		return err
	}
	if err := validateCollectorConfig(&c.Collector); err != nil {
		return err
	}
	if c.Analytics.WindowSize < 1 {
		return fmt.Errorf("analytics window size must be positive: %d", c.Analytics.WindowSize)
	}
	if err := validateTrafficConfig(&c.Traffic); err != nil {
		return err
	}
	return nil
}
