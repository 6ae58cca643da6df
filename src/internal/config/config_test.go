// FILE: bistrolog/src/internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("DefaultsAreValid", func(t *testing.T) {
		require.NoError(t, defaults().Validate())
	})

	testCases := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{
			name:   "FlushThresholdZero",
			mutate: func(c *Config) { c.Delivery.FlushThreshold = 0 },
			errSub: "flush threshold",
		},
		{
			name:   "MaxBufferedBelowThreshold",
			mutate: func(c *Config) { c.Delivery.MaxBuffered = 1; c.Delivery.FlushThreshold = 10 },
			errSub: "max buffered",
		},
		{
			name:   "DestinationTraversal",
			mutate: func(c *Config) { c.Channels.Access.Destination = "../etc/access.log" },
			errSub: "directory traversal",
		},
		{
			name:   "CustomFormatWithoutTemplate",
			mutate: func(c *Config) { c.Channels.Event.Format = "custom" },
			errSub: "custom_template",
		},
		{
			name:   "InvalidServerPort",
			mutate: func(c *Config) { c.Server.Port = 0 },
			errSub: "server port",
		},
		{
			name:   "MalformedCollectorHeader",
			mutate: func(c *Config) { c.Collector.Headers = []string{"no-separator"} },
			errSub: "Name: value",
		},
		{
			name:   "AnalyticsWindowZero",
			mutate: func(c *Config) { c.Analytics.WindowSize = 0 },
			errSub: "window size",
		},
		{
			name: "TrafficThinkRangeInverted",
			mutate: func(c *Config) {
				c.Traffic.Enabled = true
				c.Traffic.MinThinkMS = 500
				c.Traffic.MaxThinkMS = 100
			},
			errSub: "think time",
		},
		{
			name:   "InvalidLogOutput",
			mutate: func(c *Config) { c.Logging.Output = "syslog" },
			errSub: "output mode",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSub)
		})
	}
}

func TestIsHTTPDestination(t *testing.T) {
	assert.True(t, IsHTTPDestination("http://collector.local/ingest"))
	assert.True(t, IsHTTPDestination("https://collector.local/ingest"))
	assert.False(t, IsHTTPDestination("./log/access.log"))
	assert.False(t, IsHTTPDestination("stdout"))
}
