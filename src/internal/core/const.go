// FILE: bistrolog/src/internal/core/const.go
package core

// Pipeline defaults. All of these are overridable through configuration;
// none of the specific values is load-bearing.
const (
	DefaultFlushThreshold  = 10
	DefaultFlushIntervalMS = 1000
	DefaultMaxBuffered     = 10000
	DefaultAnalyticsWindow = 1000
	DefaultBodySnippetMax  = 1000
)
