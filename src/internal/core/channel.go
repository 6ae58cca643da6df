// FILE: bistrolog/src/internal/core/channel.go
package core

// Channel identifies one of the named telemetry streams. Each channel has
// independent configuration (enabled flag, level, format, destination).
type Channel string

const (
	ChannelAccess  Channel = "access"
	ChannelEvent   Channel = "event"
	ChannelMetrics Channel = "metrics"
	ChannelError   Channel = "error"
)

// Channels lists all known channels in a stable order.
var Channels = []Channel{ChannelAccess, ChannelEvent, ChannelMetrics, ChannelError}

func (c Channel) Valid() bool {
	switch c {
	case ChannelAccess, ChannelEvent, ChannelMetrics, ChannelError:
		return true
	}
	return false
}

// DefaultFormat returns the formatter name a channel uses when none is
// configured.
func (c Channel) DefaultFormat() string {
	switch c {
	case ChannelAccess:
		return "clf"
	case ChannelEvent:
		return "string"
	default:
		return "json"
	}
}

// DefaultFileName returns the conventional log file name for a channel.
func (c Channel) DefaultFileName() string {
	switch c {
	case ChannelAccess:
		return "access.log"
	case ChannelEvent:
		return "events.log"
	case ChannelMetrics:
		return "metrics.log"
	case ChannelError:
		return "errors.log"
	default:
		return string(c) + ".log"
	}
}
