// FILE: bistrolog/src/internal/channel/logger.go
package channel

import (
	"sync"
	"sync/atomic"

	"bistrolog/src/internal/config"
	"bistrolog/src/internal/core"
	"bistrolog/src/internal/format"

	"github.com/lixenwraith/log"
)

// Enqueuer accepts rendered lines for a destination. The delivery
// dispatcher is the production implementation.
type Enqueuer interface {
	Enqueue(dest string, line []byte)
}

// Config is the runtime configuration of one channel Logger.
type Config struct {
	Enabled       bool
	Level         core.Level
	Format        string
	Destination   string
	ConsoleMirror bool
}

// ConfigFrom converts a channel's configuration table, applying channel
// defaults for missing values.
func ConfigFrom(cc config.ChannelConfig, ch core.Channel) Config {
	formatName := cc.Format
	if formatName == "" {
		formatName = ch.DefaultFormat()
	}
	dest := cc.Destination
	if dest == "" {
		dest = "./log/" + ch.DefaultFileName()
	}

	return Config{
		Enabled:       cc.Enabled,
		Level:         core.ParseLevel(cc.Level),
		Format:        formatName,
		Destination:   dest,
		ConsoleMirror: cc.ConsoleMirror,
	}
}

// Logger emits entries for one channel. Every call is gated by the
// channel's enabled flag and minimum level before any formatting work
// happens; a passing entry is rendered through the registry and handed to
// the delivery layer. Configuration is mutable at runtime and takes effect
// on the next Log call.
type Logger struct {
	channel  core.Channel
	registry *format.Registry
	out      Enqueuer
	diag     *log.Logger

	mu  sync.RWMutex
	cfg Config

	emitted  atomic.Uint64
	filtered atomic.Uint64
}

func New(ch core.Channel, cfg Config, registry *format.Registry, out Enqueuer, diag *log.Logger) *Logger {
	return &Logger{
		channel:  ch,
		registry: registry,
		out:      out,
		diag:     diag,
		cfg:      cfg,
	}
}

func (l *Logger) Channel() core.Channel {
	return l.channel
}

// Log renders and enqueues one entry, or drops it by filtering. An entry is
// never half-applied: it is either enqueued in full or not at all, and the
// caller is never blocked on delivery.
func (l *Logger) Log(level core.Level, message string, fields map[string]any) {
	l.mu.RLock()
	cfg := l.cfg
	l.mu.RUnlock()

	if !cfg.Enabled || level < cfg.Level {
		l.filtered.Add(1)
		return
	}

	entry := core.NewEntry(l.channel, level, message, nil)

	if len(fields) > 0 {
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		if sid, ok := copied["session_id"].(string); ok {
			entry.SessionID = sid
			delete(copied, "session_id")
		}
		entry.Fields = copied
	}

	formatter := l.registry.Resolve(cfg.Format)
	line, err := formatter.Format(entry)
	if err != nil || len(line) == 0 {
		// Formatters degrade internally; this is a final guard
		l.diag.Debug("msg", "Formatter returned error, emitting degraded line",
			"component", "channel_logger",
			"channel", string(l.channel),
			"format", cfg.Format,
			"error", err)
		line = format.DegradedLine(entry.Time)
	}

	l.out.Enqueue(cfg.Destination, line)
	if cfg.ConsoleMirror && cfg.Destination != "stdout" {
		l.out.Enqueue("stdout", line)
	}
	l.emitted.Add(1)
}

// Config returns a snapshot of the current configuration.
func (l *Logger) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// UpdateLevel changes the minimum severity; effective on the next Log call.
func (l *Logger) UpdateLevel(level core.Level) {
	l.mu.Lock()
	l.cfg.Level = level
	l.mu.Unlock()

	l.diag.Info("msg", "Channel level updated",
		"component", "channel_logger",
		"channel", string(l.channel),
		"level", level.String())
}

// UpdateFormat changes the formatter name; effective on the next Log call.
// An unknown name is tolerated: rendering falls back at resolve time.
func (l *Logger) UpdateFormat(name string) {
	l.mu.Lock()
	l.cfg.Format = name
	l.mu.Unlock()

	l.diag.Info("msg", "Channel format updated",
		"component", "channel_logger",
		"channel", string(l.channel),
		"format", name)
}

// SetEnabled gates the whole channel.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	l.cfg.Enabled = enabled
	l.mu.Unlock()
}

func (l *Logger) Stats() map[string]any {
	return map[string]any{
		"channel":  string(l.channel),
		"emitted":  l.emitted.Load(),
		"filtered": l.filtered.Load(),
	}
}
