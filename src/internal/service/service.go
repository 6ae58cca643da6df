// FILE: bistrolog/src/internal/service/service.go
package service

import (
	"context"
	"fmt"
	"time"

	"bistrolog/src/internal/app"
	"bistrolog/src/internal/channel"
	"bistrolog/src/internal/config"
	"bistrolog/src/internal/core"
	"bistrolog/src/internal/delivery"
	"bistrolog/src/internal/format"
	"bistrolog/src/internal/middleware"
	"bistrolog/src/internal/perf"
	"bistrolog/src/internal/traffic"

	"github.com/lixenwraith/log"
)

// Service owns the full telemetry pipeline: formatter registry, delivery
// dispatcher, one Logger per channel, the performance manager, the HTTP
// application behind the middleware chain, and the optional traffic
// generator. Construction wires everything; Start and Shutdown control
// the runtime pieces in dependency order.
type Service struct {
	cfg    *config.Config
	logger *log.Logger

	registry   *format.Registry
	dispatcher *delivery.Dispatcher
	loggers    map[core.Channel]*channel.Logger
	perf       *perf.Manager
	server     *app.Server
	traffic    *traffic.Generator
}

func NewService(cfg *config.Config, logger *log.Logger) (*Service, error) {
	registry := format.NewRegistry(logger)
	dispatcher := delivery.NewDispatcher(cfg.Delivery, cfg.Collector, logger, nil)

	loggers := make(map[core.Channel]*channel.Logger, len(core.Channels))
	for _, ch := range core.Channels {
		cc := cfg.Channels.ForChannel(ch)
		chCfg := channel.ConfigFrom(cc, ch)

		// Custom templates register per channel so two channels can carry
		// different templates under the same "custom" table key.
		if cc.Format == "custom" {
			name := fmt.Sprintf("custom_%s", ch)
			tf, err := format.NewTemplateFormatter(name, cc.CustomTemplate, logger)
			if err != nil {
				return nil, fmt.Errorf("channel '%s': %w", ch, err)
			}
			registry.Register(name, tf)
			chCfg.Format = name
		}

		loggers[ch] = channel.New(ch, chCfg, registry, dispatcher, logger)
	}

	pm := perf.New(loggers, cfg.Analytics.WindowSize, logger)
	requestLogger := middleware.NewRequestLogger(pm, logger)
	application := app.New(pm, logger)
	server := app.NewServer(cfg.Server, application, requestLogger, logger)

	svc := &Service{
		cfg:        cfg,
		logger:     logger,
		registry:   registry,
		dispatcher: dispatcher,
		loggers:    loggers,
		perf:       pm,
		server:     server,
	}

	if cfg.Traffic.Enabled {
		trafficCfg := cfg.Traffic
		if trafficCfg.BaseURL == "" {
			trafficCfg.BaseURL = fmt.Sprintf("http://%s", server.Addr())
		}
		svc.traffic = traffic.NewGenerator(trafficCfg, logger)
	}

	return svc, nil
}

// Start brings up the dispatcher, the HTTP server, and the traffic
// generator, in that order.
func (s *Service) Start() {
	s.dispatcher.Start()
	s.server.Start()
	if s.traffic != nil {
		s.traffic.Start()
	}

	s.logger.Info("msg", "Service started",
		"component", "service",
		"addr", s.server.Addr(),
		"traffic", s.traffic != nil)
}

// Shutdown stops components in reverse order: traffic first so no new
// requests arrive, then the server drains, then the dispatcher performs
// its final flush. Buffered telemetry is delivered before exit.
func (s *Service) Shutdown() {
	s.logger.Info("msg", "Service shutdown initiated", "component", "service")

	if s.traffic != nil {
		s.traffic.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("msg", "HTTP server shutdown incomplete",
			"component", "service",
			"error", err)
	}

	s.dispatcher.Stop()

	s.logger.Info("msg", "Service shutdown complete", "component", "service")
}

// Logger returns the Logger for a channel.
func (s *Service) Logger(ch core.Channel) *channel.Logger {
	return s.loggers[ch]
}

// Perf returns the performance manager.
func (s *Service) Perf() *perf.Manager {
	return s.perf
}

// GetGlobalStats returns statistics for all components.
func (s *Service) GetGlobalStats() map[string]any {
	channels := make(map[string]any, len(s.loggers))
	for ch, l := range s.loggers {
		channels[string(ch)] = l.Stats()
	}

	stats := map[string]any{
		"channels": channels,
		"delivery": s.dispatcher.Stats(),
	}
	if s.traffic != nil {
		stats["traffic"] = s.traffic.Stats()
	}
	return stats
}
