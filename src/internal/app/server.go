// FILE: bistrolog/src/internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bistrolog/src/internal/config"
	"bistrolog/src/internal/middleware"

	"github.com/lixenwraith/log"
)

// Server hosts the application behind the telemetry middleware chain:
// rate limiting first, request logging second, so rejected requests are
// still logged with their 429 status.
type Server struct {
	httpServer  *http.Server
	rateLimiter *middleware.RateLimiter
	logger      *log.Logger
}

func NewServer(cfg config.ServerConfig, app *App, requestLogger *middleware.RequestLogger, logger *log.Logger) *Server {
	handler := requestLogger.Middleware(app.Handler())

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
		handler = limiter.Middleware(handler)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		},
		rateLimiter: limiter,
		logger:      logger,
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start begins serving in a background goroutine. Listener failures are
// reported on the diagnostic logger.
func (s *Server) Start() {
	s.logger.Info("msg", "HTTP server starting",
		"component", "server",
		"addr", s.httpServer.Addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("msg", "HTTP server failed",
				"component", "server",
				"error", err)
		}
	}()
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	return err
}
