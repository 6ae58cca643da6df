// FILE: bistrolog/src/internal/middleware/ratelimit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"bistrolog/src/internal/config"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// RateLimiter provides per-client rate limiting
type RateLimiter struct {
	clients         sync.Map // map[string]*clientLimiter
	requestsPerSec  int
	burstSize       int
	cleanupInterval time.Duration
	done            chan struct{}
	logger          *log.Logger
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiting middleware
func NewRateLimiter(cfg config.RateLimitConfig, logger *log.Logger) *RateLimiter {
	rl := &RateLimiter{
		requestsPerSec:  cfg.RequestsPerSec,
		burstSize:       cfg.BurstSize,
		cleanupInterval: time.Duration(cfg.CleanupIntervalSec) * time.Second,
		done:            make(chan struct{}),
		logger:          logger,
	}

	// Start cleanup routine
	go rl.cleanup()

	return rl
}

// Middleware returns an HTTP middleware function
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get client IP
		clientIP := r.RemoteAddr
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			clientIP = forwarded
		}

		// Get or create limiter for client
		limiter := rl.getLimiter(clientIP)

		// Check rate limit
		if !limiter.Allow() {
			rl.logger.Debug("msg", "Request rate limited",
				"component", "ratelimit",
				"client", clientIP)
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		// Continue to next handler
		next.ServeHTTP(w, r)
	})
}

// getLimiter returns the rate limiter for a client
func (rl *RateLimiter) getLimiter(clientIP string) *rate.Limiter {
	// Try to get existing limiter
	if val, ok := rl.clients.Load(clientIP); ok {
		client := val.(*clientLimiter)
		client.lastSeen = time.Now()
		return client.limiter
	}

	// Create new limiter
	limiter := rate.NewLimiter(rate.Limit(rl.requestsPerSec), rl.burstSize)
	client := &clientLimiter{
		limiter:  limiter,
		lastSeen: time.Now(),
	}

	rl.clients.Store(clientIP, client)
	return limiter
}

// cleanup removes old client limiters
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.removeOldClients()
		}
	}
}

// removeOldClients removes limiters that haven't been seen recently
func (rl *RateLimiter) removeOldClients() {
	threshold := time.Now().Add(-rl.cleanupInterval * 2) // Keep for 2x cleanup interval

	rl.clients.Range(func(key, value any) bool {
		client := value.(*clientLimiter)
		if client.lastSeen.Before(threshold) {
			rl.clients.Delete(key)
		}
		return true
	})
}

// Stop gracefully shuts down the rate limiter
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// ClientCount returns the number of tracked clients
func (rl *RateLimiter) ClientCount() int {
	count := 0
	rl.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
