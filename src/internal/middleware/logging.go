// FILE: bistrolog/src/internal/middleware/logging.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"bistrolog/src/internal/core"
	"bistrolog/src/internal/perf"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
)

// RequestLogger wraps HTTP handlers with automatic request telemetry:
// one access entry per completed request plus metrics samples, and an
// error entry for responses at or above 400. Telemetry runs after the
// response is written and can never alter it.
type RequestLogger struct {
	perf   *perf.Manager
	logger *log.Logger
}

func NewRequestLogger(pm *perf.Manager, logger *log.Logger) *RequestLogger {
	return &RequestLogger{
		perf:   pm,
		logger: logger,
	}
}

// Middleware returns an HTTP middleware function
func (rl *RequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := newRequestID()
		rec := newResponseRecorder(w)

		next.ServeHTTP(rec, r)

		defer func() {
			if p := recover(); p != nil {
				rl.logger.Error("msg", "Request telemetry panicked",
					"component", "request_logger",
					"request_id", requestID,
					"panic", fmt.Sprint(p))
			}
		}()
		rl.record(r, rec, requestID, time.Since(start))
	})
}

func (rl *RequestLogger) record(r *http.Request, rec *responseRecorder, requestID string, elapsed time.Duration) {
	durationMs := elapsed.Milliseconds()
	pattern := NormalizeURLPattern(r.URL.RequestURI())
	category := StatusCategory(rec.status)

	extra := map[string]any{
		"url_pattern": pattern,
		"request_id":  requestID,
		"remote_addr": r.RemoteAddr,
		"protocol":    r.Proto,
		"category":    category,
	}
	if ua := r.UserAgent(); ua != "" {
		extra["user_agent"] = ua
	}

	rl.perf.LogHTTPRequest(r.Method, r.URL.RequestURI(), rec.status, durationMs, rec.bytes, extra)

	if rec.status >= 400 {
		severity := "medium"
		if rec.status >= 500 {
			severity = "high"
		}
		context := map[string]any{
			"error_code":  fmt.Sprintf("HTTP_%d", rec.status),
			"severity":    severity,
			"status_code": rec.status,
			"method":      r.Method,
			"url_pattern": pattern,
			"request_id":  requestID,
		}
		if snippet := rec.snippet(); snippet != "" {
			context["response_snippet"] = snippet
		}
		rl.perf.LogError(fmt.Errorf("request failed with status %d", rec.status), context)
	}
}

func newRequestID() string {
	return fmt.Sprintf("req-%d-%s", time.Now().UnixMilli(), strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// responseRecorder wraps a ResponseWriter to observe the status code,
// bytes written, and a bounded snippet of the response body.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
	body        strings.Builder
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	// An unset status means the handler wrote nothing; net/http would
	// send 200 on first write.
	return &responseRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *responseRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	if remaining := core.DefaultBodySnippetMax - r.body.Len(); remaining > 0 {
		if len(b) > remaining {
			r.body.Write(b[:remaining])
		} else {
			r.body.Write(b)
		}
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += int64(n)
	return n, err
}

func (r *responseRecorder) snippet() string {
	return r.body.String()
}
