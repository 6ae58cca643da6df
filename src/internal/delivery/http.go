// FILE: bistrolog/src/internal/delivery/http.go
package delivery

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"bistrolog/src/internal/config"
	"bistrolog/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// HTTPSink forwards rendered lines to a collector endpoint with a single
// best-effort POST per batch: a short timeout, no retries. The dispatcher's
// re-queue policy is the only recovery; an unavailable collector must never
// block or fail the request path.
type HTTPSink struct {
	url     string
	timeout time.Duration
	headers [][2]string
	client  *fasthttp.Client
	logger  *log.Logger
}

func NewHTTPSink(url string, collector config.CollectorConfig, logger *log.Logger) (*HTTPSink, error) {
	timeout := time.Duration(collector.TimeoutSeconds) * time.Second

	headers := make([][2]string, 0, len(collector.Headers))
	for _, h := range collector.Headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("malformed collector header: %s", h)
		}
		headers = append(headers, [2]string{strings.TrimSpace(name), strings.TrimSpace(value)})
	}

	return &HTTPSink{
		url:     url,
		timeout: timeout,
		headers: headers,
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			MaxIdleConnDuration: 10 * time.Second,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		logger: logger,
	}, nil
}

func (h *HTTPSink) Write(lines [][]byte) error {
	body := bytes.Join(lines, nil)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(h.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-ndjson")
	req.Header.Set("User-Agent", fmt.Sprintf("bistrolog/%s", version.Short()))
	for _, hdr := range h.headers {
		req.Header.Set(hdr[0], hdr[1])
	}
	req.SetBody(body)

	if err := h.client.DoTimeout(req, resp, h.timeout); err != nil {
		return fmt.Errorf("collector send failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode < 200 || statusCode >= 300 {
		return fmt.Errorf("collector returned status %d", statusCode)
	}

	h.logger.Debug("msg", "Batch forwarded to collector",
		"component", "http_sink",
		"url", h.url,
		"lines", len(lines),
		"status_code", statusCode)
	return nil
}

func (h *HTTPSink) Name() string {
	return "http_forwarder"
}

func (h *HTTPSink) Close() {
	h.client.CloseIdleConnections()
}
