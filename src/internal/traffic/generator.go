// FILE: bistrolog/src/internal/traffic/generator.go
package traffic

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"bistrolog/src/internal/config"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// Generator simulates a population of virtual users browsing the
// application. Each user loops over weighted route profiles with jittered
// think time between requests; a shared limiter caps the aggregate request
// rate. It exists to keep the telemetry pipeline exercised without real
// visitors.
type Generator struct {
	cfg     config.TrafficConfig
	client  *fasthttp.Client
	limiter *rate.Limiter
	logger  *log.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	sent   atomic.Uint64
	failed atomic.Uint64
}

func NewGenerator(cfg config.TrafficConfig, logger *log.Logger) *Generator {
	return &Generator{
		cfg: cfg,
		client: &fasthttp.Client{
			MaxConnsPerHost: cfg.Users + 1,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.BurstSize),
		logger:  logger,
	}
}

// Start launches the virtual users. It returns immediately.
func (g *Generator) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel

	g.logger.Info("msg", "Traffic generator started",
		"component", "traffic",
		"users", g.cfg.Users,
		"requests_per_sec", g.cfg.RequestsPerSec)

	for i := 0; i < g.cfg.Users; i++ {
		g.wg.Add(1)
		go g.runUser(ctx, i)
	}
}

// Stop halts all virtual users and waits for them to finish.
func (g *Generator) Stop() {
	if g.cancel == nil {
		return
	}
	g.cancel()
	g.wg.Wait()

	g.logger.Info("msg", "Traffic generator stopped",
		"component", "traffic",
		"sent", g.sent.Load(),
		"failed", g.failed.Load())
}

func (g *Generator) runUser(ctx context.Context, id int) {
	defer g.wg.Done()

	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	sessionID := fmt.Sprintf("vuser-%d", id)

	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return
		}

		route := pickRoute(rng)
		g.request(route, sessionID)

		think := g.cfg.MinThinkMS
		if spread := g.cfg.MaxThinkMS - g.cfg.MinThinkMS; spread > 0 {
			think += rng.Intn(spread)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(think) * time.Millisecond):
		}
	}
}

func (g *Generator) request(route Route, sessionID string) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(g.cfg.BaseURL + route.Path)
	req.Header.SetMethod(route.Method)
	req.Header.Set("User-Agent", "bistrolog-traffic/"+sessionID)
	if route.Method == fasthttp.MethodPost {
		req.Header.SetContentType("application/json")
		req.SetBodyString(route.Body)
	}

	timeout := time.Duration(g.cfg.TimeoutSeconds) * time.Second
	if err := g.client.DoTimeout(req, resp, timeout); err != nil {
		g.failed.Add(1)
		g.logger.Debug("msg", "Virtual user request failed",
			"component", "traffic",
			"path", route.Path,
			"error", err)
		return
	}
	g.sent.Add(1)
}

// Stats reports cumulative request counts.
func (g *Generator) Stats() map[string]any {
	return map[string]any{
		"sent":   g.sent.Load(),
		"failed": g.failed.Load(),
	}
}
