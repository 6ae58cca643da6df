// FILE: bistrolog/src/internal/delivery/dispatcher.go
package delivery

import (
	"sync"
	"sync/atomic"
	"time"

	"bistrolog/src/internal/config"

	"github.com/lixenwraith/log"
)

// Dispatcher owns one FIFO buffer of rendered lines per destination and
// flushes them to sinks. A buffer flushes when it reaches the configured
// threshold, on the flush timer, or on an explicit Flush. A failed flush
// re-queues its batch at the front of the buffer, so delivery is
// at-least-once for the lifetime of the process; there is no durability
// beyond that. Failures are reported on the internal diagnostic logger,
// never back into a pipeline channel.
type Dispatcher struct {
	cfg     config.DeliveryConfig
	logger  *log.Logger
	newSink SinkFactory

	mu      sync.Mutex
	buffers map[string]*destBuffer
	sinks   map[string]Sink

	flushCh chan string
	done    chan struct{}
	wg      sync.WaitGroup

	totalEnqueued atomic.Uint64
	totalFlushed  atomic.Uint64
	totalDropped  atomic.Uint64
	failedFlushes atomic.Uint64
}

type destBuffer struct {
	// Serializes take-write-requeue cycles for one destination so FIFO
	// order survives a failed flush
	flushMu sync.Mutex

	pending [][]byte
}

// NewDispatcher creates a dispatcher. The sink factory is injectable for
// tests; passing nil uses the standard file/console/HTTP resolution.
func NewDispatcher(cfg config.DeliveryConfig, collector config.CollectorConfig, logger *log.Logger, factory SinkFactory) *Dispatcher {
	if factory == nil {
		factory = func(dest string) (Sink, error) {
			return NewSink(dest, collector, logger)
		}
	}

	return &Dispatcher{
		cfg:     cfg,
		logger:  logger,
		newSink: factory,
		buffers: make(map[string]*destBuffer),
		sinks:   make(map[string]Sink),
		flushCh: make(chan string, 64),
		done:    make(chan struct{}),
	}
}

// Start launches the background flush worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.flushLoop()
	d.logger.Info("msg", "Dispatcher started",
		"component", "dispatcher",
		"flush_threshold", d.cfg.FlushThreshold,
		"flush_interval_ms", d.cfg.FlushIntervalMS)
}

// Enqueue appends a rendered line to the destination's buffer. The caller
// is never blocked on sink I/O; reaching the flush threshold only signals
// the worker. Overflow beyond the configured maximum drops the oldest
// pending lines.
func (d *Dispatcher) Enqueue(dest string, line []byte) {
	d.mu.Lock()
	b, exists := d.buffers[dest]
	if !exists {
		b = &destBuffer{}
		d.buffers[dest] = b
	}

	b.pending = append(b.pending, line)
	d.totalEnqueued.Add(1)

	if over := len(b.pending) - d.cfg.MaxBuffered; over > 0 {
		b.pending = b.pending[over:]
		d.totalDropped.Add(uint64(over))
		d.logger.Warn("msg", "Delivery buffer overflow, dropped oldest lines",
			"component", "dispatcher",
			"destination", dest,
			"dropped", over)
	}

	trigger := len(b.pending) >= d.cfg.FlushThreshold
	d.mu.Unlock()

	if trigger {
		select {
		case d.flushCh <- dest:
		default:
			// Worker already has a pending signal; the timer will catch up
		}
	}
}

// Flush synchronously flushes every destination buffer once.
func (d *Dispatcher) Flush() {
	for _, dest := range d.destinations() {
		d.flushDestination(dest)
	}
}

// Stop drains the worker, performs a final flush, and closes all sinks.
func (d *Dispatcher) Stop() {
	d.logger.Info("msg", "Stopping dispatcher")
	close(d.done)
	d.wg.Wait()

	d.Flush()

	d.mu.Lock()
	sinks := make([]Sink, 0, len(d.sinks))
	for _, s := range d.sinks {
		sinks = append(sinks, s)
	}
	d.sinks = make(map[string]Sink)
	d.mu.Unlock()

	for _, s := range sinks {
		s.Close()
	}

	d.logger.Info("msg", "Dispatcher stopped",
		"total_enqueued", d.totalEnqueued.Load(),
		"total_flushed", d.totalFlushed.Load(),
		"total_dropped", d.totalDropped.Load(),
		"failed_flushes", d.failedFlushes.Load())
}

// Stats returns dispatcher counters and per-destination pending depths.
func (d *Dispatcher) Stats() map[string]any {
	pending := make(map[string]int)
	d.mu.Lock()
	for dest, b := range d.buffers {
		pending[dest] = len(b.pending)
	}
	d.mu.Unlock()

	return map[string]any{
		"total_enqueued": d.totalEnqueued.Load(),
		"total_flushed":  d.totalFlushed.Load(),
		"total_dropped":  d.totalDropped.Load(),
		"failed_flushes": d.failedFlushes.Load(),
		"pending":        pending,
	}
}

func (d *Dispatcher) flushLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(time.Duration(d.cfg.FlushIntervalMS) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case dest := <-d.flushCh:
			d.flushDestination(dest)
		case <-ticker.C:
			d.Flush()
		case <-d.done:
			return
		}
	}
}

func (d *Dispatcher) flushDestination(dest string) {
	d.mu.Lock()
	b, exists := d.buffers[dest]
	d.mu.Unlock()
	if !exists {
		return
	}

	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	d.mu.Lock()
	batch := b.pending
	b.pending = nil
	d.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	sink, err := d.sinkFor(dest)
	if err != nil {
		d.requeue(b, batch)
		d.failedFlushes.Add(1)
		d.logger.Error("msg", "Sink unavailable, batch re-queued",
			"component", "dispatcher",
			"destination", dest,
			"batch_size", len(batch),
			"error", err)
		return
	}

	if err := sink.Write(batch); err != nil {
		d.requeue(b, batch)
		d.failedFlushes.Add(1)
		d.logger.Error("msg", "Flush failed, batch re-queued",
			"component", "dispatcher",
			"destination", dest,
			"sink", sink.Name(),
			"batch_size", len(batch),
			"error", err)
		return
	}

	d.totalFlushed.Add(uint64(len(batch)))
}

// requeue returns a failed batch to the front of the buffer, ahead of any
// lines enqueued during the attempt.
func (d *Dispatcher) requeue(b *destBuffer, batch [][]byte) {
	d.mu.Lock()
	b.pending = append(batch, b.pending...)
	if over := len(b.pending) - d.cfg.MaxBuffered; over > 0 {
		b.pending = b.pending[over:]
		d.totalDropped.Add(uint64(over))
	}
	d.mu.Unlock()
}

func (d *Dispatcher) sinkFor(dest string) (Sink, error) {
	d.mu.Lock()
	if s, ok := d.sinks[dest]; ok {
		d.mu.Unlock()
		return s, nil
	}
	d.mu.Unlock()

	s, err := d.newSink(dest)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.sinks[dest]; ok {
		s.Close()
		return existing, nil
	}
	d.sinks[dest] = s
	return s, nil
}

func (d *Dispatcher) destinations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	dests := make([]string, 0, len(d.buffers))
	for dest := range d.buffers {
		dests = append(dests, dest)
	}
	return dests
}
