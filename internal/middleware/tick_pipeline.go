package middleware

import (
	"fmt"
	"sync"
	"time"

	"SignalPull/internal/domain/models"
	drepo "SignalPull/internal/domain/repository"
)

// TickPipeline sits between the listener and the store. It validates ticks,
// throttles a runaway feed per symbol, and forwards what survives into the
// TickStore. Invalid ticks are dropped locally and never terminate the feed.
type TickPipeline struct {
	store   drepo.TickStore
	metrics drepo.Metrics
	maxRPS  int

	mu       sync.Mutex
	lastSeen map[string]time.Time // per-symbol last accepted time
}

type PipelineOption func(*TickPipeline)

// WithMaxRPS sets the max ticks per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *TickPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// NewTickPipeline creates a new pipeline writing into store.
func NewTickPipeline(store drepo.TickStore, metrics drepo.Metrics, opts ...PipelineOption) *TickPipeline {
	p := &TickPipeline{
		store:    store,
		metrics:  metrics,
		maxRPS:   50, // default per-symbol throttle
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process validates and throttles a tick, then records it. A throttled tick
// is dropped silently; a rejected tick returns the validation error so the
// caller can count it.
func (p *TickPipeline) Process(t models.Tick) error {
	if t.Symbol == "" {
		p.metrics.RecordError("pipeline_validate")
		return fmt.Errorf("pipeline: tick without symbol")
	}
	if !p.allow(t.Symbol, time.Now()) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.store.Record(t.Symbol, t.Price, t.Timestamp); err != nil {
		// non-finite price; store is untouched
		p.metrics.RecordError("pipeline_record")
		return fmt.Errorf("pipeline: %w", err)
	}
	p.metrics.RecordTick("listener", t.Symbol)
	p.metrics.RecordLastPrice(t.Symbol, t.Price)
	return nil
}

func (p *TickPipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[symbol]
	if last.IsZero() || now.Sub(last) >= time.Second/time.Duration(p.maxRPS) {
		p.lastSeen[symbol] = now
		return true
	}
	return false
}
