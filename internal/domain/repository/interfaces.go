package repository

import (
	"context"
	"time"

	"SignalPull/internal/domain/models"
)

// TickStore keeps a bounded rolling tick history per instrument. Both the
// background listener and the snapshot fetcher write into it concurrently;
// signal requests read from it.
type TickStore interface {
	Record(symbol string, price float64, ts time.Time) error
	PricesSince(symbol string, window time.Duration) []float64
	Len(symbol string) int
}

// MarketStream is a long-lived provider connection producing parsed ticks.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan models.Tick, <-chan error)
	Close() error
	IsConnected() bool
}

// SnapshotSource performs a bounded one-shot subscription for a single
// instrument and returns whatever ticks arrived within the budget.
type SnapshotSource interface {
	Fetch(ctx context.Context, symbol string, budget time.Duration) ([]models.Tick, error)
}

type Metrics interface {
	RecordTick(source, symbol string)
	RecordVerdict(direction string)
	RecordFetch(outcome string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
