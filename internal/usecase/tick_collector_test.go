package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalPull/internal/domain/models"
	mid "SignalPull/internal/middleware"
	"SignalPull/internal/repository"
)

type nopMetrics struct{}

func (nopMetrics) RecordTick(string, string)       {}
func (nopMetrics) RecordVerdict(string)            {}
func (nopMetrics) RecordFetch(string)              {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}

type fakeStream struct {
	ticks  chan models.Tick
	errs   chan error
	closed bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{ticks: make(chan models.Tick, 8), errs: make(chan error, 1)}
}

func (s *fakeStream) Connect(context.Context) error   { return nil }
func (s *fakeStream) Subscribe(context.Context) error { return nil }
func (s *fakeStream) Read(context.Context) (<-chan models.Tick, <-chan error) {
	return s.ticks, s.errs
}
func (s *fakeStream) Close() error      { s.closed = true; return nil }
func (s *fakeStream) IsConnected() bool { return !s.closed }

func waitDone(t *testing.T, c *TickCollector) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("consumer did not stop")
	}
}

func TestCollectorPipesTicksIntoStore(t *testing.T) {
	store := repository.NewMemoryTickStore()
	pipe := mid.NewTickPipeline(store, nopMetrics{})
	stream := newFakeStream()
	c := NewTickCollector(stream, pipe, nopMetrics{}, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	stream.ticks <- models.Tick{Symbol: "frxEURUSD", Price: 1.08, Timestamp: time.Now()}

	deadline := time.Now().Add(2 * time.Second)
	for store.Len("frxEURUSD") == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("tick never reached the store")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	waitDone(t, c)
}

func TestCollectorStopsOnStreamFault(t *testing.T) {
	store := repository.NewMemoryTickStore()
	pipe := mid.NewTickPipeline(store, nopMetrics{})
	stream := newFakeStream()
	c := NewTickCollector(stream, pipe, nopMetrics{}, testLogger(t))

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	stream.errs <- errors.New("connection reset")
	waitDone(t, c)
}
