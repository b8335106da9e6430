package middleware

import (
	"errors"
	"math"
	"testing"
	"time"

	"SignalPull/internal/domain/models"
	"SignalPull/internal/repository"
)

type nopMetrics struct{}

func (nopMetrics) RecordTick(string, string)       {}
func (nopMetrics) RecordVerdict(string)            {}
func (nopMetrics) RecordFetch(string)              {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}

func TestProcessRecordsTick(t *testing.T) {
	store := repository.NewMemoryTickStore()
	p := NewTickPipeline(store, nopMetrics{})

	err := p.Process(models.Tick{Symbol: "frxEURUSD", Price: 1.08, Timestamp: time.Now()})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if store.Len("frxEURUSD") != 1 {
		t.Fatalf("tick not recorded")
	}
}

func TestProcessRejectsInvalid(t *testing.T) {
	store := repository.NewMemoryTickStore()
	p := NewTickPipeline(store, nopMetrics{})

	if err := p.Process(models.Tick{Symbol: "", Price: 1.0, Timestamp: time.Now()}); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
	err := p.Process(models.Tick{Symbol: "frxEURUSD", Price: math.NaN(), Timestamp: time.Now()})
	if !errors.Is(err, models.ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if store.Len("frxEURUSD") != 0 {
		t.Fatalf("invalid tick must not reach the store")
	}
}

func TestProcessThrottles(t *testing.T) {
	store := repository.NewMemoryTickStore()
	p := NewTickPipeline(store, nopMetrics{}, WithMaxRPS(1))

	now := time.Now()
	_ = p.Process(models.Tick{Symbol: "frxEURUSD", Price: 1.0, Timestamp: now})
	_ = p.Process(models.Tick{Symbol: "frxEURUSD", Price: 1.1, Timestamp: now})

	if store.Len("frxEURUSD") != 1 {
		t.Fatalf("second tick within the same second should be throttled, got %d", store.Len("frxEURUSD"))
	}
}
