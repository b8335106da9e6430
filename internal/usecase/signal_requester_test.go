package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalPull/internal/domain/models"
	"SignalPull/internal/repository"
	"SignalPull/internal/service/alias"
	applogger "SignalPull/pkg/logger"
)

type fakeFetcher struct {
	calls   int
	budgets []time.Duration
	fill    []float64
	err     error
	store   *repository.MemoryTickStore
}

func (f *fakeFetcher) Fetch(_ context.Context, symbol string, budget time.Duration) ([]models.Tick, error) {
	f.calls++
	f.budgets = append(f.budgets, budget)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Tick
	now := time.Now()
	for i, p := range f.fill {
		ts := now.Add(time.Duration(i-len(f.fill)) * time.Millisecond)
		_ = f.store.Record(symbol, p, ts)
		out = append(out, models.Tick{Symbol: symbol, Price: p, Timestamp: ts})
	}
	return out, nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newRequester(t *testing.T, store *repository.MemoryTickStore, f *fakeFetcher) *SignalRequester {
	t.Helper()
	aliases := alias.NewTable(map[string]string{"EURUSD": "frxEURUSD"})
	return NewSignalRequester(store, f, aliases, nil, nopMetrics{}, testLogger(t))
}

func fillStore(store *repository.MemoryTickStore, symbol string, prices []float64) {
	now := time.Now()
	for i, p := range prices {
		_ = store.Record(symbol, p, now.Add(time.Duration(i-len(prices))*time.Millisecond))
	}
}

func TestRequestSignalUsesCache(t *testing.T) {
	store := repository.NewMemoryTickStore()
	prices := make([]float64, 80)
	for i := range prices {
		prices[i] = 1.1000 + float64(i)*0.0001
	}
	fillStore(store, "frxEURUSD", prices)

	f := &fakeFetcher{store: store}
	r := newRequester(t, store, f)

	res, err := r.RequestSignal(context.Background(), "EURUSD", time.Minute, 2*time.Minute)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if f.calls != 0 {
		t.Fatalf("cache satisfies the threshold, fetch should not run (ran %d times)", f.calls)
	}
	if res.Verdict.Direction != models.Buy {
		t.Fatalf("rising prices should yield BUY, got %s (%s)", res.Verdict.Direction, res.Verdict.Rationale)
	}
	if res.Symbol != "frxEURUSD" || res.Instrument != "EURUSD" {
		t.Fatalf("alias resolution broke: %q -> %q", res.Instrument, res.Symbol)
	}
	if res.LastPrice != prices[len(prices)-1] {
		t.Fatalf("last price = %v, want %v", res.LastPrice, prices[len(prices)-1])
	}
}

func TestRequestSignalBackfillsThinHistory(t *testing.T) {
	store := repository.NewMemoryTickStore()
	fill := make([]float64, 40)
	for i := range fill {
		fill[i] = 1.2000 - float64(i)*0.0002
	}
	f := &fakeFetcher{store: store, fill: fill}
	r := newRequester(t, store, f)

	res, err := r.RequestSignal(context.Background(), "EURUSD", time.Minute, 2*time.Minute)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if f.calls != 1 {
		t.Fatalf("expected exactly one backfill fetch, got %d", f.calls)
	}
	if got := f.budgets[0]; got != 10*time.Second {
		t.Fatalf("1m timeframe budget = %v, want 10s", got)
	}
	if res.Verdict.Direction != models.Sell {
		t.Fatalf("falling prices should yield SELL, got %s (%s)", res.Verdict.Direction, res.Verdict.Rationale)
	}
}

func TestRequestSignalFetchFailureHolds(t *testing.T) {
	store := repository.NewMemoryTickStore()
	f := &fakeFetcher{store: store, err: models.ErrDataAcquisition}
	r := newRequester(t, store, f)

	res, err := r.RequestSignal(context.Background(), "EURUSD", time.Minute, 2*time.Minute)
	if err != nil {
		t.Fatalf("acquisition failure must not surface as an error, got %v", err)
	}
	if res.Verdict.Direction != models.Hold || res.Verdict.Rationale != "failed to retrieve data" {
		t.Fatalf("got %s (%q)", res.Verdict.Direction, res.Verdict.Rationale)
	}
}

func TestRequestSignalEmptyWindowHolds(t *testing.T) {
	store := repository.NewMemoryTickStore()
	f := &fakeFetcher{store: store}
	r := newRequester(t, store, f)

	res, err := r.RequestSignal(context.Background(), "EURUSD", time.Minute, 2*time.Minute)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if res.Verdict.Direction != models.Hold || res.Verdict.Rationale != "no recent prices" {
		t.Fatalf("got %s (%q)", res.Verdict.Direction, res.Verdict.Rationale)
	}
}

func TestRequestSignalInvalidTimeframe(t *testing.T) {
	store := repository.NewMemoryTickStore()
	r := newRequester(t, store, &fakeFetcher{store: store})

	_, err := r.RequestSignal(context.Background(), "EURUSD", 0, time.Minute)
	if !errors.Is(err, models.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestFetchBudgetBounds(t *testing.T) {
	cases := []struct {
		tfSec int
		want  time.Duration
	}{
		{1, 5 * time.Second},
		{5, 5 * time.Second},
		{7, 7 * time.Second},
		{10, 10 * time.Second},
		{60, 10 * time.Second},
	}
	for _, c := range cases {
		if got := fetchBudget(c.tfSec); got != c.want {
			t.Fatalf("fetchBudget(%d) = %v, want %v", c.tfSec, got, c.want)
		}
	}
}
