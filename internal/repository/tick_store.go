package repository

import (
	"fmt"
	"math"
	"sync"
	"time"

	"SignalPull/internal/domain/models"
	drepo "SignalPull/internal/domain/repository"
)

// MemoryTickStore implements TickStore with a fixed-capacity ring buffer per
// instrument. FIFO eviction keeps memory bounded under an unthrottled feed
// and keeps inserts O(1) so the listener loop never blocks on the store.
type MemoryTickStore struct {
	mu        sync.RWMutex
	capacity  int
	histories map[string]*history
	now       func() time.Time
}

// history is ordered by arrival, not by tick timestamp; out-of-order
// delivery from the provider is possible and tolerated.
type history struct {
	ticks []models.Tick
	head  int // index of the oldest entry
	size  int
}

const defaultCapacity = 500

// StoreOption configures MemoryTickStore.
type StoreOption func(*MemoryTickStore)

// WithCapacity sets the per-instrument ring capacity.
func WithCapacity(n int) StoreOption {
	return func(s *MemoryTickStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock overrides the window-cutoff clock (tests).
func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryTickStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryTickStore creates an empty store.
func NewMemoryTickStore(opts ...StoreOption) *MemoryTickStore {
	s := &MemoryTickStore{
		capacity:  defaultCapacity,
		histories: make(map[string]*history),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ drepo.TickStore = (*MemoryTickStore)(nil)

// Record appends a tick, creating the instrument's history on first sight and
// evicting the oldest entry at capacity. Non-finite prices are rejected.
func (s *MemoryTickStore) Record(symbol string, price float64, ts time.Time) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("record %s: %w: %v", symbol, models.ErrInvalidPrice, price)
	}
	if ts.IsZero() {
		ts = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.histories[symbol]
	if !ok {
		h = &history{ticks: make([]models.Tick, s.capacity)}
		s.histories[symbol] = h
	}

	t := models.Tick{Symbol: symbol, Price: price, Timestamp: ts}
	if h.size < len(h.ticks) {
		h.ticks[(h.head+h.size)%len(h.ticks)] = t
		h.size++
		return nil
	}
	// full: overwrite the oldest slot
	h.ticks[h.head] = t
	h.head = (h.head + 1) % len(h.ticks)
	return nil
}

// PricesSince returns prices with timestamp >= now-window in insertion order.
// Unknown instruments yield an empty slice. A short result means sparse data
// or a wrapped buffer; callers treat it as "insufficient", not as an error.
func (s *MemoryTickStore) PricesSince(symbol string, window time.Duration) []float64 {
	cutoff := s.now().Add(-window)

	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.histories[symbol]
	if !ok {
		return nil
	}
	out := make([]float64, 0, h.size)
	for i := 0; i < h.size; i++ {
		t := h.ticks[(h.head+i)%len(h.ticks)]
		if !t.Timestamp.Before(cutoff) {
			out = append(out, t.Price)
		}
	}
	return out
}

// Len reports how many ticks are currently held for symbol.
func (s *MemoryTickStore) Len(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.histories[symbol]; ok {
		return h.size
	}
	return 0
}
