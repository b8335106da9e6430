package deriv

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"SignalPull/internal/domain/models"
	"SignalPull/internal/repository"
	applogger "SignalPull/pkg/logger"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "read deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// fakeConn scripts reads and records writes.
type fakeConn struct {
	frames   [][]byte
	finalErr error // returned once frames are exhausted
	writes   []interface{}
	forgets  int
	closes   int
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.writes = append(c.writes, v)
	if _, ok := v.(forgetRequest); ok {
		c.forgets++
	}
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	if len(c.frames) == 0 {
		return 0, nil, c.finalErr
	}
	raw := c.frames[0]
	c.frames = c.frames[1:]
	return 1, raw, nil
}

func (c *fakeConn) SetReadDeadline(time.Time) error { return nil }
func (c *fakeConn) Close() error                    { c.closes++; return nil }

type nopMetrics struct{}

func (nopMetrics) RecordTick(string, string)       {}
func (nopMetrics) RecordVerdict(string)            {}
func (nopMetrics) RecordFetch(string)              {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestFetcher(t *testing.T, conn *fakeConn, store *repository.MemoryTickStore) *Fetcher {
	t.Helper()
	f := NewFetcher("wss://example", "1089", "", time.Second, store, nopMetrics{}, testLogger(t))
	f.dial = func(context.Context) (snapshotConn, error) { return conn, nil }
	return f
}

func tickFrame(symbol string, price float64) []byte {
	return []byte(fmt.Sprintf(`{"tick":{"symbol":%q,"quote":%v,"epoch":%d}}`, symbol, price, time.Now().Unix()))
}

func TestFetchCollectsAndStores(t *testing.T) {
	conn := &fakeConn{
		frames: [][]byte{
			[]byte(`{"subscription":{"id":"abc"}}`), // ack, ignored
			tickFrame("frxEURUSD", 1.1),
			tickFrame("frxEURUSD", 1.2),
		},
		finalErr: timeoutErr{},
	}
	store := repository.NewMemoryTickStore()
	f := newTestFetcher(t, conn, store)

	got, err := f.Fetch(context.Background(), "frxEURUSD", time.Second)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(got))
	}
	if store.Len("frxEURUSD") != 2 {
		t.Fatalf("ticks not forwarded into store")
	}
	if conn.forgets != 1 {
		t.Fatalf("expected exactly one forget, got %d", conn.forgets)
	}
	if conn.closes != 1 {
		t.Fatalf("connection not released")
	}
}

func TestFetchEmptyBudgetIsNotAnError(t *testing.T) {
	conn := &fakeConn{finalErr: timeoutErr{}}
	store := repository.NewMemoryTickStore()
	f := newTestFetcher(t, conn, store)

	got, err := f.Fetch(context.Background(), "frxEURUSD", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("silent provider must not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no ticks, got %d", len(got))
	}
	if conn.forgets != 1 {
		t.Fatalf("expected exactly one forget, got %d", conn.forgets)
	}
}

func TestFetchFaultStillReleases(t *testing.T) {
	conn := &fakeConn{
		frames:   [][]byte{tickFrame("frxEURUSD", 1.1)},
		finalErr: errors.New("connection reset"),
	}
	store := repository.NewMemoryTickStore()
	f := newTestFetcher(t, conn, store)

	got, err := f.Fetch(context.Background(), "frxEURUSD", time.Second)
	if !errors.Is(err, models.ErrDataAcquisition) {
		t.Fatalf("expected ErrDataAcquisition, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ticks collected before the fault should be returned, got %d", len(got))
	}
	if conn.forgets != 1 {
		t.Fatalf("forget must be attempted before the error propagates, got %d", conn.forgets)
	}
	if conn.closes != 1 {
		t.Fatalf("connection not released")
	}
}

func TestFetchDialFailure(t *testing.T) {
	f := NewFetcher("wss://example", "1089", "", time.Second, repository.NewMemoryTickStore(), nopMetrics{}, testLogger(t))
	f.dial = func(context.Context) (snapshotConn, error) { return nil, errors.New("refused") }

	_, err := f.Fetch(context.Background(), "frxEURUSD", time.Second)
	if !errors.Is(err, models.ErrDataAcquisition) {
		t.Fatalf("expected ErrDataAcquisition, got %v", err)
	}
}
