package deriv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"SignalPull/internal/domain/models"
	drepo "SignalPull/internal/domain/repository"
	applogger "SignalPull/pkg/logger"

	"github.com/gorilla/websocket"
)

// snapshotConn is the slice of *websocket.Conn the fetcher needs; tests
// substitute a scripted connection.
type snapshotConn interface {
	WriteJSON(v interface{}) error
	ReadMessage() (int, []byte, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// Fetcher implements SnapshotSource: a one-shot, budget-bounded subscription
// on a dedicated connection, used to backfill history when the cached window
// is too thin to evaluate. Collected ticks are returned to the caller and
// forwarded into the shared store as they arrive.
type Fetcher struct {
	wsURL       string
	appID       string
	token       string
	dialTimeout time.Duration

	store   drepo.TickStore
	metrics drepo.Metrics
	logger  *applogger.Logger

	dial func(ctx context.Context) (snapshotConn, error)
	now  func() time.Time
}

// NewFetcher creates a snapshot fetcher sharing the listener's endpoint
// configuration but none of its connection state.
func NewFetcher(wsURL, appID, token string, dialTimeout time.Duration, store drepo.TickStore, metrics drepo.Metrics, l *applogger.Logger) *Fetcher {
	f := &Fetcher{
		wsURL:       wsURL,
		appID:       appID,
		token:       token,
		dialTimeout: dialTimeout,
		store:       store,
		metrics:     metrics,
		logger:      l,
		now:         time.Now,
	}
	f.dial = func(ctx context.Context) (snapshotConn, error) {
		u := fmt.Sprintf("%s?app_id=%s", f.wsURL, f.appID)
		dctx, cancel := context.WithTimeout(ctx, f.dialTimeout)
		defer cancel()
		conn, _, err := websocket.DefaultDialer.DialContext(dctx, u, nil)
		return conn, err
	}
	return f
}

var _ drepo.SnapshotSource = (*Fetcher)(nil)

// Fetch subscribes to one instrument and collects ticks until the wall-clock
// budget elapses. Each receive is bounded by the remaining budget, so a
// silent provider ends the loop at budget exhaustion with an empty, valid
// result. The forget request echoing the subscribe payload is sent on every
// exit path once the subscription went out, including error paths.
func (f *Fetcher) Fetch(ctx context.Context, symbol string, budget time.Duration) (collected []models.Tick, err error) {
	start := f.now()
	defer func() {
		f.metrics.RecordLatency("snapshot_fetch", time.Since(start).Seconds())
	}()

	conn, err := f.dial(ctx)
	if err != nil {
		f.metrics.RecordFetch("failed")
		return nil, fmt.Errorf("%w: dial: %v", models.ErrDataAcquisition, err)
	}
	defer conn.Close()

	if f.token != "" {
		if err := f.authorizeConn(conn); err != nil {
			f.metrics.RecordFetch("failed")
			return nil, fmt.Errorf("%w: authorize: %v", models.ErrDataAcquisition, err)
		}
	}

	sub := ticksRequest{Ticks: symbol, Subscribe: 1}
	if err := conn.WriteJSON(sub); err != nil {
		f.metrics.RecordFetch("failed")
		return nil, fmt.Errorf("%w: subscribe %s: %v", models.ErrDataAcquisition, symbol, err)
	}
	// release the live subscription whatever happens below; runs before the
	// deferred Close
	defer func() {
		if werr := conn.WriteJSON(forgetRequest{Forget: sub}); werr != nil {
			f.logger.Debug("deriv: forget failed", applogger.String("symbol", symbol), applogger.Error(werr))
		}
	}()

	deadline := start.Add(budget)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		_ = conn.SetReadDeadline(time.Now().Add(remaining))
		_, raw, rerr := conn.ReadMessage()
		if rerr != nil {
			if isTimeout(rerr) {
				// budget exhausted, not a fault
				break
			}
			f.metrics.RecordFetch("failed")
			return collected, fmt.Errorf("%w: read %s: %v", models.ErrDataAcquisition, symbol, rerr)
		}

		// dedicated single-instrument connection: symbol-less ticks can be
		// attributed to our one subscription
		t, ok := extractTick(raw, symbol, f.now)
		if !ok {
			continue
		}
		collected = append(collected, t)
		if serr := f.store.Record(t.Symbol, t.Price, t.Timestamp); serr != nil {
			f.metrics.RecordError("snapshot_record")
			f.logger.Debug("deriv: snapshot tick dropped", applogger.Error(serr))
			continue
		}
		f.metrics.RecordTick("snapshot", t.Symbol)
		f.metrics.RecordLastPrice(t.Symbol, t.Price)
	}

	if len(collected) == 0 {
		f.metrics.RecordFetch("empty")
	} else {
		f.metrics.RecordFetch("ok")
	}
	return collected, nil
}

func (f *Fetcher) authorizeConn(conn snapshotConn) error {
	if err := conn.WriteJSON(authorizeRequest{Authorize: f.token}); err != nil {
		return err
	}
	_ = conn.SetReadDeadline(time.Now().Add(f.dialTimeout))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	var env tickEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != nil {
		return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	return nil
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
