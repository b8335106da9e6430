package usecase

import (
	"context"
	"fmt"
	"time"

	"SignalPull/internal/domain/models"
	drepo "SignalPull/internal/domain/repository"
	"SignalPull/internal/service/alias"
	"SignalPull/internal/service/ratelimit"
	"SignalPull/internal/services/strategy"
	applogger "SignalPull/pkg/logger"
)

// SignalRequester is the entry point for computing a trading signal on
// demand. It resolves the instrument alias, backfills thin history with a
// bounded snapshot fetch, and runs the crossover strategy over the strict
// timeframe window.
type SignalRequester struct {
	store   drepo.TickStore
	fetcher drepo.SnapshotSource
	aliases *alias.Table
	limiter *ratelimit.Limiter
	metrics drepo.Metrics
	logger  *applogger.Logger
	now     func() time.Time
}

type RequesterOption func(*SignalRequester)

// WithRequesterClock overrides the time source.
func WithRequesterClock(now func() time.Time) RequesterOption {
	return func(r *SignalRequester) { r.now = now }
}

// NewSignalRequester creates a new SignalRequester instance.
func NewSignalRequester(
	store drepo.TickStore,
	fetcher drepo.SnapshotSource,
	aliases *alias.Table,
	limiter *ratelimit.Limiter,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	opts ...RequesterOption,
) *SignalRequester {
	r := &SignalRequester{
		store:   store,
		fetcher: fetcher,
		aliases: aliases,
		limiter: limiter,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RequestSignal computes a verdict for instrument over the given timeframe.
// Expiration is carried through as metadata only. Acquisition faults are
// downgraded to a HOLD verdict; only invalid input reaches the caller as an
// error.
func (r *SignalRequester) RequestSignal(ctx context.Context, instrument string, timeframe, expiration time.Duration) (models.SignalResult, error) {
	if timeframe <= 0 {
		return models.SignalResult{}, fmt.Errorf("timeframe %v: %w", timeframe, models.ErrInvalidDuration)
	}
	symbol := r.aliases.Resolve(instrument)
	result := models.SignalResult{
		Instrument: instrument,
		Symbol:     symbol,
		Timeframe:  timeframe,
		Expiration: expiration,
	}

	tfSec := int(timeframe / time.Second)
	lookback := 3 * timeframe
	cached := len(r.store.PricesSince(symbol, lookback))
	if cached < minHistory(tfSec) {
		if err := r.backfill(ctx, symbol, tfSec); err != nil {
			r.logger.Warn("snapshot backfill failed",
				applogger.String("symbol", symbol), applogger.Error(err))
			result.Verdict = holdVerdict("failed to retrieve data", r.now())
			r.metrics.RecordVerdict(string(result.Verdict.Direction))
			return result, nil
		}
	}

	window := r.store.PricesSince(symbol, timeframe)
	if len(window) == 0 {
		result.Verdict = holdVerdict("no recent prices", r.now())
		r.metrics.RecordVerdict(string(result.Verdict.Direction))
		return result, nil
	}
	result.LastPrice = window[len(window)-1]

	fastLen, slowLen := strategy.WindowLengths(timeframe)
	result.Verdict = strategy.Evaluate(window, fastLen, slowLen)
	result.Verdict.ComputedAt = r.now()
	r.metrics.RecordVerdict(string(result.Verdict.Direction))
	return result, nil
}

func (r *SignalRequester) backfill(ctx context.Context, symbol string, tfSec int) error {
	if r.limiter != nil && !r.limiter.Allow(symbol) {
		// fetch throttled; decide on whatever history exists
		r.logger.Debug("snapshot fetch throttled", applogger.String("symbol", symbol))
		return nil
	}
	_, err := r.fetcher.Fetch(ctx, symbol, fetchBudget(tfSec))
	return err
}

// minHistory is the cached-price count below which a backfill runs.
func minHistory(tfSec int) int {
	if tfSec > 10 {
		return tfSec
	}
	return 10
}

// fetchBudget bounds a backfill between 5 and 10 seconds, scaled by the
// requested timeframe.
func fetchBudget(tfSec int) time.Duration {
	sec := tfSec
	if sec < 5 {
		sec = 5
	}
	if sec > 10 {
		sec = 10
	}
	return time.Duration(sec) * time.Second
}

func holdVerdict(rationale string, at time.Time) models.Verdict {
	return models.Verdict{Direction: models.Hold, Rationale: rationale, ComputedAt: at}
}
