package di

import (
	"fmt"
	"os"

	"SignalPull/internal/domain/repository"
	"SignalPull/internal/handler/api"
	"SignalPull/internal/handler/console"
	mid "SignalPull/internal/middleware"
	internalrepo "SignalPull/internal/repository"
	"SignalPull/internal/service/alias"
	"SignalPull/internal/service/deriv"
	"SignalPull/internal/service/ratelimit"
	"SignalPull/internal/usecase"
	"SignalPull/pkg/config"
	xhttp "SignalPull/pkg/http"
	applogger "SignalPull/pkg/logger"
	"SignalPull/pkg/metrics"
	"SignalPull/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTickStore creates the in-memory bounded tick store.
func ProvideTickStore(cfg *config.Config) repository.TickStore {
	return internalrepo.NewMemoryTickStore(
		internalrepo.WithCapacity(cfg.Store.MaxPoints),
	)
}

// ProvideAliasTable creates the instrument alias table seeded from config.
func ProvideAliasTable(cfg *config.Config) *alias.Table {
	return alias.NewTable(cfg.Aliases)
}

// ProvideDerivStream creates the Deriv WebSocket market stream.
func ProvideDerivStream(cfg *config.Config, logger *applogger.Logger) repository.MarketStream {
	return deriv.New(
		cfg.Deriv.WebSocketURL,
		cfg.Deriv.AppID,
		cfg.Deriv.Token,
		cfg.Deriv.Symbols,
		cfg.Deriv.PingInterval,
		cfg.Deriv.DialTimeout,
		logger,
	)
}

// ProvideSnapshotFetcher creates the bounded one-shot snapshot fetcher.
func ProvideSnapshotFetcher(
	cfg *config.Config,
	store repository.TickStore,
	m repository.Metrics,
	logger *applogger.Logger,
) repository.SnapshotSource {
	return deriv.NewFetcher(
		cfg.Deriv.WebSocketURL,
		cfg.Deriv.AppID,
		cfg.Deriv.Token,
		cfg.Deriv.DialTimeout,
		store,
		m,
		logger,
	)
}

// ProvideTickPipeline creates the validate/throttle/record pipeline.
func ProvideTickPipeline(cfg *config.Config, store repository.TickStore, m repository.Metrics) *mid.TickPipeline {
	return mid.NewTickPipeline(store, m,
		mid.WithMaxRPS(cfg.Ingest.MaxRPS),
	)
}

// ProvideTickCollector creates the background feed collector.
func ProvideTickCollector(
	stream repository.MarketStream,
	pipe *mid.TickPipeline,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.TickCollector {
	return usecase.NewTickCollector(stream, pipe, m, logger)
}

// ProvideFetchLimiter creates the per-instrument snapshot fetch throttle.
func ProvideFetchLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Fetch.Burst, cfg.Fetch.RefillPerSec)
}

// ProvideSignalRequester creates the signal orchestration use case.
func ProvideSignalRequester(
	store repository.TickStore,
	fetcher repository.SnapshotSource,
	aliases *alias.Table,
	limiter *ratelimit.Limiter,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.SignalRequester {
	return usecase.NewSignalRequester(store, fetcher, aliases, limiter, m, logger)
}

// ProvideSignalsHandler creates the HTTP API handler.
func ProvideSignalsHandler(
	logger *applogger.Logger,
	requester *usecase.SignalRequester,
	aliases *alias.Table,
	collector *usecase.TickCollector,
) xhttp.Handler {
	return api.NewSignalsHandler(logger, requester, aliases, collector)
}

// ProvideConsole creates the interactive console bound to stdin/stdout.
func ProvideConsole(
	requester *usecase.SignalRequester,
	aliases *alias.Table,
	logger *applogger.Logger,
) *console.Console {
	return console.New(requester, aliases, logger, os.Stdin, os.Stdout)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.TickCollector,
	handler xhttp.Handler,
	con *console.Console,
) *server.App {
	return server.New(cfg, logger, collector, handler, con)
}
