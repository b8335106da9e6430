//go:build wireinject
// +build wireinject

package di

import (
	"SignalPull/pkg/config"
	"SignalPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// State and provider access
		ProvideTickStore,
		ProvideAliasTable,
		ProvideDerivStream,
		ProvideSnapshotFetcher,

		// Use cases
		ProvideTickPipeline,
		ProvideTickCollector,
		ProvideFetchLimiter,
		ProvideSignalRequester,

		// Surfaces
		ProvideSignalsHandler,
		ProvideConsole,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
