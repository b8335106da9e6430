package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"SignalPull/internal/handler/console"
	"SignalPull/internal/usecase"
	"SignalPull/pkg/config"
	xhttp "SignalPull/pkg/http"
	applogger "SignalPull/pkg/logger"
)

// App encapsulates the entire application lifecycle: the background tick
// collector, the HTTP API, and the optional interactive console.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	collector  *usecase.TickCollector
	handler    xhttp.Handler
	console    *console.Console
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	collector *usecase.TickCollector,
	handler xhttp.Handler,
	con *console.Console,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		handler:   handler,
		console:   con,
	}
}

// Run starts the application and blocks until interrupted. A feed failure
// does not stop the process; signal requests fall back to on-demand fetches.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler, a.logger,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	go func() {
		if err := a.collector.Start(ctx); err != nil {
			a.logger.Error("collector start error", applogger.Error(err))
		}
	}()
	a.logger.Info("collector started", applogger.Strings("symbols", a.cfg.Deriv.Symbols))

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	consoleDone := make(chan struct{})
	if a.cfg.Console.Enabled && a.console != nil {
		go func() {
			defer close(consoleDone)
			if err := a.console.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("console error", applogger.Error(err))
			}
		}()
		a.logger.Info("console started")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		a.logger.Info("shutdown signal received")
	case <-consoleDone:
		a.logger.Info("console closed, shutting down")
	}
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	if err := a.collector.Shutdown(context.Background()); err != nil {
		a.logger.Warn("collector stop error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}
