package usecase

import (
	"context"

	"SignalPull/internal/domain/models"
	drepo "SignalPull/internal/domain/repository"
	mid "SignalPull/internal/middleware"
	applogger "SignalPull/pkg/logger"
)

// TickCollector owns the background market feed. It connects, subscribes
// and consumes ticks into the pipeline until the context is cancelled or
// the stream faults. A stream fault terminates the consumer; on-demand
// snapshot fetches keep serving signals while the feed is down.
type TickCollector struct {
	stream  drepo.MarketStream
	pipe    *mid.TickPipeline
	metrics drepo.Metrics
	logger  *applogger.Logger

	done chan struct{}
}

// NewTickCollector creates a new TickCollector instance.
func NewTickCollector(stream drepo.MarketStream, pipe *mid.TickPipeline, metrics drepo.Metrics, logger *applogger.Logger) *TickCollector {
	return &TickCollector{
		stream:  stream,
		pipe:    pipe,
		metrics: metrics,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// IsConnected returns true if the market stream is connected.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Done is closed when the consumer loop exits.
func (c *TickCollector) Done() <-chan struct{} { return c.done }

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, tickCh <-chan models.Tick, errCh <-chan error) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				c.logger.Error("market stream fault, listener stopped", applogger.Error(err))
				return
			}
		case t, ok := <-tickCh:
			if !ok {
				return
			}
			if err := c.pipe.Process(t); err != nil {
				c.logger.Debug("tick dropped", applogger.String("symbol", t.Symbol), applogger.Error(err))
			}
		}
	}
}

// Shutdown closes the stream; the consumer exits via its error channel
// or context cancellation.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	return c.stream.Close()
}
