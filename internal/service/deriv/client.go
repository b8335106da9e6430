package deriv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"SignalPull/internal/domain/models"
	drepo "SignalPull/internal/domain/repository"
	applogger "SignalPull/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a MarketStream backed by the Deriv v3 WebSocket API.
// It holds one long-lived connection subscribed to the configured symbols;
// the snapshot fetcher uses its own short-lived connections (see Fetcher).
type Client struct {
	wsURL        string
	appID        string
	token        string
	symbols      []string
	pingInterval time.Duration
	dialTimeout  time.Duration
	logger       *applogger.Logger

	conn      *websocket.Conn
	connected bool
	now       func() time.Time
}

// New creates a new Deriv MarketStream.
func New(wsURL, appID, token string, symbols []string, pingInterval, dialTimeout time.Duration, l *applogger.Logger) drepo.MarketStream {
	return &Client{
		wsURL:        wsURL,
		appID:        appID,
		token:        token,
		symbols:      symbols,
		pingInterval: pingInterval,
		dialTimeout:  dialTimeout,
		logger:       l,
		now:          time.Now,
	}
}

// Connect dials the endpoint and, when a token is configured, forwards it
// verbatim in an authorize request before anything else. No token means
// anonymous public-data access.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?app_id=%s", c.wsURL, c.appID)

	dctx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(dctx, u, nil)
	if err != nil {
		return fmt.Errorf("deriv connect: %w", err)
	}

	if c.token != "" {
		if err := authorize(conn, c.token, c.dialTimeout); err != nil {
			_ = conn.Close()
			return fmt.Errorf("deriv authorize: %w", err)
		}
	}

	c.conn = conn
	c.connected = true
	c.logger.Info("deriv: connected", applogger.Bool("authorized", c.token != ""))
	return nil
}

// authorize sends the opaque token and waits for the acknowledgement frame.
func authorize(conn *websocket.Conn, token string, timeout time.Duration) error {
	if err := conn.WriteJSON(authorizeRequest{Authorize: token}); err != nil {
		return err
	}
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	defer conn.SetReadDeadline(time.Time{})

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

// Subscribe subscribes to ticks for the configured symbols.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("deriv not connected")
	}
	for _, s := range c.symbols {
		if err := c.conn.WriteJSON(ticksRequest{Ticks: s, Subscribe: 1}); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
		c.logger.Debug("deriv: subscribed", applogger.String("symbol", s))
	}
	return nil
}

// Read streams parsed ticks and terminal errors. Unrecognized frames
// (subscription acks, heartbeats, malformed payloads) are discarded without
// terminating the loop; the only terminal conditions are context
// cancellation and a connection fault.
func (c *Client) Read(ctx context.Context) (<-chan models.Tick, <-chan error) {
	ticks := make(chan models.Tick, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("deriv conn nil")
					return
				}
				_, raw, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("deriv read: %w", err)
					return
				}
				// shared connection: no fallback symbol, ticks must
				// carry their own
				t, ok := extractTick(raw, "", c.now)
				if !ok {
					continue
				}
				select {
				case ticks <- t:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
