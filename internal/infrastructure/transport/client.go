package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"framecast/internal/core/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ClientConfig configures the streaming connection to the server.
type ClientConfig struct {
	URL              string
	Token            string
	ClientName       string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	MaxReconnectWait time.Duration
}

// ReconnectingClient is a websocket frame writer that transparently
// re-dials the server with exponential backoff when the connection drops.
// A frame that hits a dead connection is dropped; the capture pipeline
// keeps producing and later frames flow once the redial succeeds.
type ReconnectingClient struct {
	cfg    ClientConfig
	logger *zap.SugaredLogger

	mu           sync.Mutex
	conn         *websocket.Conn
	closed       atomic.Bool
	reconnecting atomic.Bool
}

// NewReconnectingClient creates a client for the given server URL. Call
// Connect before writing frames.
func NewReconnectingClient(cfg ClientConfig, logger *zap.SugaredLogger) *ReconnectingClient {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.MaxReconnectWait <= 0 {
		cfg.MaxReconnectWait = 30 * time.Second
	}
	return &ReconnectingClient{cfg: cfg, logger: logger}
}

// Connect dials the server, retrying with exponential backoff until the
// context is cancelled.
func (c *ReconnectingClient) Connect(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = c.cfg.MaxReconnectWait
	policy.MaxElapsedTime = 0

	operation := func() error {
		if c.closed.Load() {
			return backoff.Permanent(domain.ErrConnectionClosed)
		}
		return c.dial(ctx)
	}
	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

func (c *ReconnectingClient) dial(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	if c.cfg.ClientName != "" {
		header.Set("X-Client-Name", c.cfg.ClientName)
	}

	conn, resp, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.logger.Warnw("dial failed", "url", c.cfg.URL, "status", status, "error", err)
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.logger.Infow("connected", "url", c.cfg.URL)
	return nil
}

// WriteFrame sends one frame as a binary message. On a write error the
// connection is torn down and redialed in the background; the frame
// itself is not retried.
func (c *ReconnectingClient) WriteFrame(ctx context.Context, frame *domain.Frame) error {
	if c.closed.Load() {
		return domain.ErrConnectionClosed
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return domain.ErrConnectionFailed
	}

	conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, MarshalFrame(frame)); err != nil {
		c.logger.Warnw("frame write failed, reconnecting", "sequence", frame.Sequence, "error", err)
		c.teardown(conn)
		go c.reconnect(ctx)
		return fmt.Errorf("write frame %d: %w", frame.Sequence, err)
	}
	return nil
}

func (c *ReconnectingClient) teardown(conn *websocket.Conn) {
	conn.Close()
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.mu.Unlock()
}

func (c *ReconnectingClient) reconnect(ctx context.Context) {
	// only one redial loop at a time
	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}
	defer c.reconnecting.Store(false)

	if err := c.Connect(ctx); err != nil && !c.closed.Load() {
		c.logger.Errorw("reconnect abandoned", "error", err)
	}
}

// Close shuts the connection down for good; subsequent writes fail with
// ErrConnectionClosed.
func (c *ReconnectingClient) Close() error {
	c.closed.Store(true)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
