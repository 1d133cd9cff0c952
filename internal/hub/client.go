package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"groupdeck/internal/platform/config"
)

// Client is an authenticated websocket session against the hub API. It
// multiplexes concurrent commands over one connection and surfaces change
// events as a coalesced signal.
type Client struct {
	conn        *websocket.Conn
	logger      *slog.Logger
	callTimeout time.Duration

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan serverFrame

	changes chan struct{}
	done    chan struct{}
	err     error
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets a logger for connection-level diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Dial connects to the hub, performs the token handshake, and starts the read
// loop. The returned client is ready for commands.
func Dial(ctx context.Context, cfg config.HubConfig, opts ...Option) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial hub: %w", err)
	}

	c := &Client{
		conn:        conn,
		logger:      slog.Default(),
		callTimeout: cfg.CallTimeout,
		pending:     make(map[int64]chan serverFrame),
		changes:     make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.callTimeout <= 0 {
		c.callTimeout = 10 * time.Second
	}

	if err := c.authenticate(cfg.AccessToken); err != nil {
		conn.Close()
		return nil, err
	}

	go c.readLoop()
	return c, nil
}

func (c *Client) authenticate(token string) error {
	var hello authFrame
	if err := c.conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("read auth challenge: %w", err)
	}
	if hello.Type != frameAuthRequired {
		return fmt.Errorf("unexpected hub greeting %q", hello.Type)
	}
	if err := c.conn.WriteJSON(authFrame{Type: "auth", AccessToken: token}); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}
	var verdict authFrame
	if err := c.conn.ReadJSON(&verdict); err != nil {
		return fmt.Errorf("read auth verdict: %w", err)
	}
	if verdict.Type != frameAuthOK {
		return fmt.Errorf("hub rejected access token")
	}
	return nil
}

// Changes returns a coalesced signal channel: at least one receive is pending
// after any hub change event, regardless of how many events arrived.
func (c *Client) Changes() <-chan struct{} {
	return c.changes
}

// Done is closed when the session ends; Err reports why.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the terminal session error after Done is closed.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close tears the session down.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) readLoop() {
	for {
		var frame serverFrame
		if err := c.conn.ReadJSON(&frame); err != nil {
			c.fail(err)
			return
		}
		switch frame.Type {
		case frameResult:
			c.mu.Lock()
			ch, ok := c.pending[frame.ID]
			if ok {
				delete(c.pending, frame.ID)
			}
			c.mu.Unlock()
			if ok {
				ch <- frame
			}
		case frameEvent:
			select {
			case c.changes <- struct{}{}:
			default:
				// A refresh is already pending; further events coalesce.
			}
		default:
			c.logger.Debug("ignoring hub frame", "type", frame.Type)
		}
	}
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	c.err = err
	pending := c.pending
	c.pending = make(map[int64]chan serverFrame)
	c.mu.Unlock()

	for id, ch := range pending {
		ch <- serverFrame{ID: id, Type: frameResult, Error: &serverError{Code: "disconnected", Message: err.Error()}}
	}
	close(c.done)
}

// call sends one command frame and waits for the matching result.
func (c *Client) call(ctx context.Context, frame commandFrame) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	ch := make(chan serverFrame, 1)
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return nil, fmt.Errorf("hub session closed: %w", err)
	}
	c.nextID++
	frame.ID = c.nextID
	c.pending[frame.ID] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(frame)
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, frame.ID)
		c.mu.Unlock()
		return nil, fmt.Errorf("send %s: %w", frame.Type, err)
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, frame.ID)
		c.mu.Unlock()
		return nil, ctx.Err()
	case res := <-ch:
		if res.Error != nil {
			return nil, fmt.Errorf("%s: hub error %s: %s", frame.Type, res.Error.Code, res.Error.Message)
		}
		if !res.Success {
			return nil, fmt.Errorf("%s: hub reported failure", frame.Type)
		}
		return res.Result, nil
	}
}
