package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lorrc/scan-relay/internal/core/domain"
	apperrors "github.com/lorrc/scan-relay/internal/core/errors"
)

const (
	// Time allowed to write a message to the peer.
	defaultWriteWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	defaultPongWait = 60 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Outbound messages buffered per session before it counts as slow.
	defaultSendBuffer = 256
)

// ClientConfig tunes the per-connection timings.
type ClientConfig struct {
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
	SendBuffer int
}

// DefaultClientConfig returns the timings used when none are configured.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		WriteWait:  defaultWriteWait,
		PongWait:   defaultPongWait,
		PingPeriod: (defaultPongWait * 9) / 10,
		SendBuffer: defaultSendBuffer,
	}
}

func (c ClientConfig) withDefaults() ClientConfig {
	d := DefaultClientConfig()
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	// Pings must go out before the peer's read deadline expires
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = (c.PongWait * 9) / 10
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	return c
}

// Client is a viewer session backed by a websocket connection.
type Client struct {
	id       string
	conn     *websocket.Conn
	registry *Registry
	cfg      ClientConfig

	// Buffered channel of encoded outbound messages.
	send chan []byte

	// mu guards closed and the close of send
	mu     sync.Mutex
	closed bool

	logger *slog.Logger
}

var _ Session = (*Client)(nil)

// NewClient creates a session for conn. The caller registers it and starts
// the pumps.
func NewClient(registry *Registry, conn *websocket.Conn, cfg ClientConfig, logger *slog.Logger) *Client {
	cfg = cfg.withDefaults()
	id := uuid.NewString()
	return &Client{
		id:       id,
		conn:     conn,
		registry: registry,
		cfg:      cfg,
		send:     make(chan []byte, cfg.SendBuffer),
		logger:   logger.With("session_id", id),
	}
}

// ID returns the session identifier.
func (c *Client) ID() string {
	return c.id
}

// Deliver queues message for the write pump without blocking.
func (c *Client) Deliver(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return apperrors.ErrSessionClosed
	}

	select {
	case c.send <- message:
		return nil
	default:
		return apperrors.ErrSendBufferFull
	}
}

// DeliverMessage encodes msg and queues it.
func (c *Client) DeliverMessage(msg domain.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.Deliver(data)
}

// Close closes the send channel exactly once. The write pump then sends a
// close frame and tears down the connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads control and client messages until the connection fails,
// then removes the session from the registry.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Unregister(c.id)
		c.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump writes queued messages and keep-alive pings to the connection.
// Every write carries a deadline so a stalled peer cannot hang the pump.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The session was closed. Send close message.
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// --- Incoming Message Handling ---

// ClientMessage is the structure for messages sent from the viewer.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// handleIncomingMessage processes messages received from the viewer.
// Viewers are receive-only apart from keep-alives.
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case "PING":
		// Client-side keep-alive, respond with pong
		if err := c.DeliverMessage(domain.Message{Type: domain.MessagePong}); err != nil {
			c.logger.Debug("failed to queue pong", "error", err)
		}

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}
