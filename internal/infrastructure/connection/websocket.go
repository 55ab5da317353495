package connection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"go-chat-client/internal/infrastructure/logger"
)

const (
	defaultWriteTimeout = 10 * time.Second
	defaultPongTimeout  = 60 * time.Second
	defaultPingInterval = 54 * time.Second
	defaultSendBuffer   = 256
)

// WebSocketConnection implements Handle over a gorilla websocket.
// All writes happen on writePump; all reads on readPump.
type WebSocketConnection struct {
	id   string
	conn *websocket.Conn

	ctx    context.Context
	cancel context.CancelFunc

	closed   bool
	closedMu sync.RWMutex

	logger logger.Logger

	send      chan string
	onMessage OnMessage

	writeTimeout time.Duration
	pongTimeout  time.Duration
	pingInterval time.Duration
}

var _ Handle = (*WebSocketConnection)(nil)

// NewWebSocketConnection wraps an established websocket and starts its pumps
func NewWebSocketConnection(
	conn *websocket.Conn,
	onMessage OnMessage,
	logger logger.Logger,
) *WebSocketConnection {
	ctx, cancel := context.WithCancel(context.Background())
	id := "ws-" + uuid.NewString()

	wsConn := &WebSocketConnection{
		id:           id,
		conn:         conn,
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger.WithField("connection_id", id),
		send:         make(chan string, defaultSendBuffer),
		onMessage:    onMessage,
		writeTimeout: defaultWriteTimeout,
		pongTimeout:  defaultPongTimeout,
		pingInterval: defaultPingInterval,
	}

	wsConn.setupWebSocket()

	go wsConn.writePump()
	go wsConn.readPump()

	return wsConn
}

// ID returns unique connection identifier
func (c *WebSocketConnection) ID() string {
	return c.id
}

// Transmit queues a text frame. Delivery is not confirmed.
func (c *WebSocketConnection) Transmit(text string) error {
	if c.IsClosed() {
		return ErrClosed
	}

	select {
	case c.send <- text:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	default:
		return ErrBufferFull
	}
}

// Close cancels the connection; writePump sends the close frame and
// releases the socket.
func (c *WebSocketConnection) Close() error {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()

	c.logger.Info("WebSocket connection closed")
	return nil
}

// IsClosed returns true if connection is closed
func (c *WebSocketConnection) IsClosed() bool {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()
	return c.closed
}

// Context returns the connection's context (for cancellation)
func (c *WebSocketConnection) Context() context.Context {
	return c.ctx
}

func (c *WebSocketConnection) setupWebSocket() {
	c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
		return nil
	})
}

func (c *WebSocketConnection) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case text := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				c.logger.Errorf("Failed to write message: %v", err)
				c.Close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Errorf("Failed to send ping: %v", err)
				c.Close()
				return
			}

		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			c.conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			return
		}
	}
}

func (c *WebSocketConnection) readPump() {
	defer c.Close()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				c.logger.Errorf("WebSocket error: %v", err)
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			c.logger.Debugf("Received text message: %s", string(data))
			if c.onMessage != nil {
				c.onMessage(data)
			}

		case websocket.BinaryMessage:
			c.logger.Debugf("Ignoring binary message of length: %d", len(data))
		}
	}
}

// WebSocketDialer opens client connections to the chat server
type WebSocketDialer struct {
	URL              string
	HandshakeTimeout time.Duration
	Logger           logger.Logger
}

func (d *WebSocketDialer) Dial(ctx context.Context, onMessage OnMessage) (Handle, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: d.HandshakeTimeout,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}

	conn, resp, err := dialer.DialContext(ctx, d.URL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", d.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", d.URL, err)
	}

	return NewWebSocketConnection(conn, onMessage, d.Logger), nil
}
