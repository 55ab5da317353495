package connection

import (
	"context"
	"errors"
)

var (
	ErrClosed     = errors.New("connection is closed")
	ErrBufferFull = errors.New("connection send buffer is full")
)

// Handle is a live bidirectional channel to the chat server. Its lifecycle
// (open, close) is owned outside the code that transmits through it.
type Handle interface {
	ID() string
	// Transmit queues text for delivery. It never blocks on the network.
	Transmit(text string) error
	Close() error
	IsClosed() bool
	// Context is cancelled once the connection is closed from either side.
	Context() context.Context
}

// OnMessage receives every inbound text frame
type OnMessage func(data []byte)

// Dialer opens a new Handle, delivering inbound frames to onMessage
type Dialer interface {
	Dial(ctx context.Context, onMessage OnMessage) (Handle, error)
}
