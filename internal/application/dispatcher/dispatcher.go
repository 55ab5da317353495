package dispatcher

import (
	"encoding/json"

	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/connection"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/metrics"
)

// ConnectionProvider yields the connection handle in effect right now, or nil
type ConnectionProvider interface {
	Read() connection.Handle
}

// Dispatcher forwards outbound messages over the current connection.
// Sending is best-effort: nothing is queued, retried or reported back.
type Dispatcher struct {
	connections ConnectionProvider
	logger      logger.Logger
	metrics     *metrics.Metrics
}

func New(connections ConnectionProvider, logger logger.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		connections: connections,
		logger:      logger.WithField("component", "dispatcher"),
		metrics:     m,
	}
}

// Send transmits msg as JSON text if a connection is present.
// The handle is looked up on every call, never cached.
func (d *Dispatcher) Send(msg model.OutboundMessage) {
	handle := d.connections.Read()
	if handle == nil {
		d.logger.Warnf("Connection was nil, dropping %s message", msg.Kind)
		d.metrics.MessageDropped("no_connection")
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		d.logger.Errorf("Failed to encode %s message: %v", msg.Kind, err)
		d.metrics.MessageDropped("encode")
		return
	}

	d.logger.Debugf("Sending message %s", payload)
	if err := handle.Transmit(string(payload)); err != nil {
		d.logger.Warnf("Failed to transmit %s message on %s: %v", msg.Kind, handle.ID(), err)
		d.metrics.MessageDropped("transmit")
		return
	}
	d.metrics.MessageSent()
}
