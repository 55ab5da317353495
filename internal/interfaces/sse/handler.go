package sse

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/store"
)

const (
	EventToasts     = "toasts"
	EventMessages   = "messages"
	EventRegistered = "registered"
)

// StateEventHandler streams store snapshots to UI clients. Each event
// carries the full current value, so a slow client only ever misses
// intermediate states, never the latest one.
type StateEventHandler struct {
	stores    *store.Stores
	logger    logger.Logger
	keepAlive time.Duration
}

func NewStateEventHandler(stores *store.Stores, logger logger.Logger) *StateEventHandler {
	return &StateEventHandler{
		stores:    stores,
		logger:    logger.WithField("handler", "sse"),
		keepAlive: 30 * time.Second,
	}
}

// Stream handles GET /events
func (h *StateEventHandler) Stream(c *gin.Context) {
	toastsDirty := make(chan struct{}, 1)
	messagesDirty := make(chan struct{}, 1)
	registeredDirty := make(chan struct{}, 1)

	unsubscribers := []store.Unsubscribe{
		h.stores.Toasts.Subscribe(func([]model.ToastItem) { mark(toastsDirty) }),
		h.stores.Messages.Subscribe(func([]model.ChatMessage) { mark(messagesDirty) }),
		h.stores.HasRegisteredName.Subscribe(func(bool) { mark(registeredDirty) }),
	}
	defer func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}()

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	h.logger.Debug("SSE client connected")

	if err := h.writeAll(w); err != nil {
		h.logger.Warnf("Failed to write initial state: %v", err)
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		var err error
		select {
		case <-toastsDirty:
			err = h.write(w, EventToasts, h.toasts())
		case <-messagesDirty:
			err = h.write(w, EventMessages, h.messages())
		case <-registeredDirty:
			err = h.write(w, EventRegistered, h.stores.HasRegisteredName.Read())
		case <-ticker.C:
			_, err = w.Write([]byte(": keepalive\n\n"))
			w.Flush()
		case <-ctx.Done():
			h.logger.Debug("SSE client disconnected")
			return
		}
		if err != nil {
			h.logger.Warnf("Failed to write event: %v", err)
			return
		}
	}
}

func (h *StateEventHandler) writeAll(w gin.ResponseWriter) error {
	if err := h.write(w, EventToasts, h.toasts()); err != nil {
		return err
	}
	if err := h.write(w, EventMessages, h.messages()); err != nil {
		return err
	}
	return h.write(w, EventRegistered, h.stores.HasRegisteredName.Read())
}

func (h *StateEventHandler) write(w gin.ResponseWriter, event string, data any) error {
	if err := sse.Encode(w, sse.Event{Event: event, Data: data}); err != nil {
		return err
	}
	w.Flush()
	return nil
}

func (h *StateEventHandler) toasts() []model.ToastItem {
	if items := h.stores.Toasts.Read(); items != nil {
		return items
	}
	return []model.ToastItem{}
}

func (h *StateEventHandler) messages() []model.ChatMessage {
	if msgs := h.stores.Messages.Read(); msgs != nil {
		return msgs
	}
	return []model.ChatMessage{}
}

// mark flags ch without blocking; one pending flag is enough
func mark(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
