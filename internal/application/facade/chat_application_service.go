package facade

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go-chat-client/internal/application/dispatcher"
	"go-chat-client/internal/application/toast"
	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/connection"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/metrics"
	"go-chat-client/internal/infrastructure/store"
	"go-chat-client/internal/infrastructure/timer"
)

var (
	ErrAlreadyConnected = errors.New("already connected")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNotRegistered    = errors.New("register a name before chatting")
)

// ChatApplicationService is what the UI bindings talk to. It keeps the
// stores in step with the connection and the server's messages.
type ChatApplicationService struct {
	stores     *store.Stores
	dispatcher *dispatcher.Dispatcher
	toasts     *toast.Manager
	dialer     connection.Dialer
	poster     timer.Poster
	logger     logger.Logger
	metrics    *metrics.Metrics

	// connectMu makes the check and the dial in Connect one step
	connectMu sync.Mutex
}

func NewChatApplicationService(
	stores *store.Stores,
	dispatcher *dispatcher.Dispatcher,
	toasts *toast.Manager,
	dialer connection.Dialer,
	poster timer.Poster,
	logger logger.Logger,
	m *metrics.Metrics,
) *ChatApplicationService {
	return &ChatApplicationService{
		stores:     stores,
		dispatcher: dispatcher,
		toasts:     toasts,
		dialer:     dialer,
		poster:     poster,
		logger:     logger.WithField("component", "chat"),
		metrics:    m,
	}
}

// Connect dials the server and publishes the new handle. Inbound frames and
// the disconnect notification are handled on the poster's goroutine.
func (s *ChatApplicationService) Connect(ctx context.Context) error {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()

	if s.stores.Connection.Read() != nil {
		return ErrAlreadyConnected
	}

	handle, err := s.dialer.Dial(ctx, func(data []byte) {
		s.post(func() { s.HandleInbound(data) })
	})
	if err != nil {
		s.toasts.Add(model.ToastRequest{
			Category: model.ToastNetwork,
			Text:     "Could not connect to the chat server",
		})
		return fmt.Errorf("connect: %w", err)
	}

	s.stores.Connection.Write(handle)
	s.logger.Infof("Connected as %s", handle.ID())

	go func() {
		<-handle.Context().Done()
		s.post(func() { s.handleDisconnect(handle) })
	}()

	return nil
}

// Disconnect closes the current connection, if any
func (s *ChatApplicationService) Disconnect() {
	handle := s.stores.Connection.Read()
	if handle == nil {
		return
	}
	s.stores.Connection.Write(nil)
	s.stores.HasRegisteredName.Write(false)
	if err := handle.Close(); err != nil {
		s.logger.Warnf("Failed to close connection %s: %v", handle.ID(), err)
	}
}

// RegisterName records the wanted name locally and asks the server for it.
// Registration completes when the server answers NameRegistered.
func (s *ChatApplicationService) RegisterName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.toasts.Add(model.ToastRequest{Category: model.ToastClientError, Text: "Name cannot be empty"})
		return ErrEmptyName
	}

	s.stores.Name.Write(name)
	s.dispatcher.Send(model.RegisterNameMessage(name))
	return nil
}

// SendChat sends text under the registered name. Empty text is ignored.
func (s *ChatApplicationService) SendChat(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if !s.stores.HasRegisteredName.Read() {
		s.toasts.Add(model.ToastRequest{Category: model.ToastClientError, Text: "Register a name before chatting"})
		return ErrNotRegistered
	}

	s.dispatcher.Send(model.ChatOutboundMessage(s.stores.Name.Read(), text))
	return nil
}

// HandleInbound applies one server frame to the stores
func (s *ChatApplicationService) HandleInbound(data []byte) {
	var msg model.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.Warnf("Unreadable message from server: %s", string(data))
		s.toasts.Add(model.ToastRequest{Category: model.ToastServerError, Text: "Received an unreadable message from the server"})
		return
	}
	s.metrics.InboundMessage(string(msg.Kind))

	switch msg.Kind {
	case model.ServerMessageAllMessages:
		var history []model.ChatMessage
		if !s.decode(msg, &history) {
			return
		}
		s.stores.Messages.Write(history)

	case model.ServerMessageNewMessage:
		var chat model.ChatMessage
		if !s.decode(msg, &chat) {
			return
		}
		s.stores.Messages.Update(func(cur []model.ChatMessage) []model.ChatMessage {
			next := make([]model.ChatMessage, len(cur), len(cur)+1)
			copy(next, cur)
			return append(next, chat)
		})

	case model.ServerMessageNameRegistered:
		s.stores.HasRegisteredName.Write(true)
		s.toasts.Add(model.ToastRequest{
			Category: model.ToastSuccess,
			Text:     fmt.Sprintf("Registered as %s", s.stores.Name.Read()),
		})

	case model.ServerMessageNameTaken:
		s.stores.HasRegisteredName.Write(false)
		s.toasts.Add(model.ToastRequest{
			Category: model.ToastClientError,
			Text:     fmt.Sprintf("The name %q is already taken", s.stores.Name.Read()),
		})

	case model.ServerMessageJoined:
		var text string
		if !s.decode(msg, &text) {
			return
		}
		s.toasts.Add(model.ToastRequest{Category: model.ToastInfo, Text: text})

	default:
		s.logger.Warnf("Unknown message type from server: %q", msg.Kind)
	}
}

func (s *ChatApplicationService) decode(msg model.InboundMessage, into any) bool {
	if err := json.Unmarshal(msg.Data, into); err != nil {
		s.logger.Warnf("Could not decode %s payload: %v", msg.Kind, err)
		s.toasts.Add(model.ToastRequest{
			Category: model.ToastServerError,
			Text:     fmt.Sprintf("Malformed %s message from the server", msg.Kind),
		})
		return false
	}
	return true
}

// handleDisconnect clears the connection store only if it still holds the
// handle that went away; a newer connection is left alone.
func (s *ChatApplicationService) handleDisconnect(handle connection.Handle) {
	if s.stores.Connection.Read() != handle {
		return
	}
	s.stores.Connection.Write(nil)
	s.stores.HasRegisteredName.Write(false)
	s.toasts.Add(model.ToastRequest{Category: model.ToastNetwork, Text: "Disconnected from the chat server"})
	s.logger.Infof("Connection %s lost", handle.ID())
}

func (s *ChatApplicationService) post(fn func()) {
	if err := s.poster.Post(fn); err != nil {
		s.logger.Debugf("Dropped event: %v", err)
	}
}
