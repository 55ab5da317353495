package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go-chat-client/internal/application/facade"
	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/store"
)

var ErrQuit = errors.New("quit requested")

// Terminal is the line-oriented UI binding: commands come in on in,
// new messages and toasts are printed to out.
type Terminal struct {
	in     io.Reader
	out    io.Writer
	outMu  sync.Mutex
	stores *store.Stores
	chat   *facade.ChatApplicationService
	logger logger.Logger

	printedMessages int
	seenToasts      map[string]struct{}
}

func NewTerminal(
	in io.Reader,
	out io.Writer,
	stores *store.Stores,
	chat *facade.ChatApplicationService,
	logger logger.Logger,
) *Terminal {
	return &Terminal{
		in:         in,
		out:        out,
		stores:     stores,
		chat:       chat,
		logger:     logger.WithField("binding", "terminal"),
		seenToasts: make(map[string]struct{}),
	}
}

// Run processes input until ctx is done or the user types /quit.
// End of input leaves the client running headless.
func (t *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribeMessages := t.stores.Messages.Subscribe(t.renderMessages)
	defer unsubscribeMessages()
	unsubscribeToasts := t.stores.Toasts.Subscribe(t.renderToasts)
	defer unsubscribeToasts()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			t.logger.Warnf("Failed to read input: %v", err)
		}
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.logger.Debug("Input closed, running headless")
				lines = nil
				continue
			}
			if err := t.handleLine(line); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (t *Terminal) handleLine(line string) error {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return nil
	case line == "/quit":
		return ErrQuit
	case line == "/name" || strings.HasPrefix(line, "/name "):
		// failures surface as toasts
		_ = t.chat.RegisterName(strings.TrimPrefix(line, "/name"))
	default:
		_ = t.chat.SendChat(line)
	}
	return nil
}

func (t *Terminal) renderMessages(messages []model.ChatMessage) {
	t.outMu.Lock()
	defer t.outMu.Unlock()

	start := t.printedMessages
	if start > len(messages) {
		// history was replaced
		start = 0
	}
	for _, msg := range messages[start:] {
		fmt.Fprintf(t.out, "%s: %s\n", msg.Name, msg.Message)
	}
	t.printedMessages = len(messages)
}

func (t *Terminal) renderToasts(items []model.ToastItem) {
	t.outMu.Lock()
	defer t.outMu.Unlock()

	current := make(map[string]struct{}, len(items))
	for _, item := range items {
		current[item.ID] = struct{}{}
		if _, seen := t.seenToasts[item.ID]; seen {
			continue
		}
		fmt.Fprintf(t.out, "[%s] %s\n", item.Category, item.Text)
	}
	t.seenToasts = current
}
