package eventloop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-chat-client/internal/infrastructure/logger"
)

var (
	ErrNotRunning     = errors.New("event loop is not running")
	ErrAlreadyRunning = errors.New("event loop is already running")
)

// Loop runs posted callbacks one at a time, in the order they were posted.
// Timer firings and inbound socket frames go through it so their effects
// on shared state are serialized.
type Loop struct {
	running   bool
	runningMu sync.RWMutex

	logger logger.Logger

	tasks chan func()

	postTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Loop with a task buffer of the given size
func New(logger logger.Logger, buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		logger:      logger.WithField("component", "eventloop"),
		tasks:       make(chan func(), buffer),
		postTimeout: 5 * time.Second,
	}
}

// Start begins processing posted callbacks
func (l *Loop) Start(ctx context.Context) error {
	l.runningMu.Lock()
	defer l.runningMu.Unlock()

	if l.running {
		return ErrAlreadyRunning
	}

	l.ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	l.running = true

	go l.run(l.ctx, l.done)

	l.logger.Debug("Event loop started")
	return nil
}

// Stop halts the loop and waits for the callback in flight, if any.
// Callbacks still queued are discarded.
func (l *Loop) Stop(ctx context.Context) error {
	l.runningMu.Lock()
	if !l.running {
		l.runningMu.Unlock()
		return nil
	}
	l.running = false
	l.cancel()
	done := l.done
	l.runningMu.Unlock()

	select {
	case <-done:
		l.logger.Debug("Event loop stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for event loop: %w", ctx.Err())
	}
}

// IsRunning returns true if the loop is currently processing callbacks
func (l *Loop) IsRunning() bool {
	l.runningMu.RLock()
	defer l.runningMu.RUnlock()
	return l.running
}

// Post queues fn for execution on the loop goroutine
func (l *Loop) Post(fn func()) error {
	l.runningMu.RLock()
	running, ctx := l.running, l.ctx
	l.runningMu.RUnlock()

	if !running {
		return ErrNotRunning
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-ctx.Done():
		return ErrNotRunning
	case <-time.After(l.postTimeout):
		return fmt.Errorf("timeout posting to event loop")
	}
}

func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		select {
		case fn := <-l.tasks:
			l.execute(fn)

		case <-ctx.Done():
			return
		}
	}
}

func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Errorf("Recovered from panic in event loop callback: %v", r)
		}
	}()
	fn()
}
