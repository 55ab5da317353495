package timer

import (
	"time"

	"go-chat-client/internal/infrastructure/logger"
)

// Scheduler runs a callback once after a delay. There is no cancellation;
// callers make late firings harmless instead.
type Scheduler interface {
	Schedule(d time.Duration, fn func())
}

// Poster hands a callback to the goroutine that owns shared state
type Poster interface {
	Post(fn func()) error
}

// LoopScheduler fires timers through a Poster so callbacks run on the
// event loop rather than on the runtime's timer goroutine.
type LoopScheduler struct {
	poster Poster
	logger logger.Logger
}

var _ Scheduler = (*LoopScheduler)(nil)

func NewLoopScheduler(poster Poster, logger logger.Logger) *LoopScheduler {
	return &LoopScheduler{
		poster: poster,
		logger: logger.WithField("component", "timer"),
	}
}

func (s *LoopScheduler) Schedule(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		if err := s.poster.Post(fn); err != nil {
			s.logger.Debugf("Dropped timer callback: %v", err)
		}
	})
}
