package toast

import (
	"time"

	"github.com/google/uuid"

	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/metrics"
	"go-chat-client/internal/infrastructure/timer"
)

// Queue is the state the manager publishes to. Update must apply fn
// atomically against the latest value.
type Queue interface {
	Read() []model.ToastItem
	Write([]model.ToastItem)
	Update(fn func([]model.ToastItem) []model.ToastItem)
}

// Manager owns the toast queue: it appends new toasts and removes each one
// after duration, or earlier on request. Removal is keyed by id and is a
// no-op for ids that are already gone, so a timer firing after a manual
// remove or a reset does nothing.
type Manager struct {
	queue    Queue
	timer    timer.Scheduler
	duration time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics
}

func NewManager(
	queue Queue,
	scheduler timer.Scheduler,
	duration time.Duration,
	logger logger.Logger,
	m *metrics.Metrics,
) *Manager {
	return &Manager{
		queue:    queue,
		timer:    scheduler,
		duration: duration,
		logger:   logger.WithField("component", "toast"),
		metrics:  m,
	}
}

// Add appends a new visible toast and schedules its expiry
func (m *Manager) Add(req model.ToastRequest) model.ToastItem {
	item := model.ToastItem{
		ID:       uuid.NewString(),
		Category: req.Category,
		Text:     req.Text,
		Visible:  true,
	}

	m.queue.Update(func(cur []model.ToastItem) []model.ToastItem {
		next := make([]model.ToastItem, len(cur), len(cur)+1)
		copy(next, cur)
		return append(next, item)
	})
	m.metrics.ToastCreated(string(item.Category))
	m.syncGauge()

	m.timer.Schedule(m.duration, func() {
		m.expire(item.ID)
	})

	m.logger.Debugf("Toast %s added (%s): %s", item.ID, item.Category, item.Text)
	return item
}

// Remove drops the toast with the given id, if it is still queued
func (m *Manager) Remove(id string) {
	if m.removeID(id) {
		m.logger.Debugf("Toast %s removed", id)
	}
}

// RemoveItem is Remove keyed by the item's id
func (m *Manager) RemoveItem(item model.ToastItem) {
	m.Remove(item.ID)
}

// Reset empties the queue. Pending expiries will find nothing to remove.
func (m *Manager) Reset() {
	m.queue.Write([]model.ToastItem{})
	m.syncGauge()
}

// Items returns a snapshot of the queue in display order
func (m *Manager) Items() []model.ToastItem {
	cur := m.queue.Read()
	out := make([]model.ToastItem, len(cur))
	copy(out, cur)
	return out
}

// Duration is how long a toast stays queued before it expires
func (m *Manager) Duration() time.Duration {
	return m.duration
}

func (m *Manager) expire(id string) {
	if m.removeID(id) {
		m.logger.Debugf("Toast %s expired", id)
	}
}

// removeID filters id out of the current queue and reports whether it was there
func (m *Manager) removeID(id string) bool {
	removed := false
	m.queue.Update(func(cur []model.ToastItem) []model.ToastItem {
		next := make([]model.ToastItem, 0, len(cur))
		for _, it := range cur {
			if it.ID == id {
				removed = true
				continue
			}
			next = append(next, it)
		}
		if !removed {
			return cur
		}
		return next
	})
	if removed {
		m.syncGauge()
	}
	return removed
}

func (m *Manager) syncGauge() {
	m.metrics.SetToastsActive(len(m.queue.Read()))
}
