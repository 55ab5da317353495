package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chat-client/internal/domain/model"
	"go-chat-client/internal/infrastructure/logger"
	"go-chat-client/internal/infrastructure/metrics"
	"go-chat-client/internal/infrastructure/store"
	"go-chat-client/internal/infrastructure/timer"
)

const testDuration = 3 * time.Second

func newTestManager() (*Manager, *store.Observable[[]model.ToastItem], *timer.Fake) {
	queue := store.New().Toasts
	clock := timer.NewFake()
	return NewManager(queue, clock, testDuration, logger.NewNop(), metrics.New()), queue, clock
}

func ids(items []model.ToastItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestAdd_ReturnsVisibleItemWithID(t *testing.T) {
	m, queue, clock := newTestManager()

	item := m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "Saved"})

	assert.NotEmpty(t, item.ID)
	assert.True(t, item.Visible)
	assert.Equal(t, model.ToastInfo, item.Category)
	assert.Equal(t, "Saved", item.Text)
	require.Len(t, queue.Read(), 1)
	assert.Equal(t, item, queue.Read()[0])
	assert.Equal(t, 1, clock.Pending())
}

func TestAdd_ExpiresAfterDuration(t *testing.T) {
	m, queue, clock := newTestManager()
	m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "Saved"})

	clock.Advance(testDuration - time.Millisecond)
	assert.Len(t, queue.Read(), 1)

	clock.Advance(time.Millisecond)
	assert.Empty(t, queue.Read())
}

func TestAdd_DistinctIDsInInsertionOrder(t *testing.T) {
	m, queue, _ := newTestManager()

	var want []string
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		item := m.Add(model.ToastRequest{Category: model.ToastSuccess, Text: "same text"})
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
		want = append(want, item.ID)
	}

	assert.Equal(t, want, ids(queue.Read()))
}

func TestRemove_KeepsOthersInOrder(t *testing.T) {
	m, queue, _ := newTestManager()
	a := m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "A"})
	b := m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "B"})
	c := m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "C"})

	m.Remove(a.ID)
	assert.Equal(t, []string{b.ID, c.ID}, ids(queue.Read()))

	m.RemoveItem(c)
	assert.Equal(t, []string{b.ID}, ids(queue.Read()))
}

func TestRemove_IsIdempotentWithTimer(t *testing.T) {
	m, queue, clock := newTestManager()
	a := m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "A"})
	b := m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "B"})

	m.Remove(a.ID)
	m.Remove(a.ID)
	m.Remove("unknown")
	assert.Equal(t, []string{b.ID}, ids(queue.Read()))

	notifications := 0
	queue.Subscribe(func([]model.ToastItem) { notifications++ })

	// a's timer fires first and must not touch b
	clock.Advance(testDuration)
	assert.Empty(t, queue.Read())
	assert.Equal(t, 1, notifications, "only b's expiry should publish")
}

func TestExpiry_ReadsCurrentQueue(t *testing.T) {
	m, queue, clock := newTestManager()
	a := m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "A"})

	clock.Advance(time.Second)
	b := m.Add(model.ToastRequest{Category: model.ToastNetwork, Text: "B"})

	clock.Advance(2 * time.Second)
	assert.Equal(t, []string{b.ID}, ids(queue.Read()), "a expired, b added after a was scheduled survives")
	assert.NotEqual(t, a.ID, b.ID)

	clock.Advance(time.Second)
	assert.Empty(t, queue.Read())
}

func TestReset_DoesNotResurrect(t *testing.T) {
	m, queue, clock := newTestManager()
	m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "A"})
	m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "B"})

	m.Reset()
	assert.Empty(t, queue.Read())

	c := m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "C"})
	clock.Advance(testDuration)
	assert.Empty(t, queue.Read())
	assert.Equal(t, 0, clock.Pending())

	m.Reset()
	assert.Empty(t, m.Items())
	assert.NotEmpty(t, c.ID)
}

func TestItems_ReturnsCopy(t *testing.T) {
	m, queue, _ := newTestManager()
	m.Add(model.ToastRequest{Category: model.ToastInfo, Text: "A"})

	items := m.Items()
	items[0].Text = "mutated"
	assert.Equal(t, "A", queue.Read()[0].Text)
	assert.Equal(t, testDuration, m.Duration())
}
