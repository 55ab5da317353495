package store

import (
	"sort"
	"sync"
)

// Unsubscribe detaches a subscriber. Calling it more than once is harmless.
type Unsubscribe func()

// Observable holds a single value that can be read, replaced and watched.
// Subscribers run synchronously on the writer's goroutine and may call Read.
// Writes are delivered one at a time in the order they were applied, so the
// last value a subscriber sees is the current one. A subscriber must not
// write to the Observable that is notifying it.
type Observable[T any] struct {
	// notifyMu spans an update and its delivery; mu only guards value
	notifyMu sync.Mutex
	mu       sync.RWMutex
	value    T

	subsMu sync.Mutex
	subs   map[uint64]func(T)
	nextID uint64

	// equal decides whether a write changed the value. nil means every
	// write is a change.
	equal func(T, T) bool
}

// NewObservable creates an Observable with the given initial value
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value: initial,
		subs:  make(map[uint64]func(T)),
	}
}

// WithEquals configures the change check used by Write and Update
func (o *Observable[T]) WithEquals(fn func(T, T) bool) *Observable[T] {
	o.equal = fn
	return o
}

// Read returns the current value
func (o *Observable[T]) Read() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Write replaces the value and notifies subscribers if it changed
func (o *Observable[T]) Write(value T) {
	o.Update(func(T) T { return value })
}

// Update atomically derives the next value from the current one.
// fn must not mutate its argument in place; return a new value instead.
func (o *Observable[T]) Update(fn func(T) T) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	prev := o.value
	next := fn(prev)
	changed := o.equal == nil || !o.equal(prev, next)
	if changed {
		o.value = next
	}
	o.mu.Unlock()

	if changed {
		o.notify(next)
	}
}

// Subscribe registers fn to be called after every change
func (o *Observable[T]) Subscribe(fn func(T)) Unsubscribe {
	o.subsMu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.subsMu.Lock()
			delete(o.subs, id)
			o.subsMu.Unlock()
		})
	}
}

// SubscriberCount returns the number of attached subscribers
func (o *Observable[T]) SubscriberCount() int {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()
	return len(o.subs)
}

func (o *Observable[T]) notify(value T) {
	o.subsMu.Lock()
	ids := make([]uint64, 0, len(o.subs))
	for id := range o.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, o.subs[id])
	}
	o.subsMu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}
