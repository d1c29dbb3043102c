// Package state holds the application state shared between event handlers
// and renderers: observable cells plus the App that owns them.
package state

import (
	"sync"
	"sync/atomic"
)

// Cell is a single observable value. Set replaces the value and notifies
// subscribers synchronously, in subscription order. A new subscriber gets
// the current value immediately.
//
// Cells expect one writer at a time. Concurrent use is memory-safe, and a
// subscriber never sees an older value after a newer one, but subscribers
// must not Set the cell that is notifying them.
type Cell[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	nextID  uint64
	subs    []*subscription[T]
}

type subscription[T any] struct {
	id   uint64
	fn   func(T)
	mu   sync.Mutex
	seen uint64
	live atomic.Bool
}

// NewCell creates a cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{value: initial, version: 1}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set replaces the value and notifies every subscriber.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	c.version++
	ver := c.version
	subs := append([]*subscription[T](nil), c.subs...)
	c.mu.Unlock()

	for _, s := range subs {
		s.deliver(v, ver)
	}
}

// Update sets the value to fn applied to the current one.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	v := fn(c.value)
	c.value = v
	c.version++
	ver := c.version
	subs := append([]*subscription[T](nil), c.subs...)
	c.mu.Unlock()

	for _, s := range subs {
		s.deliver(v, ver)
	}
}

// Subscribe registers fn, calls it with the current value and returns a
// function that removes the subscription.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	s := &subscription[T]{id: c.nextID, fn: fn}
	s.live.Store(true)
	c.subs = append(c.subs, s)
	v, ver := c.value, c.version
	c.mu.Unlock()

	s.deliver(v, ver)

	var once sync.Once
	return func() {
		once.Do(func() { c.remove(s) })
	}
}

// Subscribers returns the number of active subscriptions.
func (c *Cell[T]) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}

func (c *Cell[T]) remove(s *subscription[T]) {
	c.mu.Lock()
	for i, cur := range c.subs {
		if cur.id == s.id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	s.live.Store(false)
}

// deliver calls fn unless a newer version has already been delivered.
func (s *subscription[T]) deliver(v T, ver uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live.Load() || ver <= s.seen {
		return
	}
	s.seen = ver
	s.fn(v)
}
