package poll

import "sync"

// Subscription is one consumer's handle on a cache entry.
type Subscription[T any] struct {
	e       *entry[T]
	updates chan struct{}
	once    sync.Once
}

// State returns the current entry state.
func (s *Subscription[T]) State() State[T] {
	return s.e.snapshot()
}

// Updates signals state changes. Notifications coalesce; the channel is
// closed by Close.
func (s *Subscription[T]) Updates() <-chan struct{} {
	return s.updates
}

// Refresh forces a new fetch even inside the dedupe window.
func (s *Subscription[T]) Refresh() {
	s.e.revalidate(true, "manual")
}

// Revalidate fetches unless a fetch started inside the dedupe window.
func (s *Subscription[T]) Revalidate() {
	s.e.revalidate(false, "revalidate")
}

// Focus revalidates when the entry was created with RevalidateOnFocus.
func (s *Subscription[T]) Focus() {
	if !s.e.opts.RevalidateOnFocus {
		return
	}
	s.e.revalidate(false, "focus")
}

// Close detaches the subscription. The entry is torn down with its last
// subscriber; results that arrive afterwards are dropped.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		release(s.e.reg, s.e, s)
	})
}
