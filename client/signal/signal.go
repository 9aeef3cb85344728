// Package signal provides a minimal observable value container.
// Subscribers are notified synchronously on every Set.
package signal

import "sync"

type Signal[T any] struct {
	mu          sync.Mutex
	value       T
	subscribers map[int]func(T)
	nextId      int
}

func New[T any](initial T) *Signal[T] {
	return &Signal[T]{
		value:       initial,
		subscribers: map[int]func(T){},
	}
}

func (s *Signal[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	subs := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// Update applies fn to the current value and stores the result atomically.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	value := s.value
	subs := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
}

// snapshotLocked copies the subscriber list so a subscriber can
// unsubscribe from inside its callback.
func (s *Signal[T]) snapshotLocked() []func(T) {
	subs := make([]func(T), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

// Subscribe registers fn for future updates and returns an unsubscribe func.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	id := s.nextId
	s.nextId++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
