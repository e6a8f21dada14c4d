// Package state holds the selection made on the selection screen and hands it
// to the chat screen. Values are passed around explicitly; there are no globals.
package state

import "sync"

// Store is a concurrency-safe holder of a single value. Readers receive copies
// (via the clone function) so a snapshot cannot be mutated behind the store's back.
// Writes are last-writer-wins.
type Store[T any] struct {
	mu     sync.RWMutex
	value  T
	set    bool
	writes int
	clone  func(T) T
	subs   map[int]chan T
	nextID int
}

// NewStore creates a store holding initial. clone may be nil for value types.
func NewStore[T any](initial T, clone func(T) T) *Store[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Store[T]{
		value: clone(initial),
		clone: clone,
		subs:  make(map[int]chan T),
	}
}

// Get returns a snapshot of the current value
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(s.value)
}

// IsSet reports whether Set has ever been called
func (s *Store[T]) IsSet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// Writes returns how many times Set has been called
func (s *Store[T]) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Set replaces the value and notifies subscribers
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = s.clone(v)
	s.set = true
	s.writes++

	for _, ch := range s.subs {
		// Keep only the latest value for slow readers
		select {
		case <-ch:
		default:
		}
		ch <- s.clone(s.value)
	}
}

// Subscribe returns a channel receiving each new value and a function that
// stops the subscription and closes the channel.
func (s *Store[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan T, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}
