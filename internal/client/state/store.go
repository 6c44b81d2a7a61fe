// Package state holds observable screen state.
//
// A Store keeps the latest snapshot of a value and pushes it to subscribers.
// Subscribers that fall behind skip intermediate snapshots and only see the
// most recent one; writers never block on a slow reader.
package state

import (
	"context"
	"sync"
)

type Store[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[*subscriber[T]]struct{}
}

type subscriber[T any] struct {
	ch chan T
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial, subs: make(map[*subscriber[T]]struct{})}
}

func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.publish()
}

// Update applies fn to the current value atomically and returns the result.
// fn must not call back into the store.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = fn(s.value)
	s.publish()
	return s.value
}

// Subscribe returns a channel that receives the current value immediately and
// then the latest value after every change. It is closed when ctx is done.
func (s *Store[T]) Subscribe(ctx context.Context) <-chan T {
	sub := &subscriber[T]{ch: make(chan T, 1)}

	s.mu.Lock()
	sub.ch <- s.value
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, sub)
		close(sub.ch)
		s.mu.Unlock()
	}()

	return sub.ch
}

// publish replaces any undelivered snapshot with the current one.
// Caller holds s.mu.
func (s *Store[T]) publish() {
	for sub := range s.subs {
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- s.value
	}
}
