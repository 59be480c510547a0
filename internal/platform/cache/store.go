package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-memory TTL map. Entries expire lazily on access and are swept on writes.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !s.expired(e, now) {
		return e.value, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// An Update may have refreshed the entry between the two locks.
	current, ok := s.entries[key]
	if !ok {
		return zero, false
	}
	if s.expired(current, now) {
		delete(s.entries, key)
		return zero, false
	}
	return current.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	now := s.now()
	s.mu.Lock()
	s.sweepLocked(now)
	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: s.expiry(now),
	}
	s.mu.Unlock()
}

// Update applies fn to the live value of key under the write lock and refreshes its TTL.
// A missing or expired key reports found=false without calling fn.
func (s *Store[V]) Update(_ context.Context, key string, fn func(V) (V, error)) (V, bool, error) {
	var zero V
	if fn == nil {
		return zero, false, fmt.Errorf("update func is required")
	}
	if key == "" {
		return zero, false, nil
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return zero, false, nil
	}
	if s.expired(e, now) {
		delete(s.entries, key)
		return zero, false, nil
	}

	next, err := fn(e.value)
	if err != nil {
		return e.value, true, err
	}
	s.entries[key] = entry[V]{
		value:     next,
		expiresAt: s.expiry(now),
	}
	return next, true, nil
}

func (s *Store[V]) Delete(_ context.Context, key string) bool {
	if key == "" {
		return false
	}

	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()
	return ok
}

// Len counts live entries.
func (s *Store[V]) Len() int {
	now := s.now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entries {
		if !s.expired(e, now) {
			count++
		}
	}
	return count
}

func (s *Store[V]) expiry(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

func (s *Store[V]) expired(e entry[V], now time.Time) bool {
	return s.ttl > 0 && !e.expiresAt.After(now)
}

func (s *Store[V]) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for key, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, key)
		}
	}
}
