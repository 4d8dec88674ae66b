package session

import (
	"sync"
	"time"
)

// Store holds one value per session. Put overwrites; the last write wins.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

type entry[T any] struct {
	value   T
	written time.Time
}

// NewStore builds an in-memory store. Entries older than ttl are treated as
// absent; ttl <= 0 disables expiry.
func NewStore[T any](ttl time.Duration, now func() time.Time) *Store[T] {
	if now == nil {
		now = time.Now
	}
	return &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     now,
	}
}

// Put replaces the slot for the session.
func (s *Store[T]) Put(sess Session, value T) {
	if !sess.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = entry[T]{value: value, written: s.now()}
}

// Get returns the slot for the session, if present and not expired.
func (s *Store[T]) Get(sess Session) (T, bool) {
	var zero T
	if !sess.Valid() {
		return zero, false
	}
	s.mu.RLock()
	e, ok := s.entries[sess.ID]
	s.mu.RUnlock()
	if !ok || s.expired(e, s.now()) {
		return zero, false
	}
	return e.value, true
}

// Delete clears the slot for the session.
func (s *Store[T]) Delete(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sess.ID)
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store[T]) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, expired or not.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[T]) expired(e entry[T], now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.written) >= s.ttl
}
