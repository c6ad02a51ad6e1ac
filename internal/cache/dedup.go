// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"sync"
	"time"
)

// dedupEntry is a node in the preload set's recency list.
type dedupEntry struct {
	key       string
	prev      *dedupEntry
	next      *dedupEntry
	expiresAt time.Time
}

// preloadSet remembers recently preloaded keys so repeated preload
// requests for the same asset do not re-warm it. It is bounded both by a
// TTL and by capacity; when full, the least recently claimed key is
// dropped.
//
// A doubly-linked list with sentinels keeps claim, release and eviction
// O(1).
type preloadSet struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time

	items map[string]*dedupEntry

	// head.next is the most recently claimed key, tail.prev the least.
	head *dedupEntry
	tail *dedupEntry
}

func newPreloadSet(capacity int, ttl time.Duration, now func() time.Time) *preloadSet {
	if capacity <= 0 {
		capacity = 4096
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	s := &preloadSet{
		capacity: capacity,
		ttl:      ttl,
		now:      now,
		items:    make(map[string]*dedupEntry),
		head:     &dedupEntry{},
		tail:     &dedupEntry{},
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// claim records key and reports true when it was not claimed within the
// TTL. A false result means the caller should skip the preload.
func (s *preloadSet) claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.items[key]; ok {
		if now.Before(e.expiresAt) {
			return false
		}
		s.unlink(e)
	}

	e := &dedupEntry{key: key, expiresAt: now.Add(s.ttl)}
	s.pushFront(e)
	s.items[key] = e
	for len(s.items) > s.capacity {
		s.unlink(s.tail.prev)
	}
	return true
}

// release forgets key so the next preload retries it.
func (s *preloadSet) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[key]; ok {
		s.unlink(e)
	}
}

// sweep drops expired keys and returns how many were removed.
func (s *preloadSet) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for e := s.tail.prev; e != s.head; {
		prev := e.prev
		if !now.Before(e.expiresAt) {
			s.unlink(e)
			removed++
		}
		e = prev
	}
	return removed
}

func (s *preloadSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Must be called with s.mu held.
func (s *preloadSet) pushFront(e *dedupEntry) {
	e.prev = s.head
	e.next = s.head.next
	s.head.next.prev = e
	s.head.next = e
}

// Must be called with s.mu held.
func (s *preloadSet) unlink(e *dedupEntry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(s.items, e.key)
}
