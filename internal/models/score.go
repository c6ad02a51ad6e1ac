// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package models

import (
	"strings"
	"sync"
	"time"
)

// Quality score weights. Small fixed increments on a neutral base; the
// exact values are tuning knobs, not contracts.
const (
	scoreBase            = 50
	scoreLocalCurated    = 20
	scoreFullHD          = 15
	scoreHD              = 10
	scoreSD              = 5
	scorePortrait        = 5
	scoreKnownCredit     = 5
	scorePerTag          = 2
	scoreMaxTagBonus     = 10
	scoreDescribed       = 5
	scoreHasPreview      = 3
	scoreMinDescriptionN = 20
)

// knownCredits are stock services whose credit line signals
// professionally shot content.
var knownCredits = []string{"unsplash", "pexels"}

// ComputeQualityScore is a pure function of the asset's descriptive fields.
// The result is clamped to [0, 100].
func ComputeQualityScore(a *MediaAsset) int {
	score := scoreBase

	if a.Metadata.Source.IsLocal() {
		score += scoreLocalCurated
	}

	if d := a.Dimensions; d != nil {
		longEdge := max(d.Width, d.Height)
		switch {
		case longEdge >= 1920:
			score += scoreFullHD
		case longEdge >= 1280:
			score += scoreHD
		case longEdge >= 800:
			score += scoreSD
		}
		if d.IsPortrait() {
			score += scorePortrait
		}
	}

	credit := strings.ToLower(a.Credit)
	for _, name := range knownCredits {
		if strings.Contains(credit, name) {
			score += scoreKnownCredit
			break
		}
	}

	score += min(len(a.Tags)*scorePerTag, scoreMaxTagBonus)

	if len(strings.TrimSpace(a.Description)) >= scoreMinDescriptionN {
		score += scoreDescribed
	}
	if a.PreviewURL != "" {
		score += scoreHasPreview
	}

	return max(0, min(100, score))
}

// Default bounds for a ScoreMemo.
const (
	DefaultScoreMemoCapacity = 10000
	DefaultScoreMemoTTL      = time.Hour
)

type memoEntry struct {
	id        string
	score     int
	expiresAt time.Time
	prev      *memoEntry
	next      *memoEntry
}

// ScoreMemo memoises quality scores by asset ID. It is an LRU bounded by
// capacity, and entries older than the TTL are recomputed. Safe for
// concurrent use.
type ScoreMemo struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	now      func() time.Time

	entries map[string]*memoEntry

	// head.next is the most recently used entry, tail.prev the least.
	head *memoEntry
	tail *memoEntry
}

// NewScoreMemo creates an empty memo. Non-positive bounds take the
// defaults.
func NewScoreMemo(capacity int, ttl time.Duration) *ScoreMemo {
	if capacity <= 0 {
		capacity = DefaultScoreMemoCapacity
	}
	if ttl <= 0 {
		ttl = DefaultScoreMemoTTL
	}
	m := &ScoreMemo{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]*memoEntry),
		head:     &memoEntry{},
		tail:     &memoEntry{},
	}
	m.head.next = m.tail
	m.tail.prev = m.head
	return m
}

// Score returns the memoised score for a.ID, computing it on first use or
// after the entry expired.
func (m *ScoreMemo) Score(a *MediaAsset) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if e, ok := m.entries[a.ID]; ok {
		if now.Before(e.expiresAt) {
			m.unlink(e)
			m.pushFront(e)
			return e.score
		}
		m.unlink(e)
		delete(m.entries, e.id)
	}

	e := &memoEntry{id: a.ID, score: ComputeQualityScore(a), expiresAt: now.Add(m.ttl)}
	m.pushFront(e)
	m.entries[e.id] = e
	for len(m.entries) > m.capacity {
		last := m.tail.prev
		m.unlink(last)
		delete(m.entries, last.id)
	}
	return e.score
}

// Len returns the number of memoised scores.
func (m *ScoreMemo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Must be called with m.mu held.
func (m *ScoreMemo) pushFront(e *memoEntry) {
	e.prev = m.head
	e.next = m.head.next
	m.head.next.prev = e
	m.head.next = e
}

// Must be called with m.mu held.
func (m *ScoreMemo) unlink(e *memoEntry) {
	e.prev.next = e.next
	e.next.prev = e.prev
}
