// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package stream

import (
	"sync"
	"time"

	"github.com/tomtom215/wanderlens/internal/metrics"
)

// BudgetStatus is a snapshot of the data usage budget.
type BudgetStatus struct {
	LimitMB     float64   `json:"limit_mb"`
	UsedMB      float64   `json:"used_mb"`
	RemainingMB float64   `json:"remaining_mb"`
	PeriodStart time.Time `json:"period_start"`
	ResetsAt    time.Time `json:"resets_at"`
}

// Budget counts megabytes of video served per period. Usage only grows
// within a period and drops to zero when the period rolls over.
type Budget struct {
	limitMB float64
	period  time.Duration
	now     func() time.Time

	mu    sync.Mutex
	used  float64
	start time.Time
}

// NewBudget creates a Budget of limitMB per period, starting now.
func NewBudget(limitMB float64, period time.Duration, now func() time.Time) *Budget {
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = 24 * time.Hour
	}
	return &Budget{limitMB: limitMB, period: period, now: now, start: now()}
}

// TryConsume adds mb to the usage counter when it fits in what remains and
// reports whether it did.
func (b *Budget) TryConsume(mb float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()

	if mb < 0 || b.used+mb > b.limitMB {
		return false
	}
	b.used += mb
	metrics.DataUsageMB.Set(b.used)
	return true
}

// Remaining returns the megabytes left in the current period.
func (b *Budget) Remaining() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return max(0, b.limitMB-b.used)
}

// Status returns a snapshot.
func (b *Budget) Status() BudgetStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollLocked()
	return BudgetStatus{
		LimitMB:     b.limitMB,
		UsedMB:      b.used,
		RemainingMB: max(0, b.limitMB-b.used),
		PeriodStart: b.start,
		ResetsAt:    b.start.Add(b.period),
	}
}

// rollLocked resets usage once the period has elapsed. Periods are
// aligned to the first start, so a long idle gap skips whole periods.
func (b *Budget) rollLocked() {
	now := b.now()
	elapsed := now.Sub(b.start)
	if elapsed < b.period {
		return
	}
	b.start = b.start.Add(elapsed / b.period * b.period)
	b.used = 0
	metrics.DataUsageMB.Set(0)
}
