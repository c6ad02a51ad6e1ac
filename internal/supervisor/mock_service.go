// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// MockService is a controllable suture.Service for tree tests.
type MockService struct {
	name     string
	starts   atomic.Int32
	failures atomic.Int32
	failN    atomic.Int32
}

// NewMockService creates a mock that runs until canceled.
func NewMockService(name string) *MockService {
	return &MockService{name: name}
}

// Serve fails the first n calls configured by SetFailCount, then blocks
// until ctx is canceled.
func (m *MockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	if m.failures.Add(1) <= m.failN.Load() {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

// SetFailCount makes the next n calls to Serve fail immediately.
func (m *MockService) SetFailCount(n int32) {
	m.failN.Store(n)
}

// StartCount returns how many times Serve was called.
func (m *MockService) StartCount() int32 {
	return m.starts.Load()
}

// String implements fmt.Stringer.
func (m *MockService) String() string {
	return m.name
}
