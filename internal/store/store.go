// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

// Package store provides the key to blob stores that persist the asset
// cache index across restarts.
//
// The index is never ground truth: a missing or unreadable store means a
// cold cache, not a failure.
package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Backend names accepted by Open.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// IndexStore is a simple key to blob store.
type IndexStore interface {
	// Get returns the blob for key or an error wrapping models.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases the underlying resources.
	Close() error
}

// Open creates the IndexStore named by backend.
func Open(backend, path string) (IndexStore, error) {
	switch backend {
	case BackendBadger:
		return OpenBadger(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory, "":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: unknown index store backend %q", models.ErrInvalidInput, backend)
	}
}

func notFound(key string) error {
	return fmt.Errorf("index key %q: %w", key, models.ErrNotFound)
}
