// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package models

import "errors"

// Error taxonomy shared by every component. Only ErrInvalidInput is
// returned across the public engine API; the others are absorbed and
// turned into degraded results (empty list, fallback image, lower video
// tier, thumbnail only).
var (
	// ErrNotFound means no candidate or cache entry exists.
	ErrNotFound = errors.New("not found")

	// ErrFetchFailed wraps transport and provider failures.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrBudgetExceeded means a rendition does not fit the remaining data budget.
	ErrBudgetExceeded = errors.New("data usage budget exceeded")

	// ErrInvalidInput signals a contract violation by the caller.
	ErrInvalidInput = errors.New("invalid input")
)
