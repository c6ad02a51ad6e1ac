// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package models

// Priority orders preload work. Low and medium preloads never block the
// caller; high preloads block until every item completes.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

func (p Priority) String() string { return priorityNames[p] }

// Blocking reports whether a preload at this priority waits for completion.
func (p Priority) Blocking() bool { return p == PriorityHigh }

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(b []byte) error {
	parsed, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePriority parses "low", "medium" or "high". Empty means low.
func ParsePriority(s string) (Priority, error) {
	return parseEnum(s, priorityNames, "priority")
}
