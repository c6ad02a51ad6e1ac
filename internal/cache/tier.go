// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Tier is a quality level of the same logical asset.
type Tier int

const (
	TierHigh Tier = iota
	TierMedium
	TierLow
)

var tierNames = [...]string{TierHigh: "high", TierMedium: "medium", TierLow: "low"}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool { return t >= TierHigh && t <= TierLow }

func (t Tier) String() string {
	if !t.Valid() {
		return "tier(" + strconv.Itoa(int(t)) + ")"
	}
	return tierNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: tier %d", models.ErrInvalidInput, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier parses "high", "medium" or "low".
func ParseTier(s string) (Tier, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, name := range tierNames {
		if name == v {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tier %q", models.ErrInvalidInput, s)
}

// tierParams are the resize parameters for one CDN at one tier.
type tierParams struct {
	width   int
	quality int
}

var (
	unsplashTiers = [...]tierParams{TierHigh: {1920, 85}, TierMedium: {1080, 75}, TierLow: {400, 60}}
	pexelsTiers   = [...]tierParams{TierHigh: {1880, 85}, TierMedium: {940, 75}, TierLow: {350, 60}}
)

// estimatedSizes is used when an upstream response carries no size.
var estimatedSizes = [...]int64{TierHigh: 800 << 10, TierMedium: 300 << 10, TierLow: 60 << 10}

// EstimatedSize returns the nominal byte size of an asset at tier t.
func EstimatedSize(t Tier) int64 {
	if !t.Valid() {
		return 0
	}
	return estimatedSizes[t]
}

// TierURL derives the URL of rawURL at tier t. Known image CDNs get width
// and quality parameters; every other URL is returned unchanged. The
// result depends only on the inputs.
func TierURL(rawURL string, t Tier) string {
	if !t.Valid() {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	switch strings.ToLower(u.Hostname()) {
	case "images.unsplash.com":
		p := unsplashTiers[t]
		q.Set("w", strconv.Itoa(p.width))
		q.Set("q", strconv.Itoa(p.quality))
		q.Set("fit", "max")
		q.Set("auto", "format")
	case "images.pexels.com":
		p := pexelsTiers[t]
		q.Set("w", strconv.Itoa(p.width))
		q.Set("q", strconv.Itoa(p.quality))
		q.Set("auto", "compress")
		q.Set("cs", "tinysrgb")
	default:
		return rawURL
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// IsLocal reports whether rawURL references a bundled asset: the asset://
// or file:// schemes, or a relative path. Local assets never touch the
// network and are never cached.
func IsLocal(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "asset", "file":
		return true
	case "":
		return u.Host == ""
	default:
		return false
	}
}

// Key returns the cache key of (rawURL, t).
func Key(rawURL string, t Tier) string {
	data, err := json.Marshal(struct {
		URL  string `json:"url"`
		Tier int    `json:"tier"`
	}{rawURL, int(t)})
	if err != nil {
		data = []byte(rawURL + "|" + strconv.Itoa(int(t)))
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:16])
}

// validateRequest checks the caller contract shared by every cache entry
// point.
func validateRequest(rawURL string, t Tier) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty url", models.ErrInvalidInput)
	}
	if !t.Valid() {
		return "", fmt.Errorf("%w: tier %d", models.ErrInvalidInput, int(t))
	}
	if IsLocal(rawURL) {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", models.ErrInvalidInput, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", models.ErrInvalidInput, rawURL)
	}
	return rawURL, nil
}
