// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

// Progressive is a preview/full URL pair for progressive loading.
type Progressive struct {
	Preview string `json:"preview"`
	Full    string `json:"full"`

	// PreviewCached is true when Preview came from a resident entry.
	PreviewCached bool `json:"preview_cached"`
}

// ProgressiveURLs returns the low-tier preview and high-tier full URL of
// url without blocking. When the low tier is not resident yet the preview
// is the derived low-tier URL, or the fallback placeholder when the host
// has no cheaper tier. Local assets return url for both.
func (c *AssetCache) ProgressiveURLs(url string) Progressive {
	if url == "" || IsLocal(url) {
		return Progressive{Preview: url, Full: url, PreviewCached: url != ""}
	}
	p := Progressive{Full: TierURL(url, TierHigh)}
	if e, ok := c.Lookup(url, TierLow); ok {
		p.Preview = e.ResolvedURL
		p.PreviewCached = true
		return p
	}
	p.Preview = TierURL(url, TierLow)
	if p.Preview == p.Full {
		p.Preview = c.cfg.FallbackURL
	}
	return p
}
