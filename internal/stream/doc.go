// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package stream selects video renditions under a data usage budget.

Each video moves through a small state machine:

	Unresolved -> Resolved -> Serving | Degraded | ThumbnailOnly

Renditions are derived from the source URL without network access. Pexels
file names, Vimeo progressive URLs and HLS masters expand into the
1080p/720p/480p/360p ladder; anything else is a single rendition.

# Selection

Without a preference the optimizer starts at 720p, since 1080p is never
picked automatically for the vertical feed; a video with nothing at or
below 720p gets its thumbnail. If the rendition would push
session usage over the budget it steps down exactly one rung and checks
again. When even 360p does not fit, only the thumbnail is served and the
budget is left untouched.

# Budget

Usage is counted in megabytes estimated from bitrate and clip length:

	Size (MB) = bitrate kbps * 1000 / 8 * seconds / (1024 * 1024)

The counter only grows within a period and resets when the period rolls
over. There are no partial refunds.

# Preloading

PreloadVideos verifies upcoming renditions with HEAD requests. High
priority runs two at a time and blocks the caller; low and medium priority
run one at a time in the background.
*/
package stream
