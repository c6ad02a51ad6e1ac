// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package stream

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Resolution is a rung of the video ladder, named by its short edge.
type Resolution int

const (
	Res360  Resolution = 360
	Res480  Resolution = 480
	Res720  Resolution = 720
	Res1080 Resolution = 1080
)

// Ladder lists every supported resolution, highest first. Step-down always
// follows this order.
var Ladder = []Resolution{Res1080, Res720, Res480, Res360}

// autoCeiling is the highest resolution picked without an explicit
// preference. 1080p is never auto-selected for the vertical feed.
const autoCeiling = Res720

// bitrateKbps is the assumed encode bitrate per rung.
var bitrateKbps = map[Resolution]int{
	Res1080: 5000,
	Res720:  2500,
	Res480:  1200,
	Res360:  700,
}

// Valid reports whether r is on the ladder.
func (r Resolution) Valid() bool {
	_, ok := bitrateKbps[r]
	return ok
}

func (r Resolution) String() string {
	if r == 0 {
		return "none"
	}
	return strconv.Itoa(int(r)) + "p"
}

// MarshalText implements encoding.TextMarshaler.
func (r Resolution) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Resolution) UnmarshalText(b []byte) error {
	parsed, err := ParseResolution(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResolution accepts "720p", "720", "1280x720", "hd" style names.
//
// Supported formats:
//   - "1080p", "1080", "1920x1080", "fhd", "full hd" -> 1080p
//   - "720p", "720", "1280x720", "hd"               -> 720p
//   - "480p", "480", "854x480", "960x540", "sd"     -> 480p
//   - "360p", "360", "640x360", "ld"                -> 360p
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1080p", "1080", "1920x1080", "1080x1920", "fhd", "full hd":
		return Res1080, nil
	case "720p", "720", "1280x720", "720x1280", "hd":
		return Res720, nil
	case "480p", "480", "854x480", "960x540", "540p", "sd":
		return Res480, nil
	case "360p", "360", "640x360", "360x640", "ld":
		return Res360, nil
	default:
		return 0, fmt.Errorf("%w: unknown resolution %q", models.ErrInvalidInput, s)
	}
}

// Rendition is one quality variant of a video.
type Rendition struct {
	Resolution      Resolution `json:"resolution"`
	BitrateKbps     int        `json:"bitrate_kbps"`
	EstimatedSizeMB float64    `json:"estimated_size_mb"`
	URL             string     `json:"url"`
}

// EstimateSizeMB converts a bitrate and clip length into megabytes.
//
// Formula: kbps * 1000 / 8 bytes per second, over 1024*1024 bytes per MB.
func EstimateSizeMB(kbps, seconds int) float64 {
	if kbps <= 0 || seconds <= 0 {
		return 0
	}
	return float64(kbps) * 1000 / 8 * float64(seconds) / (1024 * 1024)
}

func newRendition(r Resolution, u string, clipSeconds int) Rendition {
	kbps := bitrateKbps[r]
	return Rendition{
		Resolution:      r,
		BitrateKbps:     kbps,
		EstimatedSizeMB: EstimateSizeMB(kbps, clipSeconds),
		URL:             u,
	}
}

var (
	// .../video-files/2100379/2100379-hd_1920_1080_30fps.mp4
	pexelsFile = regexp.MustCompile(`^(\d+)-(uhd|hd|sd)_(\d+)_(\d+)_(\d+)fps\.mp4$`)
	// .../rendition/720p/file.mp4
	vimeoRendition = regexp.MustCompile(`/rendition/(\d{3,4})p/`)
	// any "720p" style hint in an opaque URL
	resolutionHint = regexp.MustCompile(`(?:^|[^0-9])(1080|720|480|360)p(?:[^0-9]|$)`)
)

// Derive returns the renditions available for a video URL, highest
// resolution first. Pexels file names, Vimeo progressive URLs and HLS
// masters are expanded down the ladder from the source resolution; any
// other URL yields a single rendition.
func Derive(raw string, clipSeconds int) []Rendition {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return []Rendition{single(raw, clipSeconds)}
	}
	host := strings.ToLower(u.Hostname())

	switch {
	case strings.HasSuffix(host, "pexels.com"):
		if out := derivePexels(u, clipSeconds); out != nil {
			return out
		}
	case strings.HasSuffix(host, "vimeo.com") && vimeoRendition.MatchString(u.Path):
		return deriveVimeo(u, clipSeconds)
	case strings.HasSuffix(strings.ToLower(u.Path), ".m3u8"):
		return deriveHLS(u, clipSeconds)
	}
	return []Rendition{single(raw, clipSeconds)}
}

// below returns the ladder rungs at or under top.
func below(top Resolution) []Resolution {
	out := make([]Resolution, 0, len(Ladder))
	for _, r := range Ladder {
		if r <= top {
			out = append(out, r)
		}
	}
	return out
}

// nearest maps a short edge to the highest rung not above it, or the
// lowest rung when the edge is smaller than every rung.
func nearest(shortEdge int) Resolution {
	for _, r := range Ladder {
		if int(r) <= shortEdge {
			return r
		}
	}
	return Res360
}

// pexelsName is the file name segment Pexels uses for each rung, as
// width_height for landscape sources.
var pexelsName = map[Resolution]struct {
	quality string
	long    int
	short   int
}{
	Res1080: {"hd", 1920, 1080},
	Res720:  {"hd", 1280, 720},
	Res480:  {"sd", 960, 540},
	Res360:  {"sd", 640, 360},
}

func derivePexels(u *url.URL, clipSeconds int) []Rendition {
	dir, file := path.Split(u.Path)
	m := pexelsFile.FindStringSubmatch(file)
	if m == nil {
		return nil
	}
	id, fps := m[1], m[5]
	w, _ := strconv.Atoi(m[3])
	h, _ := strconv.Atoi(m[4])
	portrait := h > w

	var out []Rendition
	for _, r := range below(nearest(min(w, h))) {
		n := pexelsName[r]
		width, height := n.long, n.short
		if portrait {
			width, height = height, width
		}
		v := *u
		v.Path = fmt.Sprintf("%s%s-%s_%d_%d_%sfps.mp4", dir, id, n.quality, width, height, fps)
		v.RawPath = ""
		out = append(out, newRendition(r, v.String(), clipSeconds))
	}
	return out
}

func deriveVimeo(u *url.URL, clipSeconds int) []Rendition {
	m := vimeoRendition.FindStringSubmatch(u.Path)
	src, _ := strconv.Atoi(m[1])

	var out []Rendition
	for _, r := range below(nearest(src)) {
		v := *u
		v.Path = vimeoRendition.ReplaceAllString(u.Path, "/rendition/"+r.String()+"/")
		v.RawPath = ""
		out = append(out, newRendition(r, v.String(), clipSeconds))
	}
	return out
}

// deriveHLS maps each rung to the variant playlist next to the master,
// named "<height>p.m3u8".
func deriveHLS(u *url.URL, clipSeconds int) []Rendition {
	dir, _ := path.Split(u.Path)
	out := make([]Rendition, 0, len(Ladder))
	for _, r := range Ladder {
		v := *u
		v.Path = dir + r.String() + ".m3u8"
		v.RawPath = ""
		out = append(out, newRendition(r, v.String(), clipSeconds))
	}
	return out
}

// single wraps an unrecognised URL. Its resolution is read from a "720p"
// style hint when present, else assumed to be the auto ceiling.
func single(raw string, clipSeconds int) Rendition {
	r := autoCeiling
	if m := resolutionHint.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		r = Resolution(n)
	}
	return newRendition(r, raw, clipSeconds)
}

// plan returns the renditions to try, in order: the starting rung and
// then every lower one. The start is the preferred resolution, or the
// highest rung under it, when one is given; otherwise the highest rung
// not above the auto ceiling. When every rendition sits above a
// preferred target the lowest one is the start. Without a preference
// nothing above the auto ceiling is ever planned, so such a video is
// served as a thumbnail.
func plan(renditions []Rendition, preferred *Resolution) []Rendition {
	if len(renditions) == 0 {
		return nil
	}
	target := autoCeiling
	if preferred != nil {
		target = *preferred
	}
	start := slices.IndexFunc(renditions, func(r Rendition) bool { return r.Resolution <= target })
	if start < 0 {
		if preferred == nil {
			return nil
		}
		start = len(renditions) - 1
	}
	return renditions[start:]
}

// pexelsThumbnail derives the poster image for a Pexels video file URL.
func pexelsThumbnail(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || !strings.HasSuffix(strings.ToLower(u.Hostname()), "pexels.com") {
		return ""
	}
	_, file := path.Split(u.Path)
	m := pexelsFile.FindStringSubmatch(file)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("https://images.pexels.com/videos/%s/free-video-%s.jpg", m[1], m[1])
}
