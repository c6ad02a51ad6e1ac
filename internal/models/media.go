// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package models

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a media asset.
type Kind int

const (
	// KindPhoto is a still image.
	KindPhoto Kind = iota
	// KindVideo is a short video clip.
	KindVideo
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses "photo" or "video".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "photo", "image":
		return KindPhoto, nil
	case "video":
		return KindVideo, nil
	default:
		return KindPhoto, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, s)
	}
}

// Source identifies where an asset came from. It is a closed variant:
// either the local curated catalog or a named external provider.
type Source struct {
	provider string
}

// LocalSource is the curated catalog.
var LocalSource = Source{}

// ProviderSource returns the variant for a named external provider.
func ProviderSource(name string) Source {
	return Source{provider: strings.ToLower(strings.TrimSpace(name))}
}

// IsLocal reports whether the asset came from the curated catalog.
func (s Source) IsLocal() bool { return s.provider == "" }

// Provider returns the provider name, or "" for local assets.
func (s Source) Provider() string { return s.provider }

// String returns "local" or the provider name.
func (s Source) String() string {
	if s.IsLocal() {
		return "local"
	}
	return s.provider
}

// MarshalText implements encoding.TextMarshaler.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(b []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(b)))
	if v == "" || v == "local" {
		*s = LocalSource
		return nil
	}
	*s = ProviderSource(v)
	return nil
}

// Mood is the emotional register of an asset or a request.
// The zero value means "unspecified".
type Mood int

const (
	MoodUnspecified Mood = iota
	MoodRomantic
	MoodAdventurous
	MoodRelaxing
	MoodVibrant
	MoodCultural
	MoodSerene
)

var moodNames = map[Mood]string{
	MoodUnspecified: "",
	MoodRomantic:    "romantic",
	MoodAdventurous: "adventurous",
	MoodRelaxing:    "relaxing",
	MoodVibrant:     "vibrant",
	MoodCultural:    "cultural",
	MoodSerene:      "serene",
}

func (m Mood) String() string { return moodNames[m] }

// MarshalText implements encoding.TextMarshaler.
func (m Mood) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mood) UnmarshalText(b []byte) error {
	parsed, err := ParseMood(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMood parses a mood name. The empty string yields MoodUnspecified.
func ParseMood(s string) (Mood, error) {
	return parseEnum(s, moodNames, "mood")
}

// Season is the time of year an asset depicts.
type Season int

const (
	SeasonUnspecified Season = iota
	SeasonSpring
	SeasonSummer
	SeasonAutumn
	SeasonWinter
)

var seasonNames = map[Season]string{
	SeasonUnspecified: "",
	SeasonSpring:      "spring",
	SeasonSummer:      "summer",
	SeasonAutumn:      "autumn",
	SeasonWinter:      "winter",
}

func (s Season) String() string { return seasonNames[s] }

// MarshalText implements encoding.TextMarshaler.
func (s Season) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Season) UnmarshalText(b []byte) error {
	parsed, err := ParseSeason(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeason parses a season name; "fall" is accepted as autumn.
func ParseSeason(s string) (Season, error) {
	if strings.EqualFold(strings.TrimSpace(s), "fall") {
		return SeasonAutumn, nil
	}
	return parseEnum(s, seasonNames, "season")
}

// TimeOfDay is the light condition an asset depicts.
type TimeOfDay int

const (
	TimeUnspecified TimeOfDay = iota
	TimeSunrise
	TimeDay
	TimeSunset
	TimeNight
)

var timeNames = map[TimeOfDay]string{
	TimeUnspecified: "",
	TimeSunrise:     "sunrise",
	TimeDay:         "day",
	TimeSunset:      "sunset",
	TimeNight:       "night",
}

func (t TimeOfDay) String() string { return timeNames[t] }

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimeOfDay parses a time-of-day name.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	return parseEnum(s, timeNames, "time of day")
}

// TravelStyle is the traveler's preferred way of travelling.
type TravelStyle int

const (
	StyleUnspecified TravelStyle = iota
	StyleLuxury
	StyleBudget
	StyleFamily
	StyleBackpacker
	StyleBusiness
)

var styleNames = map[TravelStyle]string{
	StyleUnspecified: "",
	StyleLuxury:      "luxury",
	StyleBudget:      "budget",
	StyleFamily:      "family",
	StyleBackpacker:  "backpacker",
	StyleBusiness:    "business",
}

func (s TravelStyle) String() string { return styleNames[s] }

// ParseTravelStyle parses a travel style name.
func ParseTravelStyle(s string) (TravelStyle, error) {
	return parseEnum(s, styleNames, "travel style")
}

func parseEnum[T comparable](s string, names map[T]string, what string) (T, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	var zero T
	if v == "" {
		return zero, nil
	}
	for k, name := range names {
		if name == v {
			return k, nil
		}
	}
	return zero, fmt.Errorf("%w: unknown %s %q", ErrInvalidInput, what, s)
}

// Dimensions is the pixel size of an asset.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsPortrait reports whether the asset is taller than it is wide.
func (d Dimensions) IsPortrait() bool { return d.Height > d.Width }

// Metadata carries the optional filtering attributes of an asset.
type Metadata struct {
	Source       Source    `json:"source"`
	LocationCode string    `json:"location_code,omitempty"`
	Season       Season    `json:"season,omitempty"`
	TimeOfDay    TimeOfDay `json:"time_of_day,omitempty"`
	Mood         Mood      `json:"mood,omitempty"`
}

// MediaAsset is one candidate unit of content. Values are never mutated
// after construction; use NewMediaAsset so QualityScore is populated.
type MediaAsset struct {
	ID           string      `json:"id"`
	Kind         Kind        `json:"kind"`
	SourceURL    string      `json:"source_url"`
	PreviewURL   string      `json:"preview_url,omitempty"`
	Credit       string      `json:"credit,omitempty"`
	Description  string      `json:"description,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	QualityScore int         `json:"quality_score"`
	Dimensions   *Dimensions `json:"dimensions,omitempty"`
	Metadata     Metadata    `json:"metadata"`
}

// NewMediaAsset normalises tags (lower-case, de-duplicated, sorted) and
// computes the quality score.
//
//nolint:gocritic // hugeParam: asset passed by value, returned as a new value
func NewMediaAsset(a MediaAsset) MediaAsset {
	a.Tags = normalizeTags(a.Tags)
	if a.Dimensions != nil {
		d := *a.Dimensions
		a.Dimensions = &d
	}
	a.QualityScore = ComputeQualityScore(&a)
	return a
}

// HasTag reports whether the asset carries the given tag (case-insensitive).
func (a *MediaAsset) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SelectionCriteria is the caller-supplied filter and ranking input.
// Constructed per call and never stored.
type SelectionCriteria struct {
	Mood         Mood
	TimeOfDay    TimeOfDay
	Season       Season
	Interests    []string
	Style        TravelStyle
	ExcludeKinds []Kind
}

// Excludes reports whether the criteria exclude the given kind.
func (c *SelectionCriteria) Excludes(k Kind) bool {
	for _, ex := range c.ExcludeKinds {
		if ex == k {
			return true
		}
	}
	return false
}
