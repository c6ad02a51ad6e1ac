// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

// Package catalog holds the curated destination and airline branding table
// embedded in the binary. A Catalog is read-only after New and never
// touches the network.
package catalog

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wanderlens/internal/models"
)

//go:embed catalog.json
var embedded []byte

// LogoVariant is one rendering of an airline logo.
type LogoVariant string

const (
	LogoPrimary    LogoVariant = "primary"
	LogoMonochrome LogoVariant = "monochrome"
	LogoTail       LogoVariant = "tail"
	LogoIcon       LogoVariant = "icon"
)

// ParseLogoVariant parses a variant name. Empty means primary.
func ParseLogoVariant(s string) (LogoVariant, error) {
	switch v := LogoVariant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return LogoPrimary, nil
	case LogoPrimary, LogoMonochrome, LogoTail, LogoIcon:
		return v, nil
	default:
		return "", fmt.Errorf("%w: unknown logo variant %q", models.ErrInvalidInput, s)
	}
}

// BrandColors are an airline's brand colours as hex strings.
type BrandColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
	Accent    string `json:"accent,omitempty"`
}

// BrandAsset is an airline's branding: logo variants and colours.
type BrandAsset struct {
	Code   string                 `json:"code"`
	Name   string                 `json:"name"`
	Colors BrandColors            `json:"colors"`
	Logos  map[LogoVariant]string `json:"logos"`
}

// Logo returns the URL of variant v, falling back to the primary logo
// when the airline has no such variant. The variant actually served is
// returned alongside.
func (b *BrandAsset) Logo(v LogoVariant) (string, LogoVariant) {
	if u, ok := b.Logos[v]; ok && u != "" {
		return u, v
	}
	return b.Logos[LogoPrimary], LogoPrimary
}

// Destination is one curated destination entry.
type Destination struct {
	Code       string              `json:"code"`
	City       string              `json:"city"`
	Country    string              `json:"country"`
	Keywords   []string            `json:"keywords"`
	Highlights []string            `json:"highlights"`
	Assets     []models.MediaAsset `json:"assets"`
}

type table struct {
	Version      int           `json:"version"`
	Destinations []Destination `json:"destinations"`
	Airlines     []BrandAsset  `json:"airlines"`
}

// Catalog is the parsed, indexed table.
type Catalog struct {
	destinations map[string]*Destination
	airlines     map[string]*BrandAsset
	codes        []string
	airlineCodes []string
	assetCount   int
}

// New parses the embedded table.
func New() (*Catalog, error) {
	return Parse(embedded)
}

// Parse builds a Catalog from a JSON table. Asset quality scores are
// computed here, so the table never carries them.
func Parse(data []byte) (*Catalog, error) {
	var t table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		destinations: make(map[string]*Destination, len(t.Destinations)),
		airlines:     make(map[string]*BrandAsset, len(t.Airlines)),
	}
	ids := make(map[string]string)

	for i := range t.Destinations {
		d := t.Destinations[i]
		d.Code = normalizeCode(d.Code)
		if d.Code == "" {
			return nil, fmt.Errorf("catalog destination %d: missing code", i)
		}
		if _, dup := c.destinations[d.Code]; dup {
			return nil, fmt.Errorf("catalog destination %s: duplicate code", d.Code)
		}
		d.Keywords = lowerAll(d.Keywords)
		d.Highlights = lowerAll(d.Highlights)

		assets := make([]models.MediaAsset, 0, len(d.Assets))
		for j := range d.Assets {
			a := d.Assets[j]
			if a.ID == "" || a.SourceURL == "" {
				return nil, fmt.Errorf("catalog destination %s asset %d: missing id or source_url", d.Code, j)
			}
			if prev, dup := ids[a.ID]; dup {
				return nil, fmt.Errorf("catalog asset %s: duplicate id (also in %s)", a.ID, prev)
			}
			ids[a.ID] = d.Code
			if a.Metadata.LocationCode == "" {
				a.Metadata.LocationCode = d.Code
			}
			assets = append(assets, models.NewMediaAsset(a))
		}
		d.Assets = assets
		c.assetCount += len(assets)
		c.destinations[d.Code] = &d
		c.codes = append(c.codes, d.Code)
	}

	for i := range t.Airlines {
		b := t.Airlines[i]
		b.Code = normalizeCode(b.Code)
		if b.Code == "" {
			return nil, fmt.Errorf("catalog airline %d: missing code", i)
		}
		if b.Logos[LogoPrimary] == "" {
			return nil, fmt.Errorf("catalog airline %s: missing primary logo", b.Code)
		}
		c.airlines[b.Code] = &b
		c.airlineCodes = append(c.airlineCodes, b.Code)
	}

	slices.Sort(c.codes)
	slices.Sort(c.airlineCodes)
	return c, nil
}

// Lookup returns the curated assets for a destination in table order, or
// nil when the destination is unknown. The slice is a copy.
func (c *Catalog) Lookup(code string) []models.MediaAsset {
	d, ok := c.destinations[normalizeCode(code)]
	if !ok {
		return nil
	}
	return slices.Clone(d.Assets)
}

// Destination returns the full entry for code.
func (c *Catalog) Destination(code string) (Destination, bool) {
	d, ok := c.destinations[normalizeCode(code)]
	if !ok {
		return Destination{}, false
	}
	out := *d
	out.Assets = slices.Clone(d.Assets)
	out.Keywords = slices.Clone(d.Keywords)
	out.Highlights = slices.Clone(d.Highlights)
	return out, true
}

// Keywords returns the destination's search keywords.
func (c *Catalog) Keywords(code string) []string {
	if d, ok := c.destinations[normalizeCode(code)]; ok {
		return slices.Clone(d.Keywords)
	}
	return nil
}

// Highlights returns the destination's cultural highlights.
func (c *Catalog) Highlights(code string) []string {
	if d, ok := c.destinations[normalizeCode(code)]; ok {
		return slices.Clone(d.Highlights)
	}
	return nil
}

// Destinations returns every destination code, sorted.
func (c *Catalog) Destinations() []string { return slices.Clone(c.codes) }

// AirlineBranding returns the branding for an airline code.
func (c *Catalog) AirlineBranding(code string) (BrandAsset, bool) {
	b, ok := c.airlines[normalizeCode(code)]
	if !ok {
		return BrandAsset{}, false
	}
	out := *b
	out.Logos = maps.Clone(b.Logos)
	return out, true
}

// Airlines returns every airline code, sorted.
func (c *Catalog) Airlines() []string { return slices.Clone(c.airlineCodes) }

// AssetCount returns the number of curated assets.
func (c *Catalog) AssetCount() int { return c.assetCount }

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
