// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug handles the slugs the site deals with: percent-encoded
// WordPress slugs (Arabic trip names arrive encoded) and heading anchors
// generated from arbitrary text.
package slug

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// nonWord matches anything that isn't a letter, digit, underscore,
	// whitespace or hyphen. Letters include every script.
	nonWord = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s-]`)
	// whitespace collapses runs of whitespace into one separator.
	whitespace = regexp.MustCompile(`\s+`)
	// hyphens collapses runs of hyphens into one separator.
	hyphens = regexp.MustCompile(`-+`)
)

// Anchor creates a fragment identifier from heading text. Spaces and
// hyphens become underscores.
// Example: "Best Time to Visit - Istanbul" → "best_time_to_visit___istanbul"
func Anchor(s string) string {
	result := strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
	result = nonWord.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "_")
	result = hyphens.ReplaceAllString(result, "_")
	return result
}

// Decode percent-decodes a slug as delivered by WordPress. Slugs that are
// not valid percent-encodings are returned unchanged.
func Decode(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return norm.NFC.String(decoded)
}

// Path joins a route prefix and a (possibly encoded) slug into an escaped
// URL path, so the result is canonical regardless of how the slug arrived.
// Example: Path("/trip", "%d8%aa") → "/trip/%D8%AA"
func Path(prefix, s string) string {
	u := url.URL{Path: strings.TrimRight(prefix, "/") + "/" + Decode(s)}
	return u.EscapedPath()
}

// Equal reports whether two slugs refer to the same resource, comparing
// their decoded forms.
func Equal(a, b string) bool {
	return Decode(a) == Decode(b)
}
