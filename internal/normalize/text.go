// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package normalize

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	// contentPolicy keeps the markup editors produce in the block editor
	// while dropping scripts and event handlers.
	contentPolicy = newContentPolicy()
	// textPolicy strips every tag.
	textPolicy = bluemonday.StrictPolicy()

	bracketEllipsis = regexp.MustCompile(`\s?\[(&hellip;|…)\]`)
	moreLink        = regexp.MustCompile(`\w*<a class="more-link".*</a>`)
)

func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	p.AllowAttrs("loading", "srcset", "sizes").OnElements("img")
	return p
}

// Title decodes HTML entities, applies NFC normalization and collapses
// whitespace, producing display text for titles and names.
func Title(s string) string {
	s = html.UnescapeString(s)
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// PlainText strips all markup and returns decoded, whitespace-collapsed
// text.
func PlainText(s string) string {
	return Title(textPolicy.Sanitize(s))
}

// HTML sanitizes rendered content for output.
func HTML(s string) string {
	return strings.TrimSpace(contentPolicy.Sanitize(s))
}

// Excerpt sanitizes a rendered excerpt and tidies the theme's "read more"
// decorations: "[&hellip;]" becomes a plain ellipsis, a trailing ellipsis
// after a full stop is dropped and "Continue reading" links are removed.
func Excerpt(s string) string {
	s = bracketEllipsis.ReplaceAllString(s, "&hellip;")
	s = strings.Replace(s, "....", ".", 1)
	s = strings.Replace(s, ".&hellip;", ".", 1)
	s = moreLink.ReplaceAllString(s, "")
	return HTML(s)
}

// wordpress dates carry no zone; the *_gmt variants are UTC.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Time parses a WordPress timestamp, preferring the GMT value. Returns
// the zero time when neither value parses.
func Time(gmt, local string) time.Time {
	for _, v := range []string{gmt, local} {
		if v == "" || strings.HasPrefix(v, "0000") {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// SecureURL upgrades http:// URLs to https:// (gravatar serves avatars over
// plain http by default).
func SecureURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// Lines splits a multi-line field into trimmed, non-empty entries.
func Lines(s string) []string {
	var out []string
	for _, line := range strings.Split(PlainTextLines(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// PlainTextLines strips markup but keeps line structure, turning <br> and
// </li> boundaries into newlines.
func PlainTextLines(s string) string {
	r := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</li>", "\n", "</p>", "\n")
	return html.UnescapeString(textPolicy.Sanitize(r.Replace(s)))
}
