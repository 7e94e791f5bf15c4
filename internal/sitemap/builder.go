// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sitemap

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq is how often a URL is expected to change.
type ChangeFreq string

// Change frequencies used by the site.
const (
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
)

// URL is one <url> entry.
type URL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// IndexEntry is one <sitemap> entry of a sitemap index.
type IndexEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	XMLNS    string       `xml:"xmlns,attr"`
	Sitemaps []IndexEntry `xml:"sitemap"`
}

// DefaultLastMod stamps entries of a document that holds no dated
// content at all, so an unchanged sitemap keeps the same bytes.
var DefaultLastMod = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Builder accumulates URLs for one urlset document.
type Builder struct {
	siteURL  string
	urls     []URL
	modified []time.Time
}

// NewBuilder creates a builder.
func NewBuilder(siteURL string) *Builder {
	return &Builder{
		siteURL: strings.TrimRight(siteURL, "/"),
		urls:    make([]URL, 0),
	}
}

// Add appends path (already escaped) with the given metadata. A zero
// modified time is stamped with Latest when the document is built.
func (b *Builder) Add(path string, modified time.Time, freq ChangeFreq, priority float64) {
	b.urls = append(b.urls, URL{
		Loc:        b.siteURL + path,
		ChangeFreq: freq,
		Priority:   fmt.Sprintf("%.1f", priority),
	})
	b.modified = append(b.modified, modified)
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int { return len(b.urls) }

// Latest returns the newest modification time added, or DefaultLastMod
// when no entry is dated.
func (b *Builder) Latest() time.Time {
	var latest time.Time
	for _, m := range b.modified {
		if m.After(latest) {
			latest = m
		}
	}
	if latest.IsZero() {
		return DefaultLastMod
	}
	return latest
}

// Build renders the urlset document.
func (b *Builder) Build() ([]byte, error) {
	latest := b.Latest()
	urls := make([]URL, len(b.urls))
	for i, u := range b.urls {
		m := b.modified[i]
		if m.IsZero() {
			m = latest
		}
		u.LastMod = lastMod(m)
		urls[i] = u
	}
	return render(urlSet{XMLNS: XMLNamespace, URLs: urls})
}

// Ref points a sitemap index at one sitemap.
type Ref struct {
	Path     string
	Modified time.Time
}

// BuildIndex renders a sitemap index pointing at refs. A zero Modified
// is stamped with DefaultLastMod.
func BuildIndex(siteURL string, refs []Ref) ([]byte, error) {
	base := strings.TrimRight(siteURL, "/")
	entries := make([]IndexEntry, 0, len(refs))
	for _, r := range refs {
		m := r.Modified
		if m.IsZero() {
			m = DefaultLastMod
		}
		entries = append(entries, IndexEntry{Loc: base + r.Path, LastMod: lastMod(m)})
	}
	return render(sitemapIndex{XMLNS: XMLNamespace, Sitemaps: entries})
}

func lastMod(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func render(doc any) ([]byte, error) {
	out := []byte(xml.Header)
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render sitemap: %w", err)
	}
	return append(out, body...), nil
}

// ETag returns the quoted entity tag of a sitemap body: the first 16
// characters of the base64 SHA-256 digest.
func ETag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + base64.StdEncoding.EncodeToString(sum[:])[:16] + `"`
}
