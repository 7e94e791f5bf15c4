// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sitemap renders the XML sitemaps: the static pages, posts,
// destinations, trips split into fixed-size chunks, and an index of all
// of them. Content comes through the cache; a backend failure is an error,
// never a silently empty sitemap.
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"madarat/internal/cache"
	"madarat/internal/content"
	"madarat/internal/models"
	"madarat/internal/normalize"
	"madarat/internal/paginate"
	"madarat/internal/slug"
)

// ErrUnknown is returned for a sitemap name that does not exist.
var ErrUnknown = errors.New("sitemap: unknown sitemap")

// Sitemap file names.
const (
	NameStatic       = "sitemap.xml"
	NameIndex        = "sitemap-index.xml"
	NamePosts        = "sitemap-posts.xml"
	NameTrips        = "sitemap-trips.xml"
	NameDestinations = "sitemap-destinations.xml"
)

// Response headers shared by the sitemap routes and published copies.
const (
	ContentType       = "text/xml; charset=utf-8"
	CacheControl      = "public, s-maxage=21600, stale-while-revalidate=43200"
	IndexCacheControl = "public, s-maxage=86400, stale-while-revalidate=43200"
)

// CacheControlFor returns the Cache-Control value for the sitemap name.
func CacheControlFor(name string) string {
	if name == NameIndex {
		return IndexCacheControl
	}
	return CacheControl
}

// DefaultChunkSize is the number of trips per trip sitemap.
const DefaultChunkSize = 50

var tripChunkName = regexp.MustCompile(`^sitemap-trips-([0-9]+)\.xml$`)

// staticPage is a fixed route listed in sitemap.xml.
type staticPage struct {
	path     string
	freq     ChangeFreq
	priority float64
}

var staticPages = []staticPage{
	{"/", Daily, 1.0},
	{"/destination", Weekly, 0.9},
	{"/trip", Weekly, 0.9},
	{"/posts", Weekly, 0.7},
	{"/search", Monthly, 0.4},
}

// Generator renders sitemaps from cached content.
type Generator struct {
	content   *content.Service
	cache     *cache.Loader
	siteURL   string
	chunkSize int
	ttl       time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithChunkSize sets the number of trips per trip sitemap.
func WithChunkSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.chunkSize = n
		}
	}
}

// WithTTL sets how long fetched content is cached.
func WithTTL(ttl time.Duration) Option {
	return func(g *Generator) { g.ttl = ttl }
}

// New creates a Generator for the site at siteURL.
func New(svc *content.Service, c *cache.Loader, siteURL string, opts ...Option) *Generator {
	g := &Generator{
		content:   svc,
		cache:     c,
		siteURL:   siteURL,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Render returns the sitemap called name, such as "sitemap-posts.xml" or
// "sitemap-trips-2.xml". Unknown names yield ErrUnknown.
func (g *Generator) Render(ctx context.Context, name string) ([]byte, error) {
	if name == NameIndex {
		return g.index(ctx)
	}
	b, err := g.builder(ctx, name)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// builder collects the entries of the urlset sitemap called name.
func (g *Generator) builder(ctx context.Context, name string) (*Builder, error) {
	switch name {
	case NameStatic:
		return g.static(ctx)
	case NamePosts:
		return g.posts(ctx)
	case NameTrips:
		return g.trips(ctx, 1)
	case NameDestinations:
		return g.destinations(ctx)
	}
	if m := tripChunkName.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n >= 2 {
			return g.trips(ctx, n)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
}

// Names lists every sitemap currently available, index first.
func (g *Generator) Names(ctx context.Context) ([]string, error) {
	trips, err := g.allTrips(ctx)
	if err != nil {
		return nil, err
	}
	names := []string{NameIndex, NameStatic, NamePosts}
	names = append(names, g.tripNames(len(trips))...)
	return append(names, NameDestinations), nil
}

func (g *Generator) tripNames(count int) []string {
	chunks := max(paginate.PagesCount(count, g.chunkSize), 1)
	names := []string{NameTrips}
	for n := 2; n <= chunks; n++ {
		names = append(names, tripChunk(n))
	}
	return names
}

func tripChunk(n int) string { return "sitemap-trips-" + strconv.Itoa(n) + ".xml" }

// IsTripChunk reports whether name is a numbered trip sitemap.
func IsTripChunk(name string) bool {
	return tripChunkName.MatchString(name)
}

// index lists every other sitemap, each dated by its newest entry.
func (g *Generator) index(ctx context.Context) ([]byte, error) {
	names, err := g.Names(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]Ref, 0, len(names)-1)
	for _, n := range names[1:] {
		b, err := g.builder(ctx, n)
		if err != nil {
			return nil, err
		}
		refs = append(refs, Ref{Path: "/" + n, Modified: b.Latest()})
	}
	return BuildIndex(g.siteURL, refs)
}

func (g *Generator) static(ctx context.Context) (*Builder, error) {
	pages, err := cache.Fetch(ctx, g.cache, content.KeyPages, g.ttl, g.content.Pages)
	if err != nil {
		return nil, fmt.Errorf("sitemap static: %w", err)
	}
	b := NewBuilder(g.siteURL)
	for _, p := range staticPages {
		b.Add(p.path, time.Time{}, p.freq, p.priority)
	}
	for _, p := range pages {
		b.Add(slug.Path("", p.Slug), p.Modified, Monthly, 0.6)
	}
	return b, nil
}

func (g *Generator) posts(ctx context.Context) (*Builder, error) {
	posts, err := cache.Fetch(ctx, g.cache, content.KeyAllPosts, g.ttl, func(ctx context.Context) ([]models.Post, error) {
		return g.content.AllPosts(ctx, content.PostQuery{})
	})
	if err != nil {
		return nil, fmt.Errorf("sitemap posts: %w", err)
	}
	cats, err := cache.Fetch(ctx, g.cache, content.KeyCategories, g.ttl, g.content.Categories)
	if err != nil {
		return nil, fmt.Errorf("sitemap posts: %w", err)
	}

	b := NewBuilder(g.siteURL)
	b.Add("/posts", time.Time{}, Daily, 0.8)
	for _, p := range normalize.DedupeBySlug(posts, normalize.PostSlug) {
		b.Add(slug.Path("/posts", p.Slug), p.Modified, Weekly, 0.7)
	}
	for _, c := range cats {
		if c.Count == 0 {
			continue
		}
		b.Add(slug.Path("/categories", c.Slug), time.Time{}, Weekly, 0.6)
	}
	return b, nil
}

// trips renders chunk n (1-based) of the trip sitemap. The first chunk
// also lists the trip index page. A chunk past the end is ErrUnknown.
func (g *Generator) trips(ctx context.Context, n int) (*Builder, error) {
	trips, err := g.allTrips(ctx)
	if err != nil {
		return nil, err
	}
	chunks := paginate.Chunk(trips, g.chunkSize)
	if n > 1 && n > len(chunks) {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, tripChunk(n))
	}

	b := NewBuilder(g.siteURL)
	if n == 1 {
		b.Add("/trip", time.Time{}, Daily, 0.9)
	}
	if n <= len(chunks) {
		for _, t := range chunks[n-1] {
			b.Add(slug.Path("/trip", t.Slug), firstTime(t.Modified, t.Date), Weekly, 0.8)
		}
	}
	return b, nil
}

func (g *Generator) allTrips(ctx context.Context) ([]models.Trip, error) {
	trips, err := cache.Fetch(ctx, g.cache, content.KeyTrips, g.ttl, g.content.Trips)
	if err != nil {
		return nil, fmt.Errorf("sitemap trips: %w", err)
	}
	return normalize.DedupeBySlug(trips, normalize.TripSlug), nil
}

func (g *Generator) destinations(ctx context.Context) (*Builder, error) {
	ds, err := cache.Fetch(ctx, g.cache, content.KeyDestinations, g.ttl, g.content.Destinations)
	if err != nil {
		return nil, fmt.Errorf("sitemap destinations: %w", err)
	}
	b := NewBuilder(g.siteURL)
	b.Add("/destination", time.Time{}, Weekly, 0.9)
	for _, d := range normalize.DedupeBySlug(ds, normalize.DestinationSlug) {
		b.Add(slug.Path("/destination", d.Slug), time.Time{}, Weekly, 0.8)
	}
	return b, nil
}

func firstTime(ts ...time.Time) time.Time {
	for _, t := range ts {
		if !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}
