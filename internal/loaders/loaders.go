// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package loaders assembles the data each public page needs. A loader
// fans its fetches out concurrently, serves cached content when it can and
// static fallbacks when the backend fails, and returns serialized props,
// a redirect or a not-found marker. Backend failures never surface as
// errors; only serialization can fail.
package loaders

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"madarat/internal/cache"
	"madarat/internal/content"
	"madarat/internal/fallback"
	"madarat/internal/models"
	"madarat/internal/normalize"
	"madarat/internal/paginate"
)

const (
	relatedPostsCount  = 3
	relatedTripsCount  = 3
	featuredTripsCount = 6
)

// Redirect tells the handler to send the client elsewhere.
type Redirect struct {
	Destination string `json:"destination"`
	Permanent   bool   `json:"permanent"`
}

// Result is the outcome of a loader. Exactly one of Props, Redirect and
// NotFound is meaningful.
type Result struct {
	Props    map[string]any
	Redirect *Redirect
	NotFound bool
}

// Layout is the data every page shares.
type Layout struct {
	Site models.SiteMetadata `json:"site"`
	Menu models.Menu         `json:"menu"`
}

// Loaders holds the dependencies of the page loaders.
type Loaders struct {
	content *content.Service
	cache   *cache.Loader
	ttl     time.Duration
	log     *slog.Logger
}

// New creates the loaders. A zero ttl uses the cache loader's default.
func New(svc *content.Service, c *cache.Loader, ttl time.Duration, log *slog.Logger) *Loaders {
	if log == nil {
		log = slog.Default()
	}
	return &Loaders{content: svc, cache: c, ttl: ttl, log: log}
}

func (l *Loaders) props(v any) (Result, error) {
	m, err := Serialize(v)
	if err != nil {
		return Result{}, err
	}
	return Result{Props: m}, nil
}

func (l *Loaders) missing() (Result, error) { return Result{NotFound: true}, nil }

// layout loads the site metadata and the primary menu.
func (l *Loaders) layout(ctx context.Context, out *Layout) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Site = cache.WithCache(gctx, l.cache, content.KeySite, l.ttl, l.content.SiteMetadata, fallback.SiteMetadata())
		return nil
	})
	g.Go(func() error {
		out.Menu = cache.WithCache(gctx, l.cache, content.KeyPrimaryMenu, l.ttl, l.content.PrimaryMenu, fallback.PrimaryMenu())
		return nil
	})
	_ = g.Wait()
}

func (l *Loaders) allPosts(ctx context.Context) []models.Post {
	return cache.WithCache(ctx, l.cache, content.KeyAllPosts, l.ttl, func(ctx context.Context) ([]models.Post, error) {
		return l.content.AllPosts(ctx, content.PostQuery{})
	}, fallback.Posts())
}

func (l *Loaders) allTrips(ctx context.Context) []models.Trip {
	return cache.WithCache(ctx, l.cache, content.KeyTrips, l.ttl, l.content.Trips, fallback.Trips())
}

func (l *Loaders) destinations(ctx context.Context) []models.Destination {
	return cache.WithCache(ctx, l.cache, content.KeyDestinations, l.ttl, l.content.Destinations, fallback.Destinations())
}

func (l *Loaders) categories(ctx context.Context) []models.Category {
	return cache.WithCache(ctx, l.cache, content.KeyCategories, l.ttl, l.content.Categories, fallback.Categories())
}

// postsPage caches one page of a server-side paginated listing.
func (l *Loaders) postsPage(ctx context.Context, scope string, page int, fetch func(context.Context) (paginate.Page[models.Post], error)) paginate.Page[models.Post] {
	return cache.WithCache(ctx, l.cache, content.KeyPostsPage(scope, page), l.ttl, fetch,
		paginate.Paginate(fallback.Posts(), l.content.PageSize(), page))
}

// lookup fetches a single item through the cache. It reports false when
// the item does not exist or the backend failed; failures are logged.
func lookup[T any](ctx context.Context, l *Loaders, key string, fetch func(context.Context) (T, error)) (T, bool) {
	v, err := cache.Fetch(ctx, l.cache, key, l.ttl, fetch)
	if err == nil {
		return v, true
	}
	if !errors.Is(err, content.ErrNotFound) {
		l.log.Warn("content lookup failed", "key", key, "error", err)
	}
	return v, false
}

// ParsePage parses a page path parameter. Empty means page 1; anything
// that is not a positive integer reports false.
func ParsePage(s string) (int, bool) {
	if s == "" {
		return 1, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// NotFound loads the layout for the not-found page.
func (l *Loaders) NotFound(ctx context.Context) (Result, error) {
	var p Layout
	l.layout(ctx, &p)
	return l.props(p)
}

// ---------- Home ----------

// HomeProps feeds the landing page.
type HomeProps struct {
	Layout
	FeaturedTrips []models.Trip        `json:"featuredTrips"`
	Destinations  []models.Destination `json:"destinations"`
	RecentPosts   []models.Post        `json:"recentPosts"`
}

// Home loads the landing page.
func (l *Loaders) Home(ctx context.Context) (Result, error) {
	var p HomeProps
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error {
		p.FeaturedTrips = content.FeaturedTrips(l.allTrips(gctx), featuredTripsCount)
		return nil
	})
	g.Go(func() error { p.Destinations = l.destinations(gctx); return nil })
	g.Go(func() error {
		p.RecentPosts = cache.WithCache(gctx, l.cache, content.KeyRecentPosts, l.ttl, func(ctx context.Context) ([]models.Post, error) {
			return l.content.RecentPosts(ctx, content.RecentPostsCount)
		}, fallback.Posts())
		return nil
	})
	_ = g.Wait()
	return l.props(p)
}

// ---------- Posts ----------

// PostsProps feeds the blog listings.
type PostsProps struct {
	Layout
	Title      string            `json:"title"`
	Posts      []models.Post     `json:"posts"`
	Pagination paginate.Cursor   `json:"pagination"`
	Links      []paginate.Link   `json:"pages"`
	Categories []models.Category `json:"categories"`
	Category   *models.Category  `json:"category,omitempty"`
	Author     *models.Author    `json:"author,omitempty"`
	Query      string            `json:"query,omitempty"`
	SEO        map[string]string `json:"seo,omitempty"`
}

func (p *PostsProps) setPage(page paginate.Page[models.Post], basePath string) {
	p.Posts = page.Items
	p.Pagination = page.Cursor.WithBasePath(basePath)
	p.Links = p.Pagination.Links()
}

// Posts loads page n of the blog index. Sticky posts lead the first page.
// Page 1 requested as /posts/page/1 redirects to /posts.
func (l *Loaders) Posts(ctx context.Context, page int, explicit bool) (Result, error) {
	if explicit && page == 1 {
		return Result{Redirect: &Redirect{Destination: "/posts"}}, nil
	}
	var p PostsProps
	var all []models.Post
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error { all = l.allPosts(gctx); return nil })
	g.Go(func() error { p.Categories = normalize.RootCategories(l.categories(gctx)); return nil })
	_ = g.Wait()

	p.Title = "المدونة"
	p.setPage(paginate.Paginate(normalize.SortSticky(all), l.content.PageSize(), page), "/posts")
	return l.props(p)
}

// PostProps feeds a single post.
type PostProps struct {
	Layout
	Post         models.Post      `json:"post"`
	Content      string           `json:"content"`
	Headings     []models.Heading `json:"headings"`
	RelatedPosts []models.Post    `json:"relatedPosts"`
}

// Post loads a single post with its table of contents and related posts.
func (l *Loaders) Post(ctx context.Context, slug string) (Result, error) {
	post, ok := lookup(ctx, l, content.KeyPost(slug), func(ctx context.Context) (models.Post, error) {
		return l.content.PostBySlug(ctx, slug)
	})
	if !ok {
		return l.missing()
	}

	p := PostProps{Post: post}
	article := l.content.PostArticle(post)
	p.Content, p.Headings = article.HTML, article.Headings

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error {
		p.RelatedPosts = cache.WithCache(gctx, l.cache, "related:"+content.KeyPost(slug), l.ttl, func(ctx context.Context) ([]models.Post, error) {
			return l.content.RelatedPosts(ctx, post, relatedPostsCount)
		}, fallback.Posts())
		return nil
	})
	_ = g.Wait()
	return l.props(p)
}

// Category loads page n of a category archive.
func (l *Loaders) Category(ctx context.Context, slug string, page int) (Result, error) {
	cat, ok := lookup(ctx, l, "category:"+slug, func(ctx context.Context) (models.Category, error) {
		return l.content.CategoryBySlug(ctx, slug)
	})
	if !ok {
		return l.missing()
	}

	p := PostsProps{Title: cat.Name, Category: &cat}
	description := cat.Description
	if description == "" {
		description = "Browse all posts in " + cat.Name
	}
	p.SEO = map[string]string{"title": cat.Name, "description": description}

	var posts paginate.Page[models.Post]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error {
		posts = l.postsPage(gctx, "category:"+slug, page, func(ctx context.Context) (paginate.Page[models.Post], error) {
			return l.content.PostsPage(ctx, content.PostQuery{Category: cat.ID}, page)
		})
		return nil
	})
	_ = g.Wait()
	p.setPage(posts, "/categories/"+cat.Slug)
	return l.props(p)
}

// Author loads page n of an author archive.
func (l *Loaders) Author(ctx context.Context, slug string, page int) (Result, error) {
	author, ok := lookup(ctx, l, "author:"+slug, func(ctx context.Context) (models.Author, error) {
		return l.content.AuthorBySlug(ctx, slug)
	})
	if !ok {
		return l.missing()
	}

	p := PostsProps{Title: author.Name, Author: &author}
	var posts paginate.Page[models.Post]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error {
		posts = l.postsPage(gctx, "author:"+slug, page, func(ctx context.Context) (paginate.Page[models.Post], error) {
			return l.content.PostsPage(ctx, content.PostQuery{Author: author.ID}, page)
		})
		return nil
	})
	_ = g.Wait()
	p.setPage(posts, "/authors/"+author.Slug)
	return l.props(p)
}

// Archive loads page n of the posts published in a year or month. A zero
// month selects the whole year.
func (l *Loaders) Archive(ctx context.Context, year, month, page int) (Result, error) {
	if year < 1970 || year > 9999 || month < 0 || month > 12 {
		return l.missing()
	}
	scope := "archive:" + strconv.Itoa(year) + "-" + strconv.Itoa(month)
	base := "/posts/" + strconv.Itoa(year)
	title := strconv.Itoa(year)
	if month > 0 {
		m := strconv.Itoa(month)
		if month < 10 {
			m = "0" + m
		}
		base += "/" + m
		title = m + "/" + title
	}

	p := PostsProps{Title: title}
	var posts paginate.Page[models.Post]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error {
		posts = l.postsPage(gctx, scope, page, func(ctx context.Context) (paginate.Page[models.Post], error) {
			return l.content.PostsInMonth(ctx, year, month, page)
		})
		return nil
	})
	_ = g.Wait()
	p.setPage(posts, base)
	return l.props(p)
}

// Search loads page n of the results for q. An empty query renders the
// empty search page.
func (l *Loaders) Search(ctx context.Context, q string, page int) (Result, error) {
	p := PostsProps{Title: "البحث", Query: q}
	var posts paginate.Page[models.Post]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error {
		posts = cache.WithCache(gctx, l.cache, content.KeyPostsPage("search:"+q, page), l.ttl, func(ctx context.Context) (paginate.Page[models.Post], error) {
			return l.content.Search(ctx, q, page)
		}, paginate.Paginate(fallback.Posts(), l.content.PageSize(), page))
		return nil
	})
	_ = g.Wait()
	p.setPage(posts, "/search")
	return l.props(p)
}

// ---------- Trips ----------

// TripsProps feeds the trip listing.
type TripsProps struct {
	Layout
	Trips        []models.Trip        `json:"trips"`
	Pagination   paginate.Cursor      `json:"pagination"`
	Links        []paginate.Link      `json:"pages"`
	Destinations []models.Destination `json:"destinations"`
}

// Trips loads page n of the trip listing.
func (l *Loaders) Trips(ctx context.Context, page int) (Result, error) {
	var p TripsProps
	var all []models.Trip
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error { all = l.allTrips(gctx); return nil })
	g.Go(func() error { p.Destinations = l.destinations(gctx); return nil })
	_ = g.Wait()

	trips := paginate.Paginate(all, l.content.PageSize(), page)
	p.Trips = trips.Items
	p.Pagination = trips.Cursor.WithBasePath("/trip")
	p.Links = p.Pagination.Links()
	return l.props(p)
}

// TripProps feeds a single trip.
type TripProps struct {
	Layout
	Trip         models.Trip   `json:"trip"`
	RelatedTrips []models.Trip `json:"relatedTrips"`
}

// Trip loads a single trip and the trips sharing its destination. When the
// backend is down the fallback trips are still served.
func (l *Loaders) Trip(ctx context.Context, slug string) (Result, error) {
	trip, err := cache.Fetch(ctx, l.cache, content.KeyTrip(slug), l.ttl, func(ctx context.Context) (models.Trip, error) {
		return l.content.TripBySlug(ctx, slug)
	})
	switch {
	case errors.Is(err, content.ErrNotFound):
		return l.missing()
	case err != nil:
		l.log.Warn("trip fetch failed, serving fallback", "slug", slug, "error", err)
		ft, ok := fallback.Trip(slug)
		if !ok {
			return l.missing()
		}
		trip = ft
	}

	p := TripProps{Trip: trip}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error {
		p.RelatedTrips = content.RelatedTrips(l.allTrips(gctx), trip, relatedTripsCount)
		return nil
	})
	_ = g.Wait()
	return l.props(p)
}

// DestinationsProps feeds the destination listing.
type DestinationsProps struct {
	Layout
	Destinations []models.Destination `json:"destinations"`
}

// Destinations loads every destination.
func (l *Loaders) Destinations(ctx context.Context) (Result, error) {
	var p DestinationsProps
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error { p.Destinations = l.destinations(gctx); return nil })
	_ = g.Wait()
	return l.props(p)
}

// DestinationProps feeds a single destination.
type DestinationProps struct {
	Layout
	Destination models.Destination `json:"destination"`
	Trips       []models.Trip      `json:"trips"`
}

// Destination loads a destination with its trips. When the backend is down
// a known destination is served from the fallback set with its fallback
// trips.
func (l *Loaders) Destination(ctx context.Context, slug string) (Result, error) {
	d, err := cache.Fetch(ctx, l.cache, content.KeyDestination(slug), l.ttl, func(ctx context.Context) (models.Destination, error) {
		return l.content.DestinationBySlug(ctx, slug)
	})
	switch {
	case errors.Is(err, content.ErrNotFound):
		return l.missing()
	case err != nil:
		l.log.Warn("destination fetch failed, serving fallback", "slug", slug, "error", err)
		fd, ok := fallback.Destination(slug)
		if !ok {
			return l.missing()
		}
		d = fd
	}

	p := DestinationProps{Destination: d}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { l.layout(gctx, &p.Layout); return nil })
	g.Go(func() error {
		p.Trips = cache.WithCache(gctx, l.cache, "trips:"+content.KeyDestination(slug), l.ttl, func(ctx context.Context) ([]models.Trip, error) {
			return l.content.TripsByDestination(ctx, d.ID)
		}, fallback.TripsTo(d))
		return nil
	})
	_ = g.Wait()
	return l.props(p)
}

// ---------- Pages ----------

// PageProps feeds a WordPress page.
type PageProps struct {
	Layout
	Page models.Page `json:"page"`
}

// Page loads the WordPress page at uri.
func (l *Loaders) Page(ctx context.Context, uri string) (Result, error) {
	page, ok := lookup(ctx, l, content.KeyPage(uri), func(ctx context.Context) (models.Page, error) {
		return l.content.PageByURI(ctx, uri)
	})
	if !ok {
		return l.missing()
	}
	p := PageProps{Page: page}
	l.layout(ctx, &p.Layout)
	return l.props(p)
}
