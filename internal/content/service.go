// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content is the read side of the site: it fetches posts, trips,
// taxonomies, pages, menus and site metadata from WordPress and returns
// them normalized. Nothing here caches or falls back; callers wrap these
// calls with the cache package.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"madarat/internal/paginate"
	"madarat/internal/wordpress"
)

// ErrNotFound is returned by the single-item lookups when WordPress has no
// item with the requested slug.
var ErrNotFound = errors.New("content: not found")

const (
	// maxPerPage is the largest page size the REST API accepts.
	maxPerPage = 100

	// maxPages bounds how many pages getAll will walk.
	maxPages = 50

	// fetchConcurrency is the number of page requests in flight at once.
	fetchConcurrency = 4
)

// Options configures a Service.
type Options struct {
	PageSize   int      // listing page size, defaults to paginate.DefaultPageSize
	LocalHosts []string // hosts whose links are rewritten to site-relative paths
	Logger     *slog.Logger
}

// Service reads content from one WordPress installation.
type Service struct {
	wp         *wordpress.Client
	pageSize   int
	localHosts []string
	log        *slog.Logger
}

// New creates a Service on top of a WordPress client.
func New(wp *wordpress.Client, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = paginate.DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	hosts := append([]string(nil), opts.LocalHosts...)
	if u, err := url.Parse(wp.BaseURL()); err == nil && u.Host != "" {
		hosts = append(hosts, u.Host)
	}
	return &Service{
		wp:         wp,
		pageSize:   opts.PageSize,
		localHosts: hosts,
		log:        opts.Logger,
	}
}

// PageSize returns the listing page size.
func (s *Service) PageSize() int { return s.pageSize }

// BackendHost returns the host of the WordPress installation.
func (s *Service) BackendHost() string {
	u, err := url.Parse(s.wp.BaseURL())
	if err != nil {
		return ""
	}
	return u.Host
}

// Ping checks that the REST index answers.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.wp.FetchAPI(ctx, "/", url.Values{"_fields": {"name"}})
	return err
}

// getAll fetches every page of a REST collection. The first page reports
// X-WP-TotalPages; the remaining pages are fetched concurrently and
// appended in page order.
func getAll[T any](ctx context.Context, s *Service, path string, params url.Values) ([]T, error) {
	first := cloneValues(params)
	first.Set("per_page", strconv.Itoa(maxPerPage))
	first.Set("page", "1")

	var items []T
	resp, err := s.wp.Get(ctx, path, first, &items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	pages := min(resp.TotalPages, maxPages)
	if pages <= 1 {
		return items, nil
	}
	if resp.TotalPages > maxPages {
		s.log.Warn("collection truncated", "path", path, "pages", resp.TotalPages, "limit", maxPages)
	}

	rest := make([][]T, pages-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for n := 2; n <= pages; n++ {
		p := cloneValues(first)
		p.Set("page", strconv.Itoa(n))
		g.Go(func() error {
			var page []T
			if _, err := s.wp.Get(gctx, path, p, &page); err != nil {
				return fmt.Errorf("page %d: %w", n, err)
			}
			rest[n-2] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, page := range rest {
		items = append(items, page...)
	}
	return items, nil
}

// getOne fetches a collection filtered by slug and returns its first item.
func getOne[T any](ctx context.Context, s *Service, path, slugValue string, params url.Values) (T, error) {
	p := cloneValues(params)
	p.Set("slug", slugValue)
	var items []T
	if _, err := s.wp.Get(ctx, path, p, &items); err != nil {
		var zero T
		return zero, err
	}
	if len(items) == 0 {
		var zero T
		return zero, ErrNotFound
	}
	return items[0], nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
