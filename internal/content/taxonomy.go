// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"net/url"

	"madarat/internal/models"
	"madarat/internal/normalize"
	"madarat/internal/wordpress"
)

// Categories returns every post category with its children resolved.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	raw, err := getAll[wordpress.RESTTerm](ctx, s, "/wp/v2/categories", url.Values{"hide_empty": {"false"}})
	if err != nil {
		return nil, fmt.Errorf("content categories: %w", err)
	}
	return normalize.BuildCategoryTree(normalize.Categories(raw)), nil
}

// CategoryBySlug returns the category with the given slug, or ErrNotFound.
func (s *Service) CategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	raw, err := getOne[wordpress.RESTTerm](ctx, s, "/wp/v2/categories", slug, nil)
	if err != nil {
		return models.Category{}, fmt.Errorf("content category %q: %w", slug, err)
	}
	return normalize.Category(raw), nil
}

// Destinations returns every destination term, deduplicated by slug.
func (s *Service) Destinations(ctx context.Context) ([]models.Destination, error) {
	raw, err := getAll[wordpress.RESTTerm](ctx, s, "/wp/v2/destination", url.Values{"_embed": {"true"}})
	if err != nil {
		return nil, fmt.Errorf("content destinations: %w", err)
	}
	return normalize.DedupeBySlug(normalize.Destinations(raw), normalize.DestinationSlug), nil
}

// DestinationBySlug returns the destination with the given slug, or
// ErrNotFound.
func (s *Service) DestinationBySlug(ctx context.Context, slug string) (models.Destination, error) {
	raw, err := getOne[wordpress.RESTTerm](ctx, s, "/wp/v2/destination", slug, url.Values{"_embed": {"true"}})
	if err != nil {
		return models.Destination{}, fmt.Errorf("content destination %q: %w", slug, err)
	}
	return normalize.Destination(raw), nil
}

// Query parameters the proxies forward to WordPress.
var (
	DestinationProxyParams = []string{"per_page", "orderby", "order", "page", "slug", "_fields", "_embed"}
	TripProxyParams        = []string{"trip_tag", "per_page", "orderby", "order", "page", "slug"}
)

// ProxyQuery keeps the allowed, non-empty parameters of query. The result
// encodes in a stable order, so it doubles as a cache key.
func ProxyQuery(query url.Values, allowed []string) url.Values {
	params := url.Values{}
	for _, k := range allowed {
		if v := query.Get(k); v != "" {
			params.Set(k, v)
		}
	}
	return params
}

// DestinationsRaw proxies the destination collection as WordPress returns
// it. Only DestinationProxyParams are forwarded.
func (s *Service) DestinationsRaw(ctx context.Context, query url.Values) ([]byte, error) {
	params := ProxyQuery(query, DestinationProxyParams)
	resp, err := s.wp.FetchAPI(ctx, "/wp/v2/destination", params)
	if err != nil {
		return nil, fmt.Errorf("content destination proxy: %w", err)
	}
	return resp.Body, nil
}
