// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"madarat/internal/fallback"
	"madarat/internal/models"
	"madarat/internal/normalize"
	"madarat/internal/slug"
	"madarat/internal/wordpress"
)

// Pages returns every published page.
func (s *Service) Pages(ctx context.Context) ([]models.Page, error) {
	raw, err := getAll[wordpress.RESTPage](ctx, s, "/wp/v2/pages", url.Values{"_embed": {"true"}})
	if err != nil {
		return nil, fmt.Errorf("content pages: %w", err)
	}
	pages := make([]models.Page, 0, len(raw))
	for _, p := range raw {
		pages = append(pages, normalize.Page(p))
	}
	return pages, nil
}

// PageByURI returns the page whose permalink path is uri, such as
// "/about/" or "/about/team". The last path segment is used as the slug;
// when several pages share it the one whose full path matches wins.
func (s *Service) PageByURI(ctx context.Context, uri string) (models.Page, error) {
	clean := strings.Trim(path.Clean("/"+slug.Decode(uri)), "/")
	if clean == "" {
		return models.Page{}, fmt.Errorf("content page %q: %w", uri, ErrNotFound)
	}
	last := clean[strings.LastIndex(clean, "/")+1:]

	params := url.Values{"_embed": {"true"}, "slug": {last}}
	var raw []wordpress.RESTPage
	if _, err := s.wp.Get(ctx, "/wp/v2/pages", params, &raw); err != nil {
		return models.Page{}, fmt.Errorf("content page %q: %w", uri, err)
	}
	if len(raw) == 0 {
		return models.Page{}, fmt.Errorf("content page %q: %w", uri, ErrNotFound)
	}
	for _, p := range raw {
		page := normalize.Page(p)
		if slug.Equal(strings.Trim(page.URI, "/"), clean) {
			return page, nil
		}
	}
	return normalize.Page(raw[0]), nil
}

// Menus returns every menu registered with the wp-api-menus plugin, each
// with its items.
func (s *Service) Menus(ctx context.Context) ([]models.Menu, error) {
	var list []wordpress.RESTMenu
	if _, err := s.wp.Get(ctx, "/wp-api-menus/v2/menus", nil, &list); err != nil {
		return nil, fmt.Errorf("content menus: %w", err)
	}

	menus := make([]models.Menu, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, m := range list {
		id := m.ID
		if id == 0 {
			id = m.TermID
		}
		g.Go(func() error {
			var full wordpress.RESTMenu
			if _, err := s.wp.Get(gctx, "/wp-api-menus/v2/menus/"+strconv.Itoa(id), nil, &full); err != nil {
				return fmt.Errorf("menu %d: %w", id, err)
			}
			if len(full.Locations) == 0 {
				full.Locations = m.Locations
			}
			if full.ID == 0 && full.TermID == 0 {
				full.ID = id
			}
			menus[i] = normalize.Menu(full, s.localHosts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("content menus: %w", err)
	}
	return menus, nil
}

// PrimaryMenu returns the menu assigned to the primary location, or the
// first menu when none is. ErrNotFound is returned when there are no menus.
func (s *Service) PrimaryMenu(ctx context.Context) (models.Menu, error) {
	menus, err := s.Menus(ctx)
	if err != nil {
		return models.Menu{}, err
	}
	if len(menus) == 0 {
		return models.Menu{}, fmt.Errorf("content primary menu: %w", ErrNotFound)
	}
	for _, m := range menus {
		for _, loc := range m.Locations {
			if strings.EqualFold(loc, "primary") {
				return m, nil
			}
		}
	}
	return menus[0], nil
}

// SiteMetadata describes the site from the REST index. Empty fields are
// filled from the static defaults.
func (s *Service) SiteMetadata(ctx context.Context) (models.SiteMetadata, error) {
	var raw wordpress.RESTSite
	if _, err := s.wp.Get(ctx, "/", url.Values{"_fields": {"name,description,url,home,language"}}, &raw); err != nil {
		return models.SiteMetadata{}, fmt.Errorf("content site metadata: %w", err)
	}
	meta := normalize.Site(raw)
	def := fallback.SiteMetadata()
	if meta.Title == "" {
		meta.Title = def.Title
	}
	if meta.Description == "" {
		meta.Description = def.Description
	}
	if meta.Language == "" {
		meta.Language = def.Language
	}
	meta.Social = fallback.SocialLinks()
	return meta, nil
}
