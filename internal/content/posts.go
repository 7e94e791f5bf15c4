// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"madarat/internal/models"
	"madarat/internal/normalize"
	"madarat/internal/paginate"
	"madarat/internal/wordpress"
)

// PostQuery filters post listings. Zero fields are ignored.
type PostQuery struct {
	Category int
	Author   int
	Search   string
	After    time.Time
	Before   time.Time
	Exclude  []int
	Slug     string
}

func (q PostQuery) values() url.Values {
	v := url.Values{"_embed": {"true"}}
	if q.Category > 0 {
		v.Set("categories", strconv.Itoa(q.Category))
	}
	if q.Author > 0 {
		v.Set("author", strconv.Itoa(q.Author))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if !q.After.IsZero() {
		v.Set("after", q.After.UTC().Format(time.RFC3339))
	}
	if !q.Before.IsZero() {
		v.Set("before", q.Before.UTC().Format(time.RFC3339))
	}
	for _, id := range q.Exclude {
		v.Add("exclude", strconv.Itoa(id))
	}
	if q.Slug != "" {
		v.Set("slug", q.Slug)
	}
	return v
}

// AllPosts returns every post matching q, deduplicated by slug, in the
// backend's order (newest first).
func (s *Service) AllPosts(ctx context.Context, q PostQuery) ([]models.Post, error) {
	raw, err := getAll[wordpress.RESTPost](ctx, s, "/wp/v2/posts", q.values())
	if err != nil {
		return nil, fmt.Errorf("content all posts: %w", err)
	}
	return normalize.DedupeBySlug(normalize.Posts(raw), normalize.PostSlug), nil
}

// PaginatedPosts fetches every post matching q, floats sticky posts to the
// front and returns the requested page.
func (s *Service) PaginatedPosts(ctx context.Context, q PostQuery, page int) (paginate.Page[models.Post], error) {
	all, err := s.AllPosts(ctx, q)
	if err != nil {
		return paginate.Page[models.Post]{}, err
	}
	return paginate.Paginate(normalize.SortSticky(all), s.pageSize, page), nil
}

// PostsPage asks WordPress for a single page of posts and builds the cursor
// from the X-WP-Total headers.
func (s *Service) PostsPage(ctx context.Context, q PostQuery, page int) (paginate.Page[models.Post], error) {
	page = max(page, 1)
	params := q.values()
	params.Set("per_page", strconv.Itoa(s.pageSize))
	params.Set("page", strconv.Itoa(page))

	var raw []wordpress.RESTPost
	resp, err := s.wp.Get(ctx, "/wp/v2/posts", params, &raw)
	if err != nil {
		// Past the last page WordPress answers 400; learn the totals from
		// a one-item request and return the empty last page.
		var be *wordpress.BackendUnavailableError
		if !errors.As(err, &be) || be.Status != 400 || page == 1 {
			return paginate.Page[models.Post]{}, fmt.Errorf("content posts page %d: %w", page, err)
		}
		total, terr := s.countPosts(ctx, q)
		if terr != nil {
			return paginate.Page[models.Post]{}, fmt.Errorf("content posts page %d: %w", page, terr)
		}
		return paginate.FromTotals([]models.Post{}, total, paginate.PagesCount(total, s.pageSize), s.pageSize, page), nil
	}
	return paginate.FromTotals(normalize.Posts(raw), resp.Total, resp.TotalPages, s.pageSize, page), nil
}

func (s *Service) countPosts(ctx context.Context, q PostQuery) (int, error) {
	params := q.values()
	params.Del("_embed")
	params.Set("per_page", "1")
	params.Set("_fields", "id")
	resp, err := s.wp.FetchAPI(ctx, "/wp/v2/posts", params)
	if err != nil {
		return 0, err
	}
	return resp.Total, nil
}

// RecentPosts returns the n most recent posts.
func (s *Service) RecentPosts(ctx context.Context, n int) ([]models.Post, error) {
	params := url.Values{
		"_embed":   {"true"},
		"per_page": {strconv.Itoa(min(max(n, 1), maxPerPage))},
		"orderby":  {"date"},
		"order":    {"desc"},
	}
	var raw []wordpress.RESTPost
	if _, err := s.wp.Get(ctx, "/wp/v2/posts", params, &raw); err != nil {
		return nil, fmt.Errorf("content recent posts: %w", err)
	}
	return normalize.SortByDateDesc(normalize.Posts(raw)), nil
}

// PostBySlug returns the post with the given slug, or ErrNotFound.
func (s *Service) PostBySlug(ctx context.Context, slug string) (models.Post, error) {
	raw, err := getOne[wordpress.RESTPost](ctx, s, "/wp/v2/posts", slug, url.Values{"_embed": {"true"}})
	if err != nil {
		return models.Post{}, fmt.Errorf("content post %q: %w", slug, err)
	}
	return normalize.Post(raw), nil
}

// PostArticle prepares a post body for display: heading anchors are added
// and links back to the WordPress host are made site-relative.
func (s *Service) PostArticle(p models.Post) normalize.Article {
	return normalize.PrepareContent(p.Content, s.BackendHost())
}

// RelatedPosts returns up to n posts sharing the first category of p.
func (s *Service) RelatedPosts(ctx context.Context, p models.Post, n int) ([]models.Post, error) {
	if len(p.Categories) == 0 || n <= 0 {
		return []models.Post{}, nil
	}
	params := PostQuery{Category: p.Categories[0].ID, Exclude: []int{p.ID}}.values()
	params.Set("per_page", strconv.Itoa(n))
	var raw []wordpress.RESTPost
	if _, err := s.wp.Get(ctx, "/wp/v2/posts", params, &raw); err != nil {
		return nil, fmt.Errorf("content related posts: %w", err)
	}
	return normalize.Posts(raw), nil
}

// PostsByCategory returns a page of posts in the category with slug.
func (s *Service) PostsByCategory(ctx context.Context, slug string, page int) (models.Category, paginate.Page[models.Post], error) {
	cat, err := s.CategoryBySlug(ctx, slug)
	if err != nil {
		return models.Category{}, paginate.Page[models.Post]{}, err
	}
	posts, err := s.PostsPage(ctx, PostQuery{Category: cat.ID}, page)
	return cat, posts, err
}

// PostsByAuthor returns a page of posts written by the author with slug.
func (s *Service) PostsByAuthor(ctx context.Context, slug string, page int) (models.Author, paginate.Page[models.Post], error) {
	author, err := s.AuthorBySlug(ctx, slug)
	if err != nil {
		return models.Author{}, paginate.Page[models.Post]{}, err
	}
	posts, err := s.PostsPage(ctx, PostQuery{Author: author.ID}, page)
	return author, posts, err
}

// PostsInMonth returns a page of posts published in the given month. A
// zero month selects the whole year.
func (s *Service) PostsInMonth(ctx context.Context, year, month, page int) (paginate.Page[models.Post], error) {
	var after, before time.Time
	if month == 0 {
		after = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		before = after.AddDate(1, 0, 0)
	} else {
		after = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		before = after.AddDate(0, 1, 0)
	}
	return s.PostsPage(ctx, PostQuery{After: after.Add(-time.Second), Before: before}, page)
}

// Search returns a page of posts matching term.
func (s *Service) Search(ctx context.Context, term string, page int) (paginate.Page[models.Post], error) {
	if term == "" {
		return paginate.Paginate([]models.Post{}, s.pageSize, 1), nil
	}
	return s.PostsPage(ctx, PostQuery{Search: term}, page)
}

// AuthorBySlug returns the user with the given slug, or ErrNotFound.
func (s *Service) AuthorBySlug(ctx context.Context, slug string) (models.Author, error) {
	raw, err := getOne[wordpress.RESTUser](ctx, s, "/wp/v2/users", slug, nil)
	if err != nil {
		return models.Author{}, fmt.Errorf("content author %q: %w", slug, err)
	}
	return normalize.Author(raw), nil
}
