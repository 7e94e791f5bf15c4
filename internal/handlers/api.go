// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"madarat/internal/cache"
	"madarat/internal/content"
	"madarat/internal/fallback"
	"madarat/internal/loaders"
	"madarat/internal/models"
	"madarat/internal/paginate"
)

// proxyTTL matches how long the site considers proxied WordPress
// collections fresh.
const proxyTTL = time.Hour

// defaultTaggedTrips caps the fallback answer to a trip_tag query.
const defaultTaggedTrips = 4

// API groups the JSON endpoints consumed by client-side scripts.
type API struct {
	content *content.Service
	cache   *cache.Loader
	ttl     time.Duration
	log     *slog.Logger
}

// NewAPI creates the API handler group. A zero ttl uses the cache default.
func NewAPI(svc *content.Service, c *cache.Loader, ttl time.Duration, log *slog.Logger) *API {
	if log == nil {
		log = slog.Default()
	}
	return &API{content: svc, cache: c, ttl: ttl, log: log}
}

// postsPagination is the pagination block of /api/posts.
type postsPagination struct {
	CurrentPage int `json:"currentPage"`
	PagesCount  int `json:"pagesCount"`
	PostsCount  int `json:"postsCount"`
}

type postsResponse struct {
	Posts      []models.Post   `json:"posts"`
	Pagination postsPagination `json:"pagination"`
}

// Posts serves GET /api/posts. It accepts page, category (id), slug,
// authorSlug and search. An unknown author slug is ignored rather than
// yielding an empty list.
func (a *API) Posts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	qs := r.URL.Query()

	page, ok := loaders.ParsePage(qs.Get("page"))
	if !ok {
		page = 1
	}
	q := content.PostQuery{
		Search: strings.TrimSpace(qs.Get("search")),
		Slug:   strings.TrimSpace(qs.Get("slug")),
	}
	if c, err := strconv.Atoi(qs.Get("category")); err == nil && c > 0 {
		q.Category = c
	}

	if authorSlug := strings.TrimSpace(qs.Get("authorSlug")); authorSlug != "" {
		author, err := cache.Fetch(ctx, a.cache, "author:"+authorSlug, a.ttl, func(ctx context.Context) (models.Author, error) {
			return a.content.AuthorBySlug(ctx, authorSlug)
		})
		switch {
		case err == nil:
			q.Author = author.ID
		case errors.Is(err, content.ErrNotFound):
			a.log.Debug("unknown author slug ignored", "author_slug", authorSlug)
		default:
			a.log.Error("author lookup failed", "author_slug", authorSlug, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch posts"))
			return
		}
	}

	key := content.KeyPostsPage("api:"+postsScope(q), page)
	result, err := cache.Fetch(ctx, a.cache, key, a.ttl, func(ctx context.Context) (paginate.Page[models.Post], error) {
		return a.content.PostsPage(ctx, q, page)
	})
	if err != nil {
		a.log.Error("api posts fetch failed", "page", page, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch posts"))
		return
	}

	posts := result.Items
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, postsResponse{
		Posts: posts,
		Pagination: postsPagination{
			CurrentPage: result.Cursor.CurrentPage,
			PagesCount:  result.Cursor.PagesCount,
			PostsCount:  result.Cursor.PostsCount,
		},
	})
}

// postsScope is a stable cache scope for a post query.
func postsScope(q content.PostQuery) string {
	v := url.Values{}
	if q.Category > 0 {
		v.Set("category", strconv.Itoa(q.Category))
	}
	if q.Author > 0 {
		v.Set("author", strconv.Itoa(q.Author))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Slug != "" {
		v.Set("slug", q.Slug)
	}
	return v.Encode()
}

// Destinations proxies GET /api/wp/v2/destination. Whitelisted query
// parameters are forwarded to WordPress; an empty result or a backend
// failure is answered with the static destination list, filtered by
// _fields when given.
func (a *API) Destinations(w http.ResponseWriter, r *http.Request) {
	qs := content.ProxyQuery(r.URL.Query(), content.DestinationProxyParams)
	raw, err := a.proxy(r.Context(), "destination", qs, a.content.DestinationsRaw)
	if err != nil {
		a.log.Warn("destination proxy failed, serving fallback", "error", err)
		writeJSON(w, http.StatusOK, fallbackDestinations(qs.Get("_fields")))
		return
	}
	writeRaw(w, raw)
}

// Trips proxies GET /api/wp/v2/trip like Destinations. When WordPress has
// nothing the static trips are served, capped at per_page (default 4) for
// trip_tag queries.
func (a *API) Trips(w http.ResponseWriter, r *http.Request) {
	qs := content.ProxyQuery(r.URL.Query(), content.TripProxyParams)
	raw, err := a.proxy(r.Context(), "trip", qs, a.content.TripsRaw)
	switch {
	case errors.Is(err, errEmptyProxy):
		a.log.Warn("trip proxy returned no items, serving fallback")
		writeJSON(w, http.StatusOK, fallbackTrips(qs))
	case err != nil:
		a.log.Warn("trip proxy failed, serving fallback", "error", err)
		writeJSON(w, http.StatusOK, fallbackTrips(url.Values{}))
	default:
		writeRaw(w, raw)
	}
}

var errEmptyProxy = errors.New("proxy returned no items")

// proxy fetches a WordPress collection through the cache. A response that
// is not a non-empty JSON array yields errEmptyProxy.
func (a *API) proxy(ctx context.Context, name string, qs url.Values, fetch func(context.Context, url.Values) ([]byte, error)) (json.RawMessage, error) {
	raw, err := cache.Fetch(ctx, a.cache, "proxy:"+name+":"+qs.Encode(), proxyTTL, func(ctx context.Context) (json.RawMessage, error) {
		body, err := fetch(ctx, qs)
		return json.RawMessage(body), err
	})
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil || len(items) == 0 {
		return nil, errEmptyProxy
	}
	return raw, nil
}

func writeRaw(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(raw)
}

// fallbackTrips renders the static trips in the WordPress REST shape.
func fallbackTrips(qs url.Values) []map[string]any {
	trips := fallback.Trips()
	if qs.Get("trip_tag") != "" {
		n, err := strconv.Atoi(qs.Get("per_page"))
		if err != nil || n <= 0 {
			n = defaultTaggedTrips
		}
		trips = trips[:min(n, len(trips))]
	}
	out := make([]map[string]any, 0, len(trips))
	for _, t := range trips {
		out = append(out, restTrip(t))
	}
	return out
}

func restTrip(t models.Trip) map[string]any {
	m := map[string]any{
		"id":          t.ID,
		"title":       map[string]any{"rendered": t.Title},
		"slug":        t.Slug,
		"destination": map[string]any{"name": t.Destination},
	}
	if img := t.FeaturedImage(); img != nil {
		m["featured_image"] = map[string]any{"full": map[string]any{"source_url": img.SourceURL}}
	}
	if t.Price != nil {
		m["price"] = t.Price.Amount
		m["currency"] = map[string]any{"code": t.Price.Currency}
	}
	if t.Duration != nil {
		m["duration"] = map[string]any{"days": t.Duration.Days, "nights": t.Duration.Nights}
	}
	return m
}

// fallbackDestinations renders the static destinations in the WordPress
// REST shape, keeping only the comma-separated fields when given.
func fallbackDestinations(fields string) []map[string]any {
	var keep []string
	for _, f := range strings.Split(fields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			keep = append(keep, f)
		}
	}

	out := make([]map[string]any, 0, 6)
	for _, d := range fallback.Destinations() {
		full := restDestination(d)
		if len(keep) == 0 {
			out = append(out, full)
			continue
		}
		filtered := make(map[string]any, len(keep))
		for _, f := range keep {
			if v, ok := full[f]; ok {
				filtered[f] = v
			}
		}
		out = append(out, filtered)
	}
	return out
}

func restDestination(d models.Destination) map[string]any {
	image := map[string]any{"source_url": d.Image}
	return map[string]any{
		"id":          d.ID,
		"name":        d.Title,
		"slug":        d.Slug,
		"description": d.Description,
		"count":       d.TripCount,
		"thumbnail": map[string]any{
			"source_url": d.Image,
			"sizes": map[string]any{
				"full":                   image,
				"destination-thumb-size": image,
			},
		},
	}
}
