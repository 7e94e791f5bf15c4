// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package testutil provides shared test helpers: a quiet logger and an
// in-memory WordPress backend served over httptest.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"madarat/internal/wordpress"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WordPress is a fake WordPress installation. Fill the collections before
// issuing requests; set Fail to make every REST call answer with that
// status.
type WordPress struct {
	Server *httptest.Server

	mu           sync.Mutex
	Posts        []wordpress.RESTPost
	Users        []wordpress.RESTUser
	Categories   []wordpress.RESTTerm
	Destinations []wordpress.RESTTerm
	Trips        []wordpress.RESTTrip
	Pages        []wordpress.RESTPage
	Menus        []wordpress.RESTMenu
	Site         wordpress.RESTSite

	// GraphQLTrips backs the trips connection and tripBy queries.
	GraphQLTrips []wordpress.GraphQLTrip

	// Fail, when non-zero, is returned as the status of every REST call.
	Fail int
	// FailPaths maps a REST path such as "/wp/v2/trip" to a status.
	FailPaths map[string]int
	// FailGraphQL makes the GraphQL endpoint answer with errors.
	FailGraphQL bool

	requests atomic.Int64
}

// NewWordPress starts a fake backend that is closed with the test.
func NewWordPress(t *testing.T) *WordPress {
	t.Helper()
	wp := &WordPress{FailPaths: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/wp-json/", wp.serveREST)
	mux.HandleFunc("/graphql", wp.serveGraphQL)
	wp.Server = httptest.NewServer(mux)
	t.Cleanup(wp.Server.Close)
	return wp
}

// Client returns a wordpress.Client pointed at the fake.
func (wp *WordPress) Client() *wordpress.Client {
	return wordpress.New(wordpress.Options{
		BaseURL:    wp.Server.URL + "/wp-json",
		GraphQLURL: wp.Server.URL + "/graphql",
		UserAgent:  "madarat-test/1.0",
		Timeout:    2 * time.Second,
	})
}

// Requests returns how many requests the fake has served.
func (wp *WordPress) Requests() int64 { return wp.requests.Load() }

// SetFail changes the global failure status.
func (wp *WordPress) SetFail(status int) {
	wp.mu.Lock()
	wp.Fail = status
	wp.mu.Unlock()
}

func (wp *WordPress) serveREST(w http.ResponseWriter, r *http.Request) {
	wp.requests.Add(1)
	wp.mu.Lock()
	defer wp.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/wp-json")
	if status := wp.Fail; status != 0 {
		writeError(w, status)
		return
	}
	if status, ok := wp.FailPaths[path]; ok {
		writeError(w, status)
		return
	}

	q := r.URL.Query()
	switch {
	case path == "/" || path == "":
		writeJSON(w, wp.Site)
	case path == "/wp/v2/posts":
		posts := filter(wp.Posts, func(p wordpress.RESTPost) bool {
			return match(q, "slug", p.Slug) &&
				matchInt(q, "categories", p.Categories...) &&
				matchInt(q, "author", p.Author) &&
				!excluded(q, p.ID) &&
				(q.Get("search") == "" || strings.Contains(p.Title.Rendered, q.Get("search")))
		})
		writePage(w, q, posts)
	case path == "/wp/v2/users":
		writePage(w, q, filter(wp.Users, func(u wordpress.RESTUser) bool { return match(q, "slug", u.Slug) }))
	case path == "/wp/v2/categories":
		writePage(w, q, filter(wp.Categories, func(c wordpress.RESTTerm) bool { return match(q, "slug", c.Slug) }))
	case path == "/wp/v2/destination":
		writePage(w, q, filter(wp.Destinations, func(d wordpress.RESTTerm) bool { return match(q, "slug", d.Slug) }))
	case path == "/wp/v2/trip":
		writePage(w, q, filter(wp.Trips, func(t wordpress.RESTTrip) bool {
			return match(q, "slug", t.Slug) && matchInt(q, "destination", t.Destination...)
		}))
	case path == "/wp/v2/pages":
		writePage(w, q, filter(wp.Pages, func(p wordpress.RESTPage) bool { return match(q, "slug", p.Slug) }))
	case path == "/wp-api-menus/v2/menus":
		list := make([]wordpress.RESTMenu, 0, len(wp.Menus))
		for _, m := range wp.Menus {
			m.Items = nil
			list = append(list, m)
		}
		writeJSON(w, list)
	case strings.HasPrefix(path, "/wp-api-menus/v2/menus/"):
		id, _ := strconv.Atoi(strings.TrimPrefix(path, "/wp-api-menus/v2/menus/"))
		for _, m := range wp.Menus {
			if m.ID == id {
				writeJSON(w, m)
				return
			}
		}
		writeError(w, http.StatusNotFound)
	default:
		writeError(w, http.StatusNotFound)
	}
}

func (wp *WordPress) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	wp.requests.Add(1)
	wp.mu.Lock()
	defer wp.mu.Unlock()

	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || wp.FailGraphQL {
		writeJSON(w, map[string]any{"errors": []map[string]string{{"message": "internal server error"}}})
		return
	}

	if slug, ok := req.Variables["slug"].(string); ok {
		for _, t := range wp.GraphQLTrips {
			if t.Slug == slug {
				writeJSON(w, map[string]any{"data": map[string]any{"tripBy": t}})
				return
			}
		}
		writeJSON(w, map[string]any{"data": map[string]any{"tripBy": nil}})
		return
	}

	first := len(wp.GraphQLTrips)
	if f, ok := req.Variables["first"].(float64); ok && f > 0 {
		first = int(f)
	}
	start := 0
	if after, ok := req.Variables["after"].(string); ok && after != "" {
		start, _ = strconv.Atoi(after)
	}
	end := min(start+first, len(wp.GraphQLTrips))
	edges := []map[string]any{}
	for _, t := range wp.GraphQLTrips[min(start, end):end] {
		edges = append(edges, map[string]any{"node": t})
	}
	writeJSON(w, map[string]any{"data": map[string]any{"trips": map[string]any{
		"edges": edges,
		"pageInfo": map[string]any{
			"hasNextPage": end < len(wp.GraphQLTrips),
			"endCursor":   strconv.Itoa(end),
		},
	}}})
}

// writePage applies per_page and page and sets the X-WP-* headers. A page
// past the end answers 400 the way WordPress does.
func writePage[T any](w http.ResponseWriter, q map[string][]string, items []T) {
	perPage := 10
	if v, err := strconv.Atoi(first(q, "per_page")); err == nil && v > 0 {
		perPage = v
	}
	page := 1
	if v, err := strconv.Atoi(first(q, "page")); err == nil && v > 0 {
		page = v
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage
	if page > 1 && page > pages {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"code":"rest_post_invalid_page_number","message":"The page number requested is larger than the number of pages available."}`)
		return
	}
	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	w.Header().Set("X-WP-Total", strconv.Itoa(total))
	w.Header().Set("X-WP-TotalPages", strconv.Itoa(pages))
	writeJSON(w, items[start:end])
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"code":"error","message":"status %d"}`, status)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func first(q map[string][]string, key string) string {
	if v := q[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func match(q map[string][]string, key, value string) bool {
	want := first(q, key)
	return want == "" || want == value
}

func matchInt(q map[string][]string, key string, values ...int) bool {
	want := first(q, key)
	if want == "" {
		return true
	}
	n, err := strconv.Atoi(want)
	return err == nil && slices.Contains(values, n)
}

func excluded(q map[string][]string, id int) bool {
	for _, v := range q["exclude"] {
		if n, err := strconv.Atoi(v); err == nil && n == id {
			return true
		}
	}
	return false
}
