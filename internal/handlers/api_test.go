// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"testing"

	"madarat/internal/testutil"
	"madarat/internal/wordpress"
)

type apiPostsBody struct {
	Posts []struct {
		Slug string `json:"slug"`
	} `json:"posts"`
	Pagination struct {
		CurrentPage int `json:"currentPage"`
		PagesCount  int `json:"pagesCount"`
		PostsCount  int `json:"postsCount"`
	} `json:"pagination"`
}

func TestAPIPosts(t *testing.T) {
	env := newTestEnv(t)
	env.WP.Posts = testutil.Posts(45)

	rec := env.get("/api/posts?page=3")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var body apiPostsBody
	decodeJSON(t, rec, &body)
	if len(body.Posts) != 5 {
		t.Errorf("posts: got %d, want 5", len(body.Posts))
	}
	if body.Pagination.CurrentPage != 3 || body.Pagination.PagesCount != 3 || body.Pagination.PostsCount != 45 {
		t.Errorf("pagination: got %+v", body.Pagination)
	}
}

func TestAPIPostsFilters(t *testing.T) {
	env := newTestEnv(t)
	posts := testutil.Posts(4, 9)
	posts[3].Author = 2
	posts = append(posts, testutil.Post(10, "other", 3))
	env.WP.Posts = posts
	env.WP.Users = []wordpress.RESTUser{testutil.Author(1, "editor"), testutil.Author(2, "guest")}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"category", "?category=3", 1},
		{"slug", "?slug=post-2", 1},
		{"author", "?authorSlug=guest", 1},
		{"unknown author ignored", "?authorSlug=nobody", 5},
		{"search", "?search=other", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get("/api/posts" + tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
			}
			var body apiPostsBody
			decodeJSON(t, rec, &body)
			if len(body.Posts) != tt.want {
				t.Errorf("posts: got %d, want %d", len(body.Posts), tt.want)
			}
		})
	}
}

func TestAPIPostsBackendDown(t *testing.T) {
	env := newTestEnv(t)
	env.WP.SetFail(http.StatusInternalServerError)

	rec := env.get("/api/posts")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["message"] == "" {
		t.Error("error body should carry a message")
	}
}

func TestAPIPostsEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/api/posts")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got == "" || got[:10] != `{"posts":[` {
		t.Errorf("posts should encode as an empty list, got %s", got)
	}
}

func TestDestinationProxy(t *testing.T) {
	env := newTestEnv(t)
	env.WP.Destinations = []wordpress.RESTTerm{
		testutil.Destination(11, "turkey", "تركيا", 4),
		testutil.Destination(12, "georgia", "جورجيا", 2),
	}

	rec := env.get("/api/wp/v2/destination?per_page=100&ignored=1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var body []map[string]any
	decodeJSON(t, rec, &body)
	if len(body) != 2 || body[0]["id"] != float64(11) {
		t.Errorf("expected the backend list, got %v", body)
	}
}

func TestDestinationProxyFallback(t *testing.T) {
	env := newTestEnv(t)
	env.WP.SetFail(http.StatusBadGateway)

	rec := env.get("/api/wp/v2/destination")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var body []map[string]any
	decodeJSON(t, rec, &body)
	if len(body) != 6 {
		t.Fatalf("fallback: got %d items, want 6", len(body))
	}
	thumb, _ := body[0]["thumbnail"].(map[string]any)
	if thumb["source_url"] != "/images/destinations/turkey.jpg" {
		t.Errorf("thumbnail.source_url: got %v", thumb["source_url"])
	}
	sizes, _ := thumb["sizes"].(map[string]any)
	if _, ok := sizes["destination-thumb-size"]; !ok {
		t.Error("fallback should carry the destination-thumb-size image")
	}
}

func TestDestinationProxyFallbackFields(t *testing.T) {
	env := newTestEnv(t)

	// An empty taxonomy answers with the fallback list too.
	rec := env.get("/api/wp/v2/destination?_fields=id,name")

	var body []map[string]any
	decodeJSON(t, rec, &body)
	if len(body) != 6 {
		t.Fatalf("fallback: got %d items, want 6", len(body))
	}
	for _, d := range body {
		if len(d) != 2 || d["id"] == nil || d["name"] == nil {
			t.Errorf("expected only id and name, got %v", d)
		}
	}
}

func TestTripProxy(t *testing.T) {
	env := newTestEnv(t)
	env.WP.Trips = []wordpress.RESTTrip{
		testutil.Trip(21, "istanbul", 1, "1500"),
		testutil.Trip(22, "tbilisi", 2, "900"),
	}

	rec := env.get("/api/wp/v2/trip?slug=tbilisi&ignored=1")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var body []map[string]any
	decodeJSON(t, rec, &body)
	if len(body) != 1 || body[0]["id"] != float64(22) {
		t.Errorf("expected the tbilisi trip, got %v", body)
	}
}

func TestTripProxyFallback(t *testing.T) {
	env := newTestEnv(t)
	env.WP.SetFail(http.StatusBadGateway)

	rec := env.get("/api/wp/v2/trip?trip_tag=5&per_page=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var body []map[string]any
	decodeJSON(t, rec, &body)
	// A failed backend answers with every fallback trip.
	if len(body) != 4 {
		t.Fatalf("fallback: got %d items, want 4", len(body))
	}
	first := body[0]
	if first["slug"] != "turkey-special" || first["price"] != float64(2999) {
		t.Errorf("unexpected first trip: %v", first)
	}
	if cur, _ := first["currency"].(map[string]any); cur["code"] != "SAR" {
		t.Errorf("currency: got %v", first["currency"])
	}
	dur, _ := first["duration"].(map[string]any)
	if dur["days"] != float64(7) || dur["nights"] != float64(6) {
		t.Errorf("duration: got %v", dur)
	}
	img, _ := first["featured_image"].(map[string]any)
	full, _ := img["full"].(map[string]any)
	if full["source_url"] != "/images/destinations/turkey.jpg" {
		t.Errorf("featured_image: got %v", img)
	}
}

func TestTripProxyEmptyTagged(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		query string
		want  int
	}{
		{"trip_tag=5&per_page=2", 2},
		{"trip_tag=5", 4},
		{"per_page=2", 4},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := env.get("/api/wp/v2/trip?" + tt.query)
			var body []map[string]any
			decodeJSON(t, rec, &body)
			if len(body) != tt.want {
				t.Errorf("got %d items, want %d", len(body), tt.want)
			}
		})
	}
}
