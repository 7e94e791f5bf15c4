// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: a fake WordPress backend and a router wired like production.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"madarat/internal/cache"
	"madarat/internal/content"
	"madarat/internal/leads"
	"madarat/internal/loaders"
	"madarat/internal/render"
	"madarat/internal/sitemap"
	"madarat/internal/testutil"
)

// testEnv bundles the handlers under test with their fake backend.
type testEnv struct {
	WP       *testutil.WordPress
	Content  *content.Service
	Cache    *cache.Loader
	Public   *Public
	API      *API
	Sitemaps *Sitemaps
	Leads    *Leads
	Router   chi.Router
}

// envOptions configures the lead integrations of a test environment.
type envOptions struct {
	zapierURL string
	graphURL  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, envOptions{})
}

func newTestEnvWith(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	log := testutil.Logger()
	wp := testutil.NewWordPress(t)
	svc := content.New(wp.Client(), content.Options{PageSize: 20, Logger: log})
	c := cache.NewLoader(cache.NewMemory(), time.Minute, log)

	rn, err := render.New(false, "https://madaratalkon.sa", log)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	var conversions *leads.Conversions
	if opts.graphURL != "" {
		conversions = leads.NewConversions(leads.ConversionsConfig{
			GraphURL:    opts.graphURL,
			PixelID:     "123",
			AccessToken: "token",
		}, nil, log)
	}

	env := &testEnv{
		WP:       wp,
		Content:  svc,
		Cache:    c,
		Public:   NewPublic(loaders.New(svc, c, time.Minute, log), rn, log),
		API:      NewAPI(svc, c, time.Minute, log),
		Sitemaps: NewSitemaps(sitemap.New(svc, c, "https://madaratalkon.sa", sitemap.WithChunkSize(2)), log),
		Leads:    NewLeads(leads.NewZapier(opts.zapierURL, nil, log), conversions, nil, log),
	}
	env.Router = env.routes()
	return env
}

// routes mirrors the public part of the production router.
func (e *testEnv) routes() chi.Router {
	r := chi.NewRouter()
	pub := e.Public

	r.Get("/", pub.HTML("home", pub.Home))
	r.Get("/posts", pub.HTML("posts", pub.Posts))
	r.Get("/posts/page/{page}", pub.HTML("posts", pub.Posts))
	r.Get("/posts/{year:[0-9]{4}}", pub.HTML("posts", pub.Archive))
	r.Get("/posts/{year:[0-9]{4}}/{month:[0-9]{2}}", pub.HTML("posts", pub.Archive))
	r.Get("/posts/{slug}", pub.HTML("post", pub.Post))
	r.Get("/trip", pub.HTML("trips", pub.Trips))
	r.Get("/trip/{slug}", pub.HTML("trip", pub.Trip))
	r.Get("/destination/{slug}", pub.HTML("destination", pub.Destination))
	r.Get("/search", pub.HTML("posts", pub.Search))
	r.Get("/_props/posts/{slug}", pub.JSON(pub.Post))
	r.Get("/_props/posts/page/{page}", pub.JSON(pub.Posts))
	r.Get("/*", pub.HTML("page", pub.Page))

	r.Get("/api/posts", e.API.Posts)
	r.Get("/api/wp/v2/destination", e.API.Destinations)
	r.Get("/api/wp/v2/trip", e.API.Trips)
	r.Post("/api/zapier-proxy", e.Leads.ZapierProxy)
	r.Post("/api/offline-conversion", e.Leads.OfflineConversion)

	r.Get("/sitemap.xml", e.Sitemaps.ServeHTTP)
	r.Get("/sitemap-index.xml", e.Sitemaps.ServeHTTP)
	r.Get("/sitemap-posts.xml", e.Sitemaps.ServeHTTP)
	r.Get("/sitemap-trips.xml", e.Sitemaps.ServeHTTP)
	r.Get("/sitemap-trips-{n}.xml", e.Sitemaps.ServeHTTP)
	return r
}

// do sends a request through the router.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (e *testEnv) postJSON(target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}
