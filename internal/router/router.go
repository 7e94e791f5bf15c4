// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// public site. Pages are served both as HTML and, under /_props, as the
// JSON props their loader produced.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"madarat/internal/handlers"
	"madarat/internal/middleware"
	"madarat/web"
)

// requestTimeout bounds a single request, backend fan-out included.
const requestTimeout = 30 * time.Second

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Public   *handlers.Public
	API      *handlers.API
	Leads    *handlers.Leads
	Sitemaps *handlers.Sitemaps
	Health   http.Handler
}

// Options tunes the middleware chains.
type Options struct {
	// Secure marks cookies Secure and enables HSTS.
	Secure bool
	// LeadLimiter throttles the lead form endpoints. Nil disables limiting.
	LeadLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.Secure))
	r.Use(chimw.Timeout(requestTimeout))

	r.NotFound(h.Public.NotFound)

	r.Get("/health", h.Health.ServeHTTP)

	// Sitemaps carry no cookies so CDNs can cache them.
	r.Get("/sitemap.xml", h.Sitemaps.ServeHTTP)
	r.Get("/sitemap-index.xml", h.Sitemaps.ServeHTTP)
	r.Get("/sitemap-posts.xml", h.Sitemaps.ServeHTTP)
	r.Get("/sitemap-trips.xml", h.Sitemaps.ServeHTTP)
	r.Get("/sitemap-trips-{n}.xml", h.Sitemaps.ServeHTTP)
	r.Get("/sitemap-destinations.xml", h.Sitemaps.ServeHTTP)

	static, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", h.API.Posts)

		r.With(middleware.CORS("*", "GET", "OPTIONS")).Group(func(r chi.Router) {
			r.Get("/wp/v2/destination", h.API.Destinations)
			r.Options("/wp/v2/destination", h.API.Destinations)
			r.Get("/wp/v2/trip", h.API.Trips)
			r.Options("/wp/v2/trip", h.API.Trips)
		})

		// Lead forms: CSRF-checked and rate-limited per client.
		r.Group(func(r chi.Router) {
			if opts.LeadLimiter != nil {
				r.Use(opts.LeadLimiter.Middleware)
			}
			r.Use(middleware.NewCSRF(opts.Secure))
			r.Post("/zapier-proxy", h.Leads.ZapierProxy)
			r.Post("/offline-conversion", h.Leads.OfflineConversion)
		})
	})

	r.Route("/_props", func(r chi.Router) {
		pages(r, h.Public, func(_ string, load handlers.LoadFunc) http.HandlerFunc {
			return h.Public.JSON(load)
		})
	})

	// HTML pages issue the CSRF cookie the lead forms echo back.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.Secure))
		pages(r, h.Public, h.Public.HTML)
	})

	return r
}

// pages registers every loader-backed route. serve turns a template name
// and a loader into a handler, so the same table backs HTML and /_props.
func pages(r chi.Router, p *handlers.Public, serve func(name string, load handlers.LoadFunc) http.HandlerFunc) {
	r.Get("/", serve("home", p.Home))

	r.Get("/posts", serve("posts", p.Posts))
	r.Get("/posts/page/{page}", serve("posts", p.Posts))
	r.Get("/posts/{year:[0-9]{4}}", serve("posts", p.Archive))
	r.Get("/posts/{year:[0-9]{4}}/page/{page}", serve("posts", p.Archive))
	r.Get("/posts/{year:[0-9]{4}}/{month:[0-9]{2}}", serve("posts", p.Archive))
	r.Get("/posts/{year:[0-9]{4}}/{month:[0-9]{2}}/page/{page}", serve("posts", p.Archive))
	r.Get("/posts/{slug}", serve("post", p.Post))

	r.Get("/categories/{slug}", serve("posts", p.Category))
	r.Get("/categories/{slug}/page/{page}", serve("posts", p.Category))
	r.Get("/authors/{slug}", serve("posts", p.Author))
	r.Get("/authors/{slug}/page/{page}", serve("posts", p.Author))
	r.Get("/search", serve("posts", p.Search))

	r.Get("/trip", serve("trips", p.Trips))
	r.Get("/trip/page/{page}", serve("trips", p.Trips))
	r.Get("/trip/{slug}", serve("trip", p.Trip))
	r.Get("/destination", serve("destinations", p.Destinations))
	r.Get("/destination/{slug}", serve("destination", p.Destination))

	// Anything else is looked up as a WordPress page by URI.
	r.Get("/*", serve("page", p.Page))
}
