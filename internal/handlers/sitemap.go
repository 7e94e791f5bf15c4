// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"path"

	"madarat/internal/sitemap"
)

// Sitemaps serves the XML sitemaps rendered by the generator.
type Sitemaps struct {
	gen *sitemap.Generator
	log *slog.Logger
}

// NewSitemaps creates the sitemap handler.
func NewSitemaps(gen *sitemap.Generator, log *slog.Logger) *Sitemaps {
	if log == nil {
		log = slog.Default()
	}
	return &Sitemaps{gen: gen, log: log}
}

// ServeHTTP renders the sitemap named by the last path segment. A matching
// If-None-Match yields 304. Sitemaps have no fallback: a backend failure is
// a 500 so crawlers keep their previous copy.
func (s *Sitemaps) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Base(r.URL.Path)
	body, err := s.gen.Render(r.Context(), name)
	if err != nil {
		if errors.Is(err, sitemap.ErrUnknown) {
			http.NotFound(w, r)
			return
		}
		s.log.Error("sitemap generation failed", "sitemap", name, "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
		return
	}

	etag := sitemap.ETag(body)
	h := w.Header()
	h.Set("Content-Type", sitemap.ContentType)
	h.Set("Cache-Control", sitemap.CacheControlFor(name))
	h.Set("X-Robots-Tag", "noindex")
	h.Set("ETag", etag)

	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}
