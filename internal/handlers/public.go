// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"madarat/internal/loaders"
	"madarat/internal/render"
)

// LoadFunc runs a page loader for a request.
type LoadFunc func(r *http.Request) (loaders.Result, error)

// Public groups the handlers of the public site. Every page is backed by a
// loader; the same loader serves the HTML page and its /_props JSON.
type Public struct {
	loaders  *loaders.Loaders
	renderer *render.Renderer
	log      *slog.Logger
}

// NewPublic creates the public handler group.
func NewPublic(l *loaders.Loaders, rn *render.Renderer, log *slog.Logger) *Public {
	if log == nil {
		log = slog.Default()
	}
	return &Public{loaders: l, renderer: rn, log: log}
}

// HTML renders the result of load with the named template.
func (p *Public) HTML(name string, load LoadFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := load(r)
		if err != nil {
			p.log.Error("page loader failed", "template", name, "path", r.URL.Path, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		switch {
		case res.Redirect != nil:
			http.Redirect(w, r, res.Redirect.Destination, redirectStatus(res.Redirect))
		case res.NotFound:
			p.NotFound(w, r)
		default:
			p.renderer.Page(w, r, http.StatusOK, name, &render.PageData{
				Title: pageTitle(name, res.Props),
				Props: res.Props,
			})
		}
	}
}

// JSON writes the result of load as JSON for headless consumers.
func (p *Public) JSON(load LoadFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := load(r)
		if err != nil {
			p.log.Error("props loader failed", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody("Internal Server Error"))
			return
		}
		switch {
		case res.Redirect != nil:
			writeJSON(w, http.StatusOK, map[string]any{"redirect": res.Redirect})
		case res.NotFound:
			writeJSON(w, http.StatusNotFound, map[string]any{"notFound": true})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"props": res.Props})
		}
	}
}

// NotFound renders the 404 page with the site layout.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	res, err := p.loaders.NotFound(r.Context())
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	p.renderer.Page(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: "الصفحة غير موجودة",
		Props: res.Props,
	})
}

func redirectStatus(rd *loaders.Redirect) int {
	if rd.Permanent {
		return http.StatusPermanentRedirect
	}
	return http.StatusTemporaryRedirect
}

// pageTitle picks the document title from the props of a page.
func pageTitle(name string, props map[string]any) string {
	field := func(obj, key string) string {
		m, _ := props[obj].(map[string]any)
		s, _ := m[key].(string)
		return s
	}
	switch name {
	case "posts":
		s, _ := props["title"].(string)
		return s
	case "post":
		return field("post", "title")
	case "trip":
		return field("trip", "title")
	case "destination":
		return field("destination", "title")
	case "page":
		return field("page", "title")
	case "trips":
		return "الرحلات"
	case "destinations":
		return "الوجهات"
	}
	return ""
}

// notFound short-circuits a loader when the URL itself is invalid.
var notFound = loaders.Result{NotFound: true}

// pageParam parses the {page} URL parameter. ok is false for a malformed
// page number.
func pageParam(r *http.Request) (int, bool) {
	return loaders.ParsePage(chi.URLParam(r, "page"))
}

// ---------- Loader adapters ----------

// Home loads the landing page.
func (p *Public) Home(r *http.Request) (loaders.Result, error) {
	return p.loaders.Home(r.Context())
}

// Posts loads /posts and /posts/page/{page}.
func (p *Public) Posts(r *http.Request) (loaders.Result, error) {
	page, ok := pageParam(r)
	if !ok {
		return notFound, nil
	}
	return p.loaders.Posts(r.Context(), page, chi.URLParam(r, "page") != "")
}

// Post loads /posts/{slug}.
func (p *Public) Post(r *http.Request) (loaders.Result, error) {
	return p.loaders.Post(r.Context(), chi.URLParam(r, "slug"))
}

// Category loads /categories/{slug} and its numbered pages.
func (p *Public) Category(r *http.Request) (loaders.Result, error) {
	page, ok := pageParam(r)
	if !ok {
		return notFound, nil
	}
	return p.loaders.Category(r.Context(), chi.URLParam(r, "slug"), page)
}

// Author loads /authors/{slug} and its numbered pages.
func (p *Public) Author(r *http.Request) (loaders.Result, error) {
	page, ok := pageParam(r)
	if !ok {
		return notFound, nil
	}
	return p.loaders.Author(r.Context(), chi.URLParam(r, "slug"), page)
}

// Archive loads /posts/{year} and /posts/{year}/{month}.
func (p *Public) Archive(r *http.Request) (loaders.Result, error) {
	page, ok := pageParam(r)
	if !ok {
		return notFound, nil
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return notFound, nil
	}
	month := 0
	if m := chi.URLParam(r, "month"); m != "" {
		if month, err = strconv.Atoi(m); err != nil {
			return notFound, nil
		}
	}
	return p.loaders.Archive(r.Context(), year, month, page)
}

// Search loads /search?q=&page=.
func (p *Public) Search(r *http.Request) (loaders.Result, error) {
	page, ok := loaders.ParsePage(r.URL.Query().Get("page"))
	if !ok {
		page = 1
	}
	return p.loaders.Search(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), page)
}

// Trips loads /trip and /trip/page/{page}.
func (p *Public) Trips(r *http.Request) (loaders.Result, error) {
	page, ok := pageParam(r)
	if !ok {
		return notFound, nil
	}
	return p.loaders.Trips(r.Context(), page)
}

// Trip loads /trip/{slug}.
func (p *Public) Trip(r *http.Request) (loaders.Result, error) {
	return p.loaders.Trip(r.Context(), chi.URLParam(r, "slug"))
}

// Destinations loads /destination.
func (p *Public) Destinations(r *http.Request) (loaders.Result, error) {
	return p.loaders.Destinations(r.Context())
}

// Destination loads /destination/{slug}.
func (p *Public) Destination(r *http.Request) (loaders.Result, error) {
	return p.loaders.Destination(r.Context(), chi.URLParam(r, "slug"))
}

// Page loads the WordPress page at the remaining path.
func (p *Public) Page(r *http.Request) (loaders.Result, error) {
	uri := strings.Trim(chi.URLParam(r, "*"), "/")
	if uri == "" {
		return notFound, nil
	}
	return p.loaders.Page(r.Context(), uri)
}

// ---------- JSON helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", "error", err)
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"message": message}
}
