// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render turns loader props into the public Arabic (RTL) pages.
// Every page template is paired with the base layout and receives the
// serialized props as a plain map.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"madarat/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData holds everything passed to a page template.
type PageData struct {
	Title     string         // Page title; the site title is appended by the layout
	Path      string         // Request path, used for the canonical link
	Props     map[string]any // Serialized loader props
	CSRFToken string         // Token for lead forms (set from the request context)
}

// Renderer parses and executes the public templates.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	siteURL   string
	log       *slog.Logger
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

var numbers = message.NewPrinter(language.English)

// New parses all page templates from the embedded filesystem. When devMode
// is true the layout loads unminified assets.
func New(devMode bool, siteURL string, log *slog.Logger) (*Renderer, error) {
	if log == nil {
		log = slog.Default()
	}
	r := &Renderer{
		templates: make(map[string]*template.Template),
		siteURL:   strings.TrimRight(siteURL, "/"),
		log:       log,
	}
	r.funcMap = template.FuncMap{
		"isDev": func() bool { return devMode },
		// Post and page bodies are sanitized when normalized.
		"safeHTML":   func(s any) template.HTML { return template.HTML(toString(s)) },
		"formatDate": formatDate,
		"price":      formatPrice,
		"duration":   formatDuration,
		"canonical":  func(path string) string { return r.siteURL + path },
		"year":       func() int { return time.Now().Year() },
	}

	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templatesFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return r, nil
}

// Has reports whether a page template exists.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders a full page with the given status. The page is rendered to
// a buffer first so a template error still yields a clean 500.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Path == "" {
		data.Path = r.URL.Path
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		rn.log.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// formatDate renders an RFC 3339 timestamp as "15 يناير 2024".
func formatDate(v any) string {
	t, err := time.Parse(time.RFC3339, toString(v))
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
}

// formatPrice renders a serialized models.Price as "4,500 SAR".
func formatPrice(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	amount, _ := m["amount"].(float64)
	if amount <= 0 {
		return ""
	}
	currency := toString(m["currency"])
	if amount == math.Trunc(amount) {
		return numbers.Sprintf("%v %s", int64(amount), currency)
	}
	return numbers.Sprintf("%.2f %s", amount, currency)
}

// formatDuration renders a serialized models.Duration.
func formatDuration(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	days, _ := m["days"].(float64)
	nights, _ := m["nights"].(float64)
	switch {
	case days > 0 && nights > 0:
		return fmt.Sprintf("%d أيام / %d ليالي", int(days), int(nights))
	case days > 0:
		return fmt.Sprintf("%d أيام", int(days))
	default:
		return toString(m["text"])
	}
}
