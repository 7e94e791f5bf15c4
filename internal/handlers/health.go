// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"time"

	"madarat/internal/cache"
	"madarat/internal/warmup"
)

const pingTimeout = 5 * time.Second

// Pinger checks that the content backend answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports the state of the backend, the cache and the warm-up job.
type Health struct {
	backend Pinger
	cache   *cache.Loader
	warmer  *warmup.Warmer
	env     string
	started time.Time
}

// NewHealth creates the health handler. warmer may be nil.
func NewHealth(backend Pinger, c *cache.Loader, warmer *warmup.Warmer, env string) *Health {
	return &Health{backend: backend, cache: c, warmer: warmer, env: env, started: time.Now()}
}

type backendStatus struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"responseTimeMs"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Environment string         `json:"environment"`
	Uptime      string         `json:"uptime"`
	Backend     backendStatus  `json:"backend"`
	Cache       cache.Stats    `json:"cache"`
	Warmup      *warmup.Report `json:"warmup,omitempty"`
}

// ServeHTTP always answers 200 while the process is up; a failing backend
// is reported as "degraded" because pages are still served from fallbacks.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := healthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Environment: h.env,
		Uptime:      time.Since(h.started).Round(time.Second).String(),
		Cache:       h.cache.Stats(),
	}

	start := time.Now()
	err := h.backend.Ping(ctx)
	resp.Backend = backendStatus{Status: "healthy", ResponseTime: time.Since(start).Milliseconds()}
	if err != nil {
		resp.Status = "degraded"
		resp.Backend.Status = "unhealthy"
		resp.Backend.Error = err.Error()
	}

	if h.warmer != nil {
		if report, ok := h.warmer.Last(); ok {
			resp.Warmup = &report
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
