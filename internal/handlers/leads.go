// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"madarat/internal/geoip"
	"madarat/internal/leads"
)

// Leads proxies lead forms and offline conversions to the marketing APIs
// so that webhook URLs and access tokens never reach the browser.
type Leads struct {
	zapier      *leads.Zapier
	conversions *leads.Conversions
	geo         *geoip.Resolver
	log         *slog.Logger
}

// NewLeads creates the lead handlers. geo may be nil.
func NewLeads(z *leads.Zapier, c *leads.Conversions, geo *geoip.Resolver, log *slog.Logger) *Leads {
	if log == nil {
		log = slog.Default()
	}
	return &Leads{zapier: z, conversions: c, geo: geo, log: log}
}

// ZapierProxy serves POST /api/zapier-proxy.
func (h *Leads) ZapierProxy(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if !decodeBody(w, r, &payload) {
		return
	}
	if msg := validateLead(payload); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorBody(msg))
		return
	}

	res, err := h.zapier.Submit(r.Context(), payload, leads.VisitorFromRequest(r, h.geo))
	if err != nil {
		h.fail(w, "zapier", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// OfflineConversion serves POST /api/offline-conversion.
func (h *Leads) OfflineConversion(w http.ResponseWriter, r *http.Request) {
	var in leads.OfflineConversion
	if !decodeBody(w, r, &in) {
		return
	}
	if msg := validateConversion(in); msg != "" {
		writeJSON(w, http.StatusBadRequest, errorBody(msg))
		return
	}

	res, err := h.conversions.Send(r.Context(), in, leads.VisitorFromRequest(r, h.geo))
	if err != nil {
		h.fail(w, "conversions", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// fail maps a lead error to its status: 400 invalid input, 503 missing
// configuration, 502 upstream rejection.
func (h *Leads) fail(w http.ResponseWriter, service string, err error) {
	switch {
	case errors.Is(err, leads.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, leads.ErrNotConfigured):
		h.log.Warn("lead integration not configured", "service", service)
		writeJSON(w, http.StatusServiceUnavailable, errorBody("Service not configured"))
	case errors.Is(err, leads.ErrUpstream):
		h.log.Error("lead upstream failed", "service", service, "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody("Upstream service failed"))
	default:
		h.log.Error("lead submission failed", "service", service, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("Internal Server Error"))
	}
}

// decodeBody reads a JSON request body of at most maxLeadBody bytes. It
// writes a 400 and reports false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxLeadBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("Request body too large"))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid JSON body"))
		return false
	}
	return true
}
