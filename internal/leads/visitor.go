// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package leads

import (
	"net/http"

	"github.com/mileusna/useragent"

	"madarat/internal/geoip"
	"madarat/internal/middleware"
)

// Visitor is the server-side context attached to every lead.
type Visitor struct {
	IP        string `json:"ip,omitempty"`
	Country   string `json:"country,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
	Device    string `json:"device,omitempty"`
	PageURL   string `json:"page_url,omitempty"`
}

// VisitorFromRequest extracts the client address, user agent and referring
// page from r.
func VisitorFromRequest(r *http.Request, geo *geoip.Resolver) Visitor {
	v := Visitor{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
		PageURL:   r.Referer(),
	}
	if geo != nil {
		v.Country = geo.Country(v.IP)
	}

	if v.UserAgent != "" {
		ua := useragent.Parse(v.UserAgent)
		v.Browser = ua.Name
		v.OS = ua.OS
		v.Device = deviceType(ua)
	}
	return v
}

func deviceType(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}
