// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Page is a WordPress page.
type Page struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	URI           string    `json:"uri"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	Modified      time.Time `json:"modified"`
	Parent        *int      `json:"parent"`
	MenuOrder     int       `json:"menuOrder"`
	FeaturedImage *Image    `json:"featuredImage"`
}

// Menu is a navigation menu with its items in display order.
type Menu struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Locations []string   `json:"locations"`
	Items     []MenuItem `json:"menuItems"`
}

// MenuItem is a navigation entry. ParentID is nil for top-level items.
type MenuItem struct {
	ID       int    `json:"id"`
	ParentID *int   `json:"parentId"`
	Label    string `json:"label"`
	Path     string `json:"path"`
	Target   string `json:"target,omitempty"`
}

// SiteMetadata describes the site as a whole.
type SiteMetadata struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Language    string            `json:"language"`
	URL         string            `json:"url,omitempty"`
	Social      map[string]string `json:"social,omitempty"`
}

// Heading is an entry of a post's table of contents.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}
