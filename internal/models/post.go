// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the normalized content types shared by the loaders,
// handlers and sitemaps. Values are request-scoped snapshots of backend data.
package models

import "time"

// Post is a normalized blog post.
type Post struct {
	ID            int           `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Date          time.Time     `json:"date"`
	Modified      time.Time     `json:"modified"`
	Excerpt       string        `json:"excerpt"`
	Content       string        `json:"content,omitempty"`
	Author        *Author       `json:"author"`
	Categories    []CategoryRef `json:"categories"`
	FeaturedImage *Image        `json:"featuredImage"`
	Sticky        bool          `json:"isSticky"`
	OpenGraph     *OpenGraph    `json:"og"`
}

// Path returns the public URL path of the post.
func (p Post) Path() string {
	return "/posts/" + p.Slug
}

// Author is a post author.
type Author struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Image is a featured or gallery image.
type Image struct {
	SourceURL string `json:"sourceUrl"`
	AltText   string `json:"altText"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// OpenGraph carries social sharing metadata from the SEO plugin.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}
