// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"
)

// DefaultCurrency is used when a trip price carries no currency.
const DefaultCurrency = "SAR"

// Trip is a normalized travel package.
type Trip struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content,omitempty"`
	Date        time.Time  `json:"date"`
	Modified    time.Time  `json:"modified"`
	Price       *Price     `json:"price"`
	Duration    *Duration  `json:"duration"`
	Destination string     `json:"destination"`
	Images      []Image    `json:"images"`
	Includes    []string   `json:"includes,omitempty"`
	Excludes    []string   `json:"excludes,omitempty"`
	Featured    bool       `json:"featured"`
	Link        string     `json:"link,omitempty"`
	OpenGraph   *OpenGraph `json:"og"`
}

// FeaturedImage returns the first image, or nil when the trip has none.
func (t Trip) FeaturedImage() *Image {
	if len(t.Images) == 0 {
		return nil
	}
	img := t.Images[0]
	return &img
}

// Price is a trip price.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// String formats the price as "4500 SAR".
func (p Price) String() string {
	return fmt.Sprintf("%g %s", p.Amount, p.Currency)
}

// Duration is a trip length. Text carries free-form durations that could
// not be split into days and nights.
type Duration struct {
	Days   int    `json:"days"`
	Nights int    `json:"nights"`
	Text   string `json:"text,omitempty"`
}

// Destination is a trip destination taxonomy term.
type Destination struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
	TripCount   int    `json:"tripCount"`
	Featured    bool   `json:"featured,omitempty"`
}
