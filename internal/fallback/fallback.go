// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fallback holds the static content served when the backend cannot
// be reached. Every function returns a fresh copy.
package fallback

import "madarat/internal/models"

// Destinations returns the destinations shown when the taxonomy cannot be
// fetched.
func Destinations() []models.Destination {
	return []models.Destination{
		{ID: 1, Title: "تركيا", Slug: "turkey", Description: "اكتشف جمال تركيا مع رحلات مميزة", Image: "/images/destinations/turkey.jpg", TripCount: 12},
		{ID: 2, Title: "جورجيا", Slug: "georgia", Description: "رحلات رائعة إلى جورجيا", Image: "/images/destinations/georgia.jpg", TripCount: 8},
		{ID: 3, Title: "أذربيجان", Slug: "azerbaijan", Description: "استمتع بجمال أذربيجان", Image: "/images/destinations/azerbaijan.jpg", TripCount: 6},
		{ID: 4, Title: "إيطاليا", Slug: "italy", Description: "رحلات مميزة إلى إيطاليا", Image: "/images/destinations/italy.jpg", TripCount: 5},
		{ID: 5, Title: "البوسنة", Slug: "bosnia", Description: "استكشف جمال البوسنة الطبيعي", Image: "/images/destinations/bosnia.jpg", TripCount: 4},
		{ID: 6, Title: "بولندا", Slug: "poland", Description: "رحلات إلى بولندا بأسعار مميزة", Image: "/images/destinations/poland.jpg", TripCount: 3},
	}
}

// Destination returns the fallback destination with the given slug.
func Destination(slug string) (models.Destination, bool) {
	for _, d := range Destinations() {
		if d.Slug == slug {
			return d, true
		}
	}
	return models.Destination{}, false
}

// SiteMetadata returns the site description used when /wp-json fails.
func SiteMetadata() models.SiteMetadata {
	return models.SiteMetadata{
		Title:       "مدارات الكون",
		Description: "موقع السفر والرحلات الأول في الوطن العربي",
		Language:    "ar",
		Social: map[string]string{
			"facebook":  "https://facebook.com/madaratalkon",
			"instagram": "https://instagram.com/madaratalkon",
		},
	}
}

// SocialLinks returns the site's social profiles.
func SocialLinks() map[string]string {
	return map[string]string{
		"facebook":  "https://facebook.com/madaratalkon",
		"instagram": "https://instagram.com/madaratalkon",
		"twitter":   "https://twitter.com/madaratalkon",
		"youtube":   "https://youtube.com/madaratalkon",
	}
}

// PrimaryMenu returns the navigation used when no menu is available.
func PrimaryMenu() models.Menu {
	return models.Menu{
		Name:      "Primary",
		Slug:      "primary",
		Locations: []string{"primary"},
		Items: []models.MenuItem{
			{ID: 1, Label: "الرئيسية", Path: "/"},
			{ID: 2, Label: "الرحلات", Path: "/trip"},
			{ID: 3, Label: "المدونة", Path: "/posts"},
		},
	}
}

// Menus returns the fallback menu list.
func Menus() []models.Menu {
	return []models.Menu{PrimaryMenu()}
}

// Posts returns an empty post list.
func Posts() []models.Post { return []models.Post{} }

// Trips returns the featured trips shown when the trip list cannot be
// fetched. Destination matches the title of a fallback destination.
func Trips() []models.Trip {
	return []models.Trip{
		fallbackTrip(1, "رحلة تركيا المميزة", "turkey-special", "تركيا", "/images/destinations/turkey.jpg", 2999, 7, 6),
		fallbackTrip(2, "جورجيا السياحية", "georgia-tour", "جورجيا", "/images/destinations/georgia.jpg", 3499, 8, 7),
		fallbackTrip(3, "أذربيجان الرائعة", "azerbaijan-trip", "أذربيجان", "/images/destinations/azerbaijan.jpg", 2799, 6, 5),
		fallbackTrip(4, "البوسنة الساحرة", "bosnia-trip", "البوسنة", "/images/destinations/bosnia.jpg", 3899, 9, 8),
	}
}

func fallbackTrip(id int, title, slug, dest, image string, price float64, days, nights int) models.Trip {
	return models.Trip{
		ID:          id,
		Title:       title,
		Slug:        slug,
		Price:       &models.Price{Amount: price, Currency: models.DefaultCurrency},
		Duration:    &models.Duration{Days: days, Nights: nights},
		Destination: dest,
		Images:      []models.Image{{SourceURL: image, AltText: title}},
		Featured:    true,
	}
}

// Trip returns the fallback trip with the given slug.
func Trip(slug string) (models.Trip, bool) {
	for _, t := range Trips() {
		if t.Slug == slug {
			return t, true
		}
	}
	return models.Trip{}, false
}

// TripsTo returns the fallback trips whose destination is d.
func TripsTo(d models.Destination) []models.Trip {
	out := []models.Trip{}
	for _, t := range Trips() {
		if t.Destination == d.Title {
			out = append(out, t)
		}
	}
	return out
}

// Categories returns an empty category list.
func Categories() []models.Category { return []models.Category{} }

// Pages returns an empty page list.
func Pages() []models.Page { return []models.Page{} }
