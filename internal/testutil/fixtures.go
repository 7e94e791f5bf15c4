// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package testutil

import (
	"fmt"
	"time"

	"madarat/internal/wordpress"
)

// fixtureEpoch is the publish date of post 1; later ids are one day older
// each, so ids sort newest first.
var fixtureEpoch = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

// Post builds a published REST post. Categories are embedded as wp:term
// entries named after their id.
func Post(id int, slug string, categories ...int) wordpress.RESTPost {
	date := fixtureEpoch.AddDate(0, 0, -id).Format("2006-01-02T15:04:05")
	terms := make([]wordpress.RESTTerm, 0, len(categories))
	for _, c := range categories {
		terms = append(terms, wordpress.RESTTerm{ID: c, Name: fmt.Sprintf("Category %d", c), Slug: fmt.Sprintf("category-%d", c), Taxonomy: "category"})
	}
	return wordpress.RESTPost{
		ID:          id,
		Date:        date,
		DateGMT:     date,
		Modified:    date,
		ModifiedGMT: date,
		Slug:        slug,
		Status:      "publish",
		Link:        "https://backend.test/" + slug + "/",
		Title:       wordpress.Rendered{Rendered: "Post " + slug},
		Content:     wordpress.Rendered{Rendered: "<p>Body of " + slug + "</p>"},
		Excerpt:     wordpress.Rendered{Rendered: "<p>Excerpt of " + slug + "</p>"},
		Author:      1,
		Categories:  categories,
		Embedded: &wordpress.Embedded{
			Author: []wordpress.RESTUser{Author(1, "editor")},
			Terms:  [][]wordpress.RESTTerm{terms},
		},
	}
}

// Posts builds n posts with ids 1..n and slugs post-1..post-n.
func Posts(n int, categories ...int) []wordpress.RESTPost {
	out := make([]wordpress.RESTPost, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Post(i, fmt.Sprintf("post-%d", i), categories...))
	}
	return out
}

// Author builds a REST user.
func Author(id int, slug string) wordpress.RESTUser {
	return wordpress.RESTUser{
		ID:         id,
		Name:       "User " + slug,
		Slug:       slug,
		AvatarURLs: map[string]string{"96": "http://secure.gravatar.com/avatar/x?s=96"},
	}
}

// Trip builds a published REST trip tagged with the destination term.
func Trip(id int, slug string, destination int, price string) wordpress.RESTTrip {
	date := fixtureEpoch.AddDate(0, 0, -id).Format("2006-01-02T15:04:05")
	return wordpress.RESTTrip{
		ID:          id,
		Date:        date,
		Modified:    date,
		Slug:        slug,
		Status:      "publish",
		Link:        "https://backend.test/trip/" + slug + "/",
		Title:       wordpress.Rendered{Rendered: "Trip " + slug + " 7 أيام"},
		Content:     wordpress.Rendered{Rendered: "<p>Trip " + slug + "</p>"},
		Destination: []int{destination},
		ACF: wordpress.TripACF{
			Price:    wordpress.TripPrice{Amount: wordpress.Flex(price)},
			Location: wordpress.Flex(fmt.Sprintf("destination-%d", destination)),
		},
	}
}

// Destination builds a destination term.
func Destination(id int, slug, name string, count int) wordpress.RESTTerm {
	return wordpress.RESTTerm{ID: id, Name: name, Slug: slug, Taxonomy: "destination", Count: count}
}
