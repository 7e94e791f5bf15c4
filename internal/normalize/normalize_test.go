// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"madarat/internal/models"
	"madarat/internal/wordpress"
)

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return v
}

const restPostJSON = `{
	"id": 7,
	"slug": "istanbul-guide",
	"date": "2024-03-05T13:00:00",
	"date_gmt": "2024-03-05T10:00:00",
	"title": {"rendered": "Istanbul &amp; Bursa &#8211; a guide"},
	"excerpt": {"rendered": "<p>Discover Istanbul [&hellip;]</p>\n"},
	"content": {"rendered": "<p>Hello</p><script>alert(1)</script>"},
	"featured_media": 9,
	"sticky": true,
	"yoast_head_json": {"title": "SEO title", "og_description": "<b>Share</b> this", "og_image": [{"url": "https://img/og.jpg"}]},
	"_embedded": {
		"author": [{"id": 2, "name": "Sara", "slug": "sara", "avatar_urls": {"48": "http://gravatar/48", "96": "http://gravatar/96"}}],
		"wp:featuredmedia": [{"id": 9, "source_url": "https://img/9.jpg", "alt_text": "Blue mosque", "media_details": {"width": 1200, "height": 800}}],
		"wp:term": [[{"id": 3, "name": "Travel &amp; Tips", "slug": "travel-tips", "taxonomy": "category"}], [{"id": 11, "name": "turkey", "slug": "turkey", "taxonomy": "post_tag"}]]
	}
}`

func TestPost_REST(t *testing.T) {
	p := Post(decode[wordpress.RESTPost](t, restPostJSON))

	if p.ID != 7 || p.Slug != "istanbul-guide" || !p.Sticky {
		t.Errorf("unexpected identity fields: %+v", p)
	}
	if p.Title != "Istanbul & Bursa – a guide" {
		t.Errorf("Title = %q", p.Title)
	}
	if want := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC); !p.Date.Equal(want) {
		t.Errorf("Date = %v, want %v (GMT preferred)", p.Date, want)
	}
	if p.Excerpt != "<p>Discover Istanbul…</p>" {
		t.Errorf("Excerpt = %q", p.Excerpt)
	}
	if p.Content != "<p>Hello</p>" {
		t.Errorf("Content = %q, script should be stripped", p.Content)
	}
	if p.Author == nil || p.Author.Name != "Sara" || p.Author.AvatarURL != "https://gravatar/96" {
		t.Errorf("Author = %+v", p.Author)
	}
	if p.FeaturedImage == nil || p.FeaturedImage.SourceURL != "https://img/9.jpg" || p.FeaturedImage.Width != 1200 {
		t.Errorf("FeaturedImage = %+v", p.FeaturedImage)
	}
	if len(p.Categories) != 1 || p.Categories[0].Name != "Travel & Tips" {
		t.Errorf("Categories = %+v, tags must not be included", p.Categories)
	}
	if p.OpenGraph == nil || p.OpenGraph.Title != "SEO title" || p.OpenGraph.Description != "Share this" || p.OpenGraph.Image != "https://img/og.jpg" {
		t.Errorf("OpenGraph = %+v", p.OpenGraph)
	}
}

func TestPost_MissingOptionalFields(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"no featured media", `{"id": 1, "slug": "a", "featured_media": 0, "_embedded": {"wp:featuredmedia": [{"source_url": "https://img/x.jpg"}]}}`},
		{"no embed at all", `{"id": 1, "slug": "a", "featured_media": 5}`},
		{"embed without media", `{"id": 1, "slug": "a", "featured_media": 5, "_embedded": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Post(decode[wordpress.RESTPost](t, tt.json))
			if p.FeaturedImage != nil {
				t.Errorf("FeaturedImage = %+v, want nil", p.FeaturedImage)
			}
			if p.Author != nil {
				t.Errorf("Author = %+v, want nil", p.Author)
			}
			if p.Categories == nil {
				t.Error("Categories should be empty, not nil")
			}
		})
	}
}

func TestPost_InvalidEmbeddedAuthor(t *testing.T) {
	p := Post(decode[wordpress.RESTPost](t, `{"id": 1, "slug": "a", "_embedded": {"author": [{"code": "rest_user_invalid_id"}]}}`))
	if p.Author != nil {
		t.Errorf("Author = %+v, want nil for an error object", p.Author)
	}
}

func TestPost_GraphQL(t *testing.T) {
	raw := decode[wordpress.GraphQLPost](t, `{
		"databaseId": 12, "slug": "%d8%aa", "title": "رحلة &amp; مغامرة", "date": "2024-01-02T08:00:00",
		"isSticky": false,
		"author": {"node": {"databaseId": 4, "name": "Ali", "slug": "ali", "avatar": {"url": "http://avatar"}}},
		"categories": {"edges": [{"node": {"databaseId": 3, "name": "News", "slug": "news"}}]},
		"featuredImage": {"node": {"sourceUrl": "https://img/1.jpg", "altText": "x"}}
	}`)
	p := Post(raw)
	if p.ID != 12 || p.Slug != "ت" || p.Title != "رحلة & مغامرة" {
		t.Errorf("unexpected post: %+v", p)
	}
	if p.Author == nil || p.Author.AvatarURL != "https://avatar" {
		t.Errorf("Author = %+v", p.Author)
	}
	if len(p.Categories) != 1 || p.Categories[0].Slug != "news" {
		t.Errorf("Categories = %+v", p.Categories)
	}
	if p.FeaturedImage == nil || p.FeaturedImage.SourceURL != "https://img/1.jpg" {
		t.Errorf("FeaturedImage = %+v", p.FeaturedImage)
	}
}

func TestPost_GraphQLNoImage(t *testing.T) {
	p := Post(wordpress.GraphQLPost{DatabaseID: 1, Slug: "a", FeaturedImage: &wordpress.GraphQLMediaEdge{}})
	if p.FeaturedImage != nil {
		t.Errorf("FeaturedImage = %+v, want nil", p.FeaturedImage)
	}
}

func TestCategory_Parent(t *testing.T) {
	tests := []struct {
		name     string
		raw      wordpress.RawCategory
		wantRoot bool
	}{
		{"rest parent zero", wordpress.RESTTerm{ID: 1, Slug: "a", Parent: 0}, true},
		{"rest parent set", wordpress.RESTTerm{ID: 2, Slug: "b", Parent: 1}, false},
		{"graphql parent zero", wordpress.GraphQLCategory{DatabaseID: 3, Slug: "c"}, true},
		{"graphql parent set", wordpress.GraphQLCategory{DatabaseID: 4, Slug: "d", ParentDatabaseID: 3}, false},
		{"rest pointer", &wordpress.RESTTerm{ID: 5, Slug: "e", Parent: 1}, false},
		{"graphql pointer", &wordpress.GraphQLCategory{DatabaseID: 6, Slug: "f"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Category(tt.raw)
			if c.IsRoot() != tt.wantRoot {
				t.Errorf("IsRoot() = %v, want %v (parent %v)", c.IsRoot(), tt.wantRoot, c.Parent)
			}
			roots := RootCategories([]models.Category{c})
			if got := len(roots) == 1; got != tt.wantRoot {
				t.Errorf("included in RootCategories = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}

func TestDestination_ImagePreference(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantImage string
	}{
		{
			name:      "dedicated size wins",
			json:      `{"id": 1, "name": "Turkey", "slug": "turkey", "thumbnail": {"source_url": "https://img/orig.jpg", "sizes": {"full": {"source_url": "https://img/full.jpg"}, "destination-thumb-size": {"source_url": "https://img/thumb.jpg"}}}}`,
			wantImage: "https://img/thumb.jpg",
		},
		{
			name:      "full size next",
			json:      `{"id": 1, "name": "Turkey", "slug": "turkey", "thumbnail": {"source_url": "https://img/orig.jpg", "sizes": {"full": {"source_url": "https://img/full.jpg"}}}}`,
			wantImage: "https://img/full.jpg",
		},
		{
			name:      "source url last",
			json:      `{"id": 1, "name": "Turkey", "slug": "turkey", "thumbnail": {"source_url": "https://img/orig.jpg"}}`,
			wantImage: "https://img/orig.jpg",
		},
		{
			name:      "no thumbnail",
			json:      `{"id": 1, "name": "Turkey", "slug": "turkey"}`,
			wantImage: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Destination(decode[wordpress.RESTTerm](t, tt.json))
			if d.Image != tt.wantImage {
				t.Errorf("Image = %q, want %q", d.Image, tt.wantImage)
			}
		})
	}
}

func TestDestination_Description(t *testing.T) {
	d := Destination(wordpress.RESTTerm{ID: 1, Name: "تركيا", Slug: "turkey", Count: 12, Description: "<p>Beautiful <strong>Turkey</strong></p>\n<p>Line two</p>"})
	if d.Description != "Beautiful Turkey Line two" {
		t.Errorf("Description = %q", d.Description)
	}
	if d.TripCount != 12 || d.Title != "تركيا" {
		t.Errorf("unexpected destination: %+v", d)
	}

	empty := Destination(wordpress.RESTTerm{ID: 2, Name: "جورجيا", Slug: "georgia"})
	if empty.Description != "استكشف رحلاتنا المميزة إلى جورجيا" {
		t.Errorf("fallback Description = %q", empty.Description)
	}
}

func TestPointerShapes(t *testing.T) {
	rp := decode[wordpress.RESTPost](t, restPostJSON)
	if got, want := Post(&rp), Post(rp); got.Slug != want.Slug || got.ID != want.ID {
		t.Errorf("Post(&rest) = %+v, want %+v", got, want)
	}
	gp := &wordpress.GraphQLPost{DatabaseID: 9, Slug: "g"}
	if got := Post(gp); got.ID != 9 || got.Slug != "g" {
		t.Errorf("Post(&graphql) = %+v", got)
	}
	rt := &wordpress.RESTTrip{ID: 31, Slug: "tbilisi"}
	if got := Trip(rt); got.ID != 31 || got.Slug != "tbilisi" {
		t.Errorf("Trip(&rest) = %+v", got)
	}
	gt := &wordpress.GraphQLTrip{DatabaseID: 32, Slug: "baku"}
	if got := Trip(gt); got.ID != 32 || got.Slug != "baku" {
		t.Errorf("Trip(&graphql) = %+v", got)
	}

	if got := Post((*wordpress.RESTPost)(nil)); got.ID != 0 {
		t.Errorf("Post(nil) = %+v, want zero", got)
	}
	if got := Trip((*wordpress.GraphQLTrip)(nil)); got.ID != 0 {
		t.Errorf("Trip(nil) = %+v, want zero", got)
	}
	if got := Category((*wordpress.RESTTerm)(nil)); got.ID != 0 {
		t.Errorf("Category(nil) = %+v, want zero", got)
	}
}

func TestTrip_REST(t *testing.T) {
	trip := Trip(decode[wordpress.RESTTrip](t, `{
		"id": 30, "slug": "%d8%aa", "status": "publish",
		"title": {"rendered": "البوسنة 13 يوم - 12 ليلة"},
		"featured_media": 4,
		"acf": {"price": {"amount": "4500", "currency": ""}, "location": "Bosnia"},
		"_embedded": {"wp:featuredmedia": [{"source_url": "https://img/b.jpg"}]}
	}`))

	if trip.Price == nil || trip.Price.Amount != 4500 || trip.Price.Currency != "SAR" {
		t.Errorf("Price = %+v", trip.Price)
	}
	if trip.Duration == nil || trip.Duration.Days != 13 || trip.Duration.Nights != 12 {
		t.Errorf("Duration = %+v, want parsed from title", trip.Duration)
	}
	if trip.Destination != "Bosnia" {
		t.Errorf("Destination = %q", trip.Destination)
	}
	if img := trip.FeaturedImage(); img == nil || img.SourceURL != "https://img/b.jpg" {
		t.Errorf("FeaturedImage = %+v", img)
	}
}

func TestTrip_RESTStructuredDuration(t *testing.T) {
	trip := Trip(decode[wordpress.RESTTrip](t, `{"id": 1, "slug": "a", "title": "A", "acf": {"duration": {"days": "7", "nights": 6}, "price": 0}}`))
	if trip.Duration == nil || trip.Duration.Days != 7 || trip.Duration.Nights != 6 {
		t.Errorf("Duration = %+v", trip.Duration)
	}
	if trip.Price != nil {
		t.Errorf("Price = %+v, want nil for zero amount", trip.Price)
	}
}

func TestTrip_GraphQL(t *testing.T) {
	trip := Trip(wordpress.GraphQLTrip{
		DatabaseID: 5,
		Title:      "Georgia",
		Slug:       "georgia",
		FeaturedImage: &wordpress.GraphQLMediaEdge{Node: &wordpress.GraphQLMedia{SourceURL: "https://img/g.jpg"}},
		TripDetails: &wordpress.GraphQLTripDetails{
			Price:       "3200",
			Duration:    "5 Days",
			Destination: "Georgia &amp; Armenia",
			Includes:    "<ul><li>Flights</li><li>Hotel</li></ul>",
			Gallery:     []wordpress.GraphQLMedia{{SourceURL: "https://img/g2.jpg"}, {SourceURL: ""}},
		},
	})
	if trip.Price == nil || trip.Price.Amount != 3200 {
		t.Errorf("Price = %+v", trip.Price)
	}
	if trip.Duration == nil || trip.Duration.Days != 5 {
		t.Errorf("Duration = %+v", trip.Duration)
	}
	if trip.Destination != "Georgia & Armenia" {
		t.Errorf("Destination = %q", trip.Destination)
	}
	if len(trip.Includes) != 2 || trip.Includes[0] != "Flights" || trip.Includes[1] != "Hotel" {
		t.Errorf("Includes = %q", trip.Includes)
	}
	if len(trip.Images) != 2 {
		t.Errorf("Images = %+v, want featured plus one gallery image", trip.Images)
	}
}

func TestPage(t *testing.T) {
	p := Page(decode[wordpress.RESTPage](t, `{"id": 3, "slug": "about", "link": "https://wp.example.com/about/", "title": {"rendered": "About"}, "parent": 0}`))
	if p.URI != "/about/" || p.Parent != nil || p.Title != "About" {
		t.Errorf("unexpected page: %+v", p)
	}
}

func TestMenu(t *testing.T) {
	m := Menu(wordpress.RESTMenu{
		ID:   2,
		Name: "Primary",
		Items: []wordpress.RESTMenuItem{
			{ID: 1, Title: "Home", URL: "https://madaratalkon.sa/"},
			{ID: 2, Title: "Trips", URL: "https://madaratalkon.sa/trip", Children: []wordpress.RESTMenuItem{
				{ID: 3, Title: "Turkey", URL: "https://madaratalkon.sa/destination/turkey"},
			}},
			{ID: 4, Title: "Instagram", URL: "https://instagram.com/madarat", Target: "_blank"},
		},
	}, "madaratalkon.sa")

	if len(m.Items) != 4 {
		t.Fatalf("got %d items, want 4 (children flattened)", len(m.Items))
	}
	if m.Items[0].Path != "/" || m.Items[1].Path != "/trip" {
		t.Errorf("local paths = %q %q", m.Items[0].Path, m.Items[1].Path)
	}
	if m.Items[2].ParentID == nil || *m.Items[2].ParentID != 2 {
		t.Errorf("child ParentID = %v, want 2", m.Items[2].ParentID)
	}
	if m.Items[3].Path != "https://instagram.com/madarat" {
		t.Errorf("external link rewritten: %q", m.Items[3].Path)
	}
}

func TestSite(t *testing.T) {
	s := Site(wordpress.RESTSite{Name: "مدارات &amp; الكون", Description: "سفر", Language: "ar"})
	if s.Title != "مدارات & الكون" || s.Language != "ar" {
		t.Errorf("unexpected site: %+v", s)
	}
	if got := languageCode("en_US"); got != "en" {
		t.Errorf("languageCode(en_US) = %q", got)
	}
}
