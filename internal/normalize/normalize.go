// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package normalize converts raw WordPress REST and GraphQL payloads into the
// shared models. Every function is pure: missing optional data maps to nil
// or empty values, never to an error.
package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"madarat/internal/models"
	"madarat/internal/slug"
	"madarat/internal/wordpress"
)

// avatarSize is the gravatar size used for author avatars.
const avatarSize = "96"

// Post normalizes a REST or GraphQL post, given by value or pointer. A nil
// pointer yields the zero post.
func Post(raw wordpress.RawPost) models.Post {
	switch p := raw.(type) {
	case wordpress.RESTPost:
		return restPost(p)
	case wordpress.GraphQLPost:
		return graphqlPost(p)
	case *wordpress.RESTPost:
		if p != nil {
			return restPost(*p)
		}
		return models.Post{}
	case *wordpress.GraphQLPost:
		if p != nil {
			return graphqlPost(*p)
		}
		return models.Post{}
	}
	panic(fmt.Sprintf("normalize: unknown post shape %T", raw))
}

// Posts normalizes a slice of REST posts.
func Posts(raw []wordpress.RESTPost) []models.Post {
	out := make([]models.Post, 0, len(raw))
	for _, p := range raw {
		out = append(out, restPost(p))
	}
	return out
}

func restPost(p wordpress.RESTPost) models.Post {
	post := models.Post{
		ID:         p.ID,
		Title:      Title(p.Title.Rendered),
		Slug:       slug.Decode(p.Slug),
		Date:       Time(p.DateGMT, p.Date),
		Modified:   Time(p.ModifiedGMT, p.Modified),
		Excerpt:    Excerpt(p.Excerpt.Rendered),
		Content:    HTML(p.Content.Rendered),
		Sticky:     p.Sticky,
		Categories: []models.CategoryRef{},
	}

	if e := p.Embedded; e != nil {
		if len(e.Author) > 0 && e.Author[0].ID != 0 {
			a := Author(e.Author[0])
			post.Author = &a
		}
		if p.FeaturedMedia != 0 && len(e.FeaturedMedia) > 0 {
			post.FeaturedImage = restImage(e.FeaturedMedia[0])
		}
		post.Categories = termRefs(e.Terms, "category")
	}

	if y := p.Yoast; y != nil {
		og := &models.OpenGraph{
			Title:       Title(firstNonEmpty(y.OGTitle, y.Title)),
			Description: PlainText(firstNonEmpty(y.OGDescription, y.Description)),
		}
		if len(y.OGImage) > 0 {
			og.Image = y.OGImage[0].URL
		}
		post.OpenGraph = og
	}
	return post
}

func graphqlPost(p wordpress.GraphQLPost) models.Post {
	post := models.Post{
		ID:         p.DatabaseID,
		Title:      Title(p.Title),
		Slug:       slug.Decode(p.Slug),
		Date:       Time("", p.Date),
		Modified:   Time("", p.Modified),
		Excerpt:    Excerpt(p.Excerpt),
		Content:    HTML(p.Content),
		Sticky:     p.IsSticky,
		Categories: []models.CategoryRef{},
	}
	if p.Author != nil && p.Author.Node != nil {
		n := p.Author.Node
		a := models.Author{ID: n.DatabaseID, Name: Title(n.Name), Slug: n.Slug}
		if n.Avatar != nil {
			a.AvatarURL = SecureURL(n.Avatar.URL)
		}
		post.Author = &a
	}
	if p.Categories != nil {
		for _, edge := range p.Categories.Edges {
			post.Categories = append(post.Categories, models.CategoryRef{
				ID:   edge.Node.DatabaseID,
				Name: Title(edge.Node.Name),
				Slug: slug.Decode(edge.Node.Slug),
			})
		}
	}
	post.FeaturedImage = graphqlImage(p.FeaturedImage)
	post.OpenGraph = graphqlSEO(p.SEO)
	return post
}

// Author normalizes a REST user.
func Author(u wordpress.RESTUser) models.Author {
	return models.Author{
		ID:          u.ID,
		Name:        Title(u.Name),
		Slug:        slug.Decode(u.Slug),
		Description: PlainText(u.Description),
		AvatarURL:   SecureURL(u.AvatarURLs[avatarSize]),
	}
}

// Category normalizes a REST or GraphQL category, given by value or
// pointer. A parent of 0 means the category is a root.
func Category(raw wordpress.RawCategory) models.Category {
	switch c := raw.(type) {
	case *wordpress.RESTTerm:
		if c == nil {
			return models.Category{}
		}
		return Category(*c)
	case *wordpress.GraphQLCategory:
		if c == nil {
			return models.Category{}
		}
		return Category(*c)
	case wordpress.RESTTerm:
		return models.Category{
			ID:          c.ID,
			Name:        Title(c.Name),
			Slug:        slug.Decode(c.Slug),
			Description: PlainText(c.Description),
			Parent:      parentRef(c.Parent),
			Count:       c.Count,
		}
	case wordpress.GraphQLCategory:
		return models.Category{
			ID:          c.DatabaseID,
			Name:        Title(c.Name),
			Slug:        slug.Decode(c.Slug),
			Description: PlainText(c.Description),
			Parent:      parentRef(c.ParentDatabaseID),
			Count:       c.Count,
		}
	}
	panic(fmt.Sprintf("normalize: unknown category shape %T", raw))
}

// Categories normalizes a slice of REST terms.
func Categories(raw []wordpress.RESTTerm) []models.Category {
	out := make([]models.Category, 0, len(raw))
	for _, c := range raw {
		out = append(out, Category(c))
	}
	return out
}

func parentRef(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}

// destinationImageSizes lists thumbnail sizes in order of preference.
var destinationImageSizes = []string{"destination-thumb-size", "full"}

// Destination normalizes a destination taxonomy term. The description is
// reduced to plain text and the image prefers the dedicated thumbnail size.
func Destination(t wordpress.RESTTerm) models.Destination {
	d := models.Destination{
		ID:          t.ID,
		Title:       Title(t.Name),
		Slug:        slug.Decode(t.Slug),
		Description: PlainText(t.Description),
		TripCount:   t.Count,
	}
	if d.Description == "" {
		name := d.Title
		if name == "" {
			name = "هذه الوجهة الرائعة"
		}
		d.Description = "استكشف رحلاتنا المميزة إلى " + name
	}
	if th := t.Thumbnail; th != nil {
		sizes := th.Sizes
		if sizes == nil && th.MediaDetails != nil {
			sizes = th.MediaDetails.Sizes
		}
		for _, name := range destinationImageSizes {
			if s, ok := sizes[name]; ok && s.SourceURL != "" {
				d.Image = s.SourceURL
				break
			}
		}
		if d.Image == "" {
			d.Image = th.SourceURL
		}
	}
	return d
}

// Destinations normalizes a slice of destination terms.
func Destinations(raw []wordpress.RESTTerm) []models.Destination {
	out := make([]models.Destination, 0, len(raw))
	for _, t := range raw {
		out = append(out, Destination(t))
	}
	return out
}

// Page normalizes a REST page.
func Page(p wordpress.RESTPage) models.Page {
	page := models.Page{
		ID:        p.ID,
		Title:     Title(p.Title.Rendered),
		Slug:      slug.Decode(p.Slug),
		URI:       linkPath(p.Link),
		Content:   HTML(p.Content.Rendered),
		Excerpt:   Excerpt(p.Excerpt.Rendered),
		Modified:  Time("", p.Modified),
		Parent:    parentRef(p.Parent),
		MenuOrder: p.MenuOrder,
	}
	if page.URI == "" {
		page.URI = "/" + page.Slug + "/"
	}
	if p.FeaturedMedia != 0 && p.Embedded != nil && len(p.Embedded.FeaturedMedia) > 0 {
		page.FeaturedImage = restImage(p.Embedded.FeaturedMedia[0])
	}
	return page
}

// Menu normalizes a menu, flattening nested items. Item URLs on one of
// localHosts are reduced to their path.
func Menu(m wordpress.RESTMenu, localHosts ...string) models.Menu {
	menu := models.Menu{
		ID:        firstNonZero(m.ID, m.TermID),
		Name:      Title(m.Name),
		Slug:      m.Slug,
		Locations: m.Locations,
		Items:     []models.MenuItem{},
	}
	var walk func(items []wordpress.RESTMenuItem, parent int)
	walk = func(items []wordpress.RESTMenuItem, parent int) {
		for _, it := range items {
			p := firstNonZero(parent, it.Parent)
			menu.Items = append(menu.Items, models.MenuItem{
				ID:       it.ID,
				ParentID: parentRef(p),
				Label:    Title(it.Title),
				Path:     localPath(it.URL, localHosts),
				Target:   it.Target,
			})
			walk(it.Children, it.ID)
		}
	}
	walk(m.Items, 0)
	return menu
}

// Site normalizes the REST index.
func Site(s wordpress.RESTSite) models.SiteMetadata {
	return models.SiteMetadata{
		Title:       Title(s.Name),
		Description: Title(s.Description),
		Language:    languageCode(s.Language),
		URL:         firstNonEmpty(s.Home, s.URL),
	}
}

// languageCode turns a WordPress locale such as "ar" or "en_US" into a
// BCP 47 primary language.
func languageCode(locale string) string {
	if locale == "" {
		return ""
	}
	lang, _, _ := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-")
	return strings.ToLower(lang)
}

var (
	daysPattern   = regexp.MustCompile(`(?i)(\d+)\s*(days?|ايام|أيام|يوم|يوما|يومًا)`)
	nightsPattern = regexp.MustCompile(`(?i)(\d+)\s*(nights?|ليال|ليالي|ليلة)`)
)

// Trip normalizes a REST or GraphQL trip, given by value or pointer. A nil
// pointer yields the zero trip.
func Trip(raw wordpress.RawTrip) models.Trip {
	switch t := raw.(type) {
	case wordpress.RESTTrip:
		return restTrip(t)
	case wordpress.GraphQLTrip:
		return graphqlTrip(t)
	case *wordpress.RESTTrip:
		if t != nil {
			return restTrip(*t)
		}
		return models.Trip{}
	case *wordpress.GraphQLTrip:
		if t != nil {
			return graphqlTrip(*t)
		}
		return models.Trip{}
	}
	panic(fmt.Sprintf("normalize: unknown trip shape %T", raw))
}

func restTrip(t wordpress.RESTTrip) models.Trip {
	trip := models.Trip{
		ID:       t.ID,
		Title:    Title(t.Title.Rendered),
		Slug:     slug.Decode(t.Slug),
		Excerpt:  Excerpt(t.Excerpt.Rendered),
		Content:  HTML(t.Content.Rendered),
		Date:     Time("", t.Date),
		Modified: Time("", t.Modified),
		Images:   []models.Image{},
		Featured: t.ACF.Featured || t.Sticky,
		Link:     t.Link,
	}

	if amount := t.ACF.Price.Amount.Float(); amount > 0 {
		trip.Price = &models.Price{Amount: amount, Currency: currency(string(t.ACF.Price.Currency))}
	}

	d := t.ACF.Duration
	if days, nights := d.Days.Int(), d.Nights.Int(); days > 0 || nights > 0 {
		trip.Duration = &models.Duration{Days: days, Nights: nights}
	} else {
		trip.Duration = parseDuration(firstNonEmpty(string(d.Text), trip.Title))
	}

	trip.Destination = string(t.ACF.Location)
	if e := t.Embedded; e != nil {
		if trip.Destination == "" {
			if refs := termRefs(e.Terms, "destination"); len(refs) > 0 {
				trip.Destination = refs[0].Name
			}
		}
		if t.FeaturedMedia != 0 && len(e.FeaturedMedia) > 0 {
			if img := restImage(e.FeaturedMedia[0]); img != nil {
				trip.Images = append(trip.Images, *img)
			}
		}
	}
	return trip
}

func graphqlTrip(t wordpress.GraphQLTrip) models.Trip {
	trip := models.Trip{
		ID:       t.DatabaseID,
		Title:    Title(t.Title),
		Slug:     slug.Decode(t.Slug),
		Excerpt:  Excerpt(t.Excerpt),
		Content:  HTML(t.Content),
		Date:     Time("", t.Date),
		Modified: Time("", t.Modified),
		Images:   []models.Image{},
	}
	if img := graphqlImage(t.FeaturedImage); img != nil {
		trip.Images = append(trip.Images, *img)
	}
	trip.OpenGraph = graphqlSEO(t.SEO)

	details := t.TripDetails
	if details == nil {
		trip.Duration = parseDuration(trip.Title)
		return trip
	}
	if amount := details.Price.Float(); amount > 0 {
		trip.Price = &models.Price{Amount: amount, Currency: models.DefaultCurrency}
	}
	trip.Duration = parseDuration(firstNonEmpty(string(details.Duration), trip.Title))
	trip.Destination = Title(string(details.Destination))
	trip.Includes = Lines(string(details.Includes))
	trip.Excludes = Lines(string(details.Excludes))
	for _, g := range details.Gallery {
		if g.SourceURL != "" {
			trip.Images = append(trip.Images, models.Image{SourceURL: g.SourceURL, AltText: g.AltText})
		}
	}
	return trip
}

// parseDuration extracts days and nights from free text such as
// "13 يوم - 12 ليلة" or "5 Days". Text that yields neither is kept as-is.
func parseDuration(s string) *models.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d := &models.Duration{}
	if m := daysPattern.FindStringSubmatch(s); m != nil {
		fmt.Sscan(m[1], &d.Days)
	}
	if m := nightsPattern.FindStringSubmatch(s); m != nil {
		fmt.Sscan(m[1], &d.Nights)
	}
	if d.Days == 0 && d.Nights == 0 {
		if strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
			return nil
		}
		d.Text = s
	}
	return d
}

func currency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return models.DefaultCurrency
	}
	return c
}

func restImage(m wordpress.RESTMedia) *models.Image {
	if m.SourceURL == "" {
		return nil
	}
	img := &models.Image{SourceURL: m.SourceURL, AltText: m.AltText}
	if d := m.MediaDetails; d != nil {
		img.Width, img.Height = d.Width, d.Height
	}
	return img
}

func graphqlImage(e *wordpress.GraphQLMediaEdge) *models.Image {
	if e == nil || e.Node == nil || e.Node.SourceURL == "" {
		return nil
	}
	img := &models.Image{SourceURL: e.Node.SourceURL, AltText: e.Node.AltText}
	if d := e.Node.MediaDetails; d != nil {
		img.Width, img.Height = d.Width, d.Height
	}
	return img
}

func graphqlSEO(s *wordpress.GraphQLSEO) *models.OpenGraph {
	if s == nil {
		return nil
	}
	og := &models.OpenGraph{
		Title:       Title(firstNonEmpty(s.OpengraphTitle, s.Title)),
		Description: PlainText(firstNonEmpty(s.OpengraphDescription, s.MetaDesc)),
	}
	if s.OpengraphImage != nil {
		og.Image = s.OpengraphImage.SourceURL
	}
	return og
}

// termRefs collects embedded terms of one taxonomy. Terms without a
// taxonomy are attributed to the first group, which WordPress reserves for
// categories.
func termRefs(groups [][]wordpress.RESTTerm, taxonomy string) []models.CategoryRef {
	refs := []models.CategoryRef{}
	for i, group := range groups {
		for _, t := range group {
			tax := t.Taxonomy
			if tax == "" && i == 0 {
				tax = "category"
			}
			if tax != taxonomy || t.ID == 0 {
				continue
			}
			refs = append(refs, models.CategoryRef{ID: t.ID, Name: Title(t.Name), Slug: slug.Decode(t.Slug)})
		}
	}
	return refs
}

func linkPath(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return ""
	}
	return u.Path
}

func localPath(raw string, hosts []string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	for _, h := range hosts {
		if strings.EqualFold(u.Host, h) {
			p := u.EscapedPath()
			if p == "" {
				p = "/"
			}
			if u.RawQuery != "" {
				p += "?" + u.RawQuery
			}
			if u.Fragment != "" {
				p += "#" + u.Fragment
			}
			return p
		}
	}
	return raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
