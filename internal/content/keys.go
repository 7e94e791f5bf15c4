// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"
	"strings"
)

// Cache keys shared by the page loaders, the sitemap handlers and the
// warm-up job. Slugs are lower-cased so differently encoded requests for
// the same item share an entry.
const (
	KeyAllPosts     = "posts:all"
	KeyRecentPosts  = "posts:recent"
	KeyCategories   = "categories:all"
	KeyTrips        = "trips:all"
	KeyDestinations = "destinations:all"
	KeyPages        = "pages:all"
	KeyPrimaryMenu  = "menus:primary"
	KeySite         = "site:meta"
)

// RecentPostsCount is the number of posts stored under KeyRecentPosts.
const RecentPostsCount = 6

// KeyPost is the cache key of a single post.
func KeyPost(slug string) string { return "post:" + strings.ToLower(slug) }

// KeyTrip is the cache key of a single trip.
func KeyTrip(slug string) string { return "trip:" + strings.ToLower(slug) }

// KeyDestination is the cache key of a destination with its trips.
func KeyDestination(slug string) string { return "destination:" + strings.ToLower(slug) }

// KeyPage is the cache key of a page by URI.
func KeyPage(uri string) string { return "page:" + strings.ToLower(strings.Trim(uri, "/")) }

// KeyPostsPage is the cache key of one page of a post listing. scope names
// the listing, e.g. "all", "category:travel" or "search:istanbul".
func KeyPostsPage(scope string, page int) string {
	return fmt.Sprintf("posts:%s:page:%d", strings.ToLower(scope), page)
}
