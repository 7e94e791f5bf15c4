// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wordpress

const tripFields = `
  databaseId
  title
  slug
  excerpt
  content
  date
  modified
  featuredImage { node { sourceUrl altText mediaDetails { width height } } }
  seo { title metaDesc opengraphTitle opengraphDescription opengraphImage { sourceUrl } }
`

// QueryAllTrips pages through the trips connection.
const QueryAllTrips = `
query AllTrips($first: Int, $after: String) {
  trips(first: $first, after: $after) {
    edges {
      node {` + tripFields + `
        tripDetails { price duration destination includes excludes itinerary }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

// QueryTripBySlug fetches a single trip including its gallery.
const QueryTripBySlug = `
query TripBySlug($slug: String!) {
  tripBy(slug: $slug) {` + tripFields + `
    tripDetails {
      price duration destination includes excludes itinerary
      gallery { sourceUrl altText }
    }
  }
}`
