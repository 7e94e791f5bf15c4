// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"madarat/internal/models"
	"madarat/internal/normalize"
	"madarat/internal/slug"
	"madarat/internal/wordpress"
)

// graphqlPageSize is the connection page size used when walking trips.
const graphqlPageSize = 100

// Trips returns every published trip. The REST endpoint is tried first;
// when it fails the GraphQL connection is walked instead.
func (s *Service) Trips(ctx context.Context) ([]models.Trip, error) {
	trips, err := s.restTrips(ctx, url.Values{})
	if err == nil {
		return trips, nil
	}
	s.log.Warn("trip REST listing failed, trying GraphQL", "error", err)

	trips, gerr := s.graphqlTrips(ctx)
	if gerr != nil {
		return nil, fmt.Errorf("content trips: %w", errors.Join(err, gerr))
	}
	return trips, nil
}

func (s *Service) restTrips(ctx context.Context, params url.Values) ([]models.Trip, error) {
	params.Set("_embed", "true")
	raw, err := getAll[wordpress.RESTTrip](ctx, s, "/wp/v2/trip", params)
	if err != nil {
		return nil, err
	}
	trips := make([]models.Trip, 0, len(raw))
	for _, t := range raw {
		if t.Status != "" && t.Status != "publish" {
			continue
		}
		trips = append(trips, normalize.Trip(t))
	}
	return normalize.DedupeBySlug(trips, normalize.TripSlug), nil
}

func (s *Service) graphqlTrips(ctx context.Context) ([]models.Trip, error) {
	trips := []models.Trip{}
	after := ""
	for range maxPages {
		vars := map[string]any{"first": graphqlPageSize}
		if after != "" {
			vars["after"] = after
		}
		var conn wordpress.TripConnection
		if err := s.wp.GraphQL(ctx, wordpress.QueryAllTrips, vars, &conn); err != nil {
			return nil, err
		}
		for _, e := range conn.Trips.Edges {
			trips = append(trips, normalize.Trip(e.Node))
		}
		info := conn.Trips.PageInfo
		if !info.HasNextPage || info.EndCursor == "" || info.EndCursor == after {
			break
		}
		after = info.EndCursor
	}
	return normalize.DedupeBySlug(trips, normalize.TripSlug), nil
}

// TripBySlug returns the trip with the given slug, or ErrNotFound. A REST
// failure other than an empty result falls through to GraphQL.
func (s *Service) TripBySlug(ctx context.Context, tripSlug string) (models.Trip, error) {
	raw, err := getOne[wordpress.RESTTrip](ctx, s, "/wp/v2/trip", tripSlug, url.Values{"_embed": {"true"}})
	if err == nil {
		return normalize.Trip(raw), nil
	}
	if errors.Is(err, ErrNotFound) {
		return models.Trip{}, fmt.Errorf("content trip %q: %w", tripSlug, err)
	}
	s.log.Warn("trip REST lookup failed, trying GraphQL", "slug", tripSlug, "error", err)

	var res wordpress.TripBySlug
	if gerr := s.wp.GraphQL(ctx, wordpress.QueryTripBySlug, map[string]any{"slug": tripSlug}, &res); gerr != nil {
		return models.Trip{}, fmt.Errorf("content trip %q: %w", tripSlug, errors.Join(err, gerr))
	}
	if res.TripBy == nil {
		return models.Trip{}, fmt.Errorf("content trip %q: %w", tripSlug, ErrNotFound)
	}
	return normalize.Trip(*res.TripBy), nil
}

// TripsByDestination returns the published trips tagged with the
// destination term id.
func (s *Service) TripsByDestination(ctx context.Context, destinationID int) ([]models.Trip, error) {
	trips, err := s.restTrips(ctx, url.Values{"destination": {strconv.Itoa(destinationID)}})
	if err != nil {
		return nil, fmt.Errorf("content trips for destination %d: %w", destinationID, err)
	}
	return trips, nil
}

// TripsRaw proxies the trip collection as WordPress returns it, with
// embedded media. Only TripProxyParams are forwarded.
func (s *Service) TripsRaw(ctx context.Context, query url.Values) ([]byte, error) {
	params := ProxyQuery(query, TripProxyParams)
	params.Set("_embed", "true")
	resp, err := s.wp.FetchAPI(ctx, "/wp/v2/trip", params)
	if err != nil {
		return nil, fmt.Errorf("content trip proxy: %w", err)
	}
	return resp.Body, nil
}

// RelatedTrips picks up to n trips that share current's destination.
func RelatedTrips(all []models.Trip, current models.Trip, n int) []models.Trip {
	out := []models.Trip{}
	if current.Destination == "" {
		return out
	}
	for _, t := range all {
		if len(out) == n {
			break
		}
		if t.ID == current.ID || slug.Equal(t.Slug, current.Slug) {
			continue
		}
		if t.Destination == current.Destination {
			out = append(out, t)
		}
	}
	return out
}

// FeaturedTrips returns up to n featured trips. When fewer are flagged the
// list is topped up with the first remaining trips.
func FeaturedTrips(all []models.Trip, n int) []models.Trip {
	out := make([]models.Trip, 0, max(n, 0))
	for _, t := range all {
		if len(out) == n {
			return out
		}
		if t.Featured {
			out = append(out, t)
		}
	}
	for _, t := range all {
		if len(out) == n {
			break
		}
		if !t.Featured {
			out = append(out, t)
		}
	}
	return out
}
