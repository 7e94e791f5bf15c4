// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package normalize

import (
	"slices"
	"sort"

	"madarat/internal/models"
)

// DedupeBySlug keeps the first item for each slug, preserving order. Items
// with an empty slug are dropped.
func DedupeBySlug[T any](items []T, slugOf func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		s := slugOf(it)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, it)
	}
	return out
}

// PostSlug, TripSlug and DestinationSlug are slug accessors for DedupeBySlug.
func PostSlug(p models.Post) string               { return p.Slug }
func TripSlug(t models.Trip) string               { return t.Slug }
func DestinationSlug(d models.Destination) string { return d.Slug }

// SortSticky moves sticky posts to the front, keeping the relative order
// within each group.
func SortSticky(posts []models.Post) []models.Post {
	out := slices.Clone(posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sticky && !out[j].Sticky
	})
	return out
}

// SortByDateDesc orders posts newest first.
func SortByDateDesc(posts []models.Post) []models.Post {
	out := slices.Clone(posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// BuildCategoryTree fills the Children of every category. Parents missing
// from the list are ignored.
func BuildCategoryTree(cats []models.Category) []models.Category {
	out := slices.Clone(cats)
	index := make(map[int]int, len(out))
	for i := range out {
		out[i].Children = nil
		index[out[i].ID] = i
	}
	for _, c := range out {
		if c.Parent == nil {
			continue
		}
		if pi, ok := index[*c.Parent]; ok {
			out[pi].Children = append(out[pi].Children, c.ID)
		}
	}
	return out
}

// RootCategories returns the categories without a parent.
func RootCategories(cats []models.Category) []models.Category {
	roots := []models.Category{}
	for _, c := range cats {
		if c.IsRoot() {
			roots = append(roots, c)
		}
	}
	return roots
}
