// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package paginate slices ordered collections into pages and describes the
// result with a Cursor. It never fails: out-of-range requests are clamped.
package paginate

import (
	"fmt"
	"strings"
)

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 20

// Cursor describes one page of a collection. CurrentPage is always within
// [1, PagesCount], or 1 when the collection is empty.
type Cursor struct {
	CurrentPage int    `json:"currentPage"`
	PagesCount  int    `json:"pagesCount"`
	PostsCount  int    `json:"postsCount"`
	PageSize    int    `json:"pageSize"`
	BasePath    string `json:"basePath"`
	// OutOfRange is set when the requested page was past the last page.
	OutOfRange bool `json:"outOfRange,omitempty"`
}

// Page is a slice of items together with its cursor.
type Page[T any] struct {
	Items  []T    `json:"items"`
	Cursor Cursor `json:"pagination"`
}

// PagesCount returns ceil(total/pageSize), or 0 for an empty collection.
func PagesCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns page pageNumber (1-based) of all. A page number below 1
// is treated as 1. A page number past the last page yields no items and a
// cursor pointing at the last page.
func Paginate[T any](all []T, pageSize, pageNumber int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(all)
	cur := newCursor(total, pageSize, pageNumber)

	if cur.OutOfRange || total == 0 {
		return Page[T]{Items: []T{}, Cursor: cur}
	}

	start := (cur.CurrentPage - 1) * pageSize
	end := min(start+pageSize, total)
	items := make([]T, end-start)
	copy(items, all[start:end])
	return Page[T]{Items: items, Cursor: cur}
}

// FromTotals builds a page for a collection that was paginated upstream,
// using the totals the backend reported. items is the requested page as
// delivered.
func FromTotals[T any](items []T, total, totalPages, pageSize, pageNumber int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	cur := newCursor(total, pageSize, pageNumber)
	if totalPages > 0 {
		cur.PagesCount = totalPages
		cur.OutOfRange = pageNumber > totalPages
		cur.CurrentPage = clamp(pageNumber, 1, totalPages)
	}
	if cur.OutOfRange || items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Cursor: cur}
}

func newCursor(total, pageSize, pageNumber int) Cursor {
	pages := PagesCount(total, pageSize)
	cur := Cursor{
		PagesCount: pages,
		PostsCount: total,
		PageSize:   pageSize,
	}
	if pages == 0 {
		cur.CurrentPage = 1
		cur.OutOfRange = pageNumber > 1
		return cur
	}
	cur.OutOfRange = pageNumber > pages
	cur.CurrentPage = clamp(pageNumber, 1, pages)
	return cur
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Chunk splits all into consecutive slices of at most size items.
func Chunk[T any](all []T, size int) [][]T {
	if size <= 0 {
		size = DefaultPageSize
	}
	chunks := make([][]T, 0, PagesCount(len(all), size))
	for start := 0; start < len(all); start += size {
		chunks = append(chunks, all[start:min(start+size, len(all))])
	}
	return chunks
}

// WithBasePath returns a copy of the cursor with BasePath set.
func (c Cursor) WithBasePath(path string) Cursor {
	c.BasePath = strings.TrimRight(path, "/")
	return c
}

// HasPrev reports whether a previous page exists.
func (c Cursor) HasPrev() bool { return c.CurrentPage > 1 }

// HasNext reports whether a next page exists.
func (c Cursor) HasNext() bool { return c.CurrentPage < c.PagesCount }

// PrevPage returns the previous page number, never below 1.
func (c Cursor) PrevPage() int { return max(1, c.CurrentPage-1) }

// NextPage returns the next page number, never past the last page.
func (c Cursor) NextPage() int { return max(1, min(c.CurrentPage+1, c.PagesCount)) }

// PageURL returns the path of page n. Page 1 lives at the base path, later
// pages under /page/{n}.
func (c Cursor) PageURL(n int) string {
	base := c.BasePath
	if n <= 1 {
		if base == "" {
			return "/"
		}
		return base
	}
	return fmt.Sprintf("%s/page/%d", base, n)
}

// Link is one entry of a pagination bar. Ellipsis entries carry no number.
type Link struct {
	Number     int    `json:"number,omitempty"`
	URL        string `json:"url,omitempty"`
	IsCurrent  bool   `json:"isCurrent,omitempty"`
	IsEllipsis bool   `json:"isEllipsis,omitempty"`
}

// Links returns a pagination bar showing up to five pages around the
// current one, with the first and last page and ellipses where pages are
// skipped.
func (c Cursor) Links() []Link {
	if c.PagesCount <= 1 {
		return nil
	}

	start, end := c.CurrentPage-2, c.CurrentPage+2
	if start < 1 {
		start, end = 1, 5
	}
	if end > c.PagesCount {
		end = c.PagesCount
		start = max(1, end-4)
	}

	var links []Link
	if start > 1 {
		links = append(links, Link{Number: 1, URL: c.PageURL(1)})
		if start > 2 {
			links = append(links, Link{IsEllipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		links = append(links, Link{Number: i, URL: c.PageURL(i), IsCurrent: i == c.CurrentPage})
	}
	if end < c.PagesCount {
		if end < c.PagesCount-1 {
			links = append(links, Link{IsEllipsis: true})
		}
		links = append(links, Link{Number: c.PagesCount, URL: c.PageURL(c.PagesCount)})
	}
	return links
}
