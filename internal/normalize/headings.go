// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package normalize

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"madarat/internal/models"
	"madarat/internal/slug"
)

// Article is post content prepared for display: headings carry ids and
// links into the backend are rewritten to on-site paths.
type Article struct {
	HTML     string
	Headings []models.Heading
}

// PrepareContent parses rendered content, assigns an id to every heading
// that lacks one, collects the table of contents and rewrites anchors that
// point at backendHost. Backend links with a fragment target a section of
// the article itself and become bare fragments. Content that fails to parse is returned
// unchanged with no headings.
func PrepareContent(content, backendHost string) Article {
	if strings.TrimSpace(content) == "" {
		return Article{HTML: content, Headings: []models.Heading{}}
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return Article{HTML: content, Headings: []models.Heading{}}
	}

	headings := []models.Heading{}
	seen := map[string]int{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.DataAtom); level > 0 {
				text := strings.Join(strings.Fields(nodeText(n)), " ")
				id := attr(n, "id")
				if id == "" {
					id = uniqueID(slug.Anchor(text), seen)
					if id != "" {
						setAttr(n, "id", id)
					}
				}
				headings = append(headings, models.Heading{ID: id, Text: text, Level: level})
			}
			if n.DataAtom == atom.A && backendHost != "" {
				if href := attr(n, "href"); href != "" {
					setAttr(n, "href", rewriteHref(href, backendHost))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		walk(n)
		if err := html.Render(&buf, n); err != nil {
			return Article{HTML: content, Headings: []models.Heading{}}
		}
	}
	return Article{HTML: buf.String(), Headings: headings}
}

// Headings returns the table of contents of rendered content.
func Headings(content string) []models.Heading {
	return PrepareContent(content, "").Headings
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// uniqueID suffixes repeated ids with _2, _3, ...
func uniqueID(id string, seen map[string]int) string {
	if id == "" {
		return ""
	}
	seen[id]++
	if n := seen[id]; n > 1 {
		return id + "_" + strconv.Itoa(n)
	}
	return id
}

func rewriteHref(href, backendHost string) string {
	u, err := url.Parse(href)
	if err != nil || !strings.EqualFold(u.Host, backendHost) {
		return href
	}
	if u.Fragment != "" {
		return "#" + u.Fragment
	}
	local := *u
	local.Scheme, local.Host, local.User = "", "", nil
	if local.Path == "" {
		local.Path = "/"
	}
	return local.String()
}
