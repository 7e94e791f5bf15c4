// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wordpress

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawPost is a post as delivered by either API. The set of implementations
// is closed: RESTPost and GraphQLPost, by value or pointer.
type RawPost interface{ rawPost() }

// RawTrip is a trip as delivered by either API: RESTTrip or GraphQLTrip.
type RawTrip interface{ rawTrip() }

// RawCategory is a category as delivered by either API: RESTTerm or
// GraphQLCategory.
type RawCategory interface{ rawCategory() }

func (RESTPost) rawPost()            {}
func (GraphQLPost) rawPost()         {}
func (RESTTrip) rawTrip()            {}
func (GraphQLTrip) rawTrip()         {}
func (RESTTerm) rawCategory()        {}
func (GraphQLCategory) rawCategory() {}

// Rendered is a {"rendered": "..."} field. Some endpoints (and _fields
// projections) return the bare string instead, which is accepted too.
type Rendered struct {
	Rendered string `json:"rendered"`
}

func (r *Rendered) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.Rendered)
	}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	type plain Rendered
	return json.Unmarshal(data, (*plain)(r))
}

// Flex is a scalar that the backend sends as a string, a number or not at
// all. ACF fields are notorious for this.
type Flex string

func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flex(strings.TrimSpace(s))
	case data[0] == '{' || data[0] == '[':
		*f = ""
	default:
		*f = Flex(data)
	}
	return nil
}

// Float parses the value, returning 0 when it is not numeric.
func (f Flex) Float() float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(string(f), ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// Int parses the value, returning 0 when it is not an integer.
func (f Flex) Int() int {
	v, err := strconv.Atoi(string(f))
	if err != nil {
		return int(f.Float())
	}
	return v
}

// --- REST shapes ---

// RESTPost is an item of /wp/v2/posts (with _embed).
type RESTPost struct {
	ID            int        `json:"id"`
	Date          string     `json:"date"`
	DateGMT       string     `json:"date_gmt"`
	Modified      string     `json:"modified"`
	ModifiedGMT   string     `json:"modified_gmt"`
	Slug          string     `json:"slug"`
	Status        string     `json:"status"`
	Link          string     `json:"link"`
	Title         Rendered   `json:"title"`
	Content       Rendered   `json:"content"`
	Excerpt       Rendered   `json:"excerpt"`
	Author        int        `json:"author"`
	FeaturedMedia int        `json:"featured_media"`
	Sticky        bool       `json:"sticky"`
	Categories    []int      `json:"categories"`
	Yoast         *YoastHead `json:"yoast_head_json,omitempty"`
	Embedded      *Embedded  `json:"_embedded,omitempty"`
}

// YoastHead is the subset of yoast_head_json used for social metadata.
type YoastHead struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	OGTitle       string `json:"og_title"`
	OGDescription string `json:"og_description"`
	OGImage       []struct {
		URL string `json:"url"`
	} `json:"og_image"`
}

// Embedded holds the resources inlined by ?_embed.
type Embedded struct {
	Author        []RESTUser   `json:"author"`
	FeaturedMedia []RESTMedia  `json:"wp:featuredmedia"`
	Terms         [][]RESTTerm `json:"wp:term"`
}

// RESTUser is an item of /wp/v2/users or an embedded author.
type RESTUser struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Link        string            `json:"link"`
	AvatarURLs  map[string]string `json:"avatar_urls"`
}

// RESTMedia is an embedded attachment or a destination thumbnail.
type RESTMedia struct {
	ID           int           `json:"id"`
	SourceURL    string        `json:"source_url"`
	AltText      string        `json:"alt_text"`
	MediaDetails *MediaDetails `json:"media_details,omitempty"`
	// Sizes is populated on destination thumbnails, which inline the size
	// map at the top level rather than under media_details.
	Sizes map[string]MediaSize `json:"sizes,omitempty"`
}

// MediaDetails describes an attachment's dimensions and generated sizes.
type MediaDetails struct {
	Width  int                  `json:"width"`
	Height int                  `json:"height"`
	Sizes  map[string]MediaSize `json:"sizes"`
}

// MediaSize is one generated image size.
type MediaSize struct {
	SourceURL string `json:"source_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// RESTTerm is an item of a taxonomy endpoint (categories, destination) or
// an embedded wp:term entry.
type RESTTerm struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Taxonomy    string     `json:"taxonomy"`
	Description string     `json:"description"`
	Parent      int        `json:"parent"`
	Count       int        `json:"count"`
	Link        string     `json:"link"`
	Thumbnail   *RESTMedia `json:"thumbnail,omitempty"`
}

// RESTTrip is an item of /wp/v2/trip.
type RESTTrip struct {
	ID            int       `json:"id"`
	Date          string    `json:"date"`
	Modified      string    `json:"modified"`
	Slug          string    `json:"slug"`
	Status        string    `json:"status"`
	Link          string    `json:"link"`
	Title         Rendered  `json:"title"`
	Content       Rendered  `json:"content"`
	Excerpt       Rendered  `json:"excerpt"`
	FeaturedMedia int       `json:"featured_media"`
	Sticky        bool      `json:"sticky"`
	Destination   []int     `json:"destination"`
	ACF           TripACF   `json:"acf"`
	Embedded      *Embedded `json:"_embedded,omitempty"`
}

// TripACF is the custom-field block of a trip.
type TripACF struct {
	Price       TripPrice    `json:"price"`
	Duration    TripDuration `json:"duration"`
	Location    Flex         `json:"location"`
	Rating      Flex         `json:"rating"`
	RatingCount Flex         `json:"rating_count"`
	Featured    bool         `json:"is_featured"`
}

// UnmarshalJSON tolerates the empty array ACF returns when no field is set.
func (a *TripACF) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*a = TripACF{}
		return nil
	}
	type plain TripACF
	return json.Unmarshal(data, (*plain)(a))
}

// TripPrice is either {"amount": .., "currency": ..} or a bare number.
type TripPrice struct {
	Amount   Flex `json:"amount"`
	Currency Flex `json:"currency"`
}

func (p *TripPrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain TripPrice
		return json.Unmarshal(data, (*plain)(p))
	}
	*p = TripPrice{}
	return p.Amount.UnmarshalJSON(data)
}

// TripDuration is either {"days": .., "nights": ..} or a bare value such as
// "5 Days".
type TripDuration struct {
	Days   Flex `json:"days"`
	Nights Flex `json:"nights"`
	Type   Flex `json:"duration_type"`
	Text   Flex `json:"-"`
}

func (d *TripDuration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		type plain TripDuration
		return json.Unmarshal(data, (*plain)(d))
	}
	*d = TripDuration{}
	return d.Text.UnmarshalJSON(data)
}

// RESTPage is an item of /wp/v2/pages.
type RESTPage struct {
	ID            int       `json:"id"`
	Date          string    `json:"date"`
	Modified      string    `json:"modified"`
	Slug          string    `json:"slug"`
	Link          string    `json:"link"`
	Title         Rendered  `json:"title"`
	Content       Rendered  `json:"content"`
	Excerpt       Rendered  `json:"excerpt"`
	Parent        int       `json:"parent"`
	MenuOrder     int       `json:"menu_order"`
	FeaturedMedia int       `json:"featured_media"`
	Embedded      *Embedded `json:"_embedded,omitempty"`
}

// RESTMenu is an item of /wp-api-menus/v2/menus, optionally with items.
type RESTMenu struct {
	ID          int            `json:"ID"`
	TermID      int            `json:"term_id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Locations   []string       `json:"locations"`
	Items       []RESTMenuItem `json:"items"`
}

// RESTMenuItem is one entry of a menu. Children are nested by the plugin.
type RESTMenuItem struct {
	ID       int            `json:"id"`
	Parent   int            `json:"parent"`
	Order    int            `json:"order"`
	Title    string         `json:"title"`
	URL      string         `json:"url"`
	Target   string         `json:"target"`
	Children []RESTMenuItem `json:"children"`
}

// RESTSite is the subset of the /wp-json index describing the site.
type RESTSite struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Home        string `json:"home"`
	Language    string `json:"language"`
}

// --- GraphQL shapes ---

// GraphQLMedia is a featuredImage node.
type GraphQLMedia struct {
	SourceURL    string `json:"sourceUrl"`
	AltText      string `json:"altText"`
	MediaDetails *struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"mediaDetails,omitempty"`
}

// GraphQLMediaEdge wraps a media node.
type GraphQLMediaEdge struct {
	Node *GraphQLMedia `json:"node"`
}

// GraphQLAuthor is a post author node.
type GraphQLAuthor struct {
	DatabaseID int    `json:"databaseId"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Avatar     *struct {
		URL string `json:"url"`
	} `json:"avatar,omitempty"`
}

// GraphQLCategory is a category node.
type GraphQLCategory struct {
	DatabaseID       int    `json:"databaseId"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	ParentDatabaseID int    `json:"parentDatabaseId"`
	Count            int    `json:"count"`
}

// GraphQLSEO is the Yoast block exposed through WPGraphQL.
type GraphQLSEO struct {
	Title                string        `json:"title"`
	MetaDesc             string        `json:"metaDesc"`
	OpengraphTitle       string        `json:"opengraphTitle"`
	OpengraphDescription string        `json:"opengraphDescription"`
	OpengraphImage       *GraphQLMedia `json:"opengraphImage,omitempty"`
}

// GraphQLPost is a post node.
type GraphQLPost struct {
	DatabaseID int    `json:"databaseId"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Date       string `json:"date"`
	Modified   string `json:"modified"`
	Excerpt    string `json:"excerpt"`
	Content    string `json:"content"`
	IsSticky   bool   `json:"isSticky"`
	Author     *struct {
		Node *GraphQLAuthor `json:"node"`
	} `json:"author,omitempty"`
	Categories *struct {
		Edges []struct {
			Node GraphQLCategory `json:"node"`
		} `json:"edges"`
	} `json:"categories,omitempty"`
	FeaturedImage *GraphQLMediaEdge `json:"featuredImage,omitempty"`
	SEO           *GraphQLSEO       `json:"seo,omitempty"`
}

// GraphQLTripDetails is the tripDetails field group.
type GraphQLTripDetails struct {
	Price       Flex           `json:"price"`
	Duration    Flex           `json:"duration"`
	Destination Flex           `json:"destination"`
	Includes    Flex           `json:"includes"`
	Excludes    Flex           `json:"excludes"`
	Itinerary   Flex           `json:"itinerary"`
	Gallery     []GraphQLMedia `json:"gallery"`
}

// GraphQLTrip is a trip node.
type GraphQLTrip struct {
	DatabaseID    int                 `json:"databaseId"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Date          string              `json:"date"`
	Modified      string              `json:"modified"`
	Excerpt       string              `json:"excerpt"`
	Content       string              `json:"content"`
	FeaturedImage *GraphQLMediaEdge   `json:"featuredImage,omitempty"`
	TripDetails   *GraphQLTripDetails `json:"tripDetails,omitempty"`
	SEO           *GraphQLSEO         `json:"seo,omitempty"`
}

// PageInfo is a relay connection cursor.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// TripConnection is the result of the trips query.
type TripConnection struct {
	Trips struct {
		Edges []struct {
			Node GraphQLTrip `json:"node"`
		} `json:"edges"`
		PageInfo PageInfo `json:"pageInfo"`
	} `json:"trips"`
}

// TripBySlug is the result of the tripBy query.
type TripBySlug struct {
	TripBy *GraphQLTrip `json:"tripBy"`
}
