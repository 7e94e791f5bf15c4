// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package wordpress is the HTTP client for the WordPress backend. It speaks
// the REST API (/wp-json) and WPGraphQL, reports pagination totals from the
// X-WP-* headers, and classifies every failure into NetworkError,
// BackendUnavailableError or MalformedResponseError.
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxBodySize caps how much of a response body is read into memory.
const maxBodySize = 16 << 20

// maxErrorBody caps how much of an error body is kept on the error value.
const maxErrorBody = 512

// Options configures a Client.
type Options struct {
	BaseURL    string // REST root, e.g. https://example.com/wp-json
	GraphQLURL string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client // optional, mainly for tests
}

// Client talks to one WordPress installation. It is safe for concurrent use
// and is meant to be constructed once per process.
type Client struct {
	baseURL    string
	graphqlURL string
	userAgent  string
	timeout    time.Duration
	http       *http.Client
}

// Response is a successful REST response with its pagination totals.
type Response struct {
	Body       []byte
	StatusCode int
	Total      int // X-WP-Total, 0 when absent
	TotalPages int // X-WP-TotalPages, 0 when absent
}

// New creates a Client. A zero Timeout defaults to 10 seconds.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		graphqlURL: opts.GraphQLURL,
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		http:       hc,
	}
}

// BaseURL returns the REST root the client was configured with.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchAPI performs a GET against path (relative to the REST root, e.g.
// "/wp/v2/posts") with the given query parameters.
func (c *Client) FetchAPI(ctx context.Context, path string, params url.Values) (*Response, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("wordpress request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{URL: u, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &BackendUnavailableError{URL: u, Status: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}

	return &Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Total:      headerInt(resp.Header, "X-WP-Total"),
		TotalPages: headerInt(resp.Header, "X-WP-TotalPages"),
	}, nil
}

// Get fetches path and decodes the JSON body into out. The returned Response
// still carries the pagination totals.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) (*Response, error) {
	resp, err := c.FetchAPI(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return nil, &MalformedResponseError{URL: path, Err: err}
	}
	return resp, nil
}

func headerInt(h http.Header, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(key)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
