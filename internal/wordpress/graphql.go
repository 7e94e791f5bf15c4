// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// GraphQL posts a query to the WPGraphQL endpoint and decodes the "data"
// member into out. A response carrying "errors" is a MalformedResponseError.
func (c *Client) GraphQL(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.graphqlURL == "" {
		return &NetworkError{URL: "graphql", Err: errors.New("graphql endpoint not configured")}
	}

	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("graphql marshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{URL: c.graphqlURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &NetworkError{URL: c.graphqlURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BackendUnavailableError{URL: c.graphqlURL, Status: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}

	var result graphqlResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return &MalformedResponseError{URL: c.graphqlURL, Err: err}
	}
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			msgs = append(msgs, e.Message)
		}
		return &MalformedResponseError{URL: c.graphqlURL, Err: errors.New(strings.Join(msgs, "; "))}
	}
	if len(result.Data) == 0 || string(result.Data) == "null" {
		return &MalformedResponseError{URL: c.graphqlURL, Err: errors.New("empty data")}
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return &MalformedResponseError{URL: c.graphqlURL, Err: err}
	}
	return nil
}
