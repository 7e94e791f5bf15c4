// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package wordpress

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrNetwork            = errors.New("wordpress: network failure")
	ErrBackendUnavailable = errors.New("wordpress: backend unavailable")
	ErrMalformedResponse  = errors.New("wordpress: malformed response")
)

// NetworkError wraps a transport failure or timeout.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("wordpress network error for %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports ErrNetwork as a match.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// BackendUnavailableError reports a non-2xx response from the backend.
type BackendUnavailableError struct {
	URL    string
	Status int
	Body   string
}

func (e *BackendUnavailableError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("wordpress API error (status %d) for %s", e.Status, e.URL)
	}
	return fmt.Sprintf("wordpress API error (status %d) for %s: %s", e.Status, e.URL, e.Body)
}

func (e *BackendUnavailableError) Is(target error) bool { return target == ErrBackendUnavailable }

// MalformedResponseError reports a body that could not be decoded into the
// expected shape, or a GraphQL response carrying errors.
type MalformedResponseError struct {
	URL string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("wordpress malformed response from %s: %v", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var be *BackendUnavailableError
	return errors.As(err, &be) && be.Status == 404
}
