// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package leads

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the lead forwarders. Handlers map them to
// 400, 503 and 502 respectively.
var (
	ErrInvalid       = errors.New("invalid lead submission")
	ErrNotConfigured = errors.New("lead integration not configured")
	ErrUpstream      = errors.New("lead upstream failed")
)

// UpstreamError describes a failed call to a marketing endpoint.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
}

// Is lets errors.Is match UpstreamError against ErrUpstream.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
