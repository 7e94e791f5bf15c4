// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache provides the content cache that sits between the page
// loaders and the WordPress backend. Values are stored as JSON under string
// keys, in memory or in Valkey, and the Loader layers request collapsing and
// static fallbacks on top.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry expiry. Implementations must be
// safe for concurrent use. Concurrent writes to one key are last-writer-wins.
type Cache interface {
	// Get returns the stored value, or ErrMiss when the key is absent or
	// expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value until ttl has elapsed.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by the cache.
	Clear(ctx context.Context) error

	// Close releases resources held by the cache.
	Close() error
}

// Error is a cache error constant.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrMiss reports a key that is absent or expired.
	ErrMiss Error = "cache miss"

	// ErrClosed reports use of a closed cache.
	ErrClosed Error = "cache closed"
)
