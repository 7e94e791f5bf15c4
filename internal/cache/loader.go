// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// NoStore as a ttl makes Fetch call the producer without reading or
// writing the cache.
const NoStore time.Duration = -1

// Loader wraps a Cache with typed, collapsing reads. Concurrent misses on
// the same key share a single producer call.
type Loader struct {
	cache      Cache
	defaultTTL time.Duration
	group      singleflight.Group
	log        *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	fallbacks atomic.Int64
}

// Stats is a snapshot of Loader counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Fallbacks int64 `json:"fallbacks"`
}

// NewLoader creates a Loader. A zero defaultTTL means five minutes.
func NewLoader(c Cache, defaultTTL time.Duration, log *slog.Logger) *Loader {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{cache: c, defaultTTL: defaultTTL, log: log}
}

// Cache returns the underlying store.
func (l *Loader) Cache() Cache { return l.cache }

// Stats returns the current counters.
func (l *Loader) Stats() Stats {
	return Stats{Hits: l.hits.Load(), Misses: l.misses.Load(), Fallbacks: l.fallbacks.Load()}
}

// Invalidate removes key so the next read calls the producer.
func (l *Loader) Invalidate(ctx context.Context, key string) error {
	return l.cache.Delete(ctx, key)
}

// Fetch returns the cached value for key, or calls produce, stores a
// successful result for ttl and returns it. Producer errors are returned
// and never cached. A zero ttl uses the Loader default; NoStore bypasses
// the cache.
func Fetch[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	if ttl == NoStore {
		return produce(ctx)
	}
	if ttl <= 0 {
		ttl = l.defaultTTL
	}

	if v, ok := lookup[T](ctx, l, key); ok {
		l.hits.Add(1)
		return v, nil
	}
	l.misses.Add(1)

	// The shared call must outlive any single caller's cancellation; the
	// backend client enforces its own timeout.
	shared := context.WithoutCancel(ctx)
	res, err, _ := l.group.Do(key, func() (any, error) {
		v, err := produce(shared)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			l.log.Warn("cache encode error", "key", key, "error", err)
			return v, nil
		}
		if err := l.cache.Set(shared, key, data, ttl); err != nil {
			l.log.Warn("cache set error", "key", key, "error", err)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// WithCache is Fetch with a static fallback: when the producer fails the
// error is logged and fallback is returned instead. The fallback is not
// cached, so the next request tries the backend again.
func WithCache[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, produce func(context.Context) (T, error), fallback T) T {
	v, err := Fetch(ctx, l, key, ttl, produce)
	if err != nil {
		l.fallbacks.Add(1)
		l.log.Warn("content fetch failed, serving fallback", "key", key, "error", err)
		return fallback
	}
	return v
}

// Refresh calls produce and overwrites key with its result regardless of
// what is cached. The warm-up job uses it to renew entries before they expire.
func Refresh[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	if ttl <= 0 {
		ttl = l.defaultTTL
	}
	v, err := produce(ctx)
	if err != nil {
		return v, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := l.cache.Set(ctx, key, data, ttl); err != nil {
		return v, fmt.Errorf("cache set %s: %w", key, err)
	}
	return v, nil
}

func lookup[T any](ctx context.Context, l *Loader, key string) (T, bool) {
	var v T
	data, err := l.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			l.log.Warn("cache get error", "key", key, "error", err)
		}
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		l.log.Warn("cache decode error", "key", key, "error", err)
		var zero T
		return zero, false
	}
	l.log.Debug("cache hit", "key", key)
	return v, true
}
