// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultMaxEntries bounds the in-memory cache.
const DefaultMaxEntries = 10000

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
	index     int
}

// expiryHeap orders entries by expiry, soonest first.
type expiryHeap []*memoryEntry

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].expiresAt.Before(h[j].expiresAt) }
func (h expiryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *expiryHeap) Push(x any) {
	e := x.(*memoryEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *expiryHeap) Pop() any {
	old := *h
	e := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return e
}

// MemoryCache is an in-process Cache. An entry stored at t with ttl d is
// served while now < t+d. When full, the entry closest to expiry is
// evicted in logarithmic time.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]*memoryEntry
	expiry     expiryHeap
	now        func() time.Time
	maxEntries int
	closed     bool
	stop       chan struct{}
	stopOnce   sync.Once
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

// WithMaxEntries bounds the number of stored entries.
func WithMaxEntries(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// NewMemory creates an empty MemoryCache.
func NewMemory(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		entries:    make(map[string]*memoryEntry),
		now:        time.Now,
		maxEntries: DefaultMaxEntries,
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if it has not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, ErrMiss
	}
	return e.value, nil
}

// Set stores value for ttl. A non-positive ttl stores nothing.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	now := c.now()
	expiresAt := now.Add(ttl)
	if e, ok := c.entries[key]; ok {
		e.value, e.expiresAt = value, expiresAt
		heap.Fix(&c.expiry, e.index)
		return nil
	}
	if len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	e := &memoryEntry{key: key, value: value, expiresAt: expiresAt}
	heap.Push(&c.expiry, e)
	c.entries[key] = e
	return nil
}

// evictLocked drops the entry closest to expiry, which is an expired one
// whenever any has expired.
func (c *MemoryCache) evictLocked() {
	if c.expiry.Len() == 0 {
		return
	}
	e := heap.Pop(&c.expiry).(*memoryEntry)
	delete(c.entries, e.key)
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		heap.Remove(&c.expiry, e.index)
		delete(c.entries, key)
	}
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*memoryEntry)
	c.expiry = nil
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries and returns how many were dropped.
func (c *MemoryCache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for c.expiry.Len() > 0 && !now.Before(c.expiry[0].expiresAt) {
		e := heap.Pop(&c.expiry).(*memoryEntry)
		delete(c.entries, e.key)
		removed++
	}
	return removed
}

// StartJanitor runs Cleanup every interval until Close is called.
func (c *MemoryCache) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := c.Cleanup(); n > 0 {
					slog.Debug("memory cache cleanup", "removed", n)
				}
			case <-c.stop:
				return
			}
		}
	}()
}

// Close stops the janitor and rejects further use.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.entries = nil
	c.expiry = nil
	return nil
}
