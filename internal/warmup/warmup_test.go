// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package warmup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madarat/internal/cache"
	"madarat/internal/content"
	"madarat/internal/models"
	"madarat/internal/sitemap"
	"madarat/internal/testutil"
)

type memPublisher struct {
	mu      sync.Mutex
	objects map[string][]byte
	control map[string]string
	failPut bool
}

func newMemPublisher() *memPublisher {
	return &memPublisher{objects: map[string][]byte{}, control: map[string]string{}}
}

func (p *memPublisher) Put(_ context.Context, name, contentType, cacheControl string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failPut {
		return errors.New("bucket unavailable")
	}
	p.objects[name] = body
	p.control[name] = cacheControl
	return nil
}

func (p *memPublisher) List(context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.objects))
	for n := range p.objects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (p *memPublisher) Delete(_ context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.objects, name)
	return nil
}

type fixture struct {
	wp     *testutil.WordPress
	loader *cache.Loader
	pub    *memPublisher
	warmer *Warmer
}

func newFixture(t *testing.T, pub *memPublisher) *fixture {
	t.Helper()
	wp := testutil.NewWordPress(t)
	log := testutil.Logger()
	svc := content.New(wp.Client(), content.Options{Logger: log})
	loader := cache.NewLoader(cache.NewMemory(), time.Hour, log)
	gen := sitemap.New(svc, loader, "https://madaratalkon.sa", sitemap.WithChunkSize(2))

	opts := Options{Content: svc, Cache: loader, Sitemaps: gen, TTL: time.Hour, Logger: log}
	if pub != nil {
		opts.Publisher = pub
	}
	return &fixture{wp: wp, loader: loader, pub: pub, warmer: New(opts)}
}

func TestRun_RefreshesSharedKeys(t *testing.T) {
	f := newFixture(t, nil)
	f.wp.Posts = testutil.Posts(3)
	f.wp.Trips = append(f.wp.Trips, testutil.Trip(1, "georgia", 1, "3800"))

	report, ok := f.warmer.Run(context.Background())
	require.True(t, ok)
	assert.Empty(t, report.Failed)
	assert.Equal(t, []string{content.KeyPrimaryMenu}, report.Skipped)
	assert.Contains(t, report.Refreshed, content.KeyAllPosts)
	assert.Contains(t, report.Refreshed, content.KeyTrips)
	assert.Contains(t, report.Refreshed, content.KeySite)

	// Cached content is now served without touching the backend.
	before := f.wp.Requests()
	posts, err := cache.Fetch(context.Background(), f.loader, content.KeyAllPosts, 0, func(context.Context) ([]models.Post, error) {
		return nil, errors.New("should not be called")
	})
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.Equal(t, before, f.wp.Requests())

	last, ok := f.warmer.Last()
	require.True(t, ok)
	assert.Equal(t, report.Refreshed, last.Refreshed)
}

func TestRun_FailedRefreshKeepsPreviousEntry(t *testing.T) {
	f := newFixture(t, nil)
	f.wp.Posts = testutil.Posts(2)

	_, ok := f.warmer.Run(context.Background())
	require.True(t, ok)

	f.wp.Posts = testutil.Posts(5)
	f.wp.FailPaths["/wp/v2/posts"] = http.StatusServiceUnavailable
	report, ok := f.warmer.Run(context.Background())
	require.True(t, ok)
	assert.Contains(t, report.Failed, content.KeyAllPosts)
	assert.Contains(t, report.Failed, content.KeyRecentPosts)

	posts, err := cache.Fetch(context.Background(), f.loader, content.KeyAllPosts, 0, func(context.Context) ([]models.Post, error) {
		return nil, errors.New("should not be called")
	})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestRun_PublishesSitemaps(t *testing.T) {
	pub := newMemPublisher()
	pub.objects["sitemap-trips-3.xml"] = []byte("stale")
	pub.objects["robots.txt"] = []byte("keep")

	f := newFixture(t, pub)
	for i := 1; i <= 3; i++ {
		f.wp.Trips = append(f.wp.Trips, testutil.Trip(i, fmt.Sprintf("trip-%d", i), 1, "100"))
	}

	report, ok := f.warmer.Run(context.Background())
	require.True(t, ok)
	assert.Empty(t, report.Error)
	assert.Equal(t, []string{
		sitemap.NameIndex,
		sitemap.NameStatic,
		sitemap.NamePosts,
		sitemap.NameTrips,
		"sitemap-trips-2.xml",
		sitemap.NameDestinations,
	}, report.Published)
	assert.Equal(t, []string{"sitemap-trips-3.xml"}, report.Removed)

	assert.Contains(t, string(pub.objects[sitemap.NameTrips]), "https://madaratalkon.sa/trip/trip-1")
	assert.Equal(t, sitemap.IndexCacheControl, pub.control[sitemap.NameIndex])
	assert.Equal(t, sitemap.CacheControl, pub.control[sitemap.NamePosts])
	assert.Contains(t, pub.objects, "robots.txt")
	assert.NotContains(t, pub.objects, "sitemap-trips-3.xml")
}

func TestRun_BackendDownPublishesNothing(t *testing.T) {
	pub := newMemPublisher()
	f := newFixture(t, pub)
	f.wp.SetFail(http.StatusBadGateway)
	f.wp.FailGraphQL = true

	report, ok := f.warmer.Run(context.Background())
	require.True(t, ok)
	assert.NotEmpty(t, report.Failed)
	assert.NotEmpty(t, report.Error)
	assert.Empty(t, report.Published)
	assert.Empty(t, pub.objects)
}

func TestRun_PublishError(t *testing.T) {
	pub := newMemPublisher()
	pub.failPut = true
	f := newFixture(t, pub)

	report, ok := f.warmer.Run(context.Background())
	require.True(t, ok)
	assert.Contains(t, report.Error, "bucket unavailable")
}

func TestRun_SkipsWhenAlreadyRunning(t *testing.T) {
	f := newFixture(t, nil)
	f.warmer.running.Store(true)

	_, ok := f.warmer.Run(context.Background())
	assert.False(t, ok)
	_, ok = f.warmer.Last()
	assert.False(t, ok)
}

func TestStart_InvalidSchedule(t *testing.T) {
	f := newFixture(t, nil)
	assert.Error(t, f.warmer.Start("every now and then"))
}
