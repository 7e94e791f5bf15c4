// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package warmup periodically refreshes the shared content cache, publishes
// the rendered sitemaps to object storage and reloads the GeoIP database.
package warmup

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"madarat/internal/cache"
	"madarat/internal/content"
	"madarat/internal/geoip"
	"madarat/internal/models"
	"madarat/internal/sitemap"
)

const (
	refreshConcurrency = 4
	runTimeout         = 2 * time.Minute
)

// Publisher stores rendered sitemaps, e.g. an S3 bucket.
type Publisher interface {
	Put(ctx context.Context, name, contentType, cacheControl string, body []byte) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// Report summarizes one warm-up run.
type Report struct {
	StartedAt time.Time `json:"startedAt"`
	Duration  string    `json:"duration"`
	Refreshed []string  `json:"refreshed"`
	Skipped   []string  `json:"skipped,omitempty"`
	Failed    []string  `json:"failed,omitempty"`
	Published []string  `json:"published,omitempty"`
	Removed   []string  `json:"removed,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Options configures a Warmer. Publisher and GeoIP are optional.
type Options struct {
	Content   *content.Service
	Cache     *cache.Loader
	Sitemaps  *sitemap.Generator
	Publisher Publisher
	GeoIP     *geoip.Resolver
	TTL       time.Duration
	Logger    *slog.Logger
}

// Warmer runs the warm-up job on a cron schedule.
type Warmer struct {
	content   *content.Service
	cache     *cache.Loader
	sitemaps  *sitemap.Generator
	publisher Publisher
	geo       *geoip.Resolver
	ttl       time.Duration
	log       *slog.Logger
	cron      *cron.Cron
	now       func() time.Time

	running atomic.Bool
	mu      sync.RWMutex
	last    *Report
}

// New creates a Warmer. It does nothing until Start or Run is called.
func New(opts Options) *Warmer {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Warmer{
		content:   opts.Content,
		cache:     opts.Cache,
		sitemaps:  opts.Sitemaps,
		publisher: opts.Publisher,
		geo:       opts.GeoIP,
		ttl:       opts.TTL,
		log:       log,
		cron:      cron.New(),
		now:       time.Now,
	}
}

// Start schedules the job and runs it once in the background.
func (w *Warmer) Start(schedule string) error {
	if _, err := w.cron.AddFunc(schedule, w.runScheduled); err != nil {
		return err
	}
	w.cron.Start()
	w.log.Info("warmup scheduler started", "schedule", schedule)
	go w.runScheduled()
	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (w *Warmer) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.log.Info("warmup scheduler stopped")
}

func (w *Warmer) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, ok := w.Run(ctx); !ok {
		w.log.Debug("warmup already running, skipped")
	}
}

// Last returns the report of the most recent completed run.
func (w *Warmer) Last() (Report, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.last == nil {
		return Report{}, false
	}
	return *w.last, true
}

// Run performs one warm-up pass. It reports false without doing anything
// when another pass is in progress.
func (w *Warmer) Run(ctx context.Context) (Report, bool) {
	if !w.running.CompareAndSwap(false, true) {
		return Report{}, false
	}
	defer w.running.Store(false)

	start := w.now()
	report := Report{StartedAt: start.UTC()}

	w.refresh(ctx, &report)

	if w.publisher != nil && w.sitemaps != nil {
		if err := w.publish(ctx, &report); err != nil {
			report.Error = err.Error()
			w.log.Error("sitemap publishing failed", "error", err)
		}
	}

	if w.geo != nil {
		if err := w.geo.Reload(); err != nil {
			w.log.Warn("geoip reload failed", "error", err)
		}
	}

	report.Duration = w.now().Sub(start).Round(time.Millisecond).String()
	w.log.Info("warmup finished",
		"refreshed", len(report.Refreshed),
		"failed", len(report.Failed),
		"published", len(report.Published),
		"duration", report.Duration,
	)

	w.mu.Lock()
	w.last = &report
	w.mu.Unlock()
	return report, true
}

type task struct {
	key string
	run func(context.Context) error
}

func refresh[T any](w *Warmer, key string, produce func(context.Context) (T, error)) task {
	return task{key: key, run: func(ctx context.Context) error {
		_, err := cache.Refresh(ctx, w.cache, key, w.ttl, produce)
		return err
	}}
}

func (w *Warmer) tasks() []task {
	return []task{
		refresh(w, content.KeySite, w.content.SiteMetadata),
		refresh(w, content.KeyPrimaryMenu, w.content.PrimaryMenu),
		refresh(w, content.KeyAllPosts, func(ctx context.Context) ([]models.Post, error) {
			return w.content.AllPosts(ctx, content.PostQuery{})
		}),
		refresh(w, content.KeyRecentPosts, func(ctx context.Context) ([]models.Post, error) {
			return w.content.RecentPosts(ctx, content.RecentPostsCount)
		}),
		refresh(w, content.KeyCategories, w.content.Categories),
		refresh(w, content.KeyTrips, w.content.Trips),
		refresh(w, content.KeyDestinations, w.content.Destinations),
		refresh(w, content.KeyPages, w.content.Pages),
	}
}

// refresh re-fetches every shared key. A failed key keeps its previous
// entry; the pass continues with the rest.
func (w *Warmer) refresh(ctx context.Context, report *Report) {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, t := range w.tasks() {
		g.Go(func() error {
			err := t.run(gctx)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				report.Refreshed = append(report.Refreshed, t.key)
			case errors.Is(err, content.ErrNotFound):
				report.Skipped = append(report.Skipped, t.key)
			default:
				report.Failed = append(report.Failed, t.key)
				w.log.Warn("cache refresh failed", "key", t.key, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	slices.Sort(report.Refreshed)
	slices.Sort(report.Skipped)
	slices.Sort(report.Failed)
}

// publish uploads every sitemap and removes trip chunks that no longer
// exist. Nothing is uploaded when any sitemap fails to render.
func (w *Warmer) publish(ctx context.Context, report *Report) error {
	names, err := w.sitemaps.Names(ctx)
	if err != nil {
		return err
	}

	bodies := make(map[string][]byte, len(names))
	for _, name := range names {
		body, err := w.sitemaps.Render(ctx, name)
		if err != nil {
			return err
		}
		bodies[name] = body
	}

	for _, name := range names {
		if err := w.publisher.Put(ctx, name, sitemap.ContentType, sitemap.CacheControlFor(name), bodies[name]); err != nil {
			return err
		}
		report.Published = append(report.Published, name)
	}

	existing, err := w.publisher.List(ctx)
	if err != nil {
		return err
	}
	for _, name := range existing {
		if _, ok := bodies[name]; ok || !sitemap.IsTripChunk(name) {
			continue
		}
		if err := w.publisher.Delete(ctx, name); err != nil {
			return err
		}
		report.Removed = append(report.Removed, name)
	}
	return nil
}
