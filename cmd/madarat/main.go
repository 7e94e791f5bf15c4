// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the madarat public site server.
// It loads configuration, connects to the WordPress backend and the cache,
// sets up routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"madarat/internal/cache"
	"madarat/internal/config"
	"madarat/internal/content"
	"madarat/internal/geoip"
	"madarat/internal/handlers"
	"madarat/internal/leads"
	"madarat/internal/loaders"
	"madarat/internal/middleware"
	"madarat/internal/render"
	"madarat/internal/router"
	"madarat/internal/sitemap"
	"madarat/internal/storage"
	"madarat/internal/warmup"
	"madarat/internal/wordpress"
)

func main() {
	// A missing .env is fine; the environment may be set by the container.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	handlerOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logger *slog.Logger
	if cfg.IsDev() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	}
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.WPAPIURL,
	)

	// Shared cache: Valkey when configured, process memory otherwise.
	var store cache.Cache
	if cfg.UseValkey() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		store = cache.NewValkey(valkeyClient, "madarat:")
		slog.Info("valkey cache connected", "host", cfg.ValkeyHost)
	} else {
		mem := cache.NewMemory()
		mem.StartJanitor(time.Minute)
		defer mem.Close()
		store = mem
		slog.Info("using in-memory cache")
	}
	loader := cache.NewLoader(store, cfg.CacheTTL, logger)

	// WordPress backend and the content service on top of it.
	wp := wordpress.New(wordpress.Options{
		BaseURL:    cfg.WPAPIURL,
		GraphQLURL: cfg.WPGraphQLURL,
		UserAgent:  cfg.WPUserAgent,
		Timeout:    cfg.WPTimeout,
	})
	var localHosts []string
	if u, err := url.Parse(cfg.SiteURL); err == nil && u.Host != "" {
		localHosts = append(localHosts, u.Host)
	}
	svc := content.New(wp, content.Options{
		PageSize:   cfg.PostsPerPage,
		LocalHosts: localHosts,
		Logger:     logger,
	})

	renderer, err := render.New(cfg.IsDev(), cfg.SiteURL, logger)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	sitemaps := sitemap.New(svc, loader, cfg.SiteURL,
		sitemap.WithChunkSize(cfg.SitemapChunkSize),
		sitemap.WithTTL(cfg.CacheTTL),
	)

	// GeoIP database (optional).
	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, leads will not carry a country", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer geo.Close()

	// Lead integrations. Unconfigured ones answer 503.
	zapier := leads.NewZapier(cfg.ZapierWebhookURL, nil, logger)
	conversions := leads.NewConversions(leads.ConversionsConfig{
		GraphURL:      cfg.FBGraphURL,
		APIVersion:    cfg.FBAPIVersion,
		PixelID:       cfg.FBPixelID,
		AccessToken:   cfg.FBAccessToken,
		TestEventCode: cfg.FBTestEventCode,
		TestMode:      cfg.IsDev(),
	}, nil, logger)
	if !cfg.ZapierEnabled() {
		slog.Warn("zapier webhook not configured, lead forms disabled")
	}
	if !cfg.ConversionsEnabled() {
		slog.Warn("facebook conversions api not configured, offline conversions disabled")
	}

	// S3-compatible storage for published sitemaps (optional).
	storageClient, err := storage.New(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
		Prefix:    "sitemaps",
	})
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}

	warmOpts := warmup.Options{
		Content:  svc,
		Cache:    loader,
		Sitemaps: sitemaps,
		GeoIP:    geo,
		TTL:      cfg.CacheTTL,
		Logger:   logger,
	}
	if storageClient != nil {
		warmOpts.Publisher = storageClient
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
			"sitemap_index", storageClient.FileURL("sitemap-index.xml"),
		)
	} else {
		slog.Warn("s3 storage not configured, sitemaps are served but not published")
	}
	warmer := warmup.New(warmOpts)
	if err := warmer.Start(cfg.WarmupSchedule); err != nil {
		slog.Error("failed to schedule cache warm-up", "schedule", cfg.WarmupSchedule, "error", err)
		os.Exit(1)
	}
	defer warmer.Stop()

	limiter := middleware.NewRateLimiter(cfg.LeadRateLimit, cfg.LeadRateBurst)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Handlers{
		Public:   handlers.NewPublic(loaders.New(svc, loader, cfg.CacheTTL, logger), renderer, logger),
		API:      handlers.NewAPI(svc, loader, cfg.CacheTTL, logger),
		Leads:    handlers.NewLeads(zapier, conversions, geo, logger),
		Sitemaps: handlers.NewSitemaps(sitemaps, logger),
		Health:   handlers.NewHealth(svc, loader, warmer, cfg.Env),
	}, router.Options{
		Secure:      !cfg.IsDev(),
		LeadLimiter: limiter,
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
