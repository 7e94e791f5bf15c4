// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultUserAgent identifies the site to the WordPress backend.
const DefaultUserAgent = "Mozilla/5.0 (compatible; MadaratBot/1.0; +https://madaratalkon.com)"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port     string `env:"APP_PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Public site
	SiteURL  string `env:"SITE_URL" envDefault:"https://madaratalkon.sa"`
	SiteName string `env:"SITE_NAME" envDefault:"مدارات الكون"`

	// WordPress backend
	WPAPIURL     string        `env:"WP_API_URL" envDefault:"https://en4ha1dlwxxhwad.madaratalkon.com/wp-json"`
	WPGraphQLURL string        `env:"WP_GRAPHQL_URL" envDefault:"https://en4ha1dlwxxhwad.madaratalkon.com/graphql"`
	WPUserAgent  string        `env:"WP_USER_AGENT" envDefault:"Mozilla/5.0 (compatible; MadaratBot/1.0; +https://madaratalkon.com)"`
	WPTimeout    time.Duration `env:"WP_TIMEOUT" envDefault:"10s"`

	// Content caching and paging
	CacheTTL         time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	PostsPerPage     int           `env:"POSTS_PER_PAGE" envDefault:"20"`
	SitemapChunkSize int           `env:"SITEMAP_CHUNK_SIZE" envDefault:"50"`

	// Valkey (Redis-compatible cache). Empty host selects the in-memory cache.
	ValkeyHost     string `env:"VALKEY_HOST"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// Lead integrations
	ZapierWebhookURL string  `env:"ZAPIER_WEBHOOK_URL"`
	FBPixelID        string  `env:"FB_PIXEL_ID"`
	FBAccessToken    string  `env:"FB_ACCESS_TOKEN"`
	FBTestEventCode  string  `env:"FB_TEST_EVENT_CODE"`
	FBGraphURL       string  `env:"FB_GRAPH_URL" envDefault:"https://graph.facebook.com"`
	FBAPIVersion     string  `env:"FB_API_VERSION" envDefault:"v17.0"`
	LeadRateLimit    float64 `env:"LEAD_RATE_LIMIT" envDefault:"1"`
	LeadRateBurst    int     `env:"LEAD_RATE_BURST" envDefault:"5"`
	GeoIPDBPath      string  `env:"GEOIP_DB_PATH"`

	// Background jobs
	WarmupSchedule string `env:"WARMUP_SCHEDULE" envDefault:"@every 10m"`

	// S3-compatible storage for published sitemaps (optional)
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3Region    string `env:"S3_REGION" envDefault:"fsn1"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses configuration from the given variables, applying defaults
// where a value is absent. Returns an error if a value is malformed or if
// critical values are unsafe in production mode.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	cfg.WPAPIURL = strings.TrimRight(cfg.WPAPIURL, "/")

	if _, err := url.ParseRequestURI(cfg.WPAPIURL); err != nil {
		return nil, fmt.Errorf("WP_API_URL is not a valid URL: %w", err)
	}
	if cfg.PostsPerPage <= 0 {
		return nil, fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", cfg.PostsPerPage)
	}
	if cfg.SitemapChunkSize <= 0 {
		return nil, fmt.Errorf("SITEMAP_CHUNK_SIZE must be positive, got %d", cfg.SitemapChunkSize)
	}

	if cfg.Env == "production" {
		if !strings.HasPrefix(cfg.SiteURL, "https://") {
			return nil, fmt.Errorf("SITE_URL must use https in production")
		}
		if cfg.FBPixelID != "" && cfg.FBAccessToken == "" {
			slog.Warn("FB_PIXEL_ID is set without FB_ACCESS_TOKEN; conversions API disabled")
		}
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UseValkey reports whether a Valkey server is configured.
func (c *Config) UseValkey() bool {
	return c.ValkeyHost != ""
}

// ZapierEnabled reports whether lead forwarding to Zapier is configured.
func (c *Config) ZapierEnabled() bool {
	return c.ZapierWebhookURL != ""
}

// ConversionsEnabled reports whether the Facebook Conversions API is configured.
func (c *Config) ConversionsEnabled() bool {
	return c.FBPixelID != "" && c.FBAccessToken != ""
}

// S3Enabled reports whether sitemap publishing to object storage is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "" && c.S3Bucket != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
