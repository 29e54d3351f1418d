// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// DefaultSearchURL is the law.go.kr list/search endpoint.
	DefaultSearchURL = "https://www.law.go.kr/DRF/lawSearch.do"

	// DefaultServiceURL is the law.go.kr detail endpoint.
	DefaultServiceURL = "https://www.law.go.kr/DRF/lawService.do"

	// DefaultReferer is required by some DRF endpoints; requests without it 404.
	DefaultReferer = "https://open.law.go.kr/"
)

// Config holds connection settings for the Ministry of Legislation OPEN API.
type Config struct {
	// OC is the API key (기관코드) sent as the OC query parameter
	OC string

	// SearchURL is the lawSearch.do endpoint for list/search requests
	SearchURL string

	// ServiceURL is the lawService.do endpoint for detail requests
	ServiceURL string

	// Referer is sent with every request; some endpoints reject requests without it
	Referer string

	// Timeout for API requests
	Timeout time.Duration

	// SlowTimeout for history/diagram targets that routinely take a minute
	SlowTimeout time.Duration

	// MaxRetries for failed requests
	MaxRetries int

	// UserAgent identifies the client to the API
	UserAgent string

	// CacheDir is the root for the on-disk detail cache
	CacheDir string

	// DetailCacheTTL is how long cached detail payloads stay valid
	DetailCacheTTL time.Duration

	// MetricsAddr, when non-empty, serves Prometheus metrics on this address
	MetricsAddr string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	oc := os.Getenv("LEGISLATION_API_KEY")
	if oc == "" {
		return nil, errors.New("LEGISLATION_API_KEY environment variable is required (law.go.kr OC code)")
	}

	cfg := &Config{
		OC:             oc,
		SearchURL:      envOrDefault("LEGISLATION_SEARCH_URL", DefaultSearchURL),
		ServiceURL:     envOrDefault("LEGISLATION_SERVICE_URL", DefaultServiceURL),
		Referer:        envOrDefault("LEGISLATION_REFERER", DefaultReferer),
		Timeout:        10 * time.Second,
		SlowTimeout:    60 * time.Second,
		MaxRetries:     3,
		UserAgent:      envOrDefault("LEGISLATION_USER_AGENT", "mcp-kr-legislation/1.0 (https://github.com/ChangooLee/mcp-kr-legislation)"),
		DetailCacheTTL: 7 * 24 * time.Hour,
		MetricsAddr:    os.Getenv("LEGISLATION_METRICS_ADDR"),
	}

	if t := os.Getenv("LEGISLATION_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.Timeout = d
		}
	}
	if t := os.Getenv("LEGISLATION_SLOW_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.SlowTimeout = d
		}
	}
	if r := os.Getenv("LEGISLATION_MAX_RETRIES"); r != "" {
		if n, err := strconv.Atoi(r); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if t := os.Getenv("LEGISLATION_DETAIL_CACHE_TTL"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.DetailCacheTTL = d
		}
	}

	cfg.CacheDir = os.Getenv("LEGISLATION_CACHE_DIR")
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}

	return cfg, nil
}

// defaultCacheDir resolves ${XDG_CACHE_HOME:-~/.cache}/mcp-kr-legislation.
func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "mcp-kr-legislation")
	}
	return filepath.Join(os.TempDir(), "mcp-kr-legislation")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
