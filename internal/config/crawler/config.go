// Package crawler provides configuration management for the BFS crawler
// component: page/depth caps and fetcher concurrency (spec §4.2, §6).
package crawler

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Default configuration values (spec §6).
const (
	DefaultMaxPages     = 200
	DefaultMaxDepth     = 3
	DefaultConcurrency  = 20
	DefaultUserAgent    = "llmstxtgen-bot/1.0 (+https://llmstxtgen.invalid/bot)"
	DefaultFetchTimeout = 20 * time.Second
	DefaultCrawlSoftCap = 30 * time.Minute
	// MinMaxPages/MaxMaxPages bound a caller-supplied max_pages override (spec §4.2).
	MinMaxPages = 50
	MaxMaxPages = 500
	// MinMaxDepth/MaxMaxDepth bound a caller-supplied max_depth override.
	MinMaxDepth = 1
	MaxMaxDepth = 5
)

// Config holds crawler-wide settings read from the environment. MaxPages and
// MaxDepth (MAX_CRAWL_PAGES, MAX_CRAWL_DEPTH) are validated but not applied
// to new CrawlJobs: job creation uses DefaultMaxPages and DefaultMaxDepth
// unless the caller overrides max_depth/max_pages on POST /sites/{id}/crawl.
type Config struct {
	MaxPages     int           `yaml:"max_pages" env:"MAX_CRAWL_PAGES"`
	MaxDepth     int           `yaml:"max_depth" env:"MAX_CRAWL_DEPTH"`
	Concurrency  int           `yaml:"concurrency" env:"CRAWL_CONCURRENCY"`
	UserAgent    string        `yaml:"user_agent"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	CrawlSoftCap time.Duration `yaml:"crawl_soft_cap"`
}

// Validate applies the bounds from spec §4.2.
func (c *Config) Validate() error {
	if c.MaxPages < MinMaxPages || c.MaxPages > MaxMaxPages {
		return errors.New("max_crawl_pages must be within [50, 500]")
	}
	if c.MaxDepth < MinMaxDepth || c.MaxDepth > MaxMaxDepth {
		return errors.New("max_crawl_depth must be within [1, 5]")
	}
	if c.Concurrency < 1 {
		return errors.New("crawl_concurrency must be positive")
	}
	return nil
}

// ClampMaxPages clamps a caller-supplied override into the allowed range.
func ClampMaxPages(n int) int {
	if n < MinMaxPages {
		return MinMaxPages
	}
	if n > MaxMaxPages {
		return MaxMaxPages
	}
	return n
}

// ClampMaxDepth clamps a caller-supplied override into the allowed range.
func ClampMaxDepth(n int) int {
	if n < MinMaxDepth {
		return MinMaxDepth
	}
	if n > MaxMaxDepth {
		return MaxMaxDepth
	}
	return n
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// New builds a Config from defaults overridden by environment variables,
// matching the precedence the teacher's config packages use throughout.
func New() *Config {
	return &Config{
		MaxPages:     envInt("MAX_CRAWL_PAGES", DefaultMaxPages),
		MaxDepth:     envInt("MAX_CRAWL_DEPTH", DefaultMaxDepth),
		Concurrency:  envInt("CRAWL_CONCURRENCY", DefaultConcurrency),
		UserAgent:    DefaultUserAgent,
		FetchTimeout: DefaultFetchTimeout,
		CrawlSoftCap: DefaultCrawlSoftCap,
	}
}
