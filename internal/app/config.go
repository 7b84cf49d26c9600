package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/searxquery/internal/authority"
	"github.com/hyperifyio/searxquery/internal/extract"
	"github.com/hyperifyio/searxquery/internal/fetch"
)

// ErrUsage marks invalid configuration or arguments. The CLI maps it to a
// usage exit code and never makes a network call.
var ErrUsage = errors.New("invalid configuration")

// DefaultSearxURL is the local aggregator endpoint used when nothing else is
// configured.
const DefaultSearxURL = "http://localhost:18080"

// DefaultResultCount is the number of results when none is requested.
const DefaultResultCount = 10

// Config holds runtime configuration for one invocation.
type Config struct {
	// Search
	SearxURL       string
	SearxKey       string
	SearchFile     string
	Language       string
	SafeSearch     int
	Categories     string
	SearchMaxPages int
	SearchTimeout  time.Duration
	ResultCount    int

	// Fetch
	FetchTimeout    time.Duration
	MaxContentChars int
	// URLMaxChars is the budget for direct URL fetches. Negative (the
	// default) returns the full article.
	URLMaxChars      int
	MaxBodyBytes     int64
	MaxRedirects     int
	FetchConcurrency int
	PerDomainRPS     float64
	RespectRobots    bool
	Extractor        string
	UserAgent        string

	// Authority allow-list; AuthorityDomains replaces the built-in list and
	// AuthorityExtra adds to whichever list is active.
	AuthorityDomains []string
	AuthorityExtra   []string

	// Output
	PDFPath string
	Verbose bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		SearxURL:         DefaultSearxURL,
		Language:         "auto",
		Categories:       "general",
		SearchMaxPages:   3,
		SearchTimeout:    15 * time.Second,
		ResultCount:      DefaultResultCount,
		FetchTimeout:     fetch.DefaultTimeout,
		MaxContentChars:  fetch.DefaultMaxChars,
		URLMaxChars:      -1,
		MaxBodyBytes:     fetch.DefaultMaxBodyBytes,
		MaxRedirects:     5,
		FetchConcurrency: 1,
		Extractor:        "heuristic",
		UserAgent:        fetch.DefaultUserAgent,
		AuthorityDomains: append([]string(nil), authority.DefaultAllowlist...),
	}
}

// AuthorityAllowlist is the effective allow-list for the classifier.
func (c Config) AuthorityAllowlist() []string {
	out := make([]string, 0, len(c.AuthorityDomains)+len(c.AuthorityExtra))
	out = append(out, c.AuthorityDomains...)
	return append(out, c.AuthorityExtra...)
}

// ValidateConfig checks the settings shared by both invocation modes.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.SearxURL) == "" && strings.TrimSpace(cfg.SearchFile) == "" {
		return fmt.Errorf("%w: searx url is required (set --searx-url or SEARX_URL)", ErrUsage)
	}
	if cfg.ResultCount < 1 {
		return fmt.Errorf("%w: result count must be a positive integer, got %d", ErrUsage, cfg.ResultCount)
	}
	if cfg.FetchTimeout <= 0 || cfg.SearchTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrUsage)
	}
	if cfg.MaxContentChars == 0 || cfg.URLMaxChars == 0 {
		return fmt.Errorf("%w: max content chars must be positive (or negative to disable truncation)", ErrUsage)
	}
	if cfg.FetchConcurrency < 1 {
		return fmt.Errorf("%w: fetch concurrency must be at least 1, got %d", ErrUsage, cfg.FetchConcurrency)
	}
	if cfg.MaxBodyBytes < 0 || cfg.MaxRedirects < 0 || cfg.SearchMaxPages < 0 || cfg.PerDomainRPS < 0 {
		return fmt.Errorf("%w: negative limits are not allowed", ErrUsage)
	}
	if _, err := extract.ByName(cfg.Extractor); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
