// Package app wires configuration into the search, fetch and report
// packages and exposes the two invocation modes used by the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/searxquery/internal/authority"
	"github.com/hyperifyio/searxquery/internal/extract"
	"github.com/hyperifyio/searxquery/internal/fetch"
	"github.com/hyperifyio/searxquery/internal/query"
	"github.com/hyperifyio/searxquery/internal/report"
	"github.com/hyperifyio/searxquery/internal/result"
	"github.com/hyperifyio/searxquery/internal/robots"
	"github.com/hyperifyio/searxquery/internal/search"
)

// App holds the pipeline built from one Config. Query mode and direct URL
// mode share the provider, classifier and HTTP client but use separate
// content budgets.
type App struct {
	cfg       Config
	log       zerolog.Logger
	client    *query.Client
	urlClient *query.Client
}

// New validates cfg and builds the pipeline. It performs no network I/O.
func New(cfg Config, logger zerolog.Logger) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	ex, err := extract.ByName(cfg.Extractor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var provider search.Provider
	if strings.TrimSpace(cfg.SearchFile) != "" {
		provider = &search.FileProvider{Path: cfg.SearchFile}
	} else {
		provider = &search.SearxNG{
			BaseURL:    cfg.SearxURL,
			APIKey:     cfg.SearxKey,
			HTTPClient: newHTTPClient(cfg.SearchTimeout),
			UserAgent:  cfg.UserAgent,
			Language:   cfg.Language,
			SafeSearch: cfg.SafeSearch,
			Categories: cfg.Categories,
			MaxPages:   cfg.SearchMaxPages,
			Logger:     logger.With().Str("component", "search").Logger(),
		}
	}

	fetcher := &fetch.Fetcher{
		// the per-fetch context deadline fires first; the client timeout
		// only guards against a stuck transport
		HTTPClient:      newHTTPClient(cfg.FetchTimeout + 5*time.Second),
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.FetchTimeout,
		MaxChars:        cfg.MaxContentChars,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		RedirectMaxHops: cfg.MaxRedirects,
		Extractor:       ex,
		Limiter:         fetch.NewDomainLimiter(cfg.PerDomainRPS),
		Logger:          logger.With().Str("component", "fetch").Logger(),
	}

	if cfg.RespectRobots {
		fetcher.Robots = &robots.Checker{
			HTTPClient: fetcher.HTTPClient,
			UserAgent:  cfg.UserAgent,
			Logger:     logger.With().Str("component", "robots").Logger(),
		}
	}

	// a direct fetch is the follow-up for a truncated result, so it gets
	// its own budget
	urlFetcher := *fetcher
	urlFetcher.MaxChars = cfg.URLMaxChars

	classifier := authority.New(cfg.AuthorityAllowlist())
	return &App{
		cfg: cfg,
		log: logger,
		client: &query.Client{
			Provider:    provider,
			Fetcher:     fetcher,
			Classifier:  classifier,
			Concurrency: cfg.FetchConcurrency,
			Logger:      logger,
		},
		urlClient: &query.Client{
			Fetcher:    &urlFetcher,
			Classifier: classifier,
			Logger:     logger,
		},
	}, nil
}

// Search runs query mode with the configured result count.
func (a *App) Search(ctx context.Context, q string) (report.Report, error) {
	start := time.Now()
	rs, err := a.client.Search(ctx, q, a.cfg.ResultCount)
	if err != nil {
		return report.Report{}, err
	}
	a.log.Debug().
		Int("results", len(rs)).
		Int("truncated", len(result.TruncatedURLs(rs))).
		Int("unavailable", len(result.Unavailable(rs))).
		Dur("elapsed", time.Since(start)).
		Msg("report assembled")
	return report.Report{Query: strings.TrimSpace(q), Results: rs}, nil
}

// FetchURL runs direct fetch mode for a single URL.
func (a *App) FetchURL(ctx context.Context, rawURL string) (report.Report, error) {
	r, err := a.urlClient.FetchURL(ctx, rawURL)
	if err != nil {
		return report.Report{}, err
	}
	return report.Report{URL: r.URL, Results: []result.SearchResult{r}}, nil
}

// Render writes the text report to w and, when configured, a PDF copy. A
// PDF failure is logged and does not affect the text output.
func (a *App) Render(w io.Writer, rep report.Report) error {
	if err := report.Text(w, rep); err != nil {
		return err
	}
	if a.cfg.PDFPath != "" {
		if err := report.PDF(a.cfg.PDFPath, rep); err != nil {
			a.log.Warn().Err(err).Str("path", a.cfg.PDFPath).Msg("pdf export failed")
		} else {
			a.log.Info().Str("path", a.cfg.PDFPath).Msg("pdf written")
		}
	}
	return nil
}
