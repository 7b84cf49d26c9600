// Package query runs one search against the aggregator and enriches each hit
// with fetched content and an authority tier.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/searxquery/internal/authority"
	"github.com/hyperifyio/searxquery/internal/fetch"
	"github.com/hyperifyio/searxquery/internal/result"
	"github.com/hyperifyio/searxquery/internal/search"
)

// ErrInvalidRequest is returned for an empty query, a non-positive result
// count or an empty URL. No network call is made.
var ErrInvalidRequest = errors.New("invalid request")

// Fetcher retrieves page content; failures are reported inside the Page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetch.Page
}

// Classifier maps a URL to its authority tier.
type Classifier interface {
	Classify(url string) authority.Tier
}

// Client wires the aggregator, the content fetcher and the classifier.
type Client struct {
	Provider   search.Provider
	Fetcher    Fetcher
	Classifier Classifier
	// Concurrency bounds in-flight fetches. Values below 2 fetch
	// sequentially.
	Concurrency int
	Logger      zerolog.Logger
}

// Search queries the aggregator for resultCount hits and returns one result
// per hit in aggregator order. Aggregator failures are returned as errors;
// per-hit fetch failures are recorded in the corresponding result.
func (c *Client) Search(ctx context.Context, query string, resultCount int) ([]result.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidRequest)
	}
	if resultCount < 1 {
		return nil, fmt.Errorf("%w: result count must be a positive integer, got %d", ErrInvalidRequest, resultCount)
	}

	start := time.Now()
	hits, err := c.Provider.Search(ctx, query, resultCount)
	if err != nil {
		return nil, err
	}
	if len(hits) > resultCount {
		hits = hits[:resultCount]
	}
	c.Logger.Info().
		Str("provider", c.Provider.Name()).
		Str("query", query).
		Int("hits", len(hits)).
		Dur("duration", time.Since(start)).
		Msg("search complete")

	results := make([]result.SearchResult, len(hits))
	if c.Concurrency < 2 || len(hits) < 2 {
		for i, h := range hits {
			results[i] = c.enrich(ctx, h)
		}
		return results, nil
	}

	// each goroutine owns results[i], so ranking order is kept regardless of
	// completion order
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)
	for i, h := range hits {
		g.Go(func() error {
			results[i] = c.enrich(gctx, h)
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

// FetchURL fetches a single URL directly, bypassing the aggregator.
func (c *Client) FetchURL(ctx context.Context, rawURL string) (result.SearchResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return result.SearchResult{}, fmt.Errorf("%w: url is empty", ErrInvalidRequest)
	}
	return c.enrich(ctx, search.Hit{URL: rawURL}), nil
}

func (c *Client) enrich(ctx context.Context, h search.Hit) result.SearchResult {
	page := c.Fetcher.Fetch(ctx, h.URL)
	return result.Normalize(h, page, c.classify(h.URL))
}

func (c *Client) classify(u string) authority.Tier {
	if c.Classifier == nil {
		return authority.Classify(u)
	}
	return c.Classifier.Classify(u)
}
