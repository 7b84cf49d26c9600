package search

import (
	"context"
	"errors"
)

// ErrAggregator marks failures talking to the search aggregator. These are
// hard failures for an invocation: without the aggregator there is nothing
// to report.
var ErrAggregator = errors.New("search aggregator request failed")

// Hit is one raw result entry as returned by the aggregator, in its ranking
// order.
type Hit struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Snippet       string   `json:"snippet"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	Engines       []string `json:"engines,omitempty"`
	Source        string   `json:"-"` // provider name for observability
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
	Name() string
}
