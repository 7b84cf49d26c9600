// Package result holds the normalized record assembled for each aggregator
// hit within a single invocation.
package result

import (
	"strings"

	"github.com/hyperifyio/searxquery/internal/authority"
	"github.com/hyperifyio/searxquery/internal/fetch"
	"github.com/hyperifyio/searxquery/internal/search"
)

// SearchResult is one normalized, content-enriched hit. URL identifies the
// record for the duration of the invocation.
type SearchResult struct {
	Title         string
	URL           string
	Snippet       string
	PublishedDate string // empty when the source provides none
	Content       string
	Truncated     bool
	Tier          authority.Tier
	Engines       []string
	Unavailable   bool
	Reason        string
}

// Authoritative reports whether the source is in the authoritative tier.
func (r SearchResult) Authoritative() bool { return r.Tier == authority.Authoritative }

// Normalize maps a raw hit plus its fetch outcome and tier into a
// SearchResult. Missing optional fields stay empty; it never fails.
func Normalize(hit search.Hit, page fetch.Page, tier authority.Tier) SearchResult {
	r := SearchResult{
		Title:         strings.TrimSpace(hit.Title),
		URL:           strings.TrimSpace(hit.URL),
		Snippet:       strings.Join(strings.Fields(hit.Snippet), " "),
		PublishedDate: strings.TrimSpace(hit.PublishedDate),
		Content:       page.Content,
		Truncated:     page.Truncated && !page.Unavailable,
		Tier:          tier,
		Unavailable:   page.Unavailable,
		Reason:        page.Reason,
	}
	if r.Title == "" {
		r.Title = strings.TrimSpace(page.Title)
	}
	for _, e := range hit.Engines {
		if e = strings.TrimSpace(e); e != "" {
			r.Engines = append(r.Engines, e)
		}
	}
	return r
}

// TruncatedURLs returns the URLs of truncated results in order.
func TruncatedURLs(rs []SearchResult) []string {
	var out []string
	for _, r := range rs {
		if r.Truncated {
			out = append(out, r.URL)
		}
	}
	return out
}

// Unavailable returns the results whose content is a failure placeholder.
func Unavailable(rs []SearchResult) []SearchResult {
	var out []SearchResult
	for _, r := range rs {
		if r.Unavailable {
			out = append(out, r)
		}
	}
	return out
}
