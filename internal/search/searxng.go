package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SearxNG implements Provider against a SearxNG instance's /search JSON
// endpoint.
type SearxNG struct {
	BaseURL    string
	APIKey     string // optional
	HTTPClient *http.Client
	UserAgent  string // optional custom UA
	Language   string // defaults to "auto"
	SafeSearch int
	Categories string // defaults to "general"
	// MaxPages caps follow-up page requests when a page returns fewer hits
	// than requested. Zero means 3.
	MaxPages int
	Logger   zerolog.Logger
}

func (s *SearxNG) Name() string { return "searxng" }

// Search returns up to limit hits in aggregator order. Any transport,
// status or decoding failure is wrapped with ErrAggregator.
func (s *SearxNG) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(s.BaseURL) == "" {
		return nil, fmt.Errorf("%w: missing searxng base url", ErrAggregator)
	}
	if limit <= 0 {
		limit = 10
	}
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = 3
	}
	out := make([]Hit, 0, limit)
	seen := make(map[string]bool, limit)
	for page := 1; page <= maxPages && len(out) < limit; page++ {
		hits, err := s.searchPage(ctx, query, limit, page)
		if err != nil {
			if page > 1 {
				// later pages only top up a short first page
				s.Logger.Warn().Err(err).Int("page", page).Msg("searxng follow-up page failed")
				break
			}
			return nil, err
		}
		if len(hits) == 0 {
			break
		}
		if page > 1 && allSeen(hits, seen) {
			// the instance repeats its last page instead of running dry
			break
		}
		for _, h := range hits {
			seen[h.URL] = true
			out = append(out, h)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (s *SearxNG) searchPage(ctx context.Context, query string, limit, page int) ([]Hit, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid searxng url %q: %v", ErrAggregator, s.BaseURL, err)
	}
	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = strings.TrimRight(u.Path, "/") + "/search"
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	lang := s.Language
	if lang == "" {
		lang = "auto"
	}
	q.Set("language", lang)
	q.Set("safesearch", strconv.Itoa(s.SafeSearch))
	cats := s.Categories
	if cats == "" {
		cats = "general"
	}
	q.Set("categories", cats)
	q.Set("count", strconv.Itoa(limit))
	q.Set("pageno", strconv.Itoa(page))
	if s.APIKey != "" {
		q.Set("apikey", s.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregator, err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	req.Header.Set("Accept", "application/json")
	// SearxNG's bot limiter rejects local requests without a client address.
	req.Header.Set("X-Forwarded-For", "127.0.0.1")
	req.Header.Set("X-Real-IP", "127.0.0.1")

	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot connect to searxng at %s: %v", ErrAggregator, s.BaseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: searxng at %s returned status %d", ErrAggregator, s.BaseURL, resp.StatusCode)
	}
	var sr searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode searxng response: %v", ErrAggregator, err)
	}
	s.Logger.Debug().
		Int("page", page).
		Int("hits", len(sr.Results)).
		Dur("duration", time.Since(start)).
		Msg("searxng search")

	out := make([]Hit, 0, len(sr.Results))
	for _, r := range sr.Results {
		link := strings.TrimSpace(r.URL)
		if link == "" {
			continue
		}
		engines := r.Engines
		if len(engines) == 0 && r.Engine != "" {
			engines = []string{r.Engine}
		}
		out = append(out, Hit{
			Title:         strings.TrimSpace(r.Title),
			URL:           link,
			Snippet:       strings.TrimSpace(r.Content),
			PublishedDate: firstNonEmpty(r.PublishedDate, r.PubDate),
			Engines:       engines,
			Source:        s.Name(),
		})
	}
	return out, nil
}

func allSeen(hits []Hit, seen map[string]bool) bool {
	for _, h := range hits {
		if !seen[h.URL] {
			return false
		}
	}
	return true
}

type searxResponse struct {
	Results []struct {
		Title         string   `json:"title"`
		URL           string   `json:"url"`
		Content       string   `json:"content"`
		PublishedDate *string  `json:"publishedDate"`
		PubDate       *string  `json:"pubdate"`
		Engine        string   `json:"engine"`
		Engines       []string `json:"engines"`
	} `json:"results"`
}

func firstNonEmpty(vals ...*string) string {
	for _, v := range vals {
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v)
		}
	}
	return ""
}
