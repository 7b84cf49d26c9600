package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSearxNG_Search_ParsesResults(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotQuery = map[string]string{
			"q":      r.URL.Query().Get("q"),
			"format": r.URL.Query().Get("format"),
			"count":  r.URL.Query().Get("count"),
			"pageno": r.URL.Query().Get("pageno"),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": " Doc ", "url": "https://example.com", "content": "snippet", "publishedDate": "2024-05-01T00:00:00", "engines": []string{"duckduckgo", "brave"}},
				{"title": "No URL", "url": "", "content": "dropped"},
				{"title": "", "url": "https://untitled.example.org", "content": "kept", "publishedDate": nil, "engine": "bing"},
			},
		})
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client(), MaxPages: 1}
	got, err := s.Search(context.Background(), "rust ownership", 5)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if gotQuery["q"] != "rust ownership" || gotQuery["format"] != "json" || gotQuery["count"] != "5" || gotQuery["pageno"] != "1" {
		t.Fatalf("unexpected query params: %v", gotQuery)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got[0].Title != "Doc" || got[0].PublishedDate != "2024-05-01T00:00:00" || strings.Join(got[0].Engines, ",") != "duckduckgo,brave" {
		t.Fatalf("unexpected first hit: %+v", got[0])
	}
	if got[1].PublishedDate != "" || got[1].Title != "" || len(got[1].Engines) != 1 {
		t.Fatalf("unexpected second hit: %+v", got[1])
	}
}

func TestSearxNG_Search_TruncatesToLimitInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := make([]map[string]any, 0, 8)
		for _, u := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
			results = append(results, map[string]any{"title": u, "url": "https://" + u + ".example.com"})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL + "/", HTTPClient: srv.Client()}
	got, err := s.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 3 || got[0].Title != "a" || got[2].Title != "c" {
		t.Fatalf("expected first three hits in order, got %+v", got)
	}
}

func TestSearxNG_Search_FollowsPagesWhenShort(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Query().Get("pageno")
		pages = append(pages, p)
		var results []map[string]any
		switch p {
		case "1":
			results = []map[string]any{{"title": "one", "url": "https://1.example.com"}, {"title": "two", "url": "https://2.example.com"}}
		case "2":
			results = []map[string]any{{"title": "three", "url": "https://3.example.com"}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client(), MaxPages: 5}
	got, err := s.Search(context.Background(), "q", 10)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 3 || got[2].Title != "three" {
		t.Fatalf("expected hits from two pages, got %+v", got)
	}
	if strings.Join(pages, ",") != "1,2,3" {
		t.Fatalf("expected paging to stop at the first empty page, got %v", pages)
	}
}

func TestSearxNG_Search_StopsWhenPagesRepeat(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []map[string]any{
			{"title": "same", "url": "https://same.example.com"},
		}})
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client(), MaxPages: 3}
	got, err := s.Search(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the first page only, got %d hits", len(got))
	}
	if calls != 2 {
		t.Fatalf("expected paging to stop at a repeated page, got %d calls", calls)
	}
}

func TestSearxNG_Search_ErrorStatusIsAggregatorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := &SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client()}
	_, err := s.Search(context.Background(), "q", 5)
	if !errors.Is(err, ErrAggregator) || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected aggregator status error, got %v", err)
	}
}

func TestSearxNG_Search_UnreachableIsAggregatorError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	s := &SearxNG{BaseURL: base}
	_, err := s.Search(context.Background(), "anything", 5)
	if !errors.Is(err, ErrAggregator) || !strings.Contains(err.Error(), "cannot connect to searxng") {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestSearxNG_Search_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := (&SearxNG{BaseURL: srv.URL, HTTPClient: srv.Client()}).Search(context.Background(), "q", 1)
	if !errors.Is(err, ErrAggregator) {
		t.Fatalf("expected aggregator error, got %v", err)
	}
}

func TestSearxNG_Search_MissingBase(t *testing.T) {
	if _, err := (&SearxNG{}).Search(context.Background(), "q", 1); !errors.Is(err, ErrAggregator) {
		t.Fatalf("expected aggregator error, got %v", err)
	}
}

func TestFileProvider_Search(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.json")
	data := `[
		{"title": "Rust ownership", "url": "https://doc.rust-lang.org/book/ch04-01", "snippet": "Ownership rules"},
		{"title": "Go memory model", "url": "https://go.dev/ref/mem", "snippet": "happens before"},
		{"title": "Rust borrowing", "url": "https://example.com/borrow", "snippet": "ownership and references", "publishedDate": "2023-01-01"},
		{"title": "no url", "url": "", "snippet": "rust ownership"}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	p := &FileProvider{Path: path}
	got, err := p.Search(context.Background(), "Rust Ownership", 10)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(got) != 2 || got[1].PublishedDate != "2023-01-01" || got[0].Source != "file" {
		t.Fatalf("unexpected hits %+v", got)
	}
	all, _ := p.Search(context.Background(), "", 2)
	if len(all) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(all))
	}
	if _, err := (&FileProvider{Path: filepath.Join(t.TempDir(), "missing.json")}).Search(context.Background(), "q", 1); !errors.Is(err, ErrAggregator) {
		t.Fatalf("expected aggregator error for missing file, got %v", err)
	}
}
