package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileProvider serves hits from a local JSON file for offline use and tests.
// The file holds an array of {"title","url","snippet","publishedDate"}
// objects; order in the file is the ranking order.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

// Search returns hits whose title or snippet contains every query term. An
// empty query matches everything.
func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, fmt.Errorf("%w: file provider path is empty", ErrAggregator)
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregator, err)
	}
	var raw []Hit
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrAggregator, f.Path, err)
	}
	terms := strings.Fields(strings.ToLower(query))
	out := make([]Hit, 0, len(raw))
	for _, h := range raw {
		if strings.TrimSpace(h.URL) == "" || !matchesAll(h, terms) {
			continue
		}
		h.Source = f.Name()
		out = append(out, h)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matchesAll(h Hit, terms []string) bool {
	hay := strings.ToLower(h.Title + " " + h.Snippet)
	for _, t := range terms {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}
