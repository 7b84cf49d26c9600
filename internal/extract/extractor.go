package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"
)

// Extractor turns a fetched page into readable text. Implementations must be
// deterministic so that refetching an unchanged page yields identical text.
type Extractor interface {
	Extract(input []byte, pageURL string) (Document, error)
	Name() string
}

// Heuristic uses FromHTML.
type Heuristic struct{}

func (Heuristic) Name() string { return "heuristic" }

func (Heuristic) Extract(input []byte, _ string) (Document, error) {
	return FromHTML(input)
}

// Trafilatura runs go-trafilatura main-content extraction and falls back to
// the heuristic walker when it finds nothing.
type Trafilatura struct{}

func (Trafilatura) Name() string { return "trafilatura" }

func (Trafilatura) Extract(input []byte, pageURL string) (Document, error) {
	opts := trafilatura.Options{EnableFallback: true}
	if u, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = u
	}
	res, err := trafilatura.Extract(bytes.NewReader(input), opts)
	if err != nil || res == nil || strings.TrimSpace(res.ContentText) == "" {
		return FromHTML(input)
	}
	doc := Document{Title: Clean(res.Metadata.Title), Text: Clean(res.ContentText)}
	if doc.Title == "" {
		h, _ := FromHTML(input)
		doc.Title = h.Title
	}
	return doc, nil
}

// PlainText treats the input as already-readable text (text/plain bodies).
type PlainText struct{}

func (PlainText) Name() string { return "plain" }

func (PlainText) Extract(input []byte, _ string) (Document, error) {
	text := Clean(string(input))
	if text == "" {
		return Document{}, ErrNoText
	}
	return Document{Text: text}, nil
}

// ByName returns the extractor registered under name; empty selects the
// heuristic extractor.
func ByName(name string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "heuristic":
		return Heuristic{}, nil
	case "trafilatura":
		return Trafilatura{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want heuristic or trafilatura)", name)
	}
}
