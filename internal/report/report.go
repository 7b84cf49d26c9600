// Package report renders results as flat, self-describing plain text meant
// to be pasted into an agent's context.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hyperifyio/searxquery/internal/result"
)

const (
	rule    = "================================================================"
	divider = "----------------------------------------------------------------"
)

// Report is everything one invocation prints. Exactly one of Query or URL is
// set; URL marks a direct fetch.
type Report struct {
	Query   string
	URL     string
	Results []result.SearchResult
}

// Text writes the report to w.
func Text(w io.Writer, rep Report) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, rep)
	if len(rep.Results) == 0 {
		if rep.URL != "" {
			fmt.Fprintf(bw, "No content returned for %s.\n", rep.URL)
		} else {
			fmt.Fprintf(bw, "No results found for %q.\n", rep.Query)
		}
	}
	for i, r := range rep.Results {
		if i > 0 {
			fmt.Fprintln(bw, divider)
		}
		writeResult(bw, i+1, r)
	}
	fmt.Fprintln(bw)
	writeSummary(bw, rep.Results)
	return bw.Flush()
}

// String renders the report in memory.
func String(rep Report) string {
	var b strings.Builder
	_ = Text(&b, rep)
	return b.String()
}

func writeHeader(w io.Writer, rep Report) {
	if rep.URL != "" {
		fmt.Fprintf(w, "Fetched content for %s\n", rep.URL)
	} else {
		noun := "results"
		if len(rep.Results) == 1 {
			noun = "result"
		}
		fmt.Fprintf(w, "Search results for %q (%d %s)\n", rep.Query, len(rep.Results), noun)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func writeResult(w io.Writer, n int, r result.SearchResult) {
	title := r.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "[%d] %s\n", n, title)
	fmt.Fprintf(w, "URL: %s\n", r.URL)
	if r.PublishedDate != "" {
		fmt.Fprintf(w, "Published: %s\n", r.PublishedDate)
	}
	if r.Authoritative() {
		fmt.Fprintf(w, "Source: %s\n", r.Tier)
	}
	if len(r.Engines) > 0 {
		fmt.Fprintf(w, "Engines: %s\n", strings.Join(r.Engines, ", "))
	}
	if r.Snippet != "" {
		fmt.Fprintf(w, "Snippet: %s\n", r.Snippet)
	}
	switch {
	case r.Unavailable:
		fmt.Fprintln(w, "Content (UNAVAILABLE):")
	case r.Truncated:
		fmt.Fprintln(w, "Content (TRUNCATED):")
	default:
		fmt.Fprintln(w, "Content:")
	}
	fmt.Fprintln(w, r.Content)
	fmt.Fprintln(w)
}

func writeSummary(w io.Writer, rs []result.SearchResult) {
	truncated := result.TruncatedURLs(rs)
	unavailable := result.Unavailable(rs)
	authoritative := 0
	for _, r := range rs {
		if r.Authoritative() {
			authoritative++
		}
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintf(w, "Results: %d  Truncated: %d  Unavailable: %d  Authoritative: %d\n",
		len(rs), len(truncated), len(unavailable), authoritative)
	if len(truncated) > 0 {
		fmt.Fprintln(w, "Truncated results (use --url <URL> for the full article):")
		for _, u := range truncated {
			fmt.Fprintf(w, "- %s\n", u)
		}
	}
	if len(unavailable) > 0 {
		fmt.Fprintln(w, "Content unavailable:")
		for _, r := range unavailable {
			fmt.Fprintf(w, "- %s (%s)\n", r.URL, r.Reason)
		}
	}
}
