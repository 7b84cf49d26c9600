package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/searxquery/internal/authority"
	"github.com/hyperifyio/searxquery/internal/fetch"
	"github.com/hyperifyio/searxquery/internal/report"
	"github.com/hyperifyio/searxquery/internal/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []result.SearchResult {
	long := "https://blog.example.com/long"
	return []result.SearchResult{
		{
			Title:         "The Rust Book",
			URL:           "https://doc.rust-lang.org/book/ch04",
			Snippet:       "Ownership rules",
			PublishedDate: "2024-03-01",
			Content:       "Each value has an owner.",
			Engines:       []string{"brave", "duckduckgo"},
		},
		{
			Title:     "Long post",
			URL:       long,
			Snippet:   "Deep dive",
			Content:   "lifetimes lifetimes" + fetch.Marker(long),
			Truncated: true,
		},
		{
			URL:         "https://cs.example.edu/notes",
			Content:     fetch.Placeholder("HTTP 404"),
			Unavailable: true,
			Reason:      "HTTP 404",
			Tier:        authority.Authoritative,
		},
	}
}

func TestText_SearchReport(t *testing.T) {
	t.Parallel()

	out := report.String(report.Report{Query: "rust ownership model", Results: sampleResults()})

	assert.True(t, strings.HasPrefix(out, `Search results for "rust ownership model" (3 results)`))
	assert.Equal(t, 3, strings.Count(out, "\nURL: "))
	assert.Contains(t, out, "[1] The Rust Book\nURL: https://doc.rust-lang.org/book/ch04\nPublished: 2024-03-01\n")
	assert.Contains(t, out, "Engines: brave, duckduckgo\n")
	assert.Contains(t, out, "[3] (untitled)\n")
	assert.Contains(t, out, "Source: AUTHORITATIVE\n")
	assert.Equal(t, 1, strings.Count(out, "Source: AUTHORITATIVE"))
	assert.Equal(t, 1, strings.Count(out, "Content (TRUNCATED):"))
	assert.Equal(t, 1, strings.Count(out, "Content (UNAVAILABLE):"))

	summary := out[strings.Index(out, "Summary"):]
	assert.Contains(t, summary, "Results: 3  Truncated: 1  Unavailable: 1  Authoritative: 1")
	assert.Contains(t, summary, "Truncated results (use --url <URL> for the full article):\n- https://blog.example.com/long\n")
	assert.Equal(t, 1, strings.Count(summary, "\n- https://blog.example.com/long"))
	assert.Contains(t, summary, "Content unavailable:\n- https://cs.example.edu/notes (HTTP 404)\n")
}

func TestText_NoResults(t *testing.T) {
	t.Parallel()

	out := report.String(report.Report{Query: "zzqx"})

	assert.Contains(t, out, `No results found for "zzqx".`)
	assert.Contains(t, out, "Results: 0  Truncated: 0  Unavailable: 0  Authoritative: 0")
	assert.NotContains(t, out, "URL: ")
	assert.NotContains(t, out, "Truncated results")
}

func TestText_URLReport(t *testing.T) {
	t.Parallel()

	r := sampleResults()[2]
	out := report.String(report.Report{URL: r.URL, Results: []result.SearchResult{r}})

	assert.True(t, strings.HasPrefix(out, "Fetched content for https://cs.example.edu/notes\n"))
	assert.Contains(t, out, "[1] (untitled)")
	assert.Contains(t, out, "[No content available: HTTP 404]")
}

func TestPDF_WritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, report.PDF(path, report.Report{Query: "café ownership", Results: sampleResults()}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF-"))
}
