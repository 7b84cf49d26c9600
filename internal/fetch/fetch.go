// Package fetch retrieves a single page, extracts its readable text and
// applies the content-length policy. Every failure degrades to a placeholder
// Page; Fetch never returns an error.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/searxquery/internal/extract"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxChars     = 12000
	DefaultMaxBodyBytes = 5 << 20
	DefaultUserAgent    = "searxquery/1.0 (+https://github.com/hyperifyio/searxquery)"
)

// Page is the outcome of one fetch.
type Page struct {
	URL         string
	Title       string
	Content     string
	Truncated   bool
	Unavailable bool // Content is a failure placeholder
	Reason      string
	StatusCode  int
}

// RobotsPolicy decides whether a URL may be fetched.
type RobotsPolicy interface {
	Allowed(ctx context.Context, rawURL string) bool
}

// Fetcher issues bounded GET requests. The zero value is usable and applies
// the package defaults.
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds each fetch independently.
	Timeout time.Duration
	// MaxChars is the content budget in runes; zero means DefaultMaxChars,
	// negative disables truncation.
	MaxChars     int
	MaxBodyBytes int64
	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	Extractor       extract.Extractor
	// Limiter, when set, paces requests per host.
	Limiter *DomainLimiter
	// Robots, when set, is consulted before each request.
	Robots    RobotsPolicy
	Detectors []Detector
	Logger    zerolog.Logger
}

// Fetch retrieves rawURL and returns its readable, budgeted content.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) Page {
	start := time.Now()
	page := Page{URL: rawURL}
	resp, err := f.get(ctx, rawURL)
	if err != nil {
		page = degrade(page, describe(err, f.timeout()))
		f.logResult(page, 0, start, err)
		return page
	}
	page.StatusCode = resp.status

	if vendor, blocked := DetectChallenge(f.detectors(), resp.status, resp.header, resp.body); blocked {
		page = degrade(page, fmt.Sprintf("blocked by %s bot protection (HTTP %d)", vendor, resp.status))
		f.logResult(page, len(resp.body), start, nil)
		return page
	}
	if resp.status < 200 || resp.status > 299 {
		page = degrade(page, fmt.Sprintf("HTTP %d", resp.status))
		f.logResult(page, len(resp.body), start, nil)
		return page
	}

	kind := contentKind(resp.contentType)
	if kind == kindUnsupported {
		page = degrade(page, fmt.Sprintf("unsupported content type %q", resp.contentType))
		f.logResult(page, len(resp.body), start, nil)
		return page
	}
	var ex extract.Extractor = extract.PlainText{}
	if kind == kindHTML {
		ex = f.extractor()
	}
	doc, err := ex.Extract(resp.body, rawURL)
	if err != nil || doc.Text == "" {
		reason := "empty page"
		if err != nil && !errors.Is(err, extract.ErrNoText) {
			reason = "unparseable page: " + err.Error()
		}
		page.Title = doc.Title
		page = degrade(page, reason)
		f.logResult(page, len(resp.body), start, nil)
		return page
	}

	page.Title = doc.Title
	page.Content, page.Truncated = Truncate(doc.Text, rawURL, f.maxChars())
	f.logResult(page, len(resp.body), start, nil)
	return page
}

type response struct {
	status      int
	contentType string
	header      http.Header
	body        []byte
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*response, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if !isHTTPScheme(u) || u.Host == "" {
		return nil, errUnsupportedScheme
	}
	if f.Robots != nil && !f.Robots.Allowed(ctx, u.String()) {
		return nil, errDisallowed
	}
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx, u.Hostname()); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	var r io.Reader = io.LimitReader(resp.Body, f.maxBodyBytes())
	if contentKind(ct) != kindUnsupported {
		if decoded, derr := charset.NewReader(r, ct); derr == nil {
			r = decoded
		}
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &response{status: resp.StatusCode, contentType: ct, header: resp.Header, body: bytes.TrimSpace(body)}, nil
}

var (
	errUnsupportedScheme = errors.New("unsupported url scheme")
	errDisallowed        = errors.New("disallowed by robots.txt")
)

// describe turns a transport error into a short placeholder reason.
func describe(err error, timeout time.Duration) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Sprintf("timed out after %s", timeout)
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, errUnsupportedScheme), errors.Is(err, errDisallowed):
		return err.Error()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "request failed: " + urlErr.Err.Error()
	}
	return err.Error()
}

func degrade(p Page, reason string) Page {
	p.Content = Placeholder(reason)
	p.Truncated = false
	p.Unavailable = true
	p.Reason = reason
	return p
}

// Placeholder is the content recorded for a source whose text could not be
// retrieved.
func Placeholder(reason string) string {
	return "[No content available: " + reason + "]"
}

func (f *Fetcher) logResult(p Page, n int, start time.Time, err error) {
	ev := f.Logger.Debug()
	if p.Unavailable {
		ev = f.Logger.Warn()
	}
	ev.Str("url", p.URL).
		Int("status", p.StatusCode).
		Int("bytes", n).
		Bool("truncated", p.Truncated).
		Dur("duration", time.Since(start)).
		Err(err).
		Str("reason", p.Reason).
		Msg("fetch")
}

func (f *Fetcher) httpClient() *http.Client {
	base := http.Client{}
	if f.HTTPClient != nil {
		// copy so the redirect policy does not leak into the caller's client
		base = *f.HTTPClient
	}
	base.CheckRedirect = f.checkRedirectFunc()
	return &base
}

func (f *Fetcher) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := f.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func (f *Fetcher) timeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return DefaultTimeout
}

func (f *Fetcher) maxChars() int {
	if f.MaxChars == 0 {
		return DefaultMaxChars
	}
	return f.MaxChars
}

func (f *Fetcher) maxBodyBytes() int64 {
	if f.MaxBodyBytes > 0 {
		return f.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

func (f *Fetcher) userAgent() string {
	if f.UserAgent != "" {
		return f.UserAgent
	}
	return DefaultUserAgent
}

func (f *Fetcher) extractor() extract.Extractor {
	if f.Extractor != nil {
		return f.Extractor
	}
	return extract.Heuristic{}
}

func (f *Fetcher) detectors() []Detector {
	if f.Detectors != nil {
		return f.Detectors
	}
	return DefaultDetectors()
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

type kind int

const (
	kindUnsupported kind = iota
	kindHTML
	kindText
)

// contentKind gates bodies by media type. A missing header is treated as
// HTML since many small sites omit it.
func contentKind(ct string) kind {
	ct = strings.ToLower(strings.TrimSpace(ct))
	switch {
	case ct == "", strings.HasPrefix(ct, "text/html"), strings.HasPrefix(ct, "application/xhtml+xml"):
		return kindHTML
	case strings.HasPrefix(ct, "text/plain"):
		return kindText
	default:
		return kindUnsupported
	}
}
