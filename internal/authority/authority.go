// Package authority classifies sources into coarse trust tiers based only on
// the domain of their URL.
package authority

import (
	"net/url"
	"strings"
)

// Tier is the authority classification of a source.
type Tier int

const (
	Standard Tier = iota
	Authoritative
)

func (t Tier) String() string {
	if t == Authoritative {
		return "AUTHORITATIVE"
	}
	return "STANDARD"
}

// authoritativeSuffixes are top-level domains that always classify as
// authoritative.
var authoritativeSuffixes = []string{".edu", ".gov", ".org"}

// DefaultAllowlist holds well-known news and reference domains. Operators
// replace or extend it through configuration.
var DefaultAllowlist = []string{
	"apnews.com",
	"arxiv.org",
	"bbc.co.uk",
	"bbc.com",
	"bloomberg.com",
	"britannica.com",
	"economist.com",
	"ft.com",
	"nature.com",
	"npr.org",
	"nytimes.com",
	"reuters.com",
	"science.org",
	"theguardian.com",
	"washingtonpost.com",
	"wsj.com",
}

// Classifier maps URLs to tiers. The zero value recognizes only the
// authoritative suffixes.
type Classifier struct {
	domains []string
}

// New returns a Classifier with the given allow-list. Entries are hosts or
// parent domains; subdomains of an entry match too.
func New(allow []string) *Classifier {
	c := &Classifier{domains: make([]string, 0, len(allow))}
	for _, d := range allow {
		if d = normalizeHost(d); d != "" {
			c.domains = append(c.domains, d)
		}
	}
	return c
}

var defaultClassifier = New(DefaultAllowlist)

// Classify uses the default allow-list.
func Classify(rawURL string) Tier {
	return defaultClassifier.Classify(rawURL)
}

// Classify never fails; anything without a parsable host is Standard.
func (c *Classifier) Classify(rawURL string) Tier {
	host := hostOf(rawURL)
	if host == "" {
		return Standard
	}
	for _, s := range authoritativeSuffixes {
		if strings.HasSuffix(host, s) && len(host) > len(s) {
			return Authoritative
		}
	}
	if c == nil {
		return Standard
	}
	for _, d := range c.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return Authoritative
		}
	}
	return Standard
}

// Domains returns a copy of the configured allow-list.
func (c *Classifier) Domains() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.domains...)
}

func hostOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if bareDomain(rawURL, u, err) {
		// "mit.edu/paper" parses as a path; read it as a network path instead
		u, err = url.Parse("//" + rawURL)
	}
	if err != nil || u == nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}

// bareDomain reports whether rawURL looks like a host without a scheme.
func bareDomain(rawURL string, u *url.URL, err error) bool {
	if strings.HasPrefix(rawURL, "/") || strings.Contains(rawURL, "://") {
		return false
	}
	return err != nil || (u.Scheme == "" && u.Host == "")
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "*.")
	h = strings.TrimSuffix(h, ".")
	return h
}
