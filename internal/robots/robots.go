// Package robots evaluates robots.txt rules for page fetches. Rules are held
// in memory for one invocation only.
package robots

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Rules is a parsed robots.txt.
type Rules struct {
	Groups []Group
}

// Group is one User-agent block.
type Group struct {
	Agents   []string
	Allow    []string
	Disallow []string
}

// Parse reads robots.txt text. Unknown directives are ignored.
func Parse(r io.Reader) Rules {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var rules Rules
	var cur Group
	inRules := false
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "user-agent", "useragent":
			// a user-agent line after rules starts a new group
			if inRules {
				rules.Groups = append(rules.Groups, cur)
				cur, inRules = Group{}, false
			}
			cur.Agents = append(cur.Agents, strings.ToLower(val))
		case "allow":
			cur.Allow = append(cur.Allow, val)
			inRules = true
		case "disallow":
			cur.Disallow = append(cur.Disallow, val)
			inRules = true
		}
	}
	if len(cur.Agents) > 0 {
		rules.Groups = append(rules.Groups, cur)
	}
	return rules
}

// Allowed reports whether agent may fetch path (which may carry a query).
// The longest matching pattern wins and Allow wins ties. No match allows.
func (r Rules) Allowed(agent, path string) bool {
	g, ok := r.group(agent)
	if !ok {
		return true
	}
	best, allow := -1, true
	consider := func(patterns []string, isAllow bool) {
		for _, p := range patterns {
			if p == "" || !match(p, path) {
				continue
			}
			n := specificity(p)
			if n > best || (n == best && isAllow) {
				best, allow = n, isAllow
			}
		}
	}
	consider(g.Disallow, false)
	consider(g.Allow, true)
	return allow
}

// group picks the group whose agent token is the longest substring of
// agent, falling back to "*".
func (r Rules) group(agent string) (Group, bool) {
	agent = strings.ToLower(agent)
	idx, score := -1, -1
	for i, g := range r.Groups {
		for _, a := range g.Agents {
			s := -1
			switch {
			case a == "*":
				s = 0
			case a != "" && strings.Contains(agent, a):
				s = len(a)
			}
			if s > score {
				idx, score = i, s
			}
		}
	}
	if idx < 0 {
		return Group{}, false
	}
	return r.Groups[idx], true
}

// match applies a robots pattern anchored at the start of path. '*' matches
// any run of characters and a trailing '$' anchors the end.
func match(pattern, path string) bool {
	anchored := strings.HasSuffix(pattern, "$")
	pattern = strings.TrimSuffix(pattern, "$")
	parts := strings.Split(pattern, "*")
	if !strings.HasPrefix(path, parts[0]) {
		return false
	}
	rest := path[len(parts[0]):]
	for i, part := range parts[1:] {
		last := i == len(parts)-2
		if last && anchored {
			return strings.HasSuffix(rest, part)
		}
		j := strings.Index(rest, part)
		if j < 0 {
			return false
		}
		rest = rest[j+len(part):]
	}
	return !anchored || rest == ""
}

func specificity(p string) int {
	return len(strings.ReplaceAll(strings.TrimSuffix(p, "$"), "*", ""))
}

// Checker fetches robots.txt once per origin and answers Allowed queries.
// An unreachable or non-2xx robots.txt allows everything.
type Checker struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	Logger     zerolog.Logger

	mu      sync.Mutex
	origins map[string]*originRules
}

// originRules loads one origin's robots.txt at most once; concurrent
// callers for the same origin wait on the same load.
type originRules struct {
	once  sync.Once
	rules Rules
}

// Allowed reports whether rawURL may be fetched.
func (c *Checker) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}
	origin := u.Scheme + "://" + u.Host
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return c.rulesFor(ctx, origin).Allowed(c.UserAgent, path)
}

func (c *Checker) rulesFor(ctx context.Context, origin string) Rules {
	c.mu.Lock()
	if c.origins == nil {
		c.origins = make(map[string]*originRules)
	}
	o, ok := c.origins[origin]
	if !ok {
		o = &originRules{}
		c.origins[origin] = o
	}
	c.mu.Unlock()

	o.once.Do(func() {
		o.rules = c.load(ctx, origin+"/robots.txt")
	})
	return o.rules
}

func (c *Checker) load(ctx context.Context, robotsURL string) Rules {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return Rules{}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		c.Logger.Debug().Err(err).Str("url", robotsURL).Msg("robots.txt unavailable")
		return Rules{}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Logger.Debug().Int("status", resp.StatusCode).Str("url", robotsURL).Msg("robots.txt not served")
		return Rules{}
	}
	return Parse(io.LimitReader(resp.Body, 512<<10))
}
