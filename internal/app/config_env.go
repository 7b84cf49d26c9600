package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file and before flags. Unparseable values
// are reported instead of being ignored.
func ApplyEnvOverrides(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	setStr := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	var errs []string
	setInt := func(dst *int, key string) {
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q is not an integer", key, s))
				return
			}
			*dst = n
		}
	}
	setDur := func(dst *time.Duration, key string) {
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			d, err := parseDuration(s)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s=%q is not a duration", key, s))
				return
			}
			*dst = d
		}
	}
	setBool := func(dst *bool, key string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(key))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}

	setStr(&cfg.SearxURL, "SEARX_URL", "SEARXNG_URL")
	setStr(&cfg.SearxKey, "SEARX_KEY", "SEARXNG_KEY")
	setStr(&cfg.SearchFile, "SEARCH_FILE")
	setStr(&cfg.Language, "LANGUAGE")
	setStr(&cfg.Extractor, "EXTRACTOR")
	setStr(&cfg.UserAgent, "USER_AGENT")
	setInt(&cfg.ResultCount, "RESULT_COUNT")
	setInt(&cfg.MaxContentChars, "MAX_CONTENT_CHARS")
	setInt(&cfg.URLMaxChars, "URL_MAX_CHARS")
	setInt(&cfg.FetchConcurrency, "FETCH_CONCURRENCY")
	setDur(&cfg.FetchTimeout, "FETCH_TIMEOUT")
	setDur(&cfg.SearchTimeout, "SEARCH_TIMEOUT")
	setBool(&cfg.RespectRobots, "RESPECT_ROBOTS")
	setBool(&cfg.Verbose, "VERBOSE")

	if v := strings.TrimSpace(os.Getenv("AUTHORITY_DOMAINS")); v != "" {
		cfg.AuthorityExtra = splitList(v)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrUsage, strings.Join(errs, "; "))
	}
	return nil
}

// parseDuration accepts Go duration strings and bare integers as seconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
