package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/searxquery/internal/authority"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, DefaultSearxURL, cfg.SearxURL)
	assert.Equal(t, 10, cfg.ResultCount)
	assert.Equal(t, 12000, cfg.MaxContentChars)
	assert.Equal(t, -1, cfg.URLMaxChars, "direct fetches are not truncated by default")
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, authority.DefaultAllowlist, cfg.AuthorityAllowlist())
}

func TestValidateConfig_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"no endpoint":      func(c *Config) { c.SearxURL = "" },
		"zero count":       func(c *Config) { c.ResultCount = 0 },
		"negative count":   func(c *Config) { c.ResultCount = -1 },
		"zero timeout":     func(c *Config) { c.FetchTimeout = 0 },
		"zero budget":      func(c *Config) { c.MaxContentChars = 0 },
		"zero url budget":  func(c *Config) { c.URLMaxChars = 0 },
		"zero concurrency": func(c *Config) { c.FetchConcurrency = 0 },
		"bad extractor":    func(c *Config) { c.Extractor = "magic" },
		"negative rps":     func(c *Config) { c.PerDomainRPS = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			err := ValidateConfig(cfg)
			assert.True(t, errors.Is(err, ErrUsage), "got %v", err)
		})
	}
}

func TestValidateConfig_FileProviderNeedsNoURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SearxURL = ""
	cfg.SearchFile = "hits.json"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFile_YAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "searxquery.yaml", `
searx:
  url: http://searx.internal:8080
  safesearch: 0
  timeout: 4s
search:
  count: 3
fetch:
  timeout: 2s
  maxChars: 800
  concurrency: 4
  extractor: trafilatura
authority:
  extra: [example.com]
output:
  pdf: out.pdf
verbose: true
`)
	fc, err := LoadConfigFile(p)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.SafeSearch = 1
	ApplyFileConfig(&cfg, fc)
	assert.Equal(t, "http://searx.internal:8080", cfg.SearxURL)
	assert.Equal(t, 0, cfg.SafeSearch)
	assert.Equal(t, 4*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 3, cfg.ResultCount)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 800, cfg.MaxContentChars)
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.Equal(t, "trafilatura", cfg.Extractor)
	assert.Equal(t, "out.pdf", cfg.PDFPath)
	assert.True(t, cfg.Verbose)
	assert.Contains(t, cfg.AuthorityAllowlist(), "example.com")
	assert.Contains(t, cfg.AuthorityAllowlist(), "reuters.com")
}

func TestLoadConfigFile_JSONAllowReplacesDefaults(t *testing.T) {
	p := writeFile(t, t.TempDir(), "cfg.json", `{"authority":{"allow":["only.example"]},"fetch":{"maxChars":-1}}`)
	fc, err := LoadConfigFile(p)
	require.NoError(t, err)

	cfg := DefaultConfig()
	ApplyFileConfig(&cfg, fc)
	assert.Equal(t, []string{"only.example"}, cfg.AuthorityAllowlist())
	assert.Equal(t, -1, cfg.MaxContentChars)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	p := writeFile(t, t.TempDir(), "bad.yaml", "fetch: [unclosed")
	_, err = LoadConfigFile(p)
	assert.Error(t, err)
}
