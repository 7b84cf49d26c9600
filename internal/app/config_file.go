package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Duration accepts Go duration strings such as "10s" in YAML and JSON.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// FileConfig is the single-file configuration schema. Nested sections map
// onto flags and environment variables.
type FileConfig struct {
	Searx struct {
		URL        string   `yaml:"url" json:"url"`
		Key        string   `yaml:"key" json:"key"`
		Language   string   `yaml:"language" json:"language"`
		SafeSearch *int     `yaml:"safesearch" json:"safesearch"`
		Categories string   `yaml:"categories" json:"categories"`
		MaxPages   int      `yaml:"maxPages" json:"maxPages"`
		Timeout    Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"searx" json:"searx"`

	Search struct {
		File  string `yaml:"file" json:"file"`
		Count int    `yaml:"count" json:"count"`
	} `yaml:"search" json:"search"`

	Fetch struct {
		Timeout      Duration `yaml:"timeout" json:"timeout"`
		MaxChars     int      `yaml:"maxChars" json:"maxChars"`
		URLMaxChars  int      `yaml:"urlMaxChars" json:"urlMaxChars"`
		MaxBodyBytes int64    `yaml:"maxBodyBytes" json:"maxBodyBytes"`
		MaxRedirects int      `yaml:"maxRedirects" json:"maxRedirects"`
		Concurrency  int      `yaml:"concurrency" json:"concurrency"`
		PerDomainRPS float64  `yaml:"perDomainRPS" json:"perDomainRPS"`
		Robots       bool     `yaml:"respectRobots" json:"respectRobots"`
		Extractor    string   `yaml:"extractor" json:"extractor"`
		UserAgent    string   `yaml:"userAgent" json:"userAgent"`
	} `yaml:"fetch" json:"fetch"`

	Authority struct {
		Allow []string `yaml:"allow" json:"allow"`
		Extra []string `yaml:"extra" json:"extra"`
	} `yaml:"authority" json:"authority"`

	Output struct {
		PDF string `yaml:"pdf" json:"pdf"`
	} `yaml:"output" json:"output"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig, choosing by extension
// and trying YAML then JSON for anything else.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It runs before
// env and flags, so those keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}

	setStr(&cfg.SearxURL, fc.Searx.URL)
	setStr(&cfg.SearxKey, fc.Searx.Key)
	setStr(&cfg.Language, fc.Searx.Language)
	if fc.Searx.SafeSearch != nil {
		cfg.SafeSearch = *fc.Searx.SafeSearch
	}
	setStr(&cfg.Categories, fc.Searx.Categories)
	setInt(&cfg.SearchMaxPages, fc.Searx.MaxPages)
	if fc.Searx.Timeout > 0 {
		cfg.SearchTimeout = time.Duration(fc.Searx.Timeout)
	}

	setStr(&cfg.SearchFile, fc.Search.File)
	setInt(&cfg.ResultCount, fc.Search.Count)

	if fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = time.Duration(fc.Fetch.Timeout)
	}
	if fc.Fetch.MaxChars != 0 {
		cfg.MaxContentChars = fc.Fetch.MaxChars
	}
	if fc.Fetch.URLMaxChars != 0 {
		cfg.URLMaxChars = fc.Fetch.URLMaxChars
	}
	if fc.Fetch.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = fc.Fetch.MaxBodyBytes
	}
	setInt(&cfg.MaxRedirects, fc.Fetch.MaxRedirects)
	setInt(&cfg.FetchConcurrency, fc.Fetch.Concurrency)
	if fc.Fetch.PerDomainRPS > 0 {
		cfg.PerDomainRPS = fc.Fetch.PerDomainRPS
	}
	if fc.Fetch.Robots {
		cfg.RespectRobots = true
	}
	setStr(&cfg.Extractor, fc.Fetch.Extractor)
	setStr(&cfg.UserAgent, fc.Fetch.UserAgent)

	if len(fc.Authority.Allow) > 0 {
		cfg.AuthorityDomains = append([]string{}, fc.Authority.Allow...)
	}
	if len(fc.Authority.Extra) > 0 {
		cfg.AuthorityExtra = append([]string{}, fc.Authority.Extra...)
	}

	setStr(&cfg.PDFPath, fc.Output.PDF)
	if fc.Verbose {
		cfg.Verbose = true
	}
}
