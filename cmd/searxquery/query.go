package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/searxquery/internal/app"
	"github.com/hyperifyio/searxquery/internal/report"
)

// Run executes query mode, or URL mode when --url is set.
func (c *QueryCmd) Run(g *Globals, deps *Dependencies) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}

	text := strings.TrimSpace(c.Text)
	if g.URL != "" && (text != "" || c.ResultCount != "") {
		return fmt.Errorf("%w: --url cannot be combined with a query", app.ErrUsage)
	}
	if g.URL == "" && text == "" {
		return fmt.Errorf("%w: missing query (usage: searxquery \"<query>\" [count] or searxquery --url <URL>)", app.ErrUsage)
	}

	// the positional count wins over --count
	for _, s := range []string{c.Count, c.ResultCount} {
		if s == "" {
			continue
		}
		n, err := parseCount(s)
		if err != nil {
			return err
		}
		cfg.ResultCount = n
	}
	if cfg.ResultCount < 1 {
		return fmt.Errorf("%w: result count must be a positive integer, got %d", app.ErrUsage, cfg.ResultCount)
	}

	logger := deps.Logger
	if cfg.Verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	var rep report.Report
	if g.URL != "" {
		rep, err = a.FetchURL(deps.Ctx, g.URL)
	} else {
		rep, err = a.Search(deps.Ctx, text)
	}
	if err != nil {
		return err
	}
	return a.Render(deps.Stdout, rep)
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: result count must be a positive integer, got %q", app.ErrUsage, s)
	}
	return n, nil
}

// loadConfig applies dotenv files, the config file, the environment and
// finally flags, in increasing precedence.
func loadConfig(g *Globals) (app.Config, error) {
	if err := app.LoadEnvFiles(g.EnvFile...); err != nil {
		return app.Config{}, fmt.Errorf("%w: load env file: %v", app.ErrUsage, err)
	}
	cfg := app.DefaultConfig()
	if g.Config != "" {
		fc, err := app.LoadConfigFile(g.Config)
		if err != nil {
			return app.Config{}, fmt.Errorf("%w: config file %s: %v", app.ErrUsage, g.Config, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.ApplyEnvOverrides(&cfg); err != nil {
		return app.Config{}, err
	}

	if g.SearxURL != "" {
		cfg.SearxURL = g.SearxURL
	}
	if g.SearchFile != "" {
		cfg.SearchFile = g.SearchFile
	}
	if g.Timeout != 0 {
		cfg.FetchTimeout = g.Timeout
	}
	if g.MaxChars != 0 {
		cfg.MaxContentChars = g.MaxChars
		cfg.URLMaxChars = g.MaxChars
	}
	if g.Concurrency != 0 {
		cfg.FetchConcurrency = g.Concurrency
	}
	if g.Extractor != "" {
		cfg.Extractor = g.Extractor
	}
	if g.Lang != "" {
		cfg.Language = g.Lang
	}
	if g.Robots {
		cfg.RespectRobots = true
	}
	if g.PDF != "" {
		cfg.PDFPath = g.PDF
	}
	if g.Verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}
