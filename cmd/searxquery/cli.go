package main

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Dependencies holds what commands need at run time.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger zerolog.Logger
}

// Globals are flags shared by every invocation. Zero values mean "not set"
// so env and config file values keep their precedence.
type Globals struct {
	Config      string        `help:"YAML or JSON config file" type:"path"`
	EnvFile     []string      `name:"env-file" default:".env" help:"Dotenv file to load (repeatable)"`
	SearxURL    string        `name:"searx-url" help:"SearxNG base URL (default http://localhost:18080)"`
	SearchFile  string        `name:"search-file" help:"Serve hits from a local JSON file instead of SearxNG"`
	URL         string        `name:"url" help:"Fetch one URL directly and print its full content"`
	Timeout     time.Duration `help:"Per-page fetch timeout"`
	MaxChars    int           `name:"max-chars" help:"Content budget per result in characters (negative disables); also caps --url, which is unlimited by default"`
	Concurrency int           `short:"c" help:"Concurrent page fetches"`
	Extractor   string        `help:"Content extractor: heuristic or trafilatura"`
	Lang        string        `help:"Search language passed to SearxNG"`
	Robots      bool          `name:"respect-robots" help:"Skip pages disallowed by robots.txt"`
	PDF         string        `name:"pdf" help:"Also write the report to this PDF file"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
	Version     bool          `help:"Print version and exit"`
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Globals `embed:""`

	Query QueryCmd `cmd:"" default:"withargs" help:"Search and print results with page content"`
}

// QueryCmd is the "query" subcommand and the default command.
type QueryCmd struct {
	Text        string `arg:"" optional:"" help:"Search query"`
	ResultCount string `arg:"" optional:"" name:"result-count" help:"Number of results (positive integer)"`
	Count       string `short:"n" name:"count" placeholder:"N" help:"Number of results (same as the positional count)"`
}
