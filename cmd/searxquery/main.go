// Command searxquery searches a SearxNG instance and prints each hit with
// its readable page content, sized for pasting into an agent's context.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hyperifyio/searxquery/internal/app"
	"github.com/hyperifyio/searxquery/internal/query"
	"github.com/hyperifyio/searxquery/internal/search"
)

// Exit codes.
const (
	exitOK        = 0
	exitAggregate = 1
	exitUsage     = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

var negativeNumber = regexp.MustCompile(`^-\d+$`)

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Str("run", uuid.NewString()).Logger()

	// a negative count would otherwise be parsed as an unknown short flag
	for i, a := range args {
		if a == "--" {
			break
		}
		if negativeNumber.MatchString(a) && (i == 0 || !strings.HasPrefix(args[i-1], "-")) {
			fmt.Fprintf(stderr, "searxquery: result count must be a positive integer, got %q\n", a)
			return exitUsage
		}
	}

	deps := &Dependencies{Ctx: ctx, Stdout: stdout, Stderr: stderr, Logger: logger}
	cli := &CLI{}
	exited, exitCode := false, exitOK
	parser, err := kong.New(cli,
		kong.Name("searxquery"),
		kong.Description("Search SearxNG and print results with full page content."),
		kong.Writers(stdout, stderr),
		// kong calls Exit after printing help; record it instead of exiting
		kong.Exit(func(code int) {
			exited = true
			exitCode = code
		}),
		kong.Bind(&cli.Globals, deps),
	)
	if err != nil {
		fmt.Fprintf(stderr, "searxquery: failed to create parser: %v\n", err)
		return exitUsage
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "searxquery: missing query. Run 'searxquery --help' for usage.")
		return exitUsage
	}
	kctx, err := parser.Parse(args)
	if exited {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "searxquery: %v\n", err)
		return exitUsage
	}
	if cli.Version {
		fmt.Fprintln(stdout, app.VersionString())
		return exitOK
	}

	if err := kctx.Run(deps); err != nil {
		return reportError(stderr, err)
	}
	return exitOK
}

func reportError(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "searxquery: %v\n", err)
	switch {
	case errors.Is(err, app.ErrUsage), errors.Is(err, query.ErrInvalidRequest):
		return exitUsage
	case errors.Is(err, search.ErrAggregator):
		fmt.Fprintln(stderr, "Hint: check that SearxNG is running and SEARX_URL points at it")
		return exitAggregate
	default:
		return exitAggregate
	}
}
