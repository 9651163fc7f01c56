// Command rxlab tests a regular expression against a subject and prints the
// highlighted matches.
//
// Usage:
//
//	rxlab [options] PATTERN [SUBJECT]
//
// The subject is taken from the SUBJECT argument, the -file option, or
// standard input, in that order. Exit status is 0 when at least one match is
// found, 1 when there is none and 2 on an invalid pattern or usage error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"go.dw1.io/rxlab/internal/config"
	"go.dw1.io/rxlab/internal/source"
	"go.dw1.io/rxlab/match"
	"go.dw1.io/rxlab/render"
	"go.dw1.io/rxlab/tester"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

var errDeadline = errors.New("evaluation exceeded timeout")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("rxlab", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: rxlab [options] PATTERN [SUBJECT]")
		fs.PrintDefaults()
	}

	var (
		flagConfig  = fs.String("config", getenv("RXLAB_CONFIG"), "YAML configuration file")
		flagFlags   = fs.String("flags", "", "pattern flags: g global, i ignore case, m multiline, s dot matches newline (default from config: gm)")
		flagFile    = fs.String("file", "", "read the subject from `path` (\"-\" for stdin)")
		flagLimit   = fs.Int("limit", -1, "maximum number of matches in global mode (0 for the default)")
		flagTimeout = fs.Duration("timeout", -1, "wall-clock bound for the evaluation and each backtracking search")
		flagJSON    = fs.Bool("json", false, "print the report as JSON")
		flagColor   = fs.String("color", "", "colour output: auto, always or never")
		flagQuiet   = fs.Bool("q", false, "print only the highlighted subject and count")
		flagVerbose = fs.Bool("v", false, "debug logging on stderr")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitMatch
		}
		return exitError
	}

	level := slog.LevelWarn
	if *flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*flagConfig, getenv)
	if err != nil {
		logger.Error("load config", "err", err)
		return exitError
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "flags":
			cfg.Flags = *flagFlags
		case "limit":
			cfg.Limit = *flagLimit
		case "timeout":
			cfg.Timeout = *flagTimeout
		case "json":
			if *flagJSON {
				cfg.Format = config.FormatJSON
			} else {
				cfg.Format = config.FormatText
			}
		case "color":
			cfg.Color = config.Color(*flagColor)
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid options", "err", err)
		return exitError
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return exitError
	}

	subject, err := loadSubject(fs.Args(), *flagFile, stdin)
	if err != nil {
		logger.Error("load subject", "err", err)
		return exitError
	}

	pattern := match.Pattern{Source: fs.Arg(0), Flags: cfg.Flags}
	logger.Debug("evaluate",
		"pattern", pattern.Source,
		"flags", pattern.Flags,
		"subject_bytes", len(subject),
		"limit", cfg.Limit,
		"timeout", cfg.Timeout,
	)

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	rep, err := evaluate(ctx, pattern, subject, cfg.MatchOptions()...)
	if err != nil {
		logger.Error("evaluate", "err", err, "elapsed", time.Since(start))
		return exitError
	}
	logger.Debug("evaluated",
		"valid", rep.Valid(),
		"count", rep.Count(),
		"elapsed", time.Since(start),
	)

	r := render.New(stdout,
		render.WithColor(useColor(cfg.Color, stdout)),
		render.WithDetails(!*flagQuiet),
	)
	if cfg.Format == config.FormatJSON {
		err = r.JSON(rep)
	} else {
		err = r.Text(rep)
	}
	if err != nil {
		logger.Error("write output", "err", err)
		return exitError
	}

	switch {
	case !rep.Valid():
		return exitError
	case rep.Count() == 0:
		return exitNoMatch
	default:
		return exitMatch
	}
}

// evaluate runs the pipeline and gives up when ctx is done. The search itself
// cannot be interrupted; it is left to finish in the background.
func evaluate(ctx context.Context, p match.Pattern, subject string, opts ...match.Option) (tester.Report, error) {
	done := make(chan tester.Report, 1)
	go func() {
		done <- tester.Evaluate(p, subject, opts...)
	}()

	select {
	case rep := <-done:
		return rep, nil
	case <-ctx.Done():
		return tester.Report{}, fmt.Errorf("%w: %w", errDeadline, ctx.Err())
	}
}

func loadSubject(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	if file != "" {
		return source.ReadFile(file, stdin)
	}

	return source.Read(stdin)
}

func useColor(c config.Color, w io.Writer) bool {
	switch c {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
