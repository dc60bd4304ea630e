// Package main is the entry point for tokdump, which shows how input is
// split by the backtracking cursors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/tokens/internal/config"
	"github.com/dshills/tokens/internal/config/loader"
	"github.com/dshills/tokens/internal/logging"
	"github.com/dshills/tokens/internal/source"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options holds what the flags select beyond config overrides.
type options struct {
	configPath  string
	showVersion bool
	showHelp    bool
	input       string
	overrides   map[string]any
}

// flagPaths maps flags to the config settings they override.
var flagPaths = map[string]string{
	"mode":            "input.mode",
	"m":               "input.mode",
	"encoding":        "input.encoding",
	"e":               "input.encoding",
	"normalize":       "input.normalize",
	"replace-invalid": "input.replaceInvalid",
	"max-size":        "input.maxSize",
	"format":          "output.format",
	"f":               "output.format",
	"limit":           "output.limit",
	"n":               "output.limit",
	"script":          "script.path",
	"s":               "script.path",
	"timeout":         "script.timeout",
	"watch":           "watch.enabled",
	"w":               "watch.enabled",
	"debounce":        "watch.debounce",
	"log-level":       "logging.level",
	"log-json":        "logging.json",
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	defaults := config.Default()

	fs := flag.NewFlagSet("tokdump", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.String("mode", string(defaults.Input.Mode), "Cursor mode (runes, graphemes, lines, words, json)")
	fs.String("m", string(defaults.Input.Mode), "Cursor mode (shorthand)")
	fs.String("encoding", defaults.Input.Encoding, "Input encoding (utf-8, auto, utf-16, utf-16le, utf-16be, latin1, windows-1252)")
	fs.String("e", defaults.Input.Encoding, "Input encoding (shorthand)")
	fs.String("normalize", "", "Unicode normalization (nfc, nfd)")
	fs.Bool("replace-invalid", false, "Replace invalid UTF-8 with U+FFFD")
	fs.Int("max-size", 0, "Reject inputs larger than this many bytes (0 for no limit)")
	fs.String("format", defaults.Output.Format, "Output format (text, json)")
	fs.String("f", defaults.Output.Format, "Output format (shorthand)")
	fs.Int("limit", 0, "Stop after this many records (0 for no limit)")
	fs.Int("n", 0, "Stop after this many records (shorthand)")
	fs.String("script", "", "Lua script to run against the input")
	fs.String("s", "", "Lua script to run against the input (shorthand)")
	fs.Duration("timeout", defaults.Script.Timeout, "Script execution timeout")
	fs.Bool("watch", false, "Re-run when the input or script changes")
	fs.Bool("w", false, "Re-run when the input or script changes (shorthand)")
	fs.Duration("debounce", defaults.Watch.Debounce, "Delay before re-running after a change")
	fs.String("log-level", defaults.Logging.Level, "Log level (debug, info, warn, error)")
	fs.Bool("log-json", false, "Write logs as JSON lines")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&opts.showHelp, "help", false, "Show help message")
	fs.BoolVar(&opts.showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "tokdump - show how input is split into tokens\n\n")
		fmt.Fprintf(stderr, "Usage: tokdump [options] [file]\n\n")
		fmt.Fprintf(stderr, "Reads standard input when file is omitted or \"-\".\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tokdump notes.txt                  One record per rune\n")
		fmt.Fprintf(stderr, "  tokdump -m graphemes -f json x.txt  Grapheme clusters as JSON lines\n")
		fmt.Fprintf(stderr, "  tokdump -m json -s parse.lua a.json Run a script over array members\n")
		fmt.Fprintf(stderr, "  tokdump -w -m lines log.txt         Re-run on every change\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.showHelp {
		fs.Usage()
		return opts, nil
	}

	switch fs.NArg() {
	case 0:
		opts.input = source.StdinPath
	case 1:
		opts.input = fs.Arg(0)
	default:
		return opts, fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}

	opts.overrides = make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		if path, ok := flagPaths[f.Name]; ok {
			loader.SetByPath(opts.overrides, path, f.Value.(flag.Getter).Get())
		}
	})

	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	if opts.showHelp {
		return exitOK
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "tokdump %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	}

	cfgOpts := []config.Option{config.WithOverrides(opts.overrides)}
	if opts.configPath != "" {
		cfgOpts = append(cfgOpts, config.WithFile(opts.configPath))
	}
	cfg, err := config.Load(cfgOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, config.ErrValidationFailed) || errors.Is(err, config.ErrTypeMismatch) {
			return exitUsage
		}
		return exitError
	}

	if cfg.Watch.Enabled && opts.input == source.StdinPath {
		fmt.Fprintf(stderr, "Error: -watch needs an input file\n")
		return exitUsage
	}

	log := logging.NewLogger(logging.LoggerConfig{
		Level:  logging.ParseLogLevel(cfg.Logging.Level),
		Output: stderr,
		Prefix: "tokdump",
		JSON:   cfg.Logging.JSON,
	})

	a := newApp(cfg, log, opts.input, stdin, stdout)
	if cfg.Watch.Enabled {
		if err := a.watch(ctx); err != nil {
			log.Err(err, "watch failed")
			return exitError
		}
		return exitOK
	}

	if err := a.process(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
