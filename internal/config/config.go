package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/dshills/tokens/internal/config/loader"
	"github.com/dshills/tokens/internal/logging"
	"github.com/dshills/tokens/internal/source"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TOKDUMP_"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the decoded, validated configuration.
type Config struct {
	Input   InputConfig
	Output  OutputConfig
	Script  ScriptConfig
	Watch   WatchConfig
	Logging LoggingConfig
}

// InputConfig controls how input is read and split.
type InputConfig struct {
	// Mode selects the cursor walked over the input.
	Mode source.Mode

	// Encoding names the input encoding.
	Encoding string

	// Normalize is "", "nfc" or "nfd".
	Normalize string

	// ReplaceInvalid replaces invalid UTF-8 with U+FFFD.
	ReplaceInvalid bool

	// MaxSize rejects larger inputs. Zero means no limit.
	MaxSize int
}

// OutputConfig controls how records are written.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string

	// Limit stops after this many records. Zero means no limit.
	Limit int
}

// ScriptConfig controls the Lua script host.
type ScriptConfig struct {
	// Path of the script. Empty means dump the input instead.
	Path string

	// Timeout bounds a single script run.
	Timeout time.Duration
}

// WatchConfig controls re-running on input changes.
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// LoggingConfig controls diagnostics on stderr.
type LoggingConfig struct {
	Level string
	JSON  bool
}

// SourceOptions returns the decoding options for the input section.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Encoding:       c.Input.Encoding,
		Normalize:      c.Input.Normalize,
		ReplaceInvalid: c.Input.ReplaceInvalid,
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	file      string
	env       loader.Loader
	overrides map[string]any
}

// WithFileSystem sets the file system the config file is read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithFile adds a config file layer. The format follows the extension.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithEnv replaces the environment layer loader.
func WithEnv(l loader.Loader) Option {
	return func(o *options) {
		o.env = l
	}
}

// WithOverrides adds the highest priority layer, usually built from flags.
func WithOverrides(m map[string]any) Option {
	return func(o *options) {
		o.overrides = m
	}
}

// Load merges defaults, the config file, the environment and overrides,
// then decodes and validates the result.
func Load(opts ...Option) (*Config, error) {
	o := options{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := defaultSettings()

	if o.file != "" {
		if _, err := o.fs.Stat(o.file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, o.file)
			}
			return nil, fmt.Errorf("config file %s: %w", o.file, err)
		}
		data, err := loader.ForPath(o.fs, o.file).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if o.env != nil {
		data, err := o.env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	merged = loader.DeepMerge(merged, o.overrides)

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode(defaultSettings())
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// Validate checks every setting and reports all failures together.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if _, err := source.ParseMode(string(c.Input.Mode)); err != nil {
		errs.Add("input.mode", "unknown mode", c.Input.Mode)
	}
	if !source.ValidEncoding(c.Input.Encoding) {
		errs.Add("input.encoding", "unknown encoding", c.Input.Encoding)
	}
	if !source.ValidNormalization(c.Input.Normalize) {
		errs.Add("input.normalize", "must be nfc or nfd", c.Input.Normalize)
	}
	if c.Input.MaxSize < 0 {
		errs.Add("input.maxSize", "must not be negative", c.Input.MaxSize)
	}
	if c.Output.Format != FormatText && c.Output.Format != FormatJSON {
		errs.Add("output.format", "must be text or json", c.Output.Format)
	}
	if c.Output.Limit < 0 {
		errs.Add("output.limit", "must not be negative", c.Output.Limit)
	}
	if c.Script.Timeout <= 0 {
		errs.Add("script.timeout", "must be positive", c.Script.Timeout)
	}
	if c.Watch.Debounce < 0 {
		errs.Add("watch.debounce", "must not be negative", c.Watch.Debounce)
	}
	if !logging.ValidLogLevel(c.Logging.Level) {
		errs.Add("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}

	if errs.HasErrors() {
		return &errs
	}
	return nil
}

// defaultSettings returns the default configuration values.
func defaultSettings() map[string]any {
	return map[string]any{
		"input": map[string]any{
			"mode":           string(source.ModeRunes),
			"encoding":       "utf-8",
			"normalize":      "",
			"replaceInvalid": false,
			"maxSize":        0,
		},
		"output": map[string]any{
			"format": FormatText,
			"limit":  0,
		},
		"script": map[string]any{
			"path":    "",
			"timeout": "5s",
		},
		"watch": map[string]any{
			"enabled":  false,
			"debounce": "100ms",
		},
		"logging": map[string]any{
			"level": "info",
			"json":  false,
		},
	}
}

// decode reads the merged map into a Config.
func decode(m map[string]any) (*Config, error) {
	s := settings{m: m}
	cfg := &Config{
		Input: InputConfig{
			Mode:           source.Mode(strings.ToLower(s.str("input.mode"))),
			Encoding:       s.str("input.encoding"),
			Normalize:      s.str("input.normalize"),
			ReplaceInvalid: s.bool("input.replaceInvalid"),
			MaxSize:        s.int("input.maxSize"),
		},
		Output: OutputConfig{
			Format: strings.ToLower(s.str("output.format")),
			Limit:  s.int("output.limit"),
		},
		Script: ScriptConfig{
			Path:    s.str("script.path"),
			Timeout: s.duration("script.timeout"),
		},
		Watch: WatchConfig{
			Enabled:  s.bool("watch.enabled"),
			Debounce: s.duration("watch.debounce"),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(s.str("logging.level")),
			JSON:  s.bool("logging.json"),
		},
	}
	if s.err != nil {
		return nil, s.err
	}
	return cfg, nil
}
