package main

import (
	"context"
	"io"

	"github.com/dshills/tokens/internal/config"
	"github.com/dshills/tokens/internal/dump"
	"github.com/dshills/tokens/internal/logging"
	"github.com/dshills/tokens/internal/script"
	"github.com/dshills/tokens/internal/source"
	"github.com/dshills/tokens/internal/watch"
)

// app processes one input according to the configuration.
type app struct {
	cfg    *config.Config
	log    *logging.Logger
	input  string
	reader *source.Reader
	host   *script.Host
	stdout io.Writer
}

func newApp(cfg *config.Config, log *logging.Logger, input string, stdin io.Reader, stdout io.Writer) *app {
	return &app{
		cfg:   cfg,
		log:   log,
		input: input,
		reader: source.NewReader(cfg.SourceOptions(),
			source.WithStdin(stdin),
			source.WithMaxSize(cfg.Input.MaxSize),
			source.WithLogger(log.WithComponent("source")),
		),
		host: script.NewHost(
			script.WithTimeout(cfg.Script.Timeout),
			script.WithOutput(stdout),
			script.WithLogger(log.WithComponent("script")),
		),
		stdout: stdout,
	}
}

// process reads the input once and either dumps it or runs the script.
func (a *app) process(ctx context.Context) error {
	text, err := a.reader.Read(a.input)
	if err != nil {
		return err
	}

	if a.cfg.Script.Path != "" {
		in, err := script.NewInput(a.cfg.Input.Mode, text.Content)
		if err != nil {
			return err
		}
		res, err := a.host.RunFile(ctx, a.cfg.Script.Path, in)
		if err != nil {
			return err
		}
		a.log.Debug("script emitted %d records, cursor at %d", res.Emitted, res.Offset)
		return nil
	}

	res, err := dump.Dump(a.stdout, text.Content, dump.Options{
		Mode:   a.cfg.Input.Mode,
		Format: a.cfg.Output.Format,
		Limit:  a.cfg.Output.Limit,
	})
	if err != nil {
		return err
	}
	if res.Truncated {
		a.log.Info("output truncated after %d records", res.Records)
	}
	a.log.Debug("dumped %d records from %s", res.Records, text.Path)
	return nil
}

// watch processes the input, then again after every change to the input
// or the script, until ctx is done. Failed runs are logged, not fatal.
func (a *app) watch(ctx context.Context) error {
	w, err := watch.New(
		watch.WithDebounce(a.cfg.Watch.Debounce),
		watch.WithLogger(a.log.WithComponent("watch")),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(a.input); err != nil {
		return err
	}
	if a.cfg.Script.Path != "" {
		if err := w.Add(a.cfg.Script.Path); err != nil {
			return err
		}
	}

	a.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			a.log.Info("%s %s, re-running", ev.Path, ev.Op)
			a.runLogged(ctx)
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			a.log.Warn("watch error: %v", err)
		}
	}
}

func (a *app) runLogged(ctx context.Context) {
	if err := a.process(ctx); err != nil {
		a.log.Err(err, "run failed")
	}
}
