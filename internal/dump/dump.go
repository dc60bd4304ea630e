// Package dump walks a cursor over input text and writes one record per
// item it produces.
package dump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/dshills/tokens/internal/source"
	"github.com/dshills/tokens/internal/tokens"
)

// Options controls a dump.
type Options struct {
	Mode   source.Mode
	Format string

	// Limit stops after this many records. Zero means no limit.
	Limit int
}

// Result summarizes a dump.
type Result struct {
	Records   int
	Truncated bool
}

// Dump splits text according to opts.Mode and writes a record for every
// item to w.
func Dump(w io.Writer, text string, opts Options) (Result, error) {
	f, err := NewFormatter(opts.Format)
	if err != nil {
		return Result{}, err
	}

	bw := bufio.NewWriter(w)
	emit := func(r Record) error {
		return f.WriteRecord(bw, r)
	}

	res, err := dispatch(text, opts, emit)
	if err != nil {
		return res, err
	}
	if err := bw.Flush(); err != nil {
		return res, fmt.Errorf("writing output: %w", err)
	}
	return res, nil
}

func dispatch(text string, opts Options, emit func(Record) error) (Result, error) {
	switch opts.Mode {
	case source.ModeRunes, "":
		t := tokens.FromString(text)
		return walk(t.IntoTokens(), t.Offset, textLocator(text), runeValue, emit, opts.Limit)
	case source.ModeGraphemes:
		t := tokens.FromGraphemes(text)
		return walk(t.IntoTokens(), t.Offset, textLocator(text), stringValue, emit, opts.Limit)
	case source.ModeLines:
		t := tokens.FromSlice(source.Lines(text))
		return walk(t.IntoTokens(), t.Offset, nil, derefString, emit, opts.Limit)
	case source.ModeWords:
		t := tokens.FromSlice(source.Words(text))
		return walk(t.IntoTokens(), t.Offset, nil, derefString, emit, opts.Limit)
	case source.ModeJSON:
		elems, err := source.JSONElements(text)
		if err != nil {
			return Result{}, err
		}
		t := tokens.FromSlice(elems)
		return walk(t.IntoTokens(), t.Offset, nil, jsonValue, emit, opts.Limit)
	default:
		return Result{}, fmt.Errorf("%w: %q", source.ErrUnknownMode, opts.Mode)
	}
}

// value renders an item as display text and, for JSON items, raw JSON.
type value[T any] func(T) (text, raw string)

func runeValue(r rune) (string, string)      { return string(r), "" }
func stringValue(s string) (string, string)  { return s, "" }
func derefString(s *string) (string, string) { return *s, "" }

// jsonValue compacts the member so a record stays on one line.
func jsonValue(r *gjson.Result) (string, string) {
	return r.String(), string(pretty.Ugly([]byte(r.Raw)))
}

func textLocator(text string) func(int) *tokens.Location {
	loc := tokens.NewLocator(text)
	return func(offset int) *tokens.Location {
		l := loc.Locate(offset)
		return &l
	}
}

// walk drains t, emitting a record per item until the cursor is exhausted
// or limit records were written. locate may be nil.
func walk[T any](
	t tokens.Tokens[T],
	offset func() int,
	locate func(int) *tokens.Location,
	render value[T],
	emit func(Record) error,
	limit int,
) (Result, error) {
	var res Result
	for {
		if limit > 0 && res.Records == limit {
			_, more := tokens.Peek(t)
			res.Truncated = more
			return res, nil
		}

		before := offset()
		item, ok := t.Next()
		if !ok {
			return res, nil
		}

		text, raw := render(item)
		r := Record{
			Index:  res.Records,
			Offset: before,
			Width:  offset() - before,
			Value:  text,
			Raw:    raw,
		}
		if locate != nil {
			r.Location = locate(before)
		}
		if err := emit(r); err != nil {
			return res, fmt.Errorf("writing record %d: %w", r.Index, err)
		}
		res.Records++
	}
}
