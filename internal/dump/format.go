package dump

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/sjson"

	"github.com/dshills/tokens/internal/tokens"
)

// ErrUnknownFormat indicates an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Record describes one item produced by a cursor.
type Record struct {
	// Index counts items from zero.
	Index int

	// Offset is the cursor offset before the item was read: a byte offset
	// for text cursors, an element index for slice cursors.
	Offset int

	// Width is how far the cursor advanced for this item.
	Width int

	// Value is the item as text.
	Value string

	// Raw holds the item's JSON encoding when it already is JSON.
	Raw string

	// Location is set for text cursors.
	Location *tokens.Location
}

// Formatter writes records.
type Formatter interface {
	WriteRecord(w io.Writer, r Record) error
}

// NewFormatter returns the formatter for "text" or "json".
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "", "text":
		return textFormatter{}, nil
	case "json":
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// textFormatter writes tab separated columns:
// index, offset, line:column ("-" for slice cursors), quoted value.
type textFormatter struct{}

func (textFormatter) WriteRecord(w io.Writer, r Record) error {
	loc := "-"
	if r.Location != nil {
		loc = r.Location.String()
	}
	value := r.Raw
	if value == "" {
		value = strconv.Quote(r.Value)
	}
	_, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", r.Index, r.Offset, loc, value)
	return err
}

// jsonFormatter writes one JSON object per line.
type jsonFormatter struct{}

func (jsonFormatter) WriteRecord(w io.Writer, r Record) error {
	line, err := encodeRecord(r)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, line+"\n")
	return err
}

type field struct {
	path  string
	value any
}

func encodeRecord(r Record) (string, error) {
	fields := []field{
		{"index", r.Index},
		{"offset", r.Offset},
		{"width", r.Width},
	}
	if r.Location != nil {
		fields = append(fields, field{"line", r.Location.Line}, field{"column", r.Location.Column})
	}

	line := "{}"
	var err error
	for _, f := range fields {
		if line, err = sjson.Set(line, f.path, f.value); err != nil {
			return "", fmt.Errorf("encoding %s: %w", f.path, err)
		}
	}

	if r.Raw != "" {
		line, err = sjson.SetRaw(line, "value", r.Raw)
	} else {
		line, err = sjson.Set(line, "value", r.Value)
	}
	if err != nil {
		return "", fmt.Errorf("encoding value: %w", err)
	}
	return line, nil
}
