package source

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Mode selects how text is turned into items.
type Mode string

// Supported modes.
const (
	ModeRunes     Mode = "runes"     // one rune per item
	ModeGraphemes Mode = "graphemes" // one grapheme cluster per item
	ModeLines     Mode = "lines"     // one line per item
	ModeWords     Mode = "words"     // one whitespace-separated word per item
	ModeJSON      Mode = "json"      // one JSON array member per item
)

// Modes lists the supported modes.
func Modes() []Mode {
	return []Mode{ModeRunes, ModeGraphemes, ModeLines, ModeWords, ModeJSON}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(s))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// IsText reports whether m walks the text itself rather than a slice of
// elements split from it.
func (m Mode) IsText() bool {
	return m == ModeRunes || m == ModeGraphemes
}

// Lines splits text into lines without their terminators.
// A trailing newline does not produce an empty final line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Words splits text around runs of whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// JSONElements returns the members of the top-level JSON array in text.
func JSONElements(text string) ([]gjson.Result, error) {
	if !gjson.Valid(text) {
		return nil, ErrInvalidJSON
	}
	root := gjson.Parse(text)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: top-level value is %s", ErrNotArray, root.Type)
	}
	return root.Array(), nil
}
