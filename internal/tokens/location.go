package tokens

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// Location identifies a position in text for diagnostics.
type Location struct {
	Offset int // Byte offset
	Line   int // 1-based line number
	Column int // 1-based column, counted in grapheme clusters
}

// String returns the location as "line:column".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// LocationOf returns the location of a byte offset within text.
// Offsets outside the text are clamped to its bounds.
func LocationOf(text string, offset int) Location {
	return NewLocator(text).Locate(offset)
}

// Locator computes locations within one text. Moving forward only scans
// the bytes between the previous offset and the new one; moving backward
// starts over from the beginning.
type Locator struct {
	text      string
	offset    int
	line      int
	lineStart int
}

// NewLocator creates a locator for text.
func NewLocator(text string) *Locator {
	return &Locator{text: text, line: 1}
}

// Locate returns the location of offset, clamped to the bounds of the text.
func (l *Locator) Locate(offset int) Location {
	offset = max(0, min(offset, len(l.text)))
	if offset < l.offset {
		l.offset, l.line, l.lineStart = 0, 1, 0
	}

	span := l.text[l.offset:offset]
	if n := strings.Count(span, "\n"); n > 0 {
		l.line += n
		l.lineStart = l.offset + strings.LastIndexByte(span, '\n') + 1
	}
	l.offset = offset

	return Location{
		Offset: offset,
		Line:   l.line,
		Column: uniseg.GraphemeClusterCount(l.text[l.lineStart:offset]) + 1,
	}
}
