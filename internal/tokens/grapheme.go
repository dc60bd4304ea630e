package tokens

import "github.com/rivo/uniseg"

// GraphemeTokens is a cursor over a UTF-8 string that yields extended
// grapheme clusters, the units a reader perceives as single characters.
// "é" and "👍🏽" are each one item.
type GraphemeTokens struct {
	owner
	str    string
	offset int
}

// FromGraphemes creates a grapheme cursor at the start of s.
func FromGraphemes(s string) *GraphemeTokens {
	return &GraphemeTokens{
		owner: owner{id: nextOwner()},
		str:   s,
	}
}

// Next returns the grapheme cluster at the current offset and advances
// past it.
func (t *GraphemeTokens) Next() (string, bool) {
	if t.offset >= len(t.str) {
		return "", false
	}
	// State -1 restarts segmentation; valid because offset is always on a
	// cluster boundary.
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(t.str[t.offset:], -1)
	t.offset += len(cluster)
	return cluster, true
}

// SaveCheckpoint captures the current byte offset.
func (t *GraphemeTokens) SaveCheckpoint() Checkpoint {
	return t.checkpoint(t.offset)
}

// RewindToCheckpoint resets the byte offset to the one captured in cp.
func (t *GraphemeTokens) RewindToCheckpoint(cp Checkpoint) error {
	if err := t.validate(cp, len(t.str)); err != nil {
		return err
	}
	t.offset = cp.offset
	return nil
}

// Clone creates a cursor at the same position with its own identity.
// Checkpoints saved by t are not valid for the clone and the reverse.
func (t *GraphemeTokens) Clone() *GraphemeTokens {
	return &GraphemeTokens{
		owner:  owner{id: nextOwner()},
		str:    t.str,
		offset: t.offset,
	}
}

// Consumed returns the text already produced.
func (t *GraphemeTokens) Consumed() string {
	return t.str[:t.offset]
}

// Remaining returns the text not yet produced.
func (t *GraphemeTokens) Remaining() string {
	return t.str[t.offset:]
}

// Source returns the full string the cursor was created from.
func (t *GraphemeTokens) Source() string {
	return t.str
}

// Offset returns the current byte offset.
func (t *GraphemeTokens) Offset() int {
	return t.offset
}

// AtEnd returns true if the whole string has been produced.
func (t *GraphemeTokens) AtEnd() bool {
	return t.offset >= len(t.str)
}

// Location returns the line and column of the current offset.
func (t *GraphemeTokens) Location() Location {
	return LocationOf(t.str, t.offset)
}

// IntoTokens returns t itself.
func (t *GraphemeTokens) IntoTokens() Tokens[string] {
	return t
}
