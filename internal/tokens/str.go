package tokens

import "unicode/utf8"

// StrTokens is a cursor over a UTF-8 string.
// It yields one rune per step and tracks a byte offset that always sits on
// a rune boundary.
//
// Invalid UTF-8 is not rejected: each byte that does not start a valid
// encoding is produced as utf8.RuneError and consumes exactly one byte.
type StrTokens struct {
	owner
	str    string
	offset int
}

// FromString creates a cursor at the start of s.
func FromString(s string) *StrTokens {
	return &StrTokens{
		owner: owner{id: nextOwner()},
		str:   s,
	}
}

// Next decodes the rune at the current offset and advances past it.
func (t *StrTokens) Next() (rune, bool) {
	if t.offset >= len(t.str) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(t.str[t.offset:])
	t.offset += size
	return r, true
}

// SaveCheckpoint captures the current byte offset.
func (t *StrTokens) SaveCheckpoint() Checkpoint {
	return t.checkpoint(t.offset)
}

// RewindToCheckpoint resets the byte offset to the one captured in cp.
// No decoding happens; the offset was a boundary when it was saved.
func (t *StrTokens) RewindToCheckpoint(cp Checkpoint) error {
	if err := t.validate(cp, len(t.str)); err != nil {
		return err
	}
	t.offset = cp.offset
	return nil
}

// Clone creates a cursor at the same position with its own identity.
// Checkpoints saved by t are not valid for the clone and the reverse.
func (t *StrTokens) Clone() *StrTokens {
	return &StrTokens{
		owner:  owner{id: nextOwner()},
		str:    t.str,
		offset: t.offset,
	}
}

// Consumed returns the text already produced.
func (t *StrTokens) Consumed() string {
	return t.str[:t.offset]
}

// Remaining returns the text not yet produced.
func (t *StrTokens) Remaining() string {
	return t.str[t.offset:]
}

// Source returns the full string the cursor was created from.
func (t *StrTokens) Source() string {
	return t.str
}

// Offset returns the current byte offset.
func (t *StrTokens) Offset() int {
	return t.offset
}

// AtEnd returns true if the whole string has been produced.
func (t *StrTokens) AtEnd() bool {
	return t.offset >= len(t.str)
}

// Location returns the line and column of the current offset.
func (t *StrTokens) Location() Location {
	return LocationOf(t.str, t.offset)
}

// IntoTokens returns t itself.
func (t *StrTokens) IntoTokens() Tokens[rune] {
	return t
}
