package tokens

import (
	"fmt"
	"sync/atomic"
)

// Tokens is a sequential reader that can rewind to saved checkpoints.
type Tokens[T any] interface {
	// Next returns the next item and advances by one item.
	// At the end of input it returns ok == false and does not advance,
	// no matter how many times it is called.
	Next() (item T, ok bool)

	// SaveCheckpoint captures the current position.
	SaveCheckpoint() Checkpoint

	// RewindToCheckpoint resets the position to one captured earlier by
	// SaveCheckpoint on this same cursor. Checkpoints from any other cursor
	// are rejected with ErrInvalidCheckpoint and the position is unchanged.
	//
	// Identity travels with the value: a struct copy of a cursor accepts
	// the checkpoints of the cursor it was copied from. Use Clone for an
	// independent cursor.
	RewindToCheckpoint(cp Checkpoint) error
}

// IntoTokens converts a source into a cursor over its items.
// Cursors implement it by returning themselves.
type IntoTokens[T any] interface {
	IntoTokens() Tokens[T]
}

// Checkpoint is an opaque saved cursor position.
// The zero value is not a valid checkpoint for any cursor.
type Checkpoint struct {
	owner  uint64
	offset int
}

// Offset returns the saved position: an element index for slice cursors,
// a byte offset for text cursors.
func (cp Checkpoint) Offset() int {
	return cp.offset
}

// String returns a string representation of the checkpoint.
func (cp Checkpoint) String() string {
	return fmt.Sprintf("Checkpoint(%d)", cp.offset)
}

// lastOwner hands out cursor identity tags. Zero is never issued.
var lastOwner atomic.Uint64

func nextOwner() uint64 {
	return lastOwner.Add(1)
}

// owner is embedded by every cursor to tag the checkpoints it saves.
// Copying it copies the identity.
type owner struct {
	id uint64
}

// tag returns the cursor's identity, assigning one on first use so that
// zero-value cursors work too.
func (o *owner) tag() uint64 {
	if o.id == 0 {
		o.id = nextOwner()
	}
	return o.id
}

func (o *owner) checkpoint(offset int) Checkpoint {
	return Checkpoint{owner: o.tag(), offset: offset}
}

// validate reports whether cp was saved by this cursor and still fits a
// source of length n.
func (o *owner) validate(cp Checkpoint, n int) error {
	switch {
	case cp.owner == 0:
		return fmt.Errorf("%w: checkpoint was never saved", ErrInvalidCheckpoint)
	case cp.owner != o.id:
		return fmt.Errorf("%w: checkpoint at offset %d belongs to another cursor", ErrInvalidCheckpoint, cp.offset)
	case cp.offset < 0 || cp.offset > n:
		return fmt.Errorf("%w: offset %d outside [0, %d]", ErrInvalidCheckpoint, cp.offset, n)
	}
	return nil
}
