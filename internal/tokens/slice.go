package tokens

// SliceTokens is a cursor over a borrowed slice.
// It yields a pointer to each element in order.
type SliceTokens[T any] struct {
	owner
	slice []T
	index int
}

// FromSlice creates a cursor at the start of s.
// The elements of s must not be modified while the cursor is in use.
func FromSlice[T any](s []T) *SliceTokens[T] {
	return &SliceTokens[T]{
		owner: owner{id: nextOwner()},
		slice: s,
	}
}

// Next returns a pointer to the current element and advances by one.
func (t *SliceTokens[T]) Next() (*T, bool) {
	if t.index >= len(t.slice) {
		return nil, false
	}
	item := &t.slice[t.index]
	t.index++
	return item, true
}

// SaveCheckpoint captures the current index.
func (t *SliceTokens[T]) SaveCheckpoint() Checkpoint {
	return t.checkpoint(t.index)
}

// RewindToCheckpoint resets the index to the one captured in cp.
func (t *SliceTokens[T]) RewindToCheckpoint(cp Checkpoint) error {
	if err := t.validate(cp, len(t.slice)); err != nil {
		return err
	}
	t.index = cp.offset
	return nil
}

// Clone creates a cursor at the same position with its own identity.
// Checkpoints saved by t are not valid for the clone and the reverse.
func (t *SliceTokens[T]) Clone() *SliceTokens[T] {
	return &SliceTokens[T]{
		owner: owner{id: nextOwner()},
		slice: t.slice,
		index: t.index,
	}
}

// Consumed returns the elements already produced.
// The result has no spare capacity, so appending to it never writes into
// the source.
func (t *SliceTokens[T]) Consumed() []T {
	return t.slice[:t.index:t.index]
}

// Remaining returns the elements not yet produced.
func (t *SliceTokens[T]) Remaining() []T {
	return t.slice[t.index:len(t.slice):len(t.slice)]
}

// Source returns the full slice the cursor was created from.
func (t *SliceTokens[T]) Source() []T {
	return t.slice
}

// Offset returns the index of the next element.
func (t *SliceTokens[T]) Offset() int {
	return t.index
}

// Len returns the number of elements in the source.
func (t *SliceTokens[T]) Len() int {
	return len(t.slice)
}

// AtEnd returns true if every element has been produced.
func (t *SliceTokens[T]) AtEnd() bool {
	return t.index >= len(t.slice)
}

// IntoTokens returns t itself.
func (t *SliceTokens[T]) IntoTokens() Tokens[*T] {
	return t
}
