package tokens

import "errors"

// Errors returned by cursor operations.
var (
	// ErrInvalidCheckpoint indicates a checkpoint was applied to a cursor
	// other than the one that saved it, or was never saved at all.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
)
