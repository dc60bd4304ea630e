package source

import "errors"

// Errors returned by source operations.
var (
	// ErrUnknownEncoding indicates an unsupported encoding name.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrUnknownNormalization indicates an unsupported normalization form.
	ErrUnknownNormalization = errors.New("unknown normalization form")

	// ErrUnknownMode indicates an unsupported tokenization mode.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrInvalidJSON indicates the input is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrNotArray indicates JSON input whose top-level value is not an array.
	ErrNotArray = errors.New("JSON input is not an array")
)
