package pokedex

import "errors"

// Sentinel errors. Callers wrap them with context and match with errors.Is.
var (
	// ErrDataUnavailable means the dataset file is missing, unreadable or
	// does not satisfy the required schema.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrEmptyTable means an operation needs at least one row.
	ErrEmptyTable = errors.New("empty table")

	// ErrInvalidArgument means a caller-supplied parameter is out of range.
	ErrInvalidArgument = errors.New("invalid argument")
)
