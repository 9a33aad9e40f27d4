package notebook

import "errors"

var (
	// ErrNotFound is returned when a referenced cell or output message is not
	// part of the notebook.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for malformed construction input.
	ErrInvalidArgument = errors.New("invalid argument")
)
