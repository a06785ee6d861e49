package engine

import "errors"

var (
	// ErrValidation indicates preflight validation rejected the batch.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the requested history entry does not exist.
	ErrNotFound = errors.New("operation not found")

	// ErrAlreadyUndone indicates the entry was undone previously.
	ErrAlreadyUndone = errors.New("operation already undone")

	// ErrEmptyHistory indicates there is nothing left to undo.
	ErrEmptyHistory = errors.New("no operations in history to undo")
)
