package domain

import "errors"

// ErrInvalidID and related errors describe item validation failures.
var (
	ErrInvalidID       = errors.New("invalid id")
	ErrEmptyText       = errors.New("empty text")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidFilter   = errors.New("invalid filter")
)
