package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound            = errors.New("not found")
	ErrCorruptPayload      = errors.New("corrupt stored payload")
	ErrDuplicateID         = errors.New("duplicate item id")
	ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")
)
