package errors

import "errors"

var (
	ErrNotFound = errors.New("block not found")

	ErrInvalidID = errors.New("invalid block ID format")

	ErrLockHeld = errors.New("resource lock held by another request")
)
