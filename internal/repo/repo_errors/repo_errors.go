package repo_errors

import "errors"

var (
	ErrNotFound = errors.New("entity not found")

	// ErrLocked means the per-row lock for an atomic sequence could not be
	// acquired (SELECT ... FOR UPDATE NOWAIT lost the race). Retry-able.
	ErrLocked = errors.New("row is locked by a concurrent transaction")

	// ErrInsufficientQuantity means an inventory decrement would drive the
	// listing quantity below zero. The transaction is rolled back.
	ErrInsufficientQuantity = errors.New("not enough quantity left on listing")

	ErrAlreadyExists = errors.New("entity already exists")

	// ErrStateChanged means the row had already left Pending when the
	// terminal transition was attempted. Nothing was written.
	ErrStateChanged = errors.New("row already left its pending state")
)
