package repositories

import "errors"

// Sentinel errors surfaced by every implementation. Services translate these
// into caller-facing error kinds; anything else is a persistence fault.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned by a conditional stock decrement when
	// the product does not hold enough stock to cover the request.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrDuplicate is returned when a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("record already exists")

	// ErrStatusChanged is returned by a conditional status transition when the
	// row no longer holds the expected current status.
	ErrStatusChanged = errors.New("status changed")
)
