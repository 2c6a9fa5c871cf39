package repository

import "errors"

var (
	// ErrInsufficientBeds is returned when a conditional bed decrement matches
	// no row because available_beds < requested.
	ErrInsufficientBeds = errors.New("not enough available beds")

	// ErrDuplicateCode is returned when the bookings code unique index rejects
	// an insert; callers regenerate the code and retry.
	ErrDuplicateCode = errors.New("booking code already exists")

	// ErrStaleStatus is returned when a guarded status transition matches no
	// row because the booking already left the expected status. The caller's
	// snapshot is stale; no inventory was touched.
	ErrStaleStatus = errors.New("booking status changed concurrently")

	ErrNotFound = errors.New("record not found")
)
