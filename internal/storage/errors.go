package storage

import "errors"

var (
	// ErrIDAllocation is returned by the Add operations when no new ID could be allocated.
	ErrIDAllocation = errors.New("id allocation failed")
	// ErrNotFound is returned when an operation needs a record that does not exist.
	// Update and Delete never return it; they are no-ops for missing records.
	ErrNotFound = errors.New("not found")
)
