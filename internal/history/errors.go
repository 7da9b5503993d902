package history

import "errors"

var (
	// ErrNotFound is returned when a render ID does not exist.
	ErrNotFound = errors.New("render not found")

	// ErrInvalidRecord is returned when a record is missing its ID or has an
	// unknown origin or status.
	ErrInvalidRecord = errors.New("invalid render record")
)
