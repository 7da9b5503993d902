package source

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps every failure to obtain resume data from the remote API.
var ErrUnavailable = errors.New("source: resume data unavailable")

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("source: %s returned HTTP %d", e.URL, e.StatusCode)
}

// Unwrap allows errors.Is(err, ErrUnavailable).
func (e *StatusError) Unwrap() error {
	return ErrUnavailable
}
