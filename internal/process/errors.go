package process

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the binary cannot be resolved.
	ErrNotFound = errors.New("process: binary not found")

	// ErrTimeout is returned when Config.Timeout elapses before exit.
	ErrTimeout = errors.New("process: timed out")

	// ErrExited is wrapped by ExitError for errors.Is checks.
	ErrExited = errors.New("process: exited with non-zero status")
)

// ExitError reports a non-zero exit along with the captured output tail.
type ExitError struct {
	Name   string
	Code   int
	Output []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
}

func (e *ExitError) Unwrap() error {
	return ErrExited
}
