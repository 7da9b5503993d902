package latex

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned for output names that are not plain file stems.
	ErrInvalidName = errors.New("latex: invalid document name")

	// ErrCompileFailed is wrapped by CompileError.
	ErrCompileFailed = errors.New("latex: compilation failed")

	// ErrToolchainMissing is returned when latexmk is not installed.
	ErrToolchainMissing = errors.New("latex: toolchain not found")
)

// CompileError carries the tail of the latexmk log for diagnostics.
type CompileError struct {
	Code   int
	Output []byte
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("latexmk failed with exit code %d", e.Code)
}

func (e *CompileError) Unwrap() error {
	return ErrCompileFailed
}
