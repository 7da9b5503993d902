package render

import "errors"

var (
	// ErrNoData is returned when a request carries no resume.
	ErrNoData = errors.New("render: no resume data")

	// ErrTimeout is returned when a render exceeds render.timeout.
	ErrTimeout = errors.New("render: timed out")
)
