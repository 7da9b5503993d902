package resume

import "errors"

var (
	// ErrInvalidJSON is returned when the payload is not a JSON object of the expected shape.
	ErrInvalidJSON = errors.New("resume: invalid JSON")

	// ErrEmpty is returned for an empty body, null, or {}.
	ErrEmpty = errors.New("No JSON data provided")

	// ErrMissingSections is returned when neither workEx nor socialLinks is present.
	ErrMissingSections = errors.New("Either workEx or socialLinks must be provided")
)
