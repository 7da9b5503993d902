package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wire accepts both the request shape (workEx) and the remote API shape
// (workExperience).
type wire struct {
	PersonalInfo   PersonalInfo          `json:"personalInfo"`
	SocialLinks    SocialLinks           `json:"socialLinks"`
	WorkEx         oneOrMany[Job]        `json:"workEx"`
	WorkExperience oneOrMany[Job]        `json:"workExperience"`
	Skills         oneOrMany[SkillGroup] `json:"skills"`
	Education      oneOrMany[Education]  `json:"education"`
}

func (w wire) resume() *Resume {
	work := w.WorkEx
	if len(work) == 0 {
		work = w.WorkExperience
	}
	return &Resume{
		PersonalInfo: w.PersonalInfo,
		SocialLinks:  w.SocialLinks,
		WorkEx:       work,
		Skills:       w.Skills,
		Education:    w.Education,
	}
}

// Decode parses a request body.
//
// The body must be a non-empty JSON object carrying workEx (or its alias
// workExperience) or socialLinks. A single workEx object is accepted as a
// one-element list.
//
// Returns:
//   - *Resume: Decoded data
//   - error: ErrEmpty, ErrInvalidJSON or ErrMissingSections
func Decode(data []byte) (*Resume, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if isZero(v) {
		return nil, ErrEmpty
	}
	keys, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: body must be an object, got %T", ErrInvalidJSON, v)
	}

	_, hasWork := keys["workEx"]
	_, hasWorkAlias := keys["workExperience"]
	_, hasSocial := keys["socialLinks"]
	if !hasWork && !hasWorkAlias && !hasSocial {
		return nil, ErrMissingSections
	}

	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return w.resume(), nil
}

// isZero reports whether a decoded JSON value carries nothing: null, false,
// 0, "", [] or {}.
func isZero(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// FromAPI parses the remote data API payload. Missing sections are left empty.
func FromAPI(data []byte) (*Resume, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return w.resume(), nil
}
