package resume

import (
	"bytes"
	"encoding/json"
)

// Resume is the data rendered into a document.
type Resume struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	SocialLinks  SocialLinks  `json:"socialLinks"`
	WorkEx       []Job        `json:"workEx"`
	Skills       []SkillGroup `json:"skills"`
	Education    []Education  `json:"education"`
}

// PersonalInfo identifies the person in the header.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Location string `json:"location"`
}

// SocialLinks are rendered in the header in a fixed order.
type SocialLinks struct {
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// IsZero reports whether no link is set.
func (s SocialLinks) IsZero() bool {
	return s == SocialLinks{}
}

// Job is one work-experience entry.
type Job struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Period      string `json:"period"`
	Description Lines  `json:"description"`
}

// SkillGroup is a labelled list such as "Languages: Go, Python".
type SkillGroup struct {
	Type   string `json:"type"`
	Values Lines  `json:"values"`
}

// Education is one degree entry.
type Education struct {
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Period      string `json:"period"`
	Degree      string `json:"degree"`
	Grade       string `json:"grade"`
	Courses     Lines  `json:"courses"`
}

// Lines decodes from either a JSON array of strings or a single string.
type Lines []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lines) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Lines{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(data, &ss); err != nil {
		return err
	}
	*l = ss
	return nil
}

// oneOrMany decodes from either a JSON array or a single object.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*o = oneOrMany[T]{one}
		return nil
	}
	var many []T
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*o = many
	return nil
}
