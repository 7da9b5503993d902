package history

import "time"

// Origin identifies what triggered a render.
type Origin string

const (
	OriginRequest Origin = "request" // POST /generate-resume
	OriginAPI     Origin = "api"     // GET /generate-resume-from-api
	OriginCLI     Origin = "cli"     // resumed render
)

// Valid reports whether o is a known origin.
func (o Origin) Valid() bool {
	switch o {
	case OriginRequest, OriginAPI, OriginCLI:
		return true
	}
	return false
}

// Status is the outcome of a render.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Record is one row of render history.
type Record struct {
	ID          string    `json:"id"`
	Origin      Origin    `json:"origin"`
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
	Bytes       int       `json:"bytes"`
	DurationMS  int64     `json:"duration_ms"`
	ArtifactURL string    `json:"artifact_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter controls which records List returns.
type Filter struct {
	Status Status // optional
	Origin Origin // optional
	Limit  int    // default 50, max 200
	Offset int
}

// ListResult is a page of records, newest first.
type ListResult struct {
	Renders []Record `json:"renders"`
	Total   int      `json:"total"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

// Stats counts records per status.
type Stats struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
