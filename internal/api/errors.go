package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/texforge/resumed/internal/latex"
	"github.com/texforge/resumed/internal/render"
	"github.com/texforge/resumed/internal/resume"
	"github.com/texforge/resumed/internal/source"
)

// Error represents a structured error response.
//
// The message key is "error" so clients that only read body["error"] keep working.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

// Common error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeUnauthorized   = "unauthorised"
	ErrCodeInternal       = "internal_error"
	ErrCodeRenderFailed   = "render_failed"
	ErrCodeTooLarge       = "request_too_large"
	ErrCodeBadGateway     = "bad_gateway"
	ErrCodeUnavailable    = "service_unavailable"
	ErrCodeTimeout        = "timeout"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

func writeUnavailable(w http.ResponseWriter, message string) {
	writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, message)
}

// classifyError maps a decode, fetch or render error onto an HTTP status and code.
func classifyError(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, ErrCodeTooLarge
	// Fetch errors also wrap the decode error; the source is at fault, not the client.
	case errors.Is(err, source.ErrUnavailable):
		return http.StatusBadGateway, ErrCodeBadGateway
	case errors.Is(err, resume.ErrEmpty),
		errors.Is(err, resume.ErrMissingSections),
		errors.Is(err, resume.ErrInvalidJSON),
		errors.Is(err, render.ErrNoData):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, latex.ErrToolchainMissing):
		return http.StatusServiceUnavailable, ErrCodeUnavailable
	case errors.Is(err, render.ErrTimeout):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	case errors.Is(err, latex.ErrCompileFailed):
		return http.StatusInternalServerError, ErrCodeRenderFailed
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// writeClassifiedError writes err with the status classifyError assigns.
func writeClassifiedError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	writeError(w, status, code, err.Error())
}
