// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every handler in this application sends JSON back to the client.
// Error responses always share one envelope so API consumers know what
// they look like.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/museum-api/internal/validation"
)

// Response is the standard envelope returned for error cases:
//
//	{ "status": "error", "error": "Exhibit: field title is required",
//	  "fields": [ { "field": "title", "constraint": "required", ... } ] }
//
// Fields is only present for validation failures.
type Response struct {
	Status string                  `json:"status"`
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (DB failures, decode errors, etc.)
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ValidationError reports every field a record failed on.
func ValidationError(err *validation.Error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
		Fields: err.Fields,
	}
}
