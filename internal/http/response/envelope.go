// Package response writes the uniform JSON envelope both submission
// endpoints share: {success, message?, errors?, data?}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Data    any                 `json:"data,omitempty"`
}

func write(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logger.Error("failed to encode response envelope", "error", err)
	}
}

// OK reports a successful submission.
func OK(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Invalid reports field-level validation errors. The listing endpoint uses
// 422, the search endpoint 400.
func Invalid(w http.ResponseWriter, statusCode int, errors map[string][]string) {
	write(w, statusCode, Envelope{
		Success: false,
		Message: "Please correct the highlighted fields.",
		Errors:  errors,
	})
}

// Fail reports a non-validation failure with a generic, client-safe message.
func Fail(w http.ResponseWriter, statusCode int, message string) {
	write(w, statusCode, Envelope{Success: false, Message: message})
}
