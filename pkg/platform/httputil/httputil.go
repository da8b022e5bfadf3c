// Package httputil centralizes JSON encoding and domain error translation for
// the HTTP layer. Handlers never build error envelopes by hand.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	dErrors "dashgate/pkg/domain-errors"
)

// ErrorResponse is the uniform error envelope returned to clients.
// Internal details (wrapped causes, stack traces) never appear here.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates transport-agnostic domain errors into HTTP status
// codes and the uniform error envelope.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, CodeToHTTPStatus(domainErr.Code), ErrorResponse{
			Error:     string(domainErr.Code),
			Message:   domainErr.Message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	// Fallback for unexpected errors. The cause is logged by the caller, not leaked.
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:     string(dErrors.CodeInternal),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// CodeToHTTPStatus translates domain error codes to HTTP status codes.
func CodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeModuleNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeInternal, dErrors.CodeModuleLoadFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
