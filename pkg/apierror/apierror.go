// Package apierror defines the error body returned by the HTTP API.
package apierror

import (
	"encoding/json"
	"net/http"
)

// APIError is an error with an HTTP status and a machine-readable code.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ToJSON renders the error envelope written to clients.
func (e *APIError) ToJSON() []byte {
	data, _ := json.Marshal(map[string]any{
		"success": false,
		"error":   e,
	})
	return data
}

// New creates an APIError.
func New(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest returns a 400 error.
func BadRequest(message string) *APIError {
	return New(http.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized returns a 401 error.
func Unauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// NotFound returns a 404 error.
func NotFound(message string) *APIError {
	return New(http.StatusNotFound, "NOT_FOUND", message)
}

// InternalError returns a 500 error.
func InternalError(message string) *APIError {
	return New(http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
