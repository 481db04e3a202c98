// Package response writes JSON envelopes for the HTTP API.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"alphachest/internal/domain"
	"alphachest/pkg/apierror"
)

type envelope struct {
	Success bool               `json:"success"`
	Data    any                `json:"data,omitempty"`
	Error   *apierror.APIError `json:"error,omitempty"`
}

// OK writes data with status 200.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, envelope{Success: status < http.StatusBadRequest, Data: data})
}

// Error writes err, mapping domain errors to API errors.
func Error(w http.ResponseWriter, err error) {
	apiErr := toAPIError(err)
	write(w, apiErr.Status, envelope{Success: false, Error: apiErr})
}

func toAPIError(err error) *apierror.APIError {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var custom *domain.CustomError
	if errors.As(err, &custom) {
		status := http.StatusBadRequest
		if custom == domain.ErrNotFound {
			status = http.StatusNotFound
		}
		return apierror.New(status, custom.Code, custom.Message)
	}

	if errors.Is(err, domain.ErrSlotOutOfRange) {
		return apierror.BadRequest(err.Error())
	}
	return apierror.InternalError("internal server error")
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
