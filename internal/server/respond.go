package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mmynk/divvy/internal/service"
)

// errorResponse is the body of every failed request: a short
// machine-readable reason, never internal store error text.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusOf maps the service error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError responds with the status for err and a generic
// reason string. Handlers with contract-specific messages write those
// directly instead.
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	var msg string
	switch status {
	case http.StatusBadRequest:
		msg = "Invalid request data"
	case http.StatusUnauthorized:
		msg = "Unauthorized"
	case http.StatusForbidden:
		msg = "Unauthorized action"
	case http.StatusNotFound:
		msg = "Not found"
	case http.StatusConflict:
		msg = "Conflict"
	default:
		msg = "Internal server error"
	}
	writeError(w, status, msg)
}
