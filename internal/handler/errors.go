package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"contentplanner/internal/service"
)

// ErrorResponse - body of every failed request. Detail repeats the message
// for clients that read that key.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// WriteError - sends a JSON error with the given status.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Detail: message})
}

// writeSuccess - sends data as JSON with the given status.
func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// statusFor - HTTP status for a service error kind. Unclassified errors are
// internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError - answers with the status of err. Internal errors are
// logged and replaced by a generic message.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		WriteError(w, "Internal server error", status)
		return
	}

	message := err.Error()
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}
	WriteError(w, message, status)
}
