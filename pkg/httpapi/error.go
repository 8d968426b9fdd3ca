package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

func WriteInternalError(w http.ResponseWriter) error {
	return WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}

func WriteNotFound(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// WriteValidationError reports per-field failures under meta.
func WriteValidationError(w http.ResponseWriter, fields map[string]string) error {
	return WriteError(w, http.StatusBadRequest, "VALIDATION", "request validation failed", fields)
}
