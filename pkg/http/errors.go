package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body every endpoint produces. Detail carries the
// underlying error text and is only populated outside production.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

var exposeDetails bool

// ExposeErrorDetails toggles inclusion of internal error text in 5xx bodies.
// Call once at startup; leave off in production.
func ExposeErrorDetails(enabled bool) {
	exposeDetails = enabled
}

// WriteJSON writes any payload with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteLocked(w http.ResponseWriter, payload interface{}) {
	WriteJSON(w, http.StatusLocked, payload)
}

func WriteInternalError(w http.ResponseWriter, message string, err error) {
	resp := ErrorResponse{Message: message}
	if exposeDetails && err != nil {
		resp.Detail = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, resp)
}
