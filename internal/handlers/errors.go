package handlers

import "net/http"

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// ErrMessageInvalidCredentials is returned for every failed login.
const ErrMessageInvalidCredentials = "Invalid credentials"

const (
	ErrMessageInvalidJSON  = "invalid JSON"
	ErrMessageBodyTooLarge = "request body too large"
)

// ErrorResponse defines standard error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
