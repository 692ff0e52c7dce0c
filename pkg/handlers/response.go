package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorBody is the JSON body of every non-MCP error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	return WriteJSON(w, statusCode, ErrorBody{Error: errorCode, Message: message})
}

// MethodNotAllowed writes a 405 with the Allow header set to allowed.
func MethodNotAllowed(w http.ResponseWriter, message string, allowed ...string) error {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	return ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed", message)
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}
