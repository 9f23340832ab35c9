package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/pkg/auth"
)

// Fault is the JSON body of every non-authorization error response.
type Fault struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

var faultMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusNotFound:            "Resource not found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusUnprocessableEntity: "Unprocessable Entity",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusServiceUnavailable:  "Service Unavailable",
}

// RespondJSON writes payload as JSON with status; a nil payload writes only the status.
func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondOK writes {"success": true, key: value} with status 200.
func RespondOK(w http.ResponseWriter, logger *slog.Logger, key string, value any) {
	RespondJSON(w, logger, http.StatusOK, map[string]any{"success": true, key: value})
}

// RespondFault writes the fault envelope for status.
func RespondFault(w http.ResponseWriter, logger *slog.Logger, status int) {
	message, ok := faultMessages[status]
	if !ok {
		message = http.StatusText(status)
	}
	RespondJSON(w, logger, status, Fault{Success: false, Error: status, Message: message})
}

// RespondAuthError writes an authorization denial as {"code": ..., "description": ...}
// with the status carried by the error. Any other error is answered with a 500 fault.
func RespondAuthError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var authErr *auth.AuthError
	if !errors.As(err, &authErr) {
		RespondFault(w, logger, http.StatusInternalServerError)
		return
	}
	RespondJSON(w, logger, authErr.StatusCode, authErr)
}

// NotFound answers unmatched routes with the 404 fault.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		RespondFault(w, logger, http.StatusNotFound)
	}
}

// MethodNotAllowed answers known paths requested with an unsupported method.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		RespondFault(w, logger, http.StatusMethodNotAllowed)
	}
}
