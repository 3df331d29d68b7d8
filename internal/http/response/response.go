// Package response defines the JSON envelope shared by every endpoint and writes
// it for handlers that run outside huma (rate limiting, panics, unknown routes).
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainerrors "github.com/journalapp/journal-server/internal/errors"
)

// Version is the envelope format version, sent as "v".
const Version = 1

// Envelope wraps successful responses.
type Envelope struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope wraps failures. Error repeats Message for clients that only read "error".
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success wraps data in a success envelope.
func Success(data any) Envelope {
	return Envelope{Version: Version, Success: true, Data: data}
}

// Failure builds an error envelope.
func Failure(code domainerrors.Code, message string, details any) ErrorEnvelope {
	return ErrorEnvelope{
		Version: Version,
		Success: false,
		Error:   message,
		Code:    string(code),
		Message: message,
		Details: details,
	}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// Error writes an error envelope for code.
func Error(w http.ResponseWriter, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, code.HTTPStatus(), Failure(code, message, nil), logger)
}

// TooManyRequests writes a 429 error envelope.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	JSON(w, http.StatusTooManyRequests, Failure("RATE_LIMITED", message, nil), logger)
}

// NotFound writes a 404 error envelope.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, domainerrors.CodeNotFound, message, logger)
}

// MethodNotAllowed writes a 405 error envelope.
func MethodNotAllowed(w http.ResponseWriter, logger *slog.Logger) {
	JSON(w, http.StatusMethodNotAllowed, Failure("METHOD_NOT_ALLOWED", "method not allowed", nil), logger)
}

// InternalError writes a 500 error envelope.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, domainerrors.CodeInternal, message, logger)
}
