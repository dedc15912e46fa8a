package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/BradenHooton/ideabox/internal/models"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error   string `json:"error"`             // Machine-readable error code
	Message string `json:"message"`           // Human-readable message
	Details string `json:"details,omitempty"` // Optional additional context
}

// WriteJSON writes v as a JSON body with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	WriteErrorWithDetails(w, statusCode, errorCode, message, "")
}

// WriteErrorWithDetails writes a JSON error response with additional details
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, errorCode, message, details string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
		Details: details,
	})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message)
}

type errorMapping struct {
	sentinel error
	status   int
	code     string
	message  string
}

// Order matters: the first matching sentinel wins.
var serviceErrors = []errorMapping{
	{models.ErrAlreadyVoted, http.StatusConflict, "already_voted", "you have already voted for this idea"},
	{models.ErrAlreadyApproved, http.StatusConflict, "already_approved", "voting is closed for approved ideas"},
	{models.ErrValidation, http.StatusBadRequest, "validation_error", "invalid input"},
	{models.ErrNotFound, http.StatusNotFound, "not_found", "resource not found"},
	{models.ErrConflict, http.StatusConflict, "conflict", "resource conflict"},
	{models.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "invalid credentials"},
	{models.ErrAccountBlocked, http.StatusForbidden, "account_blocked", "account is blocked"},
	{models.ErrForbidden, http.StatusForbidden, "forbidden", "insufficient permissions"},
}

// WriteServiceError maps a service error onto its HTTP status and error code.
// Detail wrapped around a client-facing sentinel is passed on as the message;
// unknown errors become a generic 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.sentinel) {
			WriteError(w, m.status, m.code, serviceMessage(err, m))
			return
		}
	}
	WriteInternalError(w, "internal server error")
}

// serviceMessage strips the sentinel prefix from "sentinel: detail" errors.
func serviceMessage(err error, m errorMapping) string {
	msg := err.Error()
	prefix := m.sentinel.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return m.message
}
