// ABOUTME: JSON error responses for the read-only HTTP API.
// ABOUTME: Every error body has the shape {"error": {"code": "...", "message": "..."}}.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harperreed/healthlog/internal/storage"
)

// Error codes.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeAmbiguous       = "AMBIGUOUS_ID"
	CodeInternalError   = "INTERNAL_ERROR"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes an error response with the given status and code.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{Code: code, Message: message},
	})
}

// writeStoreError maps storage lookup errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, storage.ErrAmbiguousID):
		WriteError(w, http.StatusBadRequest, CodeAmbiguous, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, CodeInternalError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
