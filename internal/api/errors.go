package api

import (
	"encoding/json"
	"net/http"

	"github.com/wealth-analytics/internal/errors"
	"github.com/wealth-analytics/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Common error codes
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// respondServiceError categorizes a service error and writes the matching
// HTTP response. System and warehouse details are not exposed to callers.
func respondServiceError(w http.ResponseWriter, err error) {
	categorized := errors.Categorize(err)

	switch {
	case categorized.Category == errors.CategoryNotFound:
		respondError(w, categorized.StatusCode, ErrCodeNotFound, categorized.Message, categorized.Details)
	case errors.IsUserError(categorized):
		respondError(w, categorized.StatusCode, ErrCodeInvalidInput, categorized.Message, categorized.Details)
	case categorized.Category == errors.CategoryRateLimit:
		respondError(w, categorized.StatusCode, ErrCodeRateLimitExceeded, categorized.Message, nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred", nil)
	}
}
