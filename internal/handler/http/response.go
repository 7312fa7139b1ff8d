package http

import (
	"encoding/json"
	"net/http"

	"asset-qr/internal/domain"
)

// Response helpers for consistent API responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// SuccessResponse represents a successful response
type SuccessResponse struct {
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// headers are already sent, so an encoding failure can't change the response
	_ = json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{
		Error: message,
	})
}

// respondValidationError sends a 400 listing every failing field
func respondValidationError(w http.ResponseWriter, message string, err *domain.ValidationError) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   message,
		Details: err.Details(),
	})
}

// respondSuccess sends a success response
func respondSuccess(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	respondJSON(w, statusCode, SuccessResponse{
		Data:    data,
		Message: message,
	})
}
