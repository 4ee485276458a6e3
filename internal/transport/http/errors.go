package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"probability-quiz-service/internal/domain"
)

// Error codes returned in the error envelope.
const (
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeSessionNotFound  = "session_not_found"
	ErrCodeCatalogNotFound  = "catalog_not_found"
	ErrCodeOptionOutOfRange = "option_out_of_range"
	ErrCodeSessionFinished  = "session_finished"
	ErrCodeInternalError    = "internal_error"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// respondDomainError maps quiz errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	respondError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, ErrCodeSessionNotFound
	case errors.Is(err, domain.ErrCatalogNotFound):
		return http.StatusNotFound, ErrCodeCatalogNotFound
	case errors.Is(err, domain.ErrOptionOutOfRange):
		return http.StatusUnprocessableEntity, ErrCodeOptionOutOfRange
	case errors.Is(err, domain.ErrSessionFinished):
		return http.StatusConflict, ErrCodeSessionFinished
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
