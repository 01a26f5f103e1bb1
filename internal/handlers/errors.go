package handlers

import (
	"errors"
	"net/http"
	"strings"

	"pir-integrity/internal/service"
)

// writeServiceError maps the service error taxonomy onto HTTP status codes.
// Unknown errors become 500 without leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAssessmentNotFound),
		errors.Is(err, service.ErrQuestionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrAssessmentClosed),
		errors.Is(err, service.ErrIncompleteResponses),
		errors.Is(err, service.ErrAlreadyScored),
		errors.Is(err, service.ErrAnalysisMissing):
		http.Error(w, err.Error(), http.StatusConflict)
	case strings.Contains(err.Error(), "permission denied"):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
