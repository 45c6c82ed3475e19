package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"docintel/internal/contextutil"
	"docintel/internal/service"
)

// errorResponse is the envelope for failed requests. Error carries a single
// message; Errors carries per-field validation messages.
type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, errorResponse{Success: false, Error: message})
}

func writeFieldErrors(ctx context.Context, w http.ResponseWriter, fields map[string]string) {
	writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Success: false, Errors: fields})
}

// handleServiceError maps service errors to HTTP status codes and responses.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeFieldErrors(ctx, w, map[string]string{validationErr.Field: validationErr.Message})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(ctx, w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, service.ErrNotFound):
		writeError(ctx, w, http.StatusNotFound, "Document not found.")
	case errors.Is(err, service.ErrDocumentNotReady):
		writeError(ctx, w, http.StatusBadRequest, "Document is not ready for querying. Please wait for processing to complete.")
	case errors.Is(err, service.ErrNoRelevantContent):
		writeError(ctx, w, http.StatusNotFound, "No relevant content found in the document for your question.")
	case errors.Is(err, service.ErrExternalService):
		writeError(ctx, w, http.StatusBadGateway, "External service error")
	default:
		writeError(ctx, w, http.StatusInternalServerError, defaultMsg)
	}
}
