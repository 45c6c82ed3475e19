package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"docintel/internal/contextutil"
	"docintel/internal/service"
)

const maxAskNumChunks = 10

// AskHandler handles HTTP requests for question answering.
type AskHandler struct {
	documents service.DocumentService
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(documents service.DocumentService) *AskHandler {
	return &AskHandler{documents: documents}
}

// AskRequest represents the HTTP request payload for asking a question.
type AskRequest struct {
	DocumentID int64  `json:"document_id"`
	Question   string `json:"question"`
	NumChunks  int    `json:"num_chunks,omitempty"`
}

// ServeHTTP handles POST /api/ask.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrors := make(map[string]string)
	if req.DocumentID <= 0 {
		fieldErrors["document_id"] = "is required"
	}
	if strings.TrimSpace(req.Question) == "" {
		fieldErrors["question"] = "cannot be empty"
	}
	if req.NumChunks < 0 || req.NumChunks > maxAskNumChunks {
		fieldErrors["num_chunks"] = "must be between 1 and 10"
	}
	if len(fieldErrors) > 0 {
		writeFieldErrors(ctx, w, fieldErrors)
		return
	}

	result, err := h.documents.Ask(ctx, req.DocumentID, req.Question, req.NumChunks)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to answer question")
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"success":  true,
		"question": req.Question,
		"answer":   result.Response.Answer,
		"sources":  result.Response.Sources,
		"document": map[string]any{
			"id":    result.Document.ID,
			"title": result.Document.Title,
		},
		"context_chunks_used": result.Response.ContextUsed,
	})
}
