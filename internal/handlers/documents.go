package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"docintel/internal/contextutil"
	"docintel/internal/service"
	"docintel/internal/storage"
)

// DocumentsHandler handles HTTP requests for document management.
type DocumentsHandler struct {
	documents      service.DocumentService
	maxUploadBytes int64
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(documents service.DocumentService, maxUploadBytes int64) *DocumentsHandler {
	return &DocumentsHandler{
		documents:      documents,
		maxUploadBytes: maxUploadBytes,
	}
}

// documentJSON is the wire representation of a document.
type documentJSON struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	FileType         string `json:"file_type"`
	FileSize         int64  `json:"file_size"`
	Pages            int    `json:"pages"`
	ProcessingStatus string `json:"processing_status"`
	CreatedAt        string `json:"created_at"`
}

func toDocumentJSON(doc *storage.DocumentRecord) documentJSON {
	return documentJSON{
		ID:               doc.ID,
		Title:            doc.Title,
		FileType:         doc.FileType,
		FileSize:         doc.FileSize,
		Pages:            doc.Pages,
		ProcessingStatus: doc.ProcessingStatus,
		CreatedAt:        doc.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// chunkSampleJSON is the wire representation of a sampled passage in
// document detail responses.
type chunkSampleJSON struct {
	Index          int    `json:"index"`
	ContentPreview string `json:"content_preview"`
	PageNumber     int    `json:"page_number"`
}

// List handles GET /api/documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docs, err := h.documents.List(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list documents")
		return
	}

	out := make([]documentJSON, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toDocumentJSON(doc))
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"success":   true,
		"documents": out,
		"count":     len(out),
	})
}

// Upload handles POST /api/documents/upload. Expects a multipart form with
// a required "file" field and an optional "title" field.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeFieldErrors(ctx, w, map[string]string{"file": "is required"})
		return
	}
	defer file.Close()

	result, err := h.documents.Upload(ctx, service.UploadRequest{
		Filename: header.Filename,
		Title:    r.FormValue("title"),
		Size:     header.Size,
		File:     file,
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Document processing failed")
		return
	}

	writeJSON(ctx, w, http.StatusCreated, map[string]any{
		"success":        true,
		"document":       toDocumentJSON(result.Document),
		"chunks_created": result.ChunksCreated,
	})
}

// Detail handles GET /api/documents/{documentID}.
func (h *DocumentsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "documentID"), 10, 64)
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	detail, err := h.documents.Detail(ctx, id)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to get document")
		return
	}

	sample := make([]chunkSampleJSON, 0, len(detail.SampleChunks))
	for _, chunk := range detail.SampleChunks {
		preview := chunk.Content
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		sample = append(sample, chunkSampleJSON{
			Index:          chunk.ChunkIndex,
			ContentPreview: preview,
			PageNumber:     chunk.PageNumber,
		})
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"success":       true,
		"document":      toDocumentJSON(detail.Document),
		"total_chunks":  detail.TotalChunks,
		"chunks_sample": sample,
	})
}
