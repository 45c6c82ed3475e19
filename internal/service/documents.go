package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_service.go -package=mocks docintel/internal/service DocumentService

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"docintel/internal/contextutil"
	"docintel/internal/extract"
	"docintel/internal/rag"
	"docintel/internal/storage"
)

// Number of chunks returned as a sample in document detail responses.
const detailSampleChunks = 3

// TextExtractor extracts plain text and a page count from a stored file.
// This interface is defined from the service layer's perspective (consumer-first).
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*extract.Result, error)
}

// Ingestor indexes extracted document text for retrieval.
type Ingestor interface {
	// Ingest chunks and indexes text, returning the number of passages stored.
	Ingest(ctx context.Context, doc *storage.DocumentRecord, text string) (int, error)
}

// UploadRequest represents a document upload in the domain layer.
type UploadRequest struct {
	// Filename is the original name of the uploaded file; its extension
	// selects the extraction format.
	Filename string
	// Title optionally overrides the document title. Defaults to the
	// filename without its extension.
	Title string
	// Size is the upload size in bytes.
	Size int64
	// File is the upload content.
	File io.Reader
}

// UploadResult is the outcome of a processed upload.
type UploadResult struct {
	Document      *storage.DocumentRecord
	ChunksCreated int
}

// DocumentDetail is a document with a sample of its stored passages.
type DocumentDetail struct {
	Document     *storage.DocumentRecord
	TotalChunks  int
	SampleChunks []*storage.ChunkRecord
}

// AskResult pairs a generated answer with the document it is about.
type AskResult struct {
	Document *storage.DocumentRecord
	Response rag.AskResponse
}

// DocumentService provides document upload, listing, and question answering.
type DocumentService interface {
	// Upload stores an uploaded file, extracts its text, and indexes it.
	// The returned document carries the final processing status.
	Upload(ctx context.Context, req UploadRequest) (UploadResult, error)
	// List returns all documents, newest first.
	List(ctx context.Context) ([]*storage.DocumentRecord, error)
	// Detail returns a document with its chunk count and a short passage sample.
	Detail(ctx context.Context, id int64) (DocumentDetail, error)
	// Ask answers a question about a completed document.
	Ask(ctx context.Context, documentID int64, question string, numChunks int) (AskResult, error)
}

// documentService implements DocumentService.
type documentService struct {
	docs      storage.DocumentStore
	chunks    storage.ChunkStore
	extractor TextExtractor
	ingestor  Ingestor
	engine    rag.Engine
	uploadDir string

	// Ingestion interleaves deletes and inserts across two stores, so
	// concurrent ingests of the same document must be serialized.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	docs storage.DocumentStore,
	chunks storage.ChunkStore,
	extractor TextExtractor,
	ingestor Ingestor,
	engine rag.Engine,
	uploadDir string,
) DocumentService {
	return &documentService{
		docs:      docs,
		chunks:    chunks,
		extractor: extractor,
		ingestor:  ingestor,
		engine:    engine,
		uploadDir: uploadDir,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// Upload stores the file, creates the document record, and runs extraction
// and indexing synchronously. Processing failures mark the document failed
// rather than deleting it, so the status is visible to later requests.
func (s *documentService) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.File == nil || req.Filename == "" {
		return UploadResult{}, &ValidationError{Field: "file", Message: "is required"}
	}
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !extract.Supported(req.Filename) {
		return UploadResult{}, &ValidationError{Field: "file", Message: fmt.Sprintf("unsupported file format %q", ext)}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(req.Filename), ext)
	}

	doc := &storage.DocumentRecord{
		Title:            title,
		FileType:         ext,
		FileSize:         req.Size,
		ProcessingStatus: storage.StatusProcessing,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return UploadResult{}, WrapError(err, "failed to create document")
	}

	path, err := s.saveFile(req.File, ext)
	if err != nil {
		s.markFailed(ctx, doc)
		return UploadResult{}, WrapError(err, "failed to save upload")
	}

	chunksCreated, err := s.process(ctx, doc, path)
	if err != nil {
		logger.ErrorContext(ctx, "document processing failed",
			"document_id", doc.ID, "title", doc.Title, "error", err)
		s.markFailed(ctx, doc)
		return UploadResult{}, WrapError(err, "document processing failed")
	}

	if err := s.docs.UpdateStatus(ctx, doc.ID, storage.StatusCompleted); err != nil {
		return UploadResult{}, WrapError(err, "failed to update document status")
	}
	doc.ProcessingStatus = storage.StatusCompleted

	logger.InfoContext(ctx, "document uploaded",
		"document_id", doc.ID, "title", doc.Title, "file_type", ext, "chunks", chunksCreated)
	return UploadResult{Document: doc, ChunksCreated: chunksCreated}, nil
}

// process extracts text from the stored file and indexes it.
func (s *documentService) process(ctx context.Context, doc *storage.DocumentRecord, path string) (int, error) {
	result, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return 0, WrapError(err, "text extraction failed")
	}

	if err := s.docs.UpdatePages(ctx, doc.ID, result.Pages); err != nil {
		return 0, WrapError(err, "failed to update page count")
	}
	doc.Pages = result.Pages

	lock := s.documentLock(doc.ID)
	lock.Lock()
	defer lock.Unlock()

	return s.ingestor.Ingest(ctx, doc, result.Text)
}

func (s *documentService) saveFile(r io.Reader, ext string) (string, error) {
	path := filepath.Join(s.uploadDir, uuid.New().String()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (s *documentService) markFailed(ctx context.Context, doc *storage.DocumentRecord) {
	if err := s.docs.UpdateStatus(ctx, doc.ID, storage.StatusFailed); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to mark document failed",
			"document_id", doc.ID, "error", err)
	}
	doc.ProcessingStatus = storage.StatusFailed
}

// documentLock returns the ingest lock for a document. One entry lives per
// document for the process lifetime, which stays small at this scale.
func (s *documentService) documentLock(id int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// List returns all documents, newest first.
func (s *documentService) List(ctx context.Context) ([]*storage.DocumentRecord, error) {
	docs, err := s.docs.ListAll(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list documents")
	}
	return docs, nil
}

// Detail returns a document with its chunk count and first few passages.
func (s *documentService) Detail(ctx context.Context, id int64) (DocumentDetail, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if err == storage.ErrNotFound {
			return DocumentDetail{}, ErrNotFound
		}
		return DocumentDetail{}, WrapError(err, "failed to get document")
	}

	total, err := s.chunks.CountByDocument(ctx, id)
	if err != nil {
		return DocumentDetail{}, WrapError(err, "failed to count chunks")
	}

	sample, err := s.chunks.ListByDocument(ctx, id, detailSampleChunks)
	if err != nil {
		return DocumentDetail{}, WrapError(err, "failed to list chunks")
	}

	return DocumentDetail{Document: doc, TotalChunks: total, SampleChunks: sample}, nil
}

// Ask answers a question about a document. The document must exist and have
// completed processing; retrieval that finds no usable context is reported
// as ErrNoRelevantContent with the canned response still attached.
func (s *documentService) Ask(ctx context.Context, documentID int64, question string, numChunks int) (AskResult, error) {
	if strings.TrimSpace(question) == "" {
		return AskResult{}, &ValidationError{Field: "question", Message: "cannot be empty"}
	}

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		if err == storage.ErrNotFound {
			return AskResult{}, ErrNotFound
		}
		return AskResult{}, WrapError(err, "failed to get document")
	}
	if doc.ProcessingStatus != storage.StatusCompleted {
		return AskResult{}, ErrDocumentNotReady
	}

	resp := s.engine.Ask(ctx, rag.AskRequest{
		DocumentID:    documentID,
		DocumentTitle: doc.Title,
		Question:      question,
		NumChunks:     numChunks,
	})

	result := AskResult{Document: doc, Response: resp}
	if resp.ContextUsed == 0 && resp.Answer == rag.AnswerNoContext {
		return result, ErrNoRelevantContent
	}
	return result, nil
}
