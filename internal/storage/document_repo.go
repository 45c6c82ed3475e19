package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docintel/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Create inserts a new document and sets its generated ID.
	Create(ctx context.Context, doc *DocumentRecord) error
	// GetByID gets a document by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (*DocumentRecord, error)
	// ListAll returns all documents, newest first.
	ListAll(ctx context.Context) ([]*DocumentRecord, error)
	// UpdateStatus sets the processing status of a document.
	UpdateStatus(ctx context.Context, id int64, status string) error
	// UpdatePages sets the page count of a document.
	UpdatePages(ctx context.Context, id int64, pages int) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Create inserts a new document and sets its generated ID.
func (r *DocumentRepo) Create(ctx context.Context, doc *DocumentRecord) error {
	status := doc.ProcessingStatus
	if status == "" {
		status = StatusPending
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (title, file_type, file_size, pages, processing_status) VALUES (?, ?, ?, ?, ?)",
		doc.Title, doc.FileType, doc.FileSize, doc.Pages, status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get document ID: %w", err)
	}
	doc.ID = id
	doc.ProcessingStatus = status
	return nil
}

// GetByID gets a document by its ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (*DocumentRecord, error) {
	var doc DocumentRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, file_type, file_size, pages, processing_status, created_at, updated_at FROM documents WHERE id = ?",
		id,
	).Scan(&doc.ID, &doc.Title, &doc.FileType, &doc.FileSize, &doc.Pages, &doc.ProcessingStatus, &doc.CreatedAt, &doc.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// ListAll returns all documents, newest first.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, file_type, file_size, pages, processing_status, created_at, updated_at FROM documents ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		var doc DocumentRecord
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.FileType, &doc.FileSize, &doc.Pages, &doc.ProcessingStatus, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// UpdateStatus sets the processing status of a document.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET processing_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePages sets the page count of a document.
func (r *DocumentRepo) UpdatePages(ctx context.Context, id int64, pages int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET pages = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		pages, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update document pages: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
