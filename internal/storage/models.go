package storage

import "time"

// Document processing statuses. A document moves pending -> processing ->
// completed or failed exactly once per ingest attempt; only completed
// documents accept questions.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// DocumentRecord represents an uploaded document in the database.
type DocumentRecord struct {
	ID               int64
	Title            string
	FileType         string // Lowercase extension including dot, e.g. ".pdf"
	FileSize         int64
	Pages            int
	ProcessingStatus string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ChunkRecord represents a passage of document text, indexed for vector search.
// The ID doubles as the Qdrant point ID (embedding id).
type ChunkRecord struct {
	ID         string // UUID, shared with the vector index entry
	DocumentID int64
	ChunkIndex int // Zero-based, contiguous within a document
	Content    string
	PageNumber int
	CreatedAt  time.Time
}
