package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docintel/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with its passage text and metadata.
type Point struct {
	ID      string
	Vec     []float32
	Content string
	Meta    map[string]any
}

// SearchResult represents a search result from vector search.
// Score is cosine similarity (higher = closer). Content and Meta are the
// denormalized copies stored in the index payload; they cross a service
// boundary and must be validated by the consumer.
type SearchResult struct {
	PointID string
	Score   float32
	Content string
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search scoped to a single document.
	Search(ctx context.Context, collection string, query []float32, k int, documentID int64) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
