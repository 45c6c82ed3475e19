package indexer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"docintel/internal/contextutil"
	"docintel/internal/llm"
	"docintel/internal/storage"
	"docintel/internal/vectorstore"
)

// Pipeline orchestrates document ingestion: normalize, chunk, embed, and
// replace the stored passages in both SQLite and Qdrant.
type Pipeline struct {
	chunkRepo   storage.ChunkStore
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	chunker     *Chunker
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunkRepo storage.ChunkStore,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chunkSize, chunkOverlap int,
) *Pipeline {
	return &Pipeline{
		chunkRepo:   chunkRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		chunker:     NewChunker(chunkSize, chunkOverlap),
	}
}

// Ingest chunks and indexes the extracted text of a document, replacing any
// passages from a previous ingestion of the same document. It returns the
// number of passages stored. A text that produces no usable passages leaves
// the stores untouched and returns zero.
//
// The relational delete and the vector delete are two independent systems
// with no shared transaction; the vector delete is best-effort. Stale points
// left behind by a failed delete are inert: their relational rows are gone
// and document-scoped queries no longer match them. Concurrent ingests of
// the same document are not safe and must be serialized by the caller.
func (p *Pipeline) Ingest(ctx context.Context, doc *storage.DocumentRecord, text string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	normalized := Normalize(text)
	passages := p.chunker.Chunk(normalized)
	if len(passages) == 0 {
		logger.WarnContext(ctx, "no passages generated", "document_id", doc.ID, "title", doc.Title)
		return 0, nil
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, passages)
	if err != nil {
		return 0, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddings) != len(passages) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(passages), len(embeddings))
	}

	// Replace, not merge: drop everything from the previous ingestion first.
	oldIDs, err := p.chunkRepo.ListIDsByDocument(ctx, doc.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list old chunk IDs: %w", err)
	}
	if len(oldIDs) > 0 {
		if err := p.vectorStore.Delete(ctx, p.collection, oldIDs); err != nil {
			logger.WarnContext(ctx, "failed to delete old points from Qdrant",
				"error", err, "document_id", doc.ID, "count", len(oldIDs))
		}
		if err := p.chunkRepo.DeleteByDocument(ctx, doc.ID); err != nil {
			return 0, fmt.Errorf("failed to delete old chunks: %w", err)
		}
	}

	points := make([]vectorstore.Point, len(passages))
	for i, passage := range passages {
		chunkID := uuid.New().String()
		page := approximatePage(i, len(passages), doc.Pages)

		record := &storage.ChunkRecord{
			ID:         chunkID,
			DocumentID: doc.ID,
			ChunkIndex: i,
			Content:    passage,
			PageNumber: page,
		}
		if err := p.chunkRepo.Insert(ctx, record); err != nil {
			return 0, fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}

		points[i] = vectorstore.Point{
			ID:      chunkID,
			Vec:     embeddings[i],
			Content: passage,
			Meta: map[string]any{
				"document_id":    doc.ID,
				"chunk_index":    i,
				"page_number":    page,
				"document_title": doc.Title,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return 0, fmt.Errorf("failed to upsert points: %w", err)
	}

	logger.InfoContext(ctx, "document indexed",
		"document_id", doc.ID, "title", doc.Title, "chunks", len(passages))
	return len(passages), nil
}

// approximatePage maps a passage to a page by its proportional position in
// the document. Exact page tracking would need per-page offsets from the
// extractor; proportional placement is close enough for source attribution.
func approximatePage(index, total, pages int) int {
	if pages <= 1 || total <= 0 {
		return 1
	}
	page := index*pages/total + 1
	if page > pages {
		page = pages
	}
	return page
}
