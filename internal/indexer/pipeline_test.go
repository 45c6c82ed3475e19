package indexer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	llmmocks "docintel/internal/llm/mocks"
	"docintel/internal/storage"
	storagemocks "docintel/internal/storage/mocks"
	"docintel/internal/vectorstore"
	vsmocks "docintel/internal/vectorstore/mocks"
)

const testCollection = "documents"

func newTestPipeline(t *testing.T) (*Pipeline, *storagemocks.MockChunkStore, *llmmocks.MockEmbedder, *vsmocks.MockVectorStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	chunkRepo := storagemocks.NewMockChunkStore(ctrl)
	embedder := llmmocks.NewMockEmbedder(ctrl)
	vectorStore := vsmocks.NewMockVectorStore(ctrl)

	p := NewPipeline(chunkRepo, embedder, vectorStore, testCollection, 500, 50)
	return p, chunkRepo, embedder, vectorStore
}

func TestPipeline_Ingest(t *testing.T) {
	p, chunkRepo, embedder, vectorStore := newTestPipeline(t)

	doc := &storage.DocumentRecord{ID: 7, Title: "Quarterly Report", Pages: 1}
	text := "The quarterly revenue grew by twelve percent compared to last year."

	embedder.EXPECT().
		EmbedTexts(gomock.Any(), []string{text}).
		Return([][]float32{{0.1, 0.2, 0.3}}, nil)
	chunkRepo.EXPECT().
		ListIDsByDocument(gomock.Any(), int64(7)).
		Return(nil, nil)

	var inserted *storage.ChunkRecord
	chunkRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, chunk *storage.ChunkRecord) {
			inserted = chunk
		}).
		Return(nil)

	var points []vectorstore.Point
	vectorStore.EXPECT().
		Upsert(gomock.Any(), testCollection, gomock.Any()).
		Do(func(_ context.Context, _ string, pts []vectorstore.Point) {
			points = pts
		}).
		Return(nil)

	count, err := p.Ingest(context.Background(), doc, text)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Ingest() count = %d, want 1", count)
	}

	if inserted == nil {
		t.Fatal("no chunk record inserted")
	}
	if inserted.DocumentID != 7 || inserted.ChunkIndex != 0 || inserted.Content != text {
		t.Errorf("unexpected chunk record: %+v", inserted)
	}
	if inserted.ID == "" {
		t.Error("chunk record missing ID")
	}

	if len(points) != 1 {
		t.Fatalf("Upsert received %d points, want 1", len(points))
	}
	if points[0].ID != inserted.ID {
		t.Errorf("point ID %q does not match chunk ID %q", points[0].ID, inserted.ID)
	}
	if points[0].Meta["document_id"] != int64(7) {
		t.Errorf("point metadata document_id = %v, want 7", points[0].Meta["document_id"])
	}
	if points[0].Meta["document_title"] != "Quarterly Report" {
		t.Errorf("point metadata document_title = %v", points[0].Meta["document_title"])
	}
}

func TestPipeline_Ingest_ReplacesOldChunks(t *testing.T) {
	p, chunkRepo, embedder, vectorStore := newTestPipeline(t)

	doc := &storage.DocumentRecord{ID: 3, Title: "Notes", Pages: 1}
	text := "Replacing a document drops every passage from the previous ingestion."
	oldIDs := []string{"old-chunk-1", "old-chunk-2"}

	embedder.EXPECT().
		EmbedTexts(gomock.Any(), []string{text}).
		Return([][]float32{{0.5}}, nil)
	chunkRepo.EXPECT().
		ListIDsByDocument(gomock.Any(), int64(3)).
		Return(oldIDs, nil)
	vectorStore.EXPECT().
		Delete(gomock.Any(), testCollection, oldIDs).
		Return(nil)
	chunkRepo.EXPECT().
		DeleteByDocument(gomock.Any(), int64(3)).
		Return(nil)
	chunkRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(nil)
	vectorStore.EXPECT().
		Upsert(gomock.Any(), testCollection, gomock.Any()).
		Return(nil)

	count, err := p.Ingest(context.Background(), doc, text)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Ingest() count = %d, want 1", count)
	}
}

func TestPipeline_Ingest_VectorDeleteFailureTolerated(t *testing.T) {
	p, chunkRepo, embedder, vectorStore := newTestPipeline(t)

	doc := &storage.DocumentRecord{ID: 3, Title: "Notes", Pages: 1}
	text := "A failed vector delete must not abort the rest of the ingestion."

	embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		Return([][]float32{{0.5}}, nil)
	chunkRepo.EXPECT().
		ListIDsByDocument(gomock.Any(), int64(3)).
		Return([]string{"stale-chunk"}, nil)
	vectorStore.EXPECT().
		Delete(gomock.Any(), testCollection, gomock.Any()).
		Return(errors.New("qdrant unavailable"))
	chunkRepo.EXPECT().
		DeleteByDocument(gomock.Any(), int64(3)).
		Return(nil)
	chunkRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(nil)
	vectorStore.EXPECT().
		Upsert(gomock.Any(), testCollection, gomock.Any()).
		Return(nil)

	if _, err := p.Ingest(context.Background(), doc, text); err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
}

func TestPipeline_Ingest_EmptyText(t *testing.T) {
	p, _, _, _ := newTestPipeline(t)

	doc := &storage.DocumentRecord{ID: 1, Title: "Empty", Pages: 1}

	count, err := p.Ingest(context.Background(), doc, "   \n\n  ")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Ingest() count = %d, want 0", count)
	}
}

func TestPipeline_Ingest_EmbedderError(t *testing.T) {
	p, _, embedder, _ := newTestPipeline(t)

	doc := &storage.DocumentRecord{ID: 1, Title: "Doc", Pages: 1}

	embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("embedding service down"))

	_, err := p.Ingest(context.Background(), doc, "Some document text that chunks into a single passage without trouble.")
	if err == nil {
		t.Fatal("Ingest() expected error")
	}
	if !strings.Contains(err.Error(), "embeddings") {
		t.Errorf("Ingest() error = %v, want embeddings failure", err)
	}
}

func TestApproximatePage(t *testing.T) {
	tests := []struct {
		name  string
		index int
		total int
		pages int
		want  int
	}{
		{"single page", 0, 10, 1, 1},
		{"first chunk", 0, 10, 5, 1},
		{"last chunk", 9, 10, 5, 5},
		{"middle chunk", 5, 10, 2, 2},
		{"zero pages", 0, 10, 0, 1},
		{"more pages than chunks", 1, 2, 10, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := approximatePage(tt.index, tt.total, tt.pages); got != tt.want {
				t.Errorf("approximatePage(%d, %d, %d) = %d, want %d", tt.index, tt.total, tt.pages, got, tt.want)
			}
		})
	}
}
