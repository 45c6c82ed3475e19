package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"docintel/internal/extract"
	"docintel/internal/rag"
	ragmocks "docintel/internal/rag/mocks"
	"docintel/internal/storage"
	storagemocks "docintel/internal/storage/mocks"
)

type fakeExtractor struct {
	result extract.Result
	err    error
	path   string
}

func (f *fakeExtractor) Extract(_ context.Context, path string) (*extract.Result, error) {
	f.path = path
	if f.err != nil {
		return nil, f.err
	}
	return &f.result, f.err
}

type fakeIngestor struct {
	count int
	err   error
	doc   *storage.DocumentRecord
	text  string
}

func (f *fakeIngestor) Ingest(_ context.Context, doc *storage.DocumentRecord, text string) (int, error) {
	f.doc = doc
	f.text = text
	return f.count, f.err
}

type serviceFixture struct {
	svc       DocumentService
	docs      *storagemocks.MockDocumentStore
	chunks    *storagemocks.MockChunkStore
	extractor *fakeExtractor
	ingestor  *fakeIngestor
	engine    *ragmocks.MockEngine
	uploadDir string
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := &serviceFixture{
		docs:      storagemocks.NewMockDocumentStore(ctrl),
		chunks:    storagemocks.NewMockChunkStore(ctrl),
		extractor: &fakeExtractor{result: extract.Result{Text: "Extracted text.", Pages: 1}},
		ingestor:  &fakeIngestor{count: 1},
		engine:    ragmocks.NewMockEngine(ctrl),
		uploadDir: t.TempDir(),
	}
	f.svc = NewDocumentService(f.docs, f.chunks, f.extractor, f.ingestor, f.engine, f.uploadDir)
	return f
}

func TestDocumentService_Upload(t *testing.T) {
	f := newServiceFixture(t)
	f.extractor.result = extract.Result{Text: "The full extracted document text.", Pages: 4}
	f.ingestor.count = 6

	f.docs.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, doc *storage.DocumentRecord) {
			doc.ID = 5
		}).
		Return(nil)
	f.docs.EXPECT().UpdatePages(gomock.Any(), int64(5), 4).Return(nil)
	f.docs.EXPECT().UpdateStatus(gomock.Any(), int64(5), storage.StatusCompleted).Return(nil)

	got, err := f.svc.Upload(context.Background(), UploadRequest{
		Filename: "Annual Report.pdf",
		Size:     1024,
		File:     strings.NewReader("%PDF-1.4 raw bytes"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if got.ChunksCreated != 6 {
		t.Errorf("ChunksCreated = %d, want 6", got.ChunksCreated)
	}
	doc := got.Document
	if doc.Title != "Annual Report" || doc.FileType != ".pdf" || doc.FileSize != 1024 {
		t.Errorf("unexpected document: %+v", doc)
	}
	if doc.ProcessingStatus != storage.StatusCompleted {
		t.Errorf("status = %q, want %q", doc.ProcessingStatus, storage.StatusCompleted)
	}
	if doc.Pages != 4 {
		t.Errorf("pages = %d, want 4", doc.Pages)
	}

	// The upload was written to disk and handed to the extractor.
	saved, err := os.ReadFile(f.extractor.path)
	if err != nil {
		t.Fatalf("failed to read saved upload: %v", err)
	}
	if string(saved) != "%PDF-1.4 raw bytes" {
		t.Errorf("saved content = %q", saved)
	}
	if !strings.HasSuffix(f.extractor.path, ".pdf") {
		t.Errorf("saved path %q missing extension", f.extractor.path)
	}

	if f.ingestor.text != "The full extracted document text." {
		t.Errorf("ingested text = %q", f.ingestor.text)
	}
	if f.ingestor.doc.ID != 5 {
		t.Errorf("ingested document ID = %d, want 5", f.ingestor.doc.ID)
	}
}

func TestDocumentService_Upload_TitleOverride(t *testing.T) {
	f := newServiceFixture(t)

	f.docs.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, doc *storage.DocumentRecord) {
			if doc.Title != "Custom Title" {
				t.Errorf("title = %q, want %q", doc.Title, "Custom Title")
			}
			doc.ID = 1
		}).
		Return(nil)
	f.docs.EXPECT().UpdatePages(gomock.Any(), int64(1), gomock.Any()).Return(nil)
	f.docs.EXPECT().UpdateStatus(gomock.Any(), int64(1), storage.StatusCompleted).Return(nil)

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		Filename: "notes.txt",
		Title:    "Custom Title",
		File:     strings.NewReader("content"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
}

func TestDocumentService_Upload_Invalid(t *testing.T) {
	f := newServiceFixture(t)

	tests := []struct {
		name string
		req  UploadRequest
	}{
		{"missing file", UploadRequest{Filename: "a.pdf"}},
		{"missing filename", UploadRequest{File: strings.NewReader("x")}},
		{"unsupported format", UploadRequest{Filename: "archive.zip", File: strings.NewReader("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Upload(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Upload() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestDocumentService_Upload_ExtractionFailureMarksFailed(t *testing.T) {
	f := newServiceFixture(t)
	f.extractor.err = errors.New("corrupt file")

	f.docs.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, doc *storage.DocumentRecord) { doc.ID = 9 }).
		Return(nil)
	f.docs.EXPECT().UpdateStatus(gomock.Any(), int64(9), storage.StatusFailed).Return(nil)

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		Filename: "broken.pdf",
		File:     strings.NewReader("not a pdf"),
	})
	if err == nil {
		t.Fatal("Upload() expected error")
	}
	if !strings.Contains(err.Error(), "processing failed") {
		t.Errorf("Upload() error = %v", err)
	}
}

func TestDocumentService_Upload_IngestFailureMarksFailed(t *testing.T) {
	f := newServiceFixture(t)
	f.ingestor.err = errors.New("embedding service down")

	f.docs.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, doc *storage.DocumentRecord) { doc.ID = 9 }).
		Return(nil)
	f.docs.EXPECT().UpdatePages(gomock.Any(), int64(9), gomock.Any()).Return(nil)
	f.docs.EXPECT().UpdateStatus(gomock.Any(), int64(9), storage.StatusFailed).Return(nil)

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		Filename: "doc.txt",
		File:     strings.NewReader("text"),
	})
	if err == nil {
		t.Fatal("Upload() expected error")
	}
}

func TestDocumentService_Detail(t *testing.T) {
	f := newServiceFixture(t)

	doc := &storage.DocumentRecord{ID: 2, Title: "Report", ProcessingStatus: storage.StatusCompleted}
	sample := []*storage.ChunkRecord{
		{ChunkIndex: 0, Content: "first"},
		{ChunkIndex: 1, Content: "second"},
		{ChunkIndex: 2, Content: "third"},
	}

	f.docs.EXPECT().GetByID(gomock.Any(), int64(2)).Return(doc, nil)
	f.chunks.EXPECT().CountByDocument(gomock.Any(), int64(2)).Return(11, nil)
	f.chunks.EXPECT().ListByDocument(gomock.Any(), int64(2), detailSampleChunks).Return(sample, nil)

	got, err := f.svc.Detail(context.Background(), 2)
	if err != nil {
		t.Fatalf("Detail() error = %v", err)
	}
	if got.TotalChunks != 11 || len(got.SampleChunks) != 3 {
		t.Errorf("Detail() = %+v", got)
	}
}

func TestDocumentService_Detail_NotFound(t *testing.T) {
	f := newServiceFixture(t)

	f.docs.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, storage.ErrNotFound)

	_, err := f.svc.Detail(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Detail() error = %v, want ErrNotFound", err)
	}
}

func TestDocumentService_Ask(t *testing.T) {
	f := newServiceFixture(t)

	doc := &storage.DocumentRecord{ID: 3, Title: "Handbook", ProcessingStatus: storage.StatusCompleted}
	resp := rag.AskResponse{
		Answer:      "The policy allows twenty vacation days.",
		Sources:     []rag.Source{{ChunkIndex: 1, PageNumber: 2}},
		ContextUsed: 1,
	}

	f.docs.EXPECT().GetByID(gomock.Any(), int64(3)).Return(doc, nil)
	f.engine.EXPECT().
		Ask(gomock.Any(), rag.AskRequest{
			DocumentID:    3,
			DocumentTitle: "Handbook",
			Question:      "How many vacation days?",
			NumChunks:     5,
		}).
		Return(resp)

	got, err := f.svc.Ask(context.Background(), 3, "How many vacation days?", 5)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if got.Response.Answer != resp.Answer || got.Document.ID != 3 {
		t.Errorf("Ask() = %+v", got)
	}
}

func TestDocumentService_Ask_Guards(t *testing.T) {
	t.Run("empty question", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.svc.Ask(context.Background(), 1, "   ", 0)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Ask() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("document not found", func(t *testing.T) {
		f := newServiceFixture(t)
		f.docs.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, storage.ErrNotFound)

		_, err := f.svc.Ask(context.Background(), 1, "anything?", 0)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Ask() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("document still processing", func(t *testing.T) {
		f := newServiceFixture(t)
		doc := &storage.DocumentRecord{ID: 1, ProcessingStatus: storage.StatusProcessing}
		f.docs.EXPECT().GetByID(gomock.Any(), int64(1)).Return(doc, nil)

		_, err := f.svc.Ask(context.Background(), 1, "anything?", 0)
		if !errors.Is(err, ErrDocumentNotReady) {
			t.Errorf("Ask() error = %v, want ErrDocumentNotReady", err)
		}
	})

	t.Run("no relevant content", func(t *testing.T) {
		f := newServiceFixture(t)
		doc := &storage.DocumentRecord{ID: 1, Title: "Doc", ProcessingStatus: storage.StatusCompleted}
		f.docs.EXPECT().GetByID(gomock.Any(), int64(1)).Return(doc, nil)
		f.engine.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			Return(rag.AskResponse{Answer: rag.AnswerNoContext, Sources: []rag.Source{}, ContextUsed: 0})

		got, err := f.svc.Ask(context.Background(), 1, "anything?", 0)
		if !errors.Is(err, ErrNoRelevantContent) {
			t.Errorf("Ask() error = %v, want ErrNoRelevantContent", err)
		}
		if got.Response.Answer != rag.AnswerNoContext {
			t.Errorf("Ask() response = %+v, want canned answer attached", got.Response)
		}
	})
}
