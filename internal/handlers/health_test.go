package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	vsmocks "docintel/internal/vectorstore/mocks"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		exists     bool
		err        error
		wantStatus int
		wantHealth string
	}{
		{
			name:       "healthy",
			exists:     true,
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "collection missing",
			exists:     false,
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
		{
			name:       "vector store unreachable",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			vectorStore := vsmocks.NewMockVectorStore(ctrl)
			vectorStore.EXPECT().
				CollectionExists(gomock.Any(), "documents").
				Return(tt.exists, tt.err)

			h := NewHealthHandler(vectorStore, "documents")
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeBody(t, rec)
			if body["status"] != tt.wantHealth {
				t.Errorf("status = %v, want %q", body["status"], tt.wantHealth)
			}
			checks := body["checks"].(map[string]any)
			wantCheck := "ok"
			if tt.wantHealth == "unhealthy" {
				wantCheck = "error"
			}
			if checks["vector_store"] != wantCheck {
				t.Errorf("vector_store check = %v, want %q", checks["vector_store"], wantCheck)
			}
		})
	}
}
