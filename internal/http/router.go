package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docintel/internal/handlers"
	"docintel/internal/service"
	"docintel/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Documents      service.DocumentService
	VectorStore    vectorstore.VectorStore
	Collection     string
	MaxUploadBytes int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	documentsHandler := handlers.NewDocumentsHandler(deps.Documents, deps.MaxUploadBytes)
	askHandler := handlers.NewAskHandler(deps.Documents)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", documentsHandler.List)
		r.Post("/documents/upload", documentsHandler.Upload)
		r.Get("/documents/{documentID}", documentsHandler.Detail)
		r.Post("/ask", askHandler.ServeHTTP)
		r.Get("/health", healthHandler.ServeHTTP)
	})

	return r
}
