package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks docintel/internal/rag Engine

import (
	"context"
	"strings"

	"docintel/internal/contextutil"
	"docintel/internal/llm"
	"docintel/internal/vectorstore"
)

const (
	defaultNumChunks = 3
	maxNumChunks     = 10
)

// Engine answers questions about documents by retrieving relevant passages
// and generating an answer from them.
type Engine interface {
	// Ask runs the query pipeline: embed the question, retrieve passages
	// scoped to the document, assemble context, and generate an answer.
	// It always returns a complete response; collaborator failures degrade
	// to canned answers instead of propagating.
	Ask(ctx context.Context, req AskRequest) AskResponse
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	llmClient   llm.ChatClient
	chatParams  llm.ChatParams
}

// NewEngine creates a new RAG engine. chatParams fixes the model and
// sampling configuration for all answer generation.
func NewEngine(
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	llmClient llm.ChatClient,
	chatParams llm.ChatParams,
) Engine {
	return &ragEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		llmClient:   llmClient,
		chatParams:  chatParams,
	}
}

// Ask answers a question about a single document.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) AskResponse {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{Answer: AnswerInvalidQuestion, Sources: []Source{}, ContextUsed: 0}
	}

	k := req.NumChunks
	if k <= 0 {
		k = defaultNumChunks
	}
	if k > maxNumChunks {
		k = maxNumChunks
	}

	logger.InfoContext(ctx, "RAG query started",
		"document_id", req.DocumentID, "question", question, "k", k)

	results := e.retrieve(ctx, question, req.DocumentID, k)

	assembled := assembleContext(results)
	if assembled.Text == "" {
		logger.InfoContext(ctx, "no usable context retrieved", "document_id", req.DocumentID)
		return AskResponse{Answer: AnswerNoContext, Sources: []Source{}, ContextUsed: 0}
	}

	prompt := buildPrompt(req.DocumentTitle, assembled.Text, question)
	messages := []llm.Message{
		{Role: "system", Content: systemInstruction},
		{Role: "user", Content: prompt},
	}

	raw, err := e.llmClient.ChatWithMessages(ctx, messages, e.chatParams)
	if err != nil {
		logger.ErrorContext(ctx, "answer generation failed",
			"document_id", req.DocumentID, "error", err)
		return AskResponse{Answer: AnswerGenerationFailed, Sources: []Source{}, ContextUsed: 0}
	}

	logger.InfoContext(ctx, "RAG query completed",
		"document_id", req.DocumentID, "context_used", len(assembled.Sources))

	return AskResponse{
		Answer:      postProcessAnswer(raw),
		Sources:     assembled.Sources,
		ContextUsed: len(assembled.Sources),
	}
}

// retrieve embeds the question and searches the vector index. Any embedding
// or search failure is logged and degrades to an empty result list so the
// query pipeline reports insufficient context instead of failing outright.
func (e *ragEngine) retrieve(ctx context.Context, question string, documentID int64, k int) []vectorstore.SearchResult {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		return nil
	}
	if len(embeddings) == 0 {
		logger.ErrorContext(ctx, "no embedding returned for question")
		return nil
	}

	results, err := e.vectorStore.Search(ctx, e.collection, embeddings[0], k, documentID)
	if err != nil {
		logger.ErrorContext(ctx, "vector search failed",
			"document_id", documentID, "error", err)
		return nil
	}
	return results
}
