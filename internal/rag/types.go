package rag

// AskRequest represents a question about a single document.
type AskRequest struct {
	// DocumentID scopes retrieval to one document's passages.
	DocumentID int64
	// DocumentTitle is embedded in the prompt so the model can name the document.
	DocumentTitle string
	// Question is the user's question to answer.
	Question string
	// NumChunks optionally overrides how many passages to retrieve (default 3, max 10).
	NumChunks int
}

// Source attributes part of an answer to a retrieved passage.
type Source struct {
	// ChunkIndex is the passage's zero-based position within the document.
	ChunkIndex int `json:"chunk_index"`
	// PageNumber is the page the passage was taken from.
	PageNumber int `json:"page_number"`
	// ContentPreview is the first 200 characters of the passage, ellipsis-suffixed if truncated.
	ContentPreview string `json:"content_preview"`
	// ContentLength is the full passage length in characters.
	ContentLength int `json:"content_length"`
	// SimilarityScore is the cosine similarity between the question and the passage.
	SimilarityScore float32 `json:"similarity_score"`
}

// AskResponse represents the generated answer with source attribution.
type AskResponse struct {
	// Answer is the generated answer text, or a canned message when no
	// answer could be produced.
	Answer string `json:"answer"`
	// Sources are the passages that informed the answer.
	Sources []Source `json:"sources"`
	// ContextUsed is the number of passages included in the prompt context.
	ContextUsed int `json:"context_used"`
}
