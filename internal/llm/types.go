package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm.go -package=mocks docintel/internal/llm Embedder,ChatClient

import "context"

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
// The caller treats these as fixed configuration; the core never tunes them
// per request.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	Temperature float32

	// TopP is the nucleus sampling parameter. If 0, the server default is used.
	TopP float32
}

// Embedder generates embedding vectors for texts.
// Defined from the consumer's perspective so pipelines can take test doubles.
type Embedder interface {
	// EmbedTexts returns one vector per input text, order-preserving.
	// An empty input yields an empty result without any service call.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatClient sends chat completion requests to a language-model service.
type ChatClient interface {
	// ChatWithMessages sends a full message list and returns the generated text.
	ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error)
}
