package rag

import (
	"fmt"
	"strings"
)

// Canned responses for the paths where no model-generated answer exists.
// Exported so callers can tell these apart from generated answers.
const (
	AnswerInvalidQuestion = "Invalid question provided."

	AnswerNoContext = "I couldn't find relevant information in the document to answer your question."

	AnswerNotFound = "I could not find a definitive answer to your question in the document."

	AnswerGenerationFailed = "I apologize, but I encountered an error while generating the answer. Please try again."
)

const systemInstruction = "You are a helpful AI assistant that answers questions based on document content."

const promptTemplate = `You are an AI assistant helping users understand documents. Based on the provided context from the document "%s", answer the user's question accurately and comprehensively.

Context from document:
%s

Question: %s

Instructions:
1. Answer the question based solely on the provided context
2. If the context doesn't contain enough information to answer the question, say so clearly
3. Cite relevant chunks when making specific claims (e.g., "According to Chunk 2...")
4. Be concise but thorough
5. If multiple chunks contain relevant information, synthesize them coherently

Answer:`

// hedgePrefixes are uninformative partial hedges; an answer opening with one
// of these is replaced with the canonical not-found message so a genuine
// non-answer is surfaced consistently.
var hedgePrefixes = []string{
	"i don't know",
	"i couldn't find",
	"the context doesn't",
}

func buildPrompt(title, contextText, question string) string {
	return fmt.Sprintf(promptTemplate, title, contextText, question)
}

// postProcessAnswer trims the raw model output and canonicalizes empty or
// hedging answers.
func postProcessAnswer(raw string) string {
	answer := strings.TrimSpace(raw)
	if answer == "" {
		return AnswerNotFound
	}

	lowered := strings.ToLower(answer)
	for _, prefix := range hedgePrefixes {
		if strings.HasPrefix(lowered, prefix) {
			return AnswerNotFound
		}
	}
	return answer
}
