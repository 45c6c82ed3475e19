package rag

import (
	"fmt"
	"strings"

	"docintel/internal/vectorstore"
)

const previewLength = 200

// assembledContext is the validated, formatted prompt context built from raw
// retrieval results, with one source attribution per surviving passage.
type assembledContext struct {
	// Text is the excerpt blocks joined by blank lines; empty when no
	// result survived validation.
	Text    string
	Sources []Source
}

// assembleContext validates raw retrieval results and renders them into
// labeled excerpt blocks. Results cross a service boundary and are treated
// as untrusted: entries with empty content are dropped silently, and missing
// metadata defaults rather than failing. An empty Text signals insufficient
// context to the caller.
func assembleContext(results []vectorstore.SearchResult) assembledContext {
	var blocks []string
	var sources []Source

	for _, result := range results {
		content := strings.TrimSpace(result.Content)
		if content == "" {
			continue
		}

		meta := result.Meta
		if meta == nil {
			meta = map[string]any{}
		}
		chunkIndex := metaInt(meta, "chunk_index", 0)
		page := metaInt(meta, "page_number", 1)
		if page < 1 {
			page = 1
		}

		blocks = append(blocks, fmt.Sprintf("[Chunk %d | Page %d]: %s", chunkIndex+1, page, content))
		sources = append(sources, Source{
			ChunkIndex:      chunkIndex,
			PageNumber:      page,
			ContentPreview:  preview(content),
			ContentLength:   len(content),
			SimilarityScore: result.Score,
		})
	}

	return assembledContext{
		Text:    strings.Join(blocks, "\n\n"),
		Sources: sources,
	}
}

// metaInt reads an integer metadata field, tolerating the numeric types
// different payload decoders produce.
func metaInt(meta map[string]any, key string, fallback int) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}
	return content[:previewLength] + "..."
}
