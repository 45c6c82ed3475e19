package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file types the extractor cannot handle.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Result holds the outcome of text extraction.
type Result struct {
	Text  string
	Pages int // 1 for formats without page structure
}

// Extractor extracts plain text from uploaded document files.
// Format support mirrors the upload surface: .txt, .md, .pdf, .docx.
type Extractor struct {
	runner CommandRunner
}

// NewExtractor creates an Extractor using the given command runner for PDF
// extraction. Pass NewExecRunner() outside of tests.
func NewExtractor(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// SupportedExtensions returns the lowercase file extensions the extractor accepts.
func SupportedExtensions() []string {
	return []string{".txt", ".md", ".pdf", ".docx"}
}

// Supported reports whether the given filename has an accepted extension.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

// Extract reads the file at path and returns its plain text and page count.
// Returns ErrUnsupportedFormat for unknown extensions.
func (e *Extractor) Extract(ctx context.Context, path string) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return &Result{Text: string(content), Pages: 1}, nil
	case ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		text, err := extractMarkdown(content)
		if err != nil {
			return nil, fmt.Errorf("failed to extract markdown: %w", err)
		}
		return &Result{Text: text, Pages: 1}, nil
	case ".docx":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		text, err := extractDocx(content)
		if err != nil {
			return nil, fmt.Errorf("failed to extract docx: %w", err)
		}
		return &Result{Text: text, Pages: 1}, nil
	case ".pdf":
		return e.extractPDF(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// extractPDF shells out to pdftotext, which writes one form feed per page.
func (e *Extractor) extractPDF(ctx context.Context, path string) (*Result, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	text := string(out)
	pages := strings.Count(text, "\f")
	if pages == 0 {
		pages = 1
	}
	text = strings.ReplaceAll(text, "\f", "\n\n")

	return &Result{Text: text, Pages: pages}, nil
}
