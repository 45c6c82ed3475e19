package indexer

import (
	"regexp"
	"strings"
	"unicode"
)

// Extraction from column-based layouts (PDFs especially) leaves concatenated
// words, stray bullet glyphs, and broken line structure behind. The rules
// below undo those artifacts; each is idempotent on already-clean text.
var (
	lowerUpperBoundary  = regexp.MustCompile(`([a-z])([A-Z])`)
	digitLetterBoundary = regexp.MustCompile(`([0-9])([A-Za-z])`)
	letterDigitBoundary = regexp.MustCompile(`([A-Za-z])([0-9])`)
	sentenceBoundary    = regexp.MustCompile(`\.([A-Z])`)
	bulletGlyph         = regexp.MustCompile(`^[\x{2022}\x{25CF}\x{25AA}\x{25E6}\x{2023}\x{00B7}]\s*`)
	horizontalSpace     = regexp.MustCompile(`[ \t]+`)
	excessNewlines      = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw extracted text for chunking. It never fails; empty
// input yields an empty string. The output contains no tabs and no runs of
// three or more newlines, and paragraph boundaries survive as double newlines.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// Re-separate words glued together by column extraction.
	text = lowerUpperBoundary.ReplaceAllString(text, "$1 $2")
	text = digitLetterBoundary.ReplaceAllString(text, "$1 $2")
	text = letterDigitBoundary.ReplaceAllString(text, "$1 $2")
	text = sentenceBoundary.ReplaceAllString(text, ". $1")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		line = bulletGlyph.ReplaceAllString(line, "- ")

		// Blank lines are paragraph separators and must survive; anything
		// else shorter than 2 characters or without a letter is a
		// formatting artifact.
		if line == "" {
			cleaned = append(cleaned, "")
			continue
		}
		if len(line) < 2 || !containsLetter(line) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	text = strings.Join(cleaned, "\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
