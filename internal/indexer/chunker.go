package indexer

import (
	"regexp"
	"strings"
)

const (
	// Passages at or below this trimmed length carry too little signal to
	// be worth embedding and are discarded.
	minPassageLength = 50

	// Average word length heuristic used to convert the character-based
	// target size into a word-window size for the sliding-window fallback.
	avgWordLength = 6

	minWindowWords = 10
)

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// splitFunc produces candidate passages from normalized text. A result is
// usable when it contains more than one passage after filtering.
type splitFunc func(text string) []string

// Chunker splits normalized text into overlapping passages. Strategies are
// tried in order (sentences, paragraphs, sliding word window), falling back
// when a strategy cannot break the text into more than one usable passage.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given target passage size and
// overlap, both in characters. Overlap must be smaller than size. The
// accumulation strategies overlap at word granularity, carrying the trailing
// `overlap` words of a closed passage into the next one.
func NewChunker(size, overlap int) *Chunker {
	return &Chunker{size: size, overlap: overlap}
}

// Chunk splits text into ordered passages. Empty or whitespace-only input
// yields nil. Non-empty input always yields at least one passage: text that
// no strategy can split is returned whole.
func (c *Chunker) Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.size {
		return []string{text}
	}

	strategies := []splitFunc{c.splitBySentences, c.splitByParagraphs, c.splitByWords}
	for _, split := range strategies {
		passages := dropShortPassages(split(text))
		if len(passages) > 1 {
			return passages
		}
		// Falling back only pays off when the text is long enough that a
		// single passage would be badly oversized.
		if len(text) <= 2*c.size {
			break
		}
	}

	return []string{text}
}

// splitBySentences accumulates sentences greedily up to the target size,
// seeding each new passage with the trailing words of the previous one.
func (c *Chunker) splitBySentences(text string) []string {
	return c.accumulate(splitSentences(text), " ")
}

// splitByParagraphs applies the same accumulation over paragraph boundaries.
func (c *Chunker) splitByParagraphs(text string) []string {
	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return c.accumulate(paragraphs, "\n\n")
}

// splitByWords slides a fixed-size word window across the text. Last resort
// for text with no usable sentence or paragraph structure.
func (c *Chunker) splitByWords(text string) []string {
	words := strings.Fields(text)

	window := c.size / avgWordLength
	if window < 1 {
		window = 1
	}
	stride := window - c.overlap/avgWordLength
	if stride < 1 {
		stride = 1
	}

	var passages []string
	for start := 0; start < len(words); start += stride {
		end := start + window
		if end > len(words) {
			end = len(words)
		}
		if end-start > minWindowWords {
			passages = append(passages, strings.Join(words[start:end], " "))
		}
		if end == len(words) {
			break
		}
	}
	return passages
}

// accumulate greedily packs units into passages of roughly the target size.
// When a passage closes, the next one is seeded with its trailing overlap
// words so consecutive passages share context.
func (c *Chunker) accumulate(units []string, joiner string) []string {
	var passages []string
	var current string

	for _, unit := range units {
		if current != "" && len(current)+len(unit) > c.size {
			passages = append(passages, strings.TrimSpace(current))

			words := strings.Fields(current)
			if len(words) > c.overlap {
				words = words[len(words)-c.overlap:]
			}
			current = strings.Join(words, " ") + joiner + unit
			continue
		}
		if current == "" {
			current = unit
		} else {
			current += joiner + unit
		}
	}

	if strings.TrimSpace(current) != "" {
		passages = append(passages, strings.TrimSpace(current))
	}
	return passages
}

// splitSentences splits on sentence-ending punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last : loc[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func dropShortPassages(passages []string) []string {
	kept := passages[:0:0]
	for _, p := range passages {
		if len(strings.TrimSpace(p)) > minPassageLength {
			kept = append(kept, p)
		}
	}
	return kept
}
