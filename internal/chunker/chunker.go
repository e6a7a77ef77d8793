// Package chunker splits parsed documents into retrieval-sized chunks,
// preserving the heading breadcrumb of each piece.
package chunker

import (
	"strings"

	"github.com/dcortezh/propgen/internal/document"
)

// Config controls chunking behavior. Sizes are in estimated tokens.
type Config struct {
	Size    int // Target chunk size.
	Overlap int // Overlap between consecutive chunks.
	Min     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults for knowledge-base documents.
func DefaultConfig() Config {
	return Config{
		Size:    800,
		Overlap: 120,
		Min:     60,
	}
}

// Split walks a document and produces structure-aware chunks.
func Split(doc *document.Doc, cfg Config) []document.Chunk {
	if cfg.Size <= 0 {
		cfg.Size = 800
	}
	if cfg.Overlap <= 0 {
		cfg.Overlap = 120
	}
	if cfg.Min <= 0 {
		cfg.Min = 60
	}

	var chunks []document.Chunk
	index := 0
	for _, section := range doc.Sections {
		index = walkSection(section, nil, cfg, &chunks, index)
	}
	return chunks
}

// walkSection visits sections depth-first, collecting text and splitting
// oversized sections.
func walkSection(section *document.Section, breadcrumb []string, cfg Config, chunks *[]document.Chunk, index int) int {
	var bc []string
	bc = append(bc, breadcrumb...)
	if section.Title != "" {
		bc = append(bc, section.Title)
	}

	if section.Text != "" {
		tokens := EstimateTokens(section.Text)
		if tokens <= cfg.Size {
			if tokens >= cfg.Min {
				*chunks = append(*chunks, document.Chunk{
					Text:       section.Text,
					Index:      index,
					Breadcrumb: copyBreadcrumb(bc),
					PageStart:  section.Page,
					PageEnd:    section.Page,
				})
				index++
			}
		} else {
			for _, part := range splitText(section.Text, cfg.Size, cfg.Overlap) {
				if EstimateTokens(part) >= cfg.Min {
					*chunks = append(*chunks, document.Chunk{
						Text:       part,
						Index:      index,
						Breadcrumb: copyBreadcrumb(bc),
						PageStart:  section.Page,
						PageEnd:    section.Page,
					})
					index++
				}
			}
		}
	}

	for _, child := range section.Children {
		index = walkSection(child, bc, cfg, chunks, index)
	}
	return index
}

// splitText breaks text into pieces of approximately targetTokens, with
// overlap carried between consecutive pieces. Paragraph boundaries are
// preferred; oversized paragraphs fall back to sentence splitting.
func splitText(text string, targetTokens, overlapTokens int) []string {
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if currentTokens > 0 {
			result = append(result, current.String())
			current.Reset()
			currentTokens = 0
		}
	}

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		if paraTokens > targetTokens {
			flush()
			result = append(result, splitBySentences(para, targetTokens, overlapTokens)...)
			continue
		}

		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			prev := current.String()
			flush()
			if overlap := overlapTail(prev, overlapTokens); overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	flush()
	return result
}

func splitByParagraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks an oversized paragraph into sentence-bounded
// pieces.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range splitSentences(text) {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			prev := current.String()
			result = append(result, prev)
			current.Reset()
			currentTokens = 0
			if overlap := overlapTail(prev, overlapTokens); overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

// splitSentences does basic sentence splitting on terminal punctuation.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}
	return sentences
}

// overlapTail extracts the last targetTokens worth of words for overlap.
func overlapTail(text string, targetTokens int) string {
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / tokensPerWord)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
