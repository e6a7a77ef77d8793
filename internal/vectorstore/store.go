// Package vectorstore wraps the Chroma vector database used as the
// proposal knowledge base.
package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcortezh/propgen/internal/document"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores/chroma"
)

// Store holds the Chroma collection for indexed document chunks.
type Store struct {
	chroma chroma.Store
}

func New(chromaURL, namespace string, embedder embeddings.Embedder) (*Store, error) {
	cs, err := chroma.New(
		chroma.WithChromaURL(chromaURL),
		chroma.WithNameSpace(namespace),
		chroma.WithEmbedder(embedder),
	)
	if err != nil {
		return nil, fmt.Errorf("connect chroma at %s: %w", chromaURL, err)
	}
	return &Store{chroma: cs}, nil
}

// Snippet is one retrieved piece of knowledge-base context.
type Snippet struct {
	Text       string  `json:"text"`
	Title      string  `json:"title,omitempty"`
	Breadcrumb string  `json:"breadcrumb,omitempty"`
	Score      float32 `json:"score"`
}

// AddChunks upserts a document's chunks with their structural metadata.
// Returns the number of chunks stored.
func (s *Store) AddChunks(ctx context.Context, docID, title string, chunks []document.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	docs := make([]schema.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, schema.Document{
			PageContent: c.Text,
			Metadata: map[string]any{
				"doc_id":      docID,
				"title":       title,
				"breadcrumb":  strings.Join(c.Breadcrumb, " > "),
				"chunk_index": c.Index,
			},
		})
	}

	if _, err := s.chroma.AddDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("add documents: %w", err)
	}
	return len(docs), nil
}

// Search returns the k most similar chunks for a query.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Snippet, error) {
	if k <= 0 {
		k = 4
	}
	docs, err := s.chroma.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	snippets := make([]Snippet, 0, len(docs))
	for _, d := range docs {
		sn := Snippet{
			Text:  d.PageContent,
			Score: d.Score,
		}
		if t, ok := d.Metadata["title"].(string); ok {
			sn.Title = t
		}
		if bc, ok := d.Metadata["breadcrumb"].(string); ok {
			sn.Breadcrumb = bc
		}
		snippets = append(snippets, sn)
	}
	return snippets, nil
}

// Reset drops the collection. The knowledge base is rebuilt by
// reindexing, which keeps the store's contents equal to the latest
// indexed documents. ctx is accepted for interface symmetry but unused:
// the chroma wrapper's RemoveCollection has no context hook.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.chroma.RemoveCollection(); err != nil {
		return fmt.Errorf("remove collection: %w", err)
	}
	return nil
}

// ContextTexts renders snippets as prompt-ready blocks, each prefixed
// with its source breadcrumb.
func ContextTexts(snippets []Snippet) []string {
	texts := make([]string, 0, len(snippets))
	for _, sn := range snippets {
		var sb strings.Builder
		if sn.Title != "" {
			sb.WriteString("[" + sn.Title)
			if sn.Breadcrumb != "" {
				sb.WriteString(" > " + sn.Breadcrumb)
			}
			sb.WriteString("]\n")
		}
		sb.WriteString(sn.Text)
		texts = append(texts, sb.String())
	}
	return texts
}
