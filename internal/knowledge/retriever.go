package knowledge

import (
	"context"
	"fmt"
	"strings"
)

// Embedder turns texts into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// groundingQuery is the fixed query used to pull the grantsmanship passages
// that ground every oracle prompt.
const groundingQuery = `TGCI grantsmanship principles, proposal readiness,
organizational maturity, evaluation standards,
grant opportunity structure, RFP components,
alignment assessment, common pitfalls`

// groundingK is how many passages the fixed grounding query retrieves.
const groundingK = 8

// Retriever answers similarity queries over an index loaded fully into
// memory at startup.
type Retriever struct {
	embedder Embedder
	passages []Passage
	dim      int
}

// NewRetriever loads every passage from the index at path. An unreadable or
// empty index, or passages with inconsistent dimensions, fail loading; the
// caller treats that as fatal at startup.
func NewRetriever(ctx context.Context, indexPath string, embedder Embedder) (*Retriever, error) {
	ix, err := OpenIndex(indexPath)
	if err != nil {
		return nil, err
	}
	defer ix.Close()

	passages, err := ix.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load knowledge index %s: %w", indexPath, err)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("knowledge index %s is empty", indexPath)
	}
	dim := len(passages[0].Embedding)
	for _, p := range passages {
		if len(p.Embedding) != dim {
			return nil, fmt.Errorf("knowledge index %s: passage %d has dimension %d, expected %d", indexPath, p.ID, len(p.Embedding), dim)
		}
	}
	return &Retriever{embedder: embedder, passages: passages, dim: dim}, nil
}

// NewRetrieverFromPassages builds a retriever over an in-memory passage set.
func NewRetrieverFromPassages(passages []Passage, embedder Embedder) (*Retriever, error) {
	if len(passages) == 0 {
		return nil, fmt.Errorf("no passages")
	}
	return &Retriever{embedder: embedder, passages: passages, dim: len(passages[0].Embedding)}, nil
}

// Search embeds the query and returns the top-k most similar passages.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	if len(vectors[0]) != r.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(vectors[0]), r.dim)
	}
	return findTopK(vectors[0], r.passages, k), nil
}

// KnowledgeText runs the fixed grounding query and joins the passage bodies
// with blank lines, ready to embed in a prompt.
func (r *Retriever) KnowledgeText(ctx context.Context) (string, error) {
	passages, err := r.Search(ctx, groundingQuery, groundingK)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, p.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}
