package retrieval

import (
	"context"
	"fmt"

	"github.com/ragkit/ragkit-go/ragkit"
)

// SeedDocument is a document to index, before embedding.
type SeedDocument struct {
	Text   string
	Source string
}

// SemanticRetriever ranks indexed documents against a query by embedding
// similarity. It satisfies ragkit.Retriever.
//
// Example:
//
//	embeddings := NewOpenAIEmbeddings("sk-...", "")
//	retriever := NewSemanticRetriever(embeddings, nil, 3)
//	err := retriever.Index(ctx, []SeedDocument{
//	    {Text: "Backpropagation trains neural networks.", Source: "ML Book"},
//	})
//	docs, err := retriever.Search(ctx, "how are networks trained?")
type SemanticRetriever struct {
	embeddings EmbeddingProvider
	index      *VectorIndex
	topK       int
}

// NewSemanticRetriever creates a retriever over the given index.
//
// Parameters:
//   - embeddings: Provider for query and document embeddings
//   - index: Vector index backend (defaults to a fresh in-memory index)
//   - topK: Maximum hits per search (defaults to 3)
func NewSemanticRetriever(embeddings EmbeddingProvider, index *VectorIndex, topK int) *SemanticRetriever {
	if index == nil {
		index = NewVectorIndex()
	}
	if topK <= 0 {
		topK = 3
	}
	return &SemanticRetriever{
		embeddings: embeddings,
		index:      index,
		topK:       topK,
	}
}

// Index embeds and stores the seed documents.
func (r *SemanticRetriever) Index(ctx context.Context, docs []SeedDocument) error {
	for _, doc := range docs {
		embedding, err := r.embeddings.Embed(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("embed document from %q: %w", doc.Source, err)
		}
		r.index.Add(embedding, doc.Text, doc.Source)
	}
	return nil
}

// Search embeds the query and returns the top-k documents in descending
// similarity order. An empty index yields an empty slice, not an error.
func (r *SemanticRetriever) Search(ctx context.Context, query string) ([]ragkit.Document, error) {
	if r.index.Len() == 0 {
		return []ragkit.Document{}, nil
	}

	queryEmbedding, err := r.embeddings.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored := r.index.Search(queryEmbedding, r.topK)
	docs := make([]ragkit.Document, 0, len(scored))
	for _, hit := range scored {
		docs = append(docs, ragkit.Document{
			Text:   hit.text,
			Source: hit.source,
			Score:  hit.score,
		})
	}
	return docs, nil
}
