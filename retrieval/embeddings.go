// Package retrieval provides the knowledge-base side of the toolkit: an
// embedding provider, an in-memory vector index, and a semantic retriever
// that satisfies the ragkit.Retriever contract.
//
// This is the default collaborator behind the retrieve_context tool, sized
// for seed corpora and tests. For large knowledge bases, implement
// ragkit.Retriever over a dedicated vector database instead.
package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// EmbeddingProvider generates vector embeddings for text.
type EmbeddingProvider interface {
	// Embed generates an embedding for text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Dimension returns the embedding dimension.
	Dimension() int
}

// knownDimensions maps OpenAI embedding models to their output dimensions.
var knownDimensions = map[openai.EmbeddingModel]int{
	openai.AdaEmbeddingV2:  1536,
	openai.SmallEmbedding3: 1536,
	openai.LargeEmbedding3: 3072,
}

// OpenAIEmbeddings is an EmbeddingProvider backed by the OpenAI embeddings
// API.
//
// Example:
//
//	embeddings := retrieval.NewOpenAIEmbeddings("sk-...", openai.SmallEmbedding3)
//	vec, err := embeddings.Embed(ctx, "backpropagation")
type OpenAIEmbeddings struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewOpenAIEmbeddings creates an OpenAI-backed embedding provider.
//
// Parameters:
//   - apiKey: OpenAI API key
//   - model: Embedding model identifier; defaults to text-embedding-3-small
func NewOpenAIEmbeddings(apiKey string, model openai.EmbeddingModel) *OpenAIEmbeddings {
	if model == "" {
		model = openai.SmallEmbedding3
	}
	dimension, ok := knownDimensions[model]
	if !ok {
		dimension = 1536
	}
	return &OpenAIEmbeddings{
		client:    openai.NewClient(apiKey),
		model:     model,
		dimension: dimension,
	}
}

// Embed generates an embedding for text via the OpenAI API.
func (e *OpenAIEmbeddings) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("openai returned no embedding data")
	}

	raw := resp.Data[0].Embedding
	embedding := make([]float64, len(raw))
	for i, v := range raw {
		embedding[i] = float64(v)
	}
	return embedding, nil
}

// Dimension returns the embedding dimension for the configured model.
func (e *OpenAIEmbeddings) Dimension() int { return e.dimension }
