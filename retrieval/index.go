package retrieval

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// indexEntry holds one embedded document.
type indexEntry struct {
	embedding []float64
	text      string
	source    string
}

// VectorIndex is an in-memory vector index ranked by cosine similarity.
//
// Ranking is deterministic: equal scores keep insertion order. Searches
// never mutate the index.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []indexEntry
}

// NewVectorIndex creates an empty index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Add stores an embedded document.
func (x *VectorIndex) Add(embedding []float64, text, source string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.entries = append(x.entries, indexEntry{
		embedding: embedding,
		text:      text,
		source:    source,
	})
}

// Len returns the number of indexed documents.
func (x *VectorIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// scoredEntry pairs an entry with its similarity to a query.
type scoredEntry struct {
	indexEntry
	score float64
}

// Search returns the k most similar entries to the query embedding, in
// descending score order.
func (x *VectorIndex) Search(queryEmbedding []float64, k int) []scoredEntry {
	x.mu.RLock()
	defer x.mu.RUnlock()

	scored := make([]scoredEntry, 0, len(x.entries))
	for _, entry := range x.entries {
		scored = append(scored, scoredEntry{
			indexEntry: entry,
			score:      cosineSimilarity(queryEmbedding, entry.embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// cosineSimilarity computes the cosine of the angle between a and b.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	return floats.Dot(a, b) / (normA * normB)
}
