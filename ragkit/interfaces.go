// Package ragkit provides core types and interfaces for the ragkit toolkit.
//
// The toolkit routes a single natural-language query through exactly one of
// two response strategies, knowledge-base retrieval or direct generation,
// chosen by a language model, then synthesizes a final answer grounded in
// whichever strategy was selected.
//
// This package defines the minimal contracts shared by the rest of the
// module. The interfaces are intentionally small: collaborators such as the
// retriever and the reasoning engine are consumed through one-method-deep
// contracts so they can be swapped or stubbed without touching the pipeline.
package ragkit

import "context"

// Document is a single ranked hit returned by a Retriever.
type Document struct {
	Text   string  `json:"text"`
	Source string  `json:"source,omitempty"`
	Score  float64 `json:"score"`
}

// Retriever is the knowledge-base search contract consumed by the retrieval
// tool.
//
// Implementations must return documents in deterministic ranking order, may
// return an empty slice when nothing matches, and must not mutate the
// knowledge base as a side effect of a search.
type Retriever interface {
	// Search returns ranked documents for the query.
	Search(ctx context.Context, query string) ([]Document, error)
}

// Tool represents a named, invocable capability the decision step can
// select.
//
// Two tools ship with the toolkit: a retrieval tool that searches the
// knowledge base, and a direct-answer marker tool whose output is always
// empty. The tool set is fixed at agent construction; open-ended
// extensibility is not a goal here.
type Tool interface {
	// Name returns the unique identifier used in decision prompts and
	// registry lookups.
	Name() string

	// Description returns the human-readable description rendered into the
	// decision prompt.
	Description() string

	// Execute runs the tool with string-typed inputs and returns a textual
	// context payload, possibly empty.
	Execute(ctx context.Context, input map[string]string) (string, error)
}
