package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragkit/ragkit-go/ragkit"
)

// RetrieveContextName is the registry key of the retrieval tool. The
// decision prompt and the history records refer to tools by these names.
const RetrieveContextName = "retrieve_context"

// RetrieveContext searches the knowledge base and formats the ranked hits
// into a single text block for the synthesis prompt.
type RetrieveContext struct {
	retriever ragkit.Retriever
}

// NewRetrieveContext creates the retrieval tool backed by the given
// retriever.
func NewRetrieveContext(retriever ragkit.Retriever) *RetrieveContext {
	return &RetrieveContext{retriever: retriever}
}

// Name returns the registry key.
func (t *RetrieveContext) Name() string { return RetrieveContextName }

// Description returns the prompt-facing description.
func (t *RetrieveContext) Description() string {
	return "Retrieve relevant information from the knowledge base. Use this when you need specific facts or stored context to answer a question."
}

// Execute searches the knowledge base for input["query"] and returns the
// hits as source-attributed blocks separated by blank lines. Zero hits yield
// an empty string. A collaborator failure is wrapped in
// *ragkit.RetrievalError and propagates to the caller of Process unmodified.
func (t *RetrieveContext) Execute(ctx context.Context, input map[string]string) (string, error) {
	query := input["query"]

	docs, err := t.retriever.Search(ctx, query)
	if err != nil {
		return "", &ragkit.RetrievalError{Query: query, Err: err}
	}
	if len(docs) == 0 {
		return "", nil
	}

	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, fmt.Sprintf("[Source: %s | Score: %.2f]\n%s", doc.Source, doc.Score, doc.Text))
	}
	return strings.Join(blocks, "\n\n"), nil
}
