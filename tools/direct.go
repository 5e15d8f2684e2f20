package tools

import (
	"context"
)

// DirectAnswerName is the registry key of the direct-answer tool. It is also
// the deterministic fallback target when a tool decision cannot be parsed.
const DirectAnswerName = "direct_answer"

// DirectAnswer is a no-op marker tool. Choosing it tells the synthesis step
// that no retrieved context is available and the reply should come from the
// model's own knowledge.
type DirectAnswer struct{}

// NewDirectAnswer creates the direct-answer marker tool.
func NewDirectAnswer() *DirectAnswer { return &DirectAnswer{} }

// Name returns the registry key.
func (t *DirectAnswer) Name() string { return DirectAnswerName }

// Description returns the prompt-facing description.
func (t *DirectAnswer) Description() string {
	return "Answer directly without retrieving context. Use this for general knowledge, common sense, or simple questions."
}

// Execute returns an empty context payload.
func (t *DirectAnswer) Execute(ctx context.Context, input map[string]string) (string, error) {
	return "", nil
}
