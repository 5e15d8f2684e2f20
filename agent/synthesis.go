package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ragkit/ragkit-go/ragkit"
)

const synthesisPromptTemplate = `Based on the following information, provide a helpful answer to the user's question.

User Question: %s

Retrieved Context/Information:
%s

Respond with ONLY valid JSON in this exact format:
{
    "reply": "Your helpful answer here",
    "word_count": <number of words in reply>
}

Rules:
1. If no context is provided, answer from general knowledge or politely say you cannot answer
2. If context is provided, use it to answer the question
3. Always provide the response in valid JSON format
4. Count the words in your reply accurately`

// synthesize runs the second round trip: embed the query and tool output in
// the synthesis prompt, call the engine, and parse the final answer. Only the
// engine call itself can fail.
func (a *Agent) synthesize(ctx context.Context, query, toolOutput string) (ragkit.FinalAnswer, error) {
	prompt := buildSynthesisPrompt(query, toolOutput)

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return ragkit.FinalAnswer{}, err
	}
	a.logger.DebugContext(ctx, "raw synthesis response", "response", raw)

	answer, ok := parseFinalAnswer(raw)
	if !ok {
		a.logger.WarnContext(ctx, "final answer parsing failed, using raw response as reply")
		return ragkit.FinalAnswer{
			Reply:     raw,
			WordCount: len(strings.Fields(raw)),
		}, nil
	}
	return answer, nil
}

func buildSynthesisPrompt(query, toolOutput string) string {
	if toolOutput == "" {
		toolOutput = "(no retrieved context)"
	}
	return fmt.Sprintf(synthesisPromptTemplate, query, toolOutput)
}

// parseFinalAnswer extracts a {reply, word_count} pair from free-form engine
// output. The engine's self-reported word count is trusted as-is in this
// path; it is only recomputed locally in the fallback.
func parseFinalAnswer(raw string) (ragkit.FinalAnswer, bool) {
	candidate, ok := extractJSONObject(stripFences(raw))
	if !ok {
		return ragkit.FinalAnswer{}, false
	}

	var parsed struct {
		Reply     *string `json:"reply"`
		WordCount *int    `json:"word_count"`
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return ragkit.FinalAnswer{}, false
	}
	if parsed.Reply == nil || parsed.WordCount == nil || *parsed.WordCount < 0 {
		return ragkit.FinalAnswer{}, false
	}

	return ragkit.FinalAnswer{
		Reply:     *parsed.Reply,
		WordCount: *parsed.WordCount,
	}, true
}
