package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ragkit/ragkit-go/ragkit"
	"github.com/ragkit/ragkit-go/tools"
)

// fallbackReasoning marks decisions produced by the fallback policy rather
// than the reasoning engine.
const fallbackReasoning = "fallback: could not parse tool decision"

const decisionPromptTemplate = `You are an intelligent agent that decides which tool to use for answering questions.

%s

User Query: %s

Analyze the query and respond with ONLY valid JSON in this exact format:
{
    "reasoning": "Brief explanation of why you chose this tool",
    "tool_choice": "retrieve_context OR direct_answer",
    "tool_input": {"query": "The query to pass to the tool"}
}

Rules:
1. Choose "retrieve_context" if the query requires specific information, facts, or knowledge from a database
2. Choose "direct_answer" for general knowledge, common sense, or simple questions
3. Always provide valid JSON
4. The tool_input must be a valid JSON object`

// decide runs the first round trip: render the router prompt, call the
// engine, and parse the response into a decision that always names a
// registered tool. Only the engine call itself can fail.
func (a *Agent) decide(ctx context.Context, query string) (ragkit.ToolDecision, error) {
	prompt := a.buildDecisionPrompt(query)

	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return ragkit.ToolDecision{}, err
	}
	a.logger.DebugContext(ctx, "raw decision response", "response", raw)

	decision, ok := a.parseDecision(raw, query)
	if !ok {
		a.logger.WarnContext(ctx, "tool decision parsing failed, falling back to direct answer")
		return fallbackDecision(query), nil
	}
	return decision, nil
}

// buildDecisionPrompt enumerates the registry in registration order so the
// prompt is deterministic for a given tool set.
func (a *Agent) buildDecisionPrompt(query string) string {
	var definitions strings.Builder
	definitions.WriteString("Available Tools:\n")
	for _, tool := range a.registry.List() {
		fmt.Fprintf(&definitions, "- %s: %s\n", tool.Name(), tool.Description())
	}
	return fmt.Sprintf(decisionPromptTemplate, definitions.String(), query)
}

type rawDecision struct {
	Reasoning  string          `json:"reasoning"`
	ToolChoice string          `json:"tool_choice"`
	ToolInput  json.RawMessage `json:"tool_input"`
}

// parseDecision extracts and validates a decision from free-form engine
// output. Returns false on any parse or validation failure; the caller
// applies the fallback.
func (a *Agent) parseDecision(raw, query string) (ragkit.ToolDecision, bool) {
	candidate, ok := extractJSONObject(stripFences(raw))
	if !ok {
		return ragkit.ToolDecision{}, false
	}

	var parsed rawDecision
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return ragkit.ToolDecision{}, false
	}
	if parsed.ToolChoice == "" || len(parsed.ToolInput) == 0 {
		return ragkit.ToolDecision{}, false
	}

	tool, ok := a.registry.Resolve(parsed.ToolChoice)
	if !ok {
		return ragkit.ToolDecision{}, false
	}

	input, ok := coerceToolInput(parsed.ToolInput)
	if !ok {
		return ragkit.ToolDecision{}, false
	}
	if input["query"] == "" {
		input["query"] = query
	}

	return ragkit.ToolDecision{
		ToolChoice: tool.Name(),
		Reasoning:  parsed.Reasoning,
		ToolInput:  input,
	}, true
}

// coerceToolInput accepts either a JSON object (string values kept,
// non-string values stringified) or a bare string treated as the query.
func coerceToolInput(raw json.RawMessage) (map[string]string, bool) {
	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err == nil {
		input := make(map[string]string, len(asMap))
		for key, value := range asMap {
			switch v := value.(type) {
			case string:
				input[key] = v
			default:
				input[key] = fmt.Sprintf("%v", v)
			}
		}
		return input, true
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return map[string]string{"query": asString}, true
	}

	return nil, false
}

// fallbackDecision is the circuit breaker applied when the engine's decision
// output cannot be used. It never fails and always routes to direct answer.
func fallbackDecision(query string) ragkit.ToolDecision {
	return ragkit.ToolDecision{
		ToolChoice: tools.DirectAnswerName,
		Reasoning:  fallbackReasoning,
		ToolInput:  map[string]string{"query": query},
	}
}
