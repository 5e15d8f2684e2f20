package ragkit

import "time"

// ToolDecision is the validated outcome of the first reasoning-engine round
// trip. It is produced once per query and never mutated afterwards.
//
// ToolChoice always names a registered tool, even when the engine's output
// could not be parsed: the decision protocol falls back to the direct-answer
// tool rather than failing.
type ToolDecision struct {
	ToolChoice string            `json:"tool_choice"`
	Reasoning  string            `json:"reasoning"`
	ToolInput  map[string]string `json:"tool_input"`
}

// ExecutionResult is the transient output of dispatching a ToolDecision.
// Output is empty when the direct-answer tool was chosen.
type ExecutionResult struct {
	ToolName string
	Output   string
}

// FinalAnswer is the validated outcome of the synthesis round trip.
//
// WordCount is informational metadata reported by the reasoning engine and
// is not recomputed from Reply in the happy path. Only when the synthesis
// response fails to parse is it derived locally, as a safety net, by
// counting whitespace-delimited tokens in the raw response.
type FinalAnswer struct {
	Reply     string `json:"reply"`
	WordCount int    `json:"word_count"`
}

// QueryRecord is the immutable record of one completed pipeline run. It is
// owned exclusively by the session history's ordered log.
//
// RetrievedContext is non-nil if and only if ToolChosen is the retrieval
// tool; a retrieval that matched nothing yields a non-nil empty string.
type QueryRecord struct {
	ID               string    `json:"id"`
	Query            string    `json:"user_query"`
	ToolChosen       string    `json:"tool_chosen"`
	ToolReasoning    string    `json:"tool_reasoning"`
	RetrievedContext *string   `json:"retrieved_context,omitempty"`
	Reply            string    `json:"reply"`
	WordCount        int       `json:"word_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// Result is what Process hands back to the surrounding runtime: the
// completed record plus a snapshot of the conversation history, which
// includes the record itself as its final entry.
type Result struct {
	QueryRecord
	ConversationHistory []QueryRecord `json:"conversation_history"`
}
