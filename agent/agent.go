// Package agent implements the single-level decision-execution-synthesis
// pipeline.
//
// Each query makes exactly two blocking round trips to the reasoning engine:
// one to choose a tool, one to synthesize the final answer from the tool's
// output. Malformed engine output never fails a query; it is absorbed by
// deterministic fallbacks. Transport and retrieval failures propagate to the
// caller and leave the session history untouched.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ragkit/ragkit-go/adapter/llm"
	"github.com/ragkit/ragkit-go/history"
	"github.com/ragkit/ragkit-go/ragkit"
	"github.com/ragkit/ragkit-go/tools"
)

// Options configures an Agent.
type Options struct {
	// LLM is the reasoning engine (required).
	LLM llm.LLM

	// Tools is the tool registry. Must resolve the direct-answer tool,
	// which every fallback path depends on.
	Tools *tools.Registry

	// History is the session store (default: in-memory).
	History history.Store

	// Logger receives pipeline diagnostics (default: slog.Default()).
	Logger *slog.Logger
}

// Agent routes each query through one tool and synthesizes an answer.
type Agent struct {
	llm      llm.LLM
	registry *tools.Registry
	history  history.Store
	logger   *slog.Logger
}

// New creates an Agent.
//
// Example:
//
//	agent, err := agent.New(agent.Options{
//	    LLM:   llm.NewOpenAILLM(apiKey, "gpt-4o"),
//	    Tools: tools.NewDefaultRegistry(retriever),
//	})
func New(opts Options) (*Agent, error) {
	if opts.LLM == nil {
		return nil, fmt.Errorf("agent requires an LLM")
	}
	if opts.Tools == nil {
		return nil, fmt.Errorf("agent requires a tool registry")
	}
	if _, ok := opts.Tools.Resolve(tools.DirectAnswerName); !ok {
		return nil, fmt.Errorf("tool registry must contain %q", tools.DirectAnswerName)
	}
	if opts.History == nil {
		opts.History = history.NewInMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Agent{
		llm:      opts.LLM,
		registry: opts.Tools,
		history:  opts.History,
		logger:   opts.Logger,
	}, nil
}

// Process runs the full pipeline for one query and appends the resulting
// record to the session history.
//
// Returns ragkit.ErrEmptyQuery for blank input, a *ragkit.RetrievalError if
// the retriever fails, and the engine's transport error unmodified if either
// round trip fails. In all error cases no history record is appended.
func (a *Agent) Process(ctx context.Context, query string) (*ragkit.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ragkit.ErrEmptyQuery
	}

	a.logger.InfoContext(ctx, "processing query", "query", query)

	decision, err := a.decide(ctx, query)
	if err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "tool chosen",
		"tool", decision.ToolChoice,
		"reasoning", decision.Reasoning,
	)

	execution, err := a.execute(ctx, decision)
	if err != nil {
		return nil, err
	}

	answer, err := a.synthesize(ctx, query, execution.Output)
	if err != nil {
		return nil, err
	}

	record := ragkit.QueryRecord{
		ID:            uuid.NewString(),
		Query:         query,
		ToolChosen:    decision.ToolChoice,
		ToolReasoning: decision.Reasoning,
		Reply:         answer.Reply,
		WordCount:     answer.WordCount,
		CreatedAt:     time.Now().UTC(),
	}
	if decision.ToolChoice == tools.RetrieveContextName {
		retrieved := execution.Output
		record.RetrievedContext = &retrieved
	}

	if err := a.history.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append history record: %w", err)
	}

	snapshot, err := a.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return &ragkit.Result{
		QueryRecord:         record,
		ConversationHistory: snapshot,
	}, nil
}

// execute dispatches the decision to its tool. The decision's tool is
// guaranteed registered, so a lookup miss is a programming error.
func (a *Agent) execute(ctx context.Context, decision ragkit.ToolDecision) (ragkit.ExecutionResult, error) {
	tool, ok := a.registry.Get(decision.ToolChoice)
	if !ok {
		return ragkit.ExecutionResult{}, fmt.Errorf("tool %q vanished from registry", decision.ToolChoice)
	}

	output, err := tool.Execute(ctx, decision.ToolInput)
	if err != nil {
		return ragkit.ExecutionResult{}, err
	}
	return ragkit.ExecutionResult{
		ToolName: decision.ToolChoice,
		Output:   output,
	}, nil
}

// History returns a snapshot of all completed query records in call order.
func (a *Agent) History(ctx context.Context) ([]ragkit.QueryRecord, error) {
	return a.history.List(ctx)
}

// ClearHistory irreversibly empties the session history.
func (a *Agent) ClearHistory(ctx context.Context) error {
	return a.history.Clear(ctx)
}
